package models

import "time"

type Event struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Capacity    int       `gorm:"not null" json:"capacity"`
	RSVPCount   int       `gorm:"not null;default:0" json:"rsvp_count"`
	IsFree      bool      `gorm:"not null;default:true" json:"is_free"`
	TicketPrice float64   `gorm:"not null;default:0" json:"ticket_price"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Remaining returns the number of seats still available.
func (e *Event) Remaining() int {
	return e.Capacity - e.RSVPCount
}

// IsFull reports whether the event has no remaining capacity.
// RSVPCount counts issued non-cancelled tickets; a cancellation path
// must decrement it or seats cancelled tickets held stay unsellable.
func (e *Event) IsFull() bool {
	return e.RSVPCount >= e.Capacity
}
