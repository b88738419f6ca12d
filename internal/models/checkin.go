package models

import "time"

type CheckInMethod string

const (
	MethodQR     CheckInMethod = "qr"
	MethodManual CheckInMethod = "manual"
)

// CheckIn is an append-only record of a redeemed ticket. The unique index
// on TicketID is what enforces at-most-one redemption per ticket.
type CheckIn struct {
	ID          string        `gorm:"type:uuid;primaryKey" json:"id"`
	TicketID    string        `gorm:"type:uuid;not null;uniqueIndex" json:"ticket_id"`
	EventID     string        `gorm:"type:uuid;not null;index" json:"event_id"`
	UserID      string        `gorm:"not null" json:"user_id"`
	Method      CheckInMethod `gorm:"type:varchar(10);not null;default:'qr'" json:"method"`
	CheckedInBy string        `gorm:"not null" json:"checked_in_by"`
	CheckedInAt time.Time     `gorm:"not null" json:"checked_in_at"`
}
