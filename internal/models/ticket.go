package models

import "time"

type TicketStatus string

const (
	TicketActive    TicketStatus = "active"
	TicketUsed      TicketStatus = "used"
	TicketCancelled TicketStatus = "cancelled"
)

type TicketType string

const (
	TicketFree TicketType = "free"
	TicketPaid TicketType = "paid"
)

type Ticket struct {
	ID      string     `gorm:"type:uuid;primaryKey" json:"id"`
	EventID string     `gorm:"type:uuid;not null;index" json:"event_id"`
	UserID  string     `gorm:"not null" json:"user_id"`
	Type    TicketType `gorm:"type:varchar(10);not null" json:"type"`
	// Price is snapshotted at issuance; later event price changes don't touch it.
	Price     float64      `gorm:"not null" json:"price"`
	QRCode    string       `gorm:"type:text;not null" json:"qr_code"`
	Status    TicketStatus `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`

	Event *Event `gorm:"foreignKey:EventID" json:"event,omitempty"`
}
