// Package dto defines the wire shapes of the ticketing API. Field names are
// part of the contract with the existing dashboard frontend and must not
// change casing.
package dto

import (
	"time"

	"github.com/campusflow/ticketing/internal/models"
)

type TicketResponse struct {
	ID      string            `json:"id"`
	EventID string            `json:"eventId"`
	QRCode  string            `json:"qrCode"`
	Type    models.TicketType `json:"type"`
	Price   float64           `json:"price"`
}

type RSVPResponse struct {
	Ticket TicketResponse `json:"ticket"`
}

func ToTicketResponse(t *models.Ticket) TicketResponse {
	return TicketResponse{
		ID:      t.ID,
		EventID: t.EventID,
		QRCode:  t.QRCode,
		Type:    t.Type,
		Price:   t.Price,
	}
}

type Attendee struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type CheckInResponse struct {
	ID          string               `json:"id"`
	Attendee    *Attendee            `json:"attendee"`
	Method      models.CheckInMethod `json:"method"`
	CheckedInAt time.Time            `json:"checkedInAt"`
}

type CheckInResult struct {
	CheckIn CheckInResponse `json:"checkIn"`
}

// CheckInEvent is the broadcast payload pushed to live dashboards, one per
// committed redemption.
type CheckInEvent struct {
	ID          string               `json:"id"`
	EventID     string               `json:"eventId"`
	TicketID    string               `json:"ticketId"`
	Attendee    *Attendee            `json:"attendee"`
	Method      models.CheckInMethod `json:"method"`
	CheckedInAt time.Time            `json:"checkedInAt"`
}

// AttendeeDetail is the full directory entry used when listing check-ins.
type AttendeeDetail struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

type CheckInRecord struct {
	ID          string               `json:"id"`
	TicketID    string               `json:"ticketId"`
	EventID     string               `json:"eventId"`
	UserID      string               `json:"userId"`
	Method      models.CheckInMethod `json:"method"`
	CheckedInBy string               `json:"checkedInBy"`
	CheckedInAt time.Time            `json:"checkedInAt"`
	Attendee    *AttendeeDetail      `json:"attendee"`
}

type CheckInListResponse struct {
	CheckIns []CheckInRecord `json:"checkIns"`
	Total    int             `json:"total"`
}

type CheckInStatsResponse struct {
	TotalTickets int `json:"totalTickets"`
	CheckedIn    int `json:"checkedIn"`
	CheckInRate  int `json:"checkInRate"`
}

type EventResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Capacity    int       `json:"capacity"`
	RSVPCount   int       `json:"rsvpCount"`
	IsFree      bool      `json:"isFree"`
	TicketPrice float64   `json:"ticketPrice"`
	CreatedAt   time.Time `json:"createdAt"`
}

func ToEventResponse(e *models.Event) EventResponse {
	return EventResponse{
		ID:          e.ID,
		Title:       e.Title,
		Capacity:    e.Capacity,
		RSVPCount:   e.RSVPCount,
		IsFree:      e.IsFree,
		TicketPrice: e.TicketPrice,
		CreatedAt:   e.CreatedAt,
	}
}

type ErrorResponse struct {
	Error string `json:"error"`
}
