package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/campusflow/ticketing/internal/models"
	"github.com/campusflow/ticketing/internal/qr"
	"github.com/campusflow/ticketing/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrEventNotFound     = errors.New("event not found")
	ErrAlreadyRegistered = errors.New("already registered for this event")
	ErrEventFull         = errors.New("event is full")
)

// storeTimeout bounds every store-facing operation; a stalled database
// surfaces an error instead of hanging the request.
const storeTimeout = 5 * time.Second

type TicketService interface {
	RSVP(ctx context.Context, eventID, userID string) (*models.Ticket, error)
}

type ticketService struct {
	ticketRepo repository.TicketRepository
	eventRepo  repository.EventRepository
}

func NewTicketService(ticketRepo repository.TicketRepository, eventRepo repository.EventRepository) TicketService {
	return &ticketService{ticketRepo: ticketRepo, eventRepo: eventRepo}
}

// RSVP issues a ticket if the holder has none and a seat remains. The
// existence check, duplicate check, capacity check, ticket insert and counter
// increment all run inside one transaction holding a lock on the event row,
// so two requests racing for the last seat cannot both succeed and the
// committed rsvp_count never exceeds capacity.
func (s *ticketService) RSVP(ctx context.Context, eventID, userID string) (*models.Ticket, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	var result *models.Ticket

	err := s.ticketRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. Lock the event row — serializes concurrent RSVPs for this event
		event, err := s.eventRepo.FindByIDForUpdate(ctx, tx, eventID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEventNotFound
			}
			return err
		}

		// 2. One active ticket per holder per event
		_, err = s.ticketRepo.FindActiveByUserAndEvent(ctx, tx, userID, eventID)
		if err == nil {
			return ErrAlreadyRegistered
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		// 3. Capacity check under the lock
		if event.IsFull() {
			return ErrEventFull
		}

		// 4. Issue the ticket with a price snapshot and its QR payload
		ticket := &models.Ticket{
			ID:      uuid.NewString(),
			EventID: eventID,
			UserID:  userID,
			Type:    models.TicketPaid,
			Price:   event.TicketPrice,
			Status:  models.TicketActive,
		}
		if event.IsFree {
			ticket.Type = models.TicketFree
		}

		encoded, err := qr.Encode(qr.Payload{
			TicketID: ticket.ID,
			EventID:  eventID,
			UserID:   userID,
		})
		if err != nil {
			return fmt.Errorf("encode qr payload: %w", err)
		}
		dataURL, err := qr.DataURL(encoded)
		if err != nil {
			return fmt.Errorf("render qr code: %w", err)
		}
		ticket.QRCode = dataURL

		if err := s.ticketRepo.Create(ctx, tx, ticket); err != nil {
			// idx_ticket_active backstop, in case the duplicate check raced.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyRegistered
			}
			return err
		}

		// 5. Counter increment commits or rolls back with the insert
		if err := s.eventRepo.IncrementRSVPCount(ctx, tx, eventID); err != nil {
			return err
		}

		result = ticket
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
