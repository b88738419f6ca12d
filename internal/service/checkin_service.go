package service

import (
	"context"
	"errors"
	"log"
	"math"
	"time"

	"github.com/campusflow/ticketing/internal/dto"
	"github.com/campusflow/ticketing/internal/models"
	"github.com/campusflow/ticketing/internal/qr"
	"github.com/campusflow/ticketing/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrTicketNotFound    = errors.New("ticket not found")
	ErrTicketAlreadyUsed = errors.New("ticket already used")
	ErrTicketCancelled   = errors.New("ticket was cancelled")
	ErrAlreadyCheckedIn  = errors.New("already checked in")
	ErrNoActiveTicket    = errors.New("no active ticket found for this user")
)

// CheckInNotifier receives one notification per committed redemption. The
// local hub satisfies it directly; the RabbitMQ bridge satisfies it for
// multi-instance deployments.
type CheckInNotifier interface {
	NotifyCheckIn(eventID string, evt dto.CheckInEvent) error
}

// Redemption is a committed check-in with the holder's directory entry, when
// one exists.
type Redemption struct {
	CheckIn  models.CheckIn
	Attendee *models.User
}

type CheckInService interface {
	RedeemQR(ctx context.Context, qrData, operatorID string) (*Redemption, error)
	RedeemManual(ctx context.Context, eventID, userID, operatorID string) (*Redemption, error)
	EventCheckIns(ctx context.Context, eventID string) ([]Redemption, error)
	EventStats(ctx context.Context, eventID string) (dto.CheckInStatsResponse, error)
}

type checkInService struct {
	ticketRepo  repository.TicketRepository
	checkInRepo repository.CheckInRepository
	userRepo    repository.UserRepository
	notifier    CheckInNotifier
}

func NewCheckInService(
	ticketRepo repository.TicketRepository,
	checkInRepo repository.CheckInRepository,
	userRepo repository.UserRepository,
	notifier CheckInNotifier,
) CheckInService {
	return &checkInService{
		ticketRepo:  ticketRepo,
		checkInRepo: checkInRepo,
		userRepo:    userRepo,
		notifier:    notifier,
	}
}

// RedeemQR validates a scanned payload and redeems the ticket it names.
// Redemption is exactly-once: of N concurrent scans of the same code, one
// succeeds and the rest observe ErrTicketAlreadyUsed, so retrying after a
// transient failure is always safe.
func (s *checkInService) RedeemQR(ctx context.Context, qrData, operatorID string) (*Redemption, error) {
	payload, err := qr.Decode(qrData)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	var checkIn models.CheckIn
	err = s.ticketRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ticket, err := s.ticketRepo.FindByIDAndEventForUpdate(ctx, tx, payload.TicketID, payload.EventID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTicketNotFound
			}
			return err
		}
		c, err := s.redeem(ctx, tx, ticket, models.MethodQR, operatorID)
		if err != nil {
			return err
		}
		checkIn = *c
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.finish(ctx, checkIn), nil
}

// RedeemManual resolves the holder's active ticket for the event and redeems
// it, for the door operator fallback when a code won't scan.
func (s *checkInService) RedeemManual(ctx context.Context, eventID, userID, operatorID string) (*Redemption, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	var checkIn models.CheckIn
	err := s.ticketRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ticket, err := s.ticketRepo.FindActiveByUserAndEventForUpdate(ctx, tx, userID, eventID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNoActiveTicket
			}
			return err
		}
		c, err := s.redeem(ctx, tx, ticket, models.MethodManual, operatorID)
		if err != nil {
			return err
		}
		checkIn = *c
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.finish(ctx, checkIn), nil
}

// redeem performs the active→used transition and the ledger append inside the
// caller's transaction. The locked ticket row, the conditional update and the
// unique ticket_id index each independently rule out a double redemption.
func (s *checkInService) redeem(ctx context.Context, tx *gorm.DB, ticket *models.Ticket, method models.CheckInMethod, operatorID string) (*models.CheckIn, error) {
	switch ticket.Status {
	case models.TicketUsed:
		return nil, ErrTicketAlreadyUsed
	case models.TicketCancelled:
		return nil, ErrTicketCancelled
	}

	// The status flip and the ledger insert were once separate writes; a
	// stray ledger row without the flip still blocks redemption here.
	_, err := s.checkInRepo.FindByTicketID(ctx, tx, ticket.ID)
	if err == nil {
		return nil, ErrAlreadyCheckedIn
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	rows, err := s.ticketRepo.MarkUsed(ctx, tx, ticket.ID)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrTicketAlreadyUsed
	}

	checkIn := &models.CheckIn{
		ID:          uuid.NewString(),
		TicketID:    ticket.ID,
		EventID:     ticket.EventID,
		UserID:      ticket.UserID,
		Method:      method,
		CheckedInBy: operatorID,
		CheckedInAt: time.Now().UTC(),
	}
	if err := s.checkInRepo.Create(ctx, tx, checkIn); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyCheckedIn
		}
		return nil, err
	}
	return checkIn, nil
}

// finish runs strictly after commit: resolve the holder's display info and
// push the check-in to live dashboards. Neither step can undo the redemption.
func (s *checkInService) finish(ctx context.Context, checkIn models.CheckIn) *Redemption {
	var attendee *models.User
	if user, err := s.userRepo.FindByID(ctx, checkIn.UserID); err == nil {
		attendee = user
	}

	if s.notifier != nil {
		evt := dto.CheckInEvent{
			ID:          checkIn.ID,
			EventID:     checkIn.EventID,
			TicketID:    checkIn.TicketID,
			Method:      checkIn.Method,
			CheckedInAt: checkIn.CheckedInAt,
		}
		if attendee != nil {
			evt.Attendee = &dto.Attendee{Name: attendee.Name, Email: attendee.Email}
		}
		if err := s.notifier.NotifyCheckIn(checkIn.EventID, evt); err != nil {
			log.Printf("[CheckIn] broadcast failed for %s: %v", checkIn.ID, err)
		}
	}

	return &Redemption{CheckIn: checkIn, Attendee: attendee}
}

// EventCheckIns lists an event's check-ins newest first, enriched with
// directory entries.
func (s *checkInService) EventCheckIns(ctx context.Context, eventID string) ([]Redemption, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	checkIns, err := s.checkInRepo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if len(checkIns) == 0 {
		return []Redemption{}, nil
	}

	seen := make(map[string]struct{}, len(checkIns))
	ids := make([]string, 0, len(checkIns))
	for _, c := range checkIns {
		if _, ok := seen[c.UserID]; ok {
			continue
		}
		seen[c.UserID] = struct{}{}
		ids = append(ids, c.UserID)
	}

	users, err := s.userRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	result := make([]Redemption, len(checkIns))
	for i, c := range checkIns {
		result[i] = Redemption{CheckIn: c}
		if u, ok := users[c.UserID]; ok {
			user := u
			result[i].Attendee = &user
		}
	}
	return result, nil
}

func (s *checkInService) EventStats(ctx context.Context, eventID string) (dto.CheckInStatsResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	stats, err := s.ticketRepo.StatsByEvent(ctx, eventID)
	if err != nil {
		return dto.CheckInStatsResponse{}, err
	}

	resp := dto.CheckInStatsResponse{
		TotalTickets: int(stats.Total),
		CheckedIn:    int(stats.CheckedIn),
	}
	if stats.Total > 0 {
		resp.CheckInRate = int(math.Round(float64(stats.CheckedIn) / float64(stats.Total) * 100))
	}
	return resp, nil
}
