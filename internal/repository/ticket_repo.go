package repository

import (
	"context"

	"github.com/campusflow/ticketing/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TicketStats aggregates a single event's ticket counts for the stats
// endpoint.
type TicketStats struct {
	Total     int64
	CheckedIn int64
}

type TicketRepository interface {
	Create(ctx context.Context, tx *gorm.DB, ticket *models.Ticket) error
	FindActiveByUserAndEvent(ctx context.Context, tx *gorm.DB, userID, eventID string) (*models.Ticket, error)
	FindActiveByUserAndEventForUpdate(ctx context.Context, tx *gorm.DB, userID, eventID string) (*models.Ticket, error)
	FindByIDAndEventForUpdate(ctx context.Context, tx *gorm.DB, id, eventID string) (*models.Ticket, error)
	MarkUsed(ctx context.Context, tx *gorm.DB, id string) (int64, error)
	StatsByEvent(ctx context.Context, eventID string) (TicketStats, error)
	GetDB() *gorm.DB
}

type ticketRepository struct {
	db *gorm.DB
}

func NewTicketRepository(db *gorm.DB) TicketRepository {
	return &ticketRepository{db: db}
}

func (r *ticketRepository) GetDB() *gorm.DB {
	return r.db
}

func (r *ticketRepository) Create(ctx context.Context, tx *gorm.DB, ticket *models.Ticket) error {
	return tx.WithContext(ctx).Create(ticket).Error
}

func (r *ticketRepository) FindActiveByUserAndEvent(ctx context.Context, tx *gorm.DB, userID, eventID string) (*models.Ticket, error) {
	var ticket models.Ticket
	err := tx.WithContext(ctx).
		Where("user_id = ? AND event_id = ? AND status = ?", userID, eventID, models.TicketActive).
		First(&ticket).Error
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

// FindActiveByUserAndEventForUpdate is the manual check-in lookup: it locks
// the holder's active ticket row so concurrent redemptions serialize on it.
func (r *ticketRepository) FindActiveByUserAndEventForUpdate(ctx context.Context, tx *gorm.DB, userID, eventID string) (*models.Ticket, error) {
	var ticket models.Ticket
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND event_id = ? AND status = ?", userID, eventID, models.TicketActive).
		First(&ticket).Error
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

// FindByIDAndEventForUpdate is the QR check-in lookup. Scoping by event id as
// well as ticket id rejects payloads replayed against the wrong event.
func (r *ticketRepository) FindByIDAndEventForUpdate(ctx context.Context, tx *gorm.DB, id, eventID string) (*models.Ticket, error) {
	var ticket models.Ticket
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND event_id = ?", id, eventID).
		First(&ticket).Error
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

// MarkUsed flips an active ticket to used and reports how many rows changed.
// A zero count means another redemption won the race.
func (r *ticketRepository) MarkUsed(ctx context.Context, tx *gorm.DB, id string) (int64, error) {
	res := tx.WithContext(ctx).
		Model(&models.Ticket{}).
		Where("id = ? AND status = ?", id, models.TicketActive).
		Update("status", models.TicketUsed)
	return res.RowsAffected, res.Error
}

func (r *ticketRepository) StatsByEvent(ctx context.Context, eventID string) (TicketStats, error) {
	var stats TicketStats
	err := r.db.WithContext(ctx).
		Model(&models.Ticket{}).
		Select("COUNT(*) AS total, COUNT(*) FILTER (WHERE status = ?) AS checked_in", models.TicketUsed).
		Where("event_id = ?", eventID).
		Scan(&stats).Error
	return stats, err
}
