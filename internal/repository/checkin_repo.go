package repository

import (
	"context"

	"github.com/campusflow/ticketing/internal/models"
	"gorm.io/gorm"
)

type CheckInRepository interface {
	Create(ctx context.Context, tx *gorm.DB, checkIn *models.CheckIn) error
	FindByTicketID(ctx context.Context, tx *gorm.DB, ticketID string) (*models.CheckIn, error)
	ListByEvent(ctx context.Context, eventID string) ([]models.CheckIn, error)
}

type checkInRepository struct {
	db *gorm.DB
}

func NewCheckInRepository(db *gorm.DB) CheckInRepository {
	return &checkInRepository{db: db}
}

func (r *checkInRepository) Create(ctx context.Context, tx *gorm.DB, checkIn *models.CheckIn) error {
	return tx.WithContext(ctx).Create(checkIn).Error
}

func (r *checkInRepository) FindByTicketID(ctx context.Context, tx *gorm.DB, ticketID string) (*models.CheckIn, error) {
	var checkIn models.CheckIn
	if err := tx.WithContext(ctx).Where("ticket_id = ?", ticketID).First(&checkIn).Error; err != nil {
		return nil, err
	}
	return &checkIn, nil
}

func (r *checkInRepository) ListByEvent(ctx context.Context, eventID string) ([]models.CheckIn, error) {
	var checkIns []models.CheckIn
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("checked_in_at DESC").
		Find(&checkIns).Error
	if err != nil {
		return nil, err
	}
	return checkIns, nil
}
