package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/campusflow/ticketing/internal/models"
	"github.com/campusflow/ticketing/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrTitleRequired   = errors.New("title is required")
	ErrInvalidCapacity = errors.New("capacity must be a positive integer")
	ErrInvalidPrice    = errors.New("ticketPrice cannot be negative")
)

type EventService interface {
	CreateEvent(ctx context.Context, title string, capacity int, ticketPrice float64) (*models.Event, error)
	GetEvent(ctx context.Context, id string) (*models.Event, error)
}

type eventService struct {
	repo repository.EventRepository
}

func NewEventService(repo repository.EventRepository) EventService {
	return &eventService{repo: repo}
}

func (s *eventService) CreateEvent(ctx context.Context, title string, capacity int, ticketPrice float64) (*models.Event, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if capacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	if ticketPrice < 0 {
		return nil, ErrInvalidPrice
	}

	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	event := &models.Event{
		ID:          uuid.NewString(),
		Title:       title,
		Capacity:    capacity,
		TicketPrice: ticketPrice,
		IsFree:      ticketPrice == 0,
	}
	if err := s.repo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return event, nil
}

func (s *eventService) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return event, nil
}
