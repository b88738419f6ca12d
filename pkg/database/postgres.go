package database

import (
	"fmt"

	"github.com/campusflow/ticketing/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewPostgresDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates the schema plus the index that backs the one-active-ticket
// invariant. The one-check-in-per-ticket invariant comes from the uniqueIndex
// tag on CheckIn.TicketID.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Event{},
		&models.Ticket{},
		&models.CheckIn{},
		&models.User{},
	); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}

	// Partial unique index: a holder may re-RSVP only after their previous
	// ticket leaves the active state.
	if err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_ticket_active
		ON tickets (event_id, user_id)
		WHERE status = 'active'
	`).Error; err != nil {
		return fmt.Errorf("create idx_ticket_active: %w", err)
	}

	return nil
}
