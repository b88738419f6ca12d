//go:build integration

package integration

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/campusflow/ticketing/internal/models"
	"github.com/campusflow/ticketing/internal/qr"
	"github.com/campusflow/ticketing/internal/realtime"
	"github.com/campusflow/ticketing/internal/repository"
	"github.com/campusflow/ticketing/internal/service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCheckInService(notifier service.CheckInNotifier) service.CheckInService {
	ticketRepo := repository.NewTicketRepository(testDB)
	checkInRepo := repository.NewCheckInRepository(testDB)
	userRepo := repository.NewUserRepository(testDB)
	return service.NewCheckInService(ticketRepo, checkInRepo, userRepo, notifier)
}

func issueTicket(t *testing.T, eventID, userID string) *models.Ticket {
	t.Helper()
	ticket, err := newTicketService().RSVP(context.Background(), eventID, userID)
	require.NoError(t, err)
	return ticket
}

// scannedPayload rebuilds the JSON a door scanner reads out of the code image.
func scannedPayload(t *testing.T, ticket *models.Ticket) string {
	t.Helper()
	payload, err := qr.Encode(qr.Payload{
		TicketID: ticket.ID,
		EventID:  ticket.EventID,
		UserID:   ticket.UserID,
	})
	require.NoError(t, err)
	return payload
}

// N operators scan the same code at once → one succeeds, the rest see
// "already used", exactly one ledger row lands.
func TestConcurrentRedemption(t *testing.T) {
	cleanTables()
	event := createTestEvent(t, "Spring Hackathon", 50, 0)
	ticket := issueTicket(t, event.ID, "user-001")
	payload := scannedPayload(t, ticket)
	svc := newCheckInService(nil)

	attempts := 10
	var wg sync.WaitGroup
	var mu sync.Mutex
	successCount := 0
	alreadyUsed := 0

	wg.Add(attempts)
	for i := 0; i < attempts; i++ {
		go func(i int) {
			defer wg.Done()
			_, err := svc.RedeemQR(context.Background(), payload, fmt.Sprintf("operator-%d", i))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successCount++
			default:
				assert.ErrorIs(t, err, service.ErrTicketAlreadyUsed)
				alreadyUsed++
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, successCount, "exactly one scan should redeem")
	assert.Equal(t, attempts-1, alreadyUsed)

	var rows int64
	testDB.Model(&models.CheckIn{}).Where("ticket_id = ?", ticket.ID).Count(&rows)
	assert.Equal(t, int64(1), rows, "ledger must hold exactly one row for the ticket")

	var reloaded models.Ticket
	require.NoError(t, testDB.First(&reloaded, "id = ?", ticket.ID).Error)
	assert.Equal(t, models.TicketUsed, reloaded.Status)
}

// A successful scan is pushed to exactly the redeemed event's subscribers.
func TestRedemptionNotifiesSubscribers(t *testing.T) {
	cleanTables()
	event := createTestEvent(t, "Spring Hackathon", 50, 0)
	other := createTestEvent(t, "Career Fair", 50, 0)
	ticket := issueTicket(t, event.ID, "user-001")

	hub := realtime.NewHub()
	sub := hub.Subscribe(event.ID)
	defer hub.Unsubscribe(sub)
	otherSub := hub.Subscribe(other.ID)
	defer hub.Unsubscribe(otherSub)

	svc := newCheckInService(hub)
	redemption, err := svc.RedeemQR(context.Background(), scannedPayload(t, ticket), "operator-1")
	require.NoError(t, err)

	require.Len(t, sub.C, 1, "the event's topic gets exactly one message")
	evt := <-sub.C
	assert.Equal(t, redemption.CheckIn.ID, evt.ID)
	assert.Equal(t, ticket.ID, evt.TicketID)
	assert.Empty(t, otherSub.C, "other events' topics stay quiet")
}

// Redeeming a cancelled ticket fails and leaves no ledger row.
func TestRedeemCancelledTicket(t *testing.T) {
	cleanTables()
	event := createTestEvent(t, "Guest Lecture", 50, 0)
	ticket := issueTicket(t, event.ID, "user-001")
	payload := scannedPayload(t, ticket)

	testDB.Model(&models.Ticket{}).Where("id = ?", ticket.ID).Update("status", models.TicketCancelled)

	svc := newCheckInService(nil)
	_, err := svc.RedeemQR(context.Background(), payload, "operator-1")
	assert.ErrorIs(t, err, service.ErrTicketCancelled)

	var rows int64
	testDB.Model(&models.CheckIn{}).Where("ticket_id = ?", ticket.ID).Count(&rows)
	assert.Equal(t, int64(0), rows)
}

// A payload naming a ticket from another event must not redeem.
func TestRedeemWrongEventPayload(t *testing.T) {
	cleanTables()
	event := createTestEvent(t, "Guest Lecture", 50, 0)
	other := createTestEvent(t, "Career Fair", 50, 0)
	ticket := issueTicket(t, event.ID, "user-001")

	payload, err := qr.Encode(qr.Payload{
		TicketID: ticket.ID,
		EventID:  other.ID,
		UserID:   ticket.UserID,
	})
	require.NoError(t, err)

	svc := newCheckInService(nil)
	_, err = svc.RedeemQR(context.Background(), payload, "operator-1")
	assert.ErrorIs(t, err, service.ErrTicketNotFound)
}

// Manual check-in finds the holder's active ticket without a scan.
func TestManualCheckIn(t *testing.T) {
	cleanTables()
	event := createTestEvent(t, "Guest Lecture", 50, 0)
	ticket := issueTicket(t, event.ID, "user-001")

	svc := newCheckInService(nil)
	redemption, err := svc.RedeemManual(context.Background(), event.ID, "user-001", "operator-7")
	require.NoError(t, err)
	assert.Equal(t, ticket.ID, redemption.CheckIn.TicketID)
	assert.Equal(t, models.MethodManual, redemption.CheckIn.Method)
	assert.Equal(t, "operator-7", redemption.CheckIn.CheckedInBy)

	_, err = svc.RedeemManual(context.Background(), event.ID, "user-001", "operator-7")
	assert.ErrorIs(t, err, service.ErrNoActiveTicket, "used ticket is no longer active")
}

func TestManualCheckInWithoutTicket(t *testing.T) {
	cleanTables()
	event := createTestEvent(t, "Guest Lecture", 50, 0)

	svc := newCheckInService(nil)
	_, err := svc.RedeemManual(context.Background(), event.ID, "user-unregistered", "operator-1")
	assert.ErrorIs(t, err, service.ErrNoActiveTicket)
}

// Check-in list is newest-first and enriched from the user directory.
func TestEventCheckInsAndStats(t *testing.T) {
	cleanTables()
	event := createTestEvent(t, "Spring Hackathon", 50, 0)

	require.NoError(t, testDB.Create(&models.User{
		ID: "user-000", Name: "Ada Lovelace", Email: "ada@example.edu",
	}).Error)

	for i := 0; i < 4; i++ {
		issueTicket(t, event.ID, fmt.Sprintf("user-%03d", i))
	}

	svc := newCheckInService(nil)
	_, err := svc.RedeemManual(context.Background(), event.ID, "user-000", "operator-1")
	require.NoError(t, err)
	_, err = svc.RedeemManual(context.Background(), event.ID, "user-001", "operator-1")
	require.NoError(t, err)

	checkIns, err := svc.EventCheckIns(context.Background(), event.ID)
	require.NoError(t, err)
	require.Len(t, checkIns, 2)

	// user-001 redeemed last, so it leads
	assert.Equal(t, "user-001", checkIns[0].CheckIn.UserID)
	assert.Nil(t, checkIns[0].Attendee, "holder without directory entry stays anonymous")
	require.NotNil(t, checkIns[1].Attendee)
	assert.Equal(t, "Ada Lovelace", checkIns[1].Attendee.Name)

	stats, err := svc.EventStats(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.TotalTickets)
	assert.Equal(t, 2, stats.CheckedIn)
	assert.Equal(t, 50, stats.CheckInRate)
}

func TestStatsEmptyEvent(t *testing.T) {
	cleanTables()
	svc := newCheckInService(nil)

	stats, err := svc.EventStats(context.Background(), uuid.NewString())
	require.NoError(t, err)
	assert.Zero(t, stats.TotalTickets)
	assert.Zero(t, stats.CheckedIn)
	assert.Zero(t, stats.CheckInRate)
}
