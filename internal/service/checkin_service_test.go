package service

import (
	"context"
	"testing"
	"time"

	"github.com/campusflow/ticketing/internal/models"
	"github.com/campusflow/ticketing/internal/qr"
	"github.com/campusflow/ticketing/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// --- Mock TicketRepository ---

type mockTicketRepo struct {
	statsFn func(ctx context.Context, eventID string) (repository.TicketStats, error)
}

func (m *mockTicketRepo) Create(ctx context.Context, tx *gorm.DB, t *models.Ticket) error { return nil }
func (m *mockTicketRepo) FindActiveByUserAndEvent(ctx context.Context, tx *gorm.DB, userID, eventID string) (*models.Ticket, error) {
	return nil, gorm.ErrRecordNotFound
}
func (m *mockTicketRepo) FindActiveByUserAndEventForUpdate(ctx context.Context, tx *gorm.DB, userID, eventID string) (*models.Ticket, error) {
	return nil, gorm.ErrRecordNotFound
}
func (m *mockTicketRepo) FindByIDAndEventForUpdate(ctx context.Context, tx *gorm.DB, id, eventID string) (*models.Ticket, error) {
	return nil, gorm.ErrRecordNotFound
}
func (m *mockTicketRepo) MarkUsed(ctx context.Context, tx *gorm.DB, id string) (int64, error) {
	return 0, nil
}
func (m *mockTicketRepo) StatsByEvent(ctx context.Context, eventID string) (repository.TicketStats, error) {
	return m.statsFn(ctx, eventID)
}
func (m *mockTicketRepo) GetDB() *gorm.DB { return nil }

// --- Mock CheckInRepository ---

type mockCheckInRepo struct {
	listFn func(ctx context.Context, eventID string) ([]models.CheckIn, error)
}

func (m *mockCheckInRepo) Create(ctx context.Context, tx *gorm.DB, c *models.CheckIn) error {
	return nil
}
func (m *mockCheckInRepo) FindByTicketID(ctx context.Context, tx *gorm.DB, ticketID string) (*models.CheckIn, error) {
	return nil, gorm.ErrRecordNotFound
}
func (m *mockCheckInRepo) ListByEvent(ctx context.Context, eventID string) ([]models.CheckIn, error) {
	return m.listFn(ctx, eventID)
}

// --- Mock UserRepository ---

type mockUserRepo struct {
	usersByID map[string]models.User
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := m.usersByID[id]; ok {
		return &u, nil
	}
	return nil, gorm.ErrRecordNotFound
}
func (m *mockUserRepo) FindByIDs(ctx context.Context, ids []string) (map[string]models.User, error) {
	out := make(map[string]models.User)
	for _, id := range ids {
		if u, ok := m.usersByID[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

// --- Tests ---

func TestRedeemQR_InvalidPayloadShortCircuits(t *testing.T) {
	// No repo is touched for a payload that fails to decode.
	svc := NewCheckInService(&mockTicketRepo{}, &mockCheckInRepo{}, &mockUserRepo{}, nil)

	for _, raw := range []string{"", "garbage", `{"ticketId":"t"}`} {
		_, err := svc.RedeemQR(context.Background(), raw, "operator-1")
		assert.ErrorIs(t, err, qr.ErrInvalidPayload, "input %q", raw)
	}
}

func TestEventCheckIns_EnrichesAttendees(t *testing.T) {
	now := time.Now().UTC()
	checkIns := []models.CheckIn{
		{ID: "c2", TicketID: "t2", EventID: "e1", UserID: "known", CheckedInAt: now},
		{ID: "c1", TicketID: "t1", EventID: "e1", UserID: "ghost", CheckedInAt: now.Add(-time.Minute)},
	}
	svc := NewCheckInService(
		&mockTicketRepo{},
		&mockCheckInRepo{listFn: func(ctx context.Context, eventID string) ([]models.CheckIn, error) {
			return checkIns, nil
		}},
		&mockUserRepo{usersByID: map[string]models.User{
			"known": {ID: "known", Name: "Grace Hopper", Email: "grace@example.edu"},
		}},
		nil,
	)

	result, err := svc.EventCheckIns(context.Background(), "e1")
	require.NoError(t, err)
	require.Len(t, result, 2)

	require.NotNil(t, result[0].Attendee)
	assert.Equal(t, "Grace Hopper", result[0].Attendee.Name)
	assert.Nil(t, result[1].Attendee, "missing directory entry maps to nil attendee")
}

func TestEventCheckIns_EmptyList(t *testing.T) {
	svc := NewCheckInService(
		&mockTicketRepo{},
		&mockCheckInRepo{listFn: func(ctx context.Context, eventID string) ([]models.CheckIn, error) {
			return nil, nil
		}},
		&mockUserRepo{},
		nil,
	)

	result, err := svc.EventCheckIns(context.Background(), "e1")
	require.NoError(t, err)
	assert.NotNil(t, result)
	assert.Empty(t, result)
}

func TestEventStats_BoundsStoreTime(t *testing.T) {
	svc := NewCheckInService(
		&mockTicketRepo{statsFn: func(ctx context.Context, eventID string) (repository.TicketStats, error) {
			_, ok := ctx.Deadline()
			assert.True(t, ok, "store call should carry a deadline")
			return repository.TicketStats{}, nil
		}},
		&mockCheckInRepo{},
		&mockUserRepo{},
		nil,
	)

	_, err := svc.EventStats(context.Background(), "e1")
	require.NoError(t, err)
}

func TestEventStats_Rounding(t *testing.T) {
	cases := []struct {
		name     string
		total    int64
		used     int64
		wantRate int
	}{
		{"empty event", 0, 0, 0},
		{"none checked in", 10, 0, 0},
		{"all checked in", 10, 10, 100},
		{"two thirds rounds up", 3, 2, 67},
		{"one third rounds down", 3, 1, 33},
		{"exact half", 2, 1, 50},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewCheckInService(
				&mockTicketRepo{statsFn: func(ctx context.Context, eventID string) (repository.TicketStats, error) {
					return repository.TicketStats{Total: tc.total, CheckedIn: tc.used}, nil
				}},
				&mockCheckInRepo{},
				&mockUserRepo{},
				nil,
			)

			stats, err := svc.EventStats(context.Background(), "e1")
			require.NoError(t, err)
			assert.Equal(t, int(tc.total), stats.TotalTickets)
			assert.Equal(t, int(tc.used), stats.CheckedIn)
			assert.Equal(t, tc.wantRate, stats.CheckInRate)
		})
	}
}
