package reminders

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/clock"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
)

type fakeRepo struct {
	reminders    []*domain.Reservation
	followUps    []*domain.Reservation
	reminderDate time.Time
	markedRem    []int64
	markedFollow []int64
}

func (r *fakeRepo) ListDueReminders(ctx context.Context, date time.Time, limit int) ([]*domain.Reservation, error) {
	r.reminderDate = date
	return r.reminders, nil
}

func (r *fakeRepo) ListDueFollowUps(ctx context.Context, now time.Time, limit int) ([]*domain.Reservation, error) {
	return r.followUps, nil
}

func (r *fakeRepo) MarkReminderSent(ctx context.Context, id int64) error {
	r.markedRem = append(r.markedRem, id)
	return nil
}

func (r *fakeRepo) MarkFollowUpSent(ctx context.Context, id int64) error {
	r.markedFollow = append(r.markedFollow, id)
	return nil
}

type fakeNotifier struct {
	failFor map[int64]bool
	sent    []domain.EventType
}

func (n *fakeNotifier) NotifyNow(ctx context.Context, eventType domain.EventType, r domain.Reservation) error {
	if n.failFor[r.ID] {
		return errors.New("broker down")
	}
	n.sent = append(n.sent, eventType)
	return nil
}

func TestDispatcher_Run(t *testing.T) {
	now := time.Date(2026, 5, 10, 18, 0, 0, 0, time.UTC)
	repo := &fakeRepo{
		reminders: []*domain.Reservation{{ID: 1}, {ID: 2}},
		followUps: []*domain.Reservation{{ID: 3}},
	}
	notifier := &fakeNotifier{failFor: map[int64]bool{2: true}}
	d := NewDispatcher(repo, notifier, clock.Fixed{At: now}, logger.NewNop(), 0)

	res, err := d.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Result{RemindersSent: 1, FollowUpsSent: 1, Failed: 1}, res)
	assert.Equal(t, time.Date(2026, 5, 11, 0, 0, 0, 0, time.UTC), repo.reminderDate)
	assert.Equal(t, []int64{1}, repo.markedRem)
	assert.Equal(t, []int64{3}, repo.markedFollow)
	assert.Equal(t, []domain.EventType{domain.EventReservationReminder, domain.EventReservationFollowUp}, notifier.sent)
}
