package processor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"barbersbuddies/notification-worker/internal/app/worker/entity"
)

type MockReminderService struct {
	mock.Mock
}

func (m *MockReminderService) SendDueReminders(ctx context.Context) (*entity.ReminderReport, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ReminderReport), args.Error(1)
}

type MockOutboxRelay struct {
	mock.Mock
}

func (m *MockOutboxRelay) RelayDue(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func TestNewCronScheduler(t *testing.T) {
	reminders := new(MockReminderService)
	relay := new(MockOutboxRelay)

	scheduler := NewCronScheduler(reminders, relay)

	assert.NotNil(t, scheduler)
	assert.NotNil(t, scheduler.cron)
	assert.Equal(t, reminders, scheduler.reminders)
	assert.Equal(t, relay, scheduler.relay)
}

func TestCronScheduler_Start_RegistersBothJobs(t *testing.T) {
	reminders := new(MockReminderService)
	relay := new(MockOutboxRelay)
	scheduler := NewCronScheduler(reminders, relay)
	ctx := context.Background()

	// initial relay flush on start
	relay.On("RelayDue", ctx).Return(3, nil).Once()

	err := scheduler.Start(ctx, "0 * * * *", "@every 5s")
	require.NoError(t, err)
	defer scheduler.Stop()

	assert.Len(t, scheduler.GetEntries(), 2)
	relay.AssertExpectations(t)
}

func TestCronScheduler_Start_InvalidReminderSchedule(t *testing.T) {
	scheduler := NewCronScheduler(new(MockReminderService), new(MockOutboxRelay))

	err := scheduler.Start(context.Background(), "every hour please", "@every 5s")

	assert.Error(t, err)
}

func TestCronScheduler_Start_InvalidOutboxSchedule(t *testing.T) {
	scheduler := NewCronScheduler(new(MockReminderService), new(MockOutboxRelay))

	err := scheduler.Start(context.Background(), "0 * * * *", "@sometimes")

	assert.Error(t, err)
}

func TestCronScheduler_RunReminders(t *testing.T) {
	reminders := new(MockReminderService)
	scheduler := NewCronScheduler(reminders, new(MockOutboxRelay))
	ctx := context.Background()

	reminders.On("SendDueReminders", ctx).Return(&entity.ReminderReport{Checked: 4, Sent: 1}, nil).Once()
	reminders.On("SendDueReminders", ctx).Return(nil, errors.New("mongo down")).Once()

	scheduler.runReminders(ctx)
	scheduler.runReminders(ctx)

	reminders.AssertNumberOfCalls(t, "SendDueReminders", 2)
}

func TestCronScheduler_RunRelay_ErrorIsLogged(t *testing.T) {
	relay := new(MockOutboxRelay)
	scheduler := NewCronScheduler(new(MockReminderService), relay)
	ctx := context.Background()

	relay.On("RelayDue", ctx).Return(0, errors.New("mongo down"))

	assert.NotPanics(t, func() { scheduler.runRelay(ctx) })
	relay.AssertExpectations(t)
}

func TestCronScheduler_Stop(t *testing.T) {
	relay := new(MockOutboxRelay)
	scheduler := NewCronScheduler(new(MockReminderService), relay)
	relay.On("RelayDue", mock.Anything).Return(0, nil)

	require.NoError(t, scheduler.Start(context.Background(), "0 * * * *", "@every 1h"))

	assert.NotPanics(t, scheduler.Stop)
}
