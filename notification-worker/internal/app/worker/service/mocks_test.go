package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"barbersbuddies/notification-worker/internal/app/worker/entity"
)

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, email entity.Email) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

// sentTo lists the recipient of every call.
func (m *MockMailer) sentTo() []string {
	var to []string
	for _, call := range m.Calls {
		to = append(to, call.Arguments.Get(1).(entity.Email).To)
	}
	return to
}

type MockPusher struct {
	mock.Mock
}

func (m *MockPusher) Send(ctx context.Context, msg entity.PushMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, key string, value []byte) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

type MockReminderDedupe struct {
	mock.Mock
}

func (m *MockReminderDedupe) Claim(ctx context.Context, claim entity.ReminderClaim) (bool, error) {
	args := m.Called(ctx, claim)
	return args.Bool(0), args.Error(1)
}

func (m *MockReminderDedupe) Release(ctx context.Context, claim entity.ReminderClaim) error {
	args := m.Called(ctx, claim)
	return args.Error(0)
}

type MockReminderAuditRepository struct {
	mock.Mock
}

func (m *MockReminderAuditRepository) Create(ctx context.Context, audit *entity.ReminderAudit) error {
	args := m.Called(ctx, audit)
	return args.Error(0)
}

func (m *MockReminderAuditRepository) ListByBooking(ctx context.Context, bookingID string) ([]entity.ReminderAudit, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.ReminderAudit), args.Error(1)
}
