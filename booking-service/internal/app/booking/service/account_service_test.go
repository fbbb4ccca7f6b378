package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"barbersbuddies/booking-service/internal/app/booking/entity"
	"barbersbuddies/pkg/domain"
	"barbersbuddies/pkg/events"
	"barbersbuddies/pkg/store/mocks"
)

type accountFixture struct {
	tx          *mocks.TxManager
	users       *mocks.MockUserRepository
	preferences *mocks.MockPreferenceRepository
	deleted     *mocks.MockDeletedAccountRepository
	outbox      *mocks.MockOutboxRepository
	service     *AccountService
}

func newAccountFixture() *accountFixture {
	f := &accountFixture{
		tx:          &mocks.TxManager{},
		users:       new(mocks.MockUserRepository),
		preferences: new(mocks.MockPreferenceRepository),
		deleted:     new(mocks.MockDeletedAccountRepository),
		outbox:      new(mocks.MockOutboxRepository),
	}
	f.service = NewAccountService(f.tx, f.users, f.preferences, f.deleted, f.outbox)
	return f
}

func TestUpdateFCMToken(t *testing.T) {
	f := newAccountFixture()
	ctx := context.Background()

	f.users.On("UpdateFCMToken", ctx, "u1", "device-token").Return(nil)

	require.NoError(t, f.service.UpdateFCMToken(ctx, "u1", " device-token "))
	f.users.AssertExpectations(t)
}

func TestUpdateFCMToken_Empty(t *testing.T) {
	f := newAccountFixture()

	err := f.service.UpdateFCMToken(context.Background(), "u1", "  ")

	assert.ErrorIs(t, err, ErrValidation)
	f.users.AssertNotCalled(t, "UpdateFCMToken", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateFCMToken_StoreError(t *testing.T) {
	f := newAccountFixture()
	ctx := context.Background()

	f.users.On("UpdateFCMToken", ctx, "u1", "tok").Return(errors.New("timeout"))

	err := f.service.UpdateFCMToken(ctx, "u1", "tok")

	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrValidation)
}

func TestSavePreferences(t *testing.T) {
	f := newAccountFixture()
	ctx := context.Background()

	f.preferences.On("Upsert", ctx, mock.MatchedBy(func(p *domain.NotificationPreference) bool {
		return p.UserID == "u1" && p.Enabled && p.OneDay && !p.OneWeek
	})).Return(nil)

	pref, err := f.service.SavePreferences(ctx, "u1", &entity.PreferencesRequest{Enabled: true, OneDay: true})

	require.NoError(t, err)
	assert.Equal(t, "u1", pref.UserID)
	f.preferences.AssertExpectations(t)
}

func TestDeleteAccount(t *testing.T) {
	f := newAccountFixture()
	ctx := context.Background()

	f.deleted.On("Create", ctx, mock.MatchedBy(func(a *domain.DeletedAccount) bool {
		return a.UserID == "u1" && a.Reason == "moving away"
	})).Return(nil)
	f.outbox.On("Append", ctx, mock.Anything).Return(nil)

	require.NoError(t, f.service.DeleteAccount(ctx, "u1", "alex@example.com", "moving away"))

	env := lastEvent(t, f.outbox)
	assert.Equal(t, events.AccountDeleted, env.Type)
	assert.Equal(t, "u1", env.AggregateID)
	assert.Equal(t, 1, f.tx.Calls)
}
