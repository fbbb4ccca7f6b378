package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"barbersbuddies/booking-service/internal/app/booking/entity"
	"barbersbuddies/pkg/domain"
	"barbersbuddies/pkg/events"
	"barbersbuddies/pkg/logger"
	"barbersbuddies/pkg/store"
)

type AccountService struct {
	tx          store.TxManager
	users       store.UserRepository
	preferences store.PreferenceRepository
	deleted     store.DeletedAccountRepository
	outbox      store.OutboxRepository
}

func NewAccountService(
	tx store.TxManager,
	users store.UserRepository,
	preferences store.PreferenceRepository,
	deleted store.DeletedAccountRepository,
	outbox store.OutboxRepository,
) *AccountService {
	return &AccountService{
		tx:          tx,
		users:       users,
		preferences: preferences,
		deleted:     deleted,
		outbox:      outbox,
	}
}

// UpdateFCMToken stores the device push token of the user.
func (s *AccountService) UpdateFCMToken(ctx context.Context, userID, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("%w: token is required", ErrValidation)
	}
	if err := s.users.UpdateFCMToken(ctx, userID, token); err != nil {
		return fmt.Errorf("failed to update fcm token: %w", err)
	}
	logger.Debug().Str("user_id", userID).Msg("FCM token updated")
	return nil
}

func (s *AccountService) SavePreferences(ctx context.Context, userID string, req *entity.PreferencesRequest) (*domain.NotificationPreference, error) {
	pref := &domain.NotificationPreference{
		UserID:    userID,
		Enabled:   req.Enabled,
		OneHour:   req.OneHour,
		OneDay:    req.OneDay,
		ThreeDays: req.ThreeDays,
		OneWeek:   req.OneWeek,
	}
	if err := s.preferences.Upsert(ctx, pref); err != nil {
		return nil, fmt.Errorf("failed to save preferences: %w", err)
	}
	return pref, nil
}

// DeleteAccount records the deletion; the worker removes the user's
// documents when it consumes account.deleted.
func (s *AccountService) DeleteAccount(ctx context.Context, userID, email, reason string) error {
	account := &domain.DeletedAccount{
		ID:     uuid.NewString(),
		UserID: userID,
		Email:  email,
		Reason: reason,
	}

	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.deleted.Create(ctx, account); err != nil {
			return err
		}
		return appendEvent(ctx, s.outbox, events.AccountDeleted, userID, events.AccountDeletedPayload{Account: *account})
	})
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}

	logger.Info().Str("user_id", userID).Msg("Account deletion recorded")
	return nil
}
