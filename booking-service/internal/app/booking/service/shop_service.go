package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"barbersbuddies/booking-service/internal/app/booking/entity"
	"barbersbuddies/pkg/domain"
	"barbersbuddies/pkg/events"
	"barbersbuddies/pkg/logger"
	"barbersbuddies/pkg/store"
)

// ShopService manages shop documents. The shop-name index is derived from the
// shop.* events by the worker; this service only reads it.
type ShopService struct {
	tx     store.TxManager
	shops  store.ShopRepository
	names  store.ShopNameRepository
	outbox store.OutboxRepository
	cache  store.ShopLookupCache // optional
}

func NewShopService(
	tx store.TxManager,
	shops store.ShopRepository,
	names store.ShopNameRepository,
	outbox store.OutboxRepository,
	cache store.ShopLookupCache,
) *ShopService {
	return &ShopService{
		tx:     tx,
		shops:  shops,
		names:  names,
		outbox: outbox,
		cache:  cache,
	}
}

func (s *ShopService) CreateShop(ctx context.Context, req *entity.ShopRequest) (*domain.Shop, error) {
	shop := &domain.Shop{ID: uuid.NewString()}
	applyShopRequest(shop, req)
	if shop.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}

	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.shops.Create(ctx, shop); err != nil {
			return err
		}
		return appendEvent(ctx, s.outbox, events.ShopCreated, shop.ID, events.ShopPayload{After: shop})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create shop: %w", err)
	}

	s.invalidate(ctx, shop.Name)
	logger.Info().Str("shop_id", shop.ID).Str("name", shop.Name).Msg("Shop created")
	return shop, nil
}

func (s *ShopService) UpdateShop(ctx context.Context, shopID string, req *entity.ShopRequest) (*domain.Shop, error) {
	shop, err := s.get(ctx, shopID)
	if err != nil {
		return nil, err
	}
	before := *shop
	applyShopRequest(shop, req)
	if shop.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.shops.Update(ctx, shop); err != nil {
			return err
		}
		return appendEvent(ctx, s.outbox, events.ShopUpdated, shop.ID, events.ShopPayload{Before: &before, After: shop})
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrShopNotFound
		}
		return nil, fmt.Errorf("failed to update shop: %w", err)
	}

	s.invalidate(ctx, before.Name, shop.Name)
	logger.Info().Str("shop_id", shop.ID).Msg("Shop updated")
	return shop, nil
}

func (s *ShopService) DeleteShop(ctx context.Context, shopID string) error {
	shop, err := s.get(ctx, shopID)
	if err != nil {
		return err
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.shops.Delete(ctx, shop.ID); err != nil {
			return err
		}
		return appendEvent(ctx, s.outbox, events.ShopDeleted, shop.ID, events.ShopPayload{Before: shop})
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrShopNotFound
		}
		return fmt.Errorf("failed to delete shop: %w", err)
	}

	s.invalidate(ctx, shop.Name)
	logger.Info().Str("shop_id", shop.ID).Msg("Shop deleted")
	return nil
}

// LookupByName finds shops whose name equals name ignoring case and
// surrounding whitespace.
func (s *ShopService) LookupByName(ctx context.Context, name string) ([]domain.ShopName, error) {
	key := domain.SearchKey(name)
	if key == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}

	if s.cache != nil {
		entries, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			logger.Warn().Err(err).Str("search_name", key).Msg("Shop lookup cache read failed")
		} else if ok {
			return entries, nil
		}
	}

	entries, err := s.names.FindBySearchName(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to look up shop: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, entries); err != nil {
			logger.Warn().Err(err).Str("search_name", key).Msg("Shop lookup cache write failed")
		}
	}
	return entries, nil
}

func (s *ShopService) get(ctx context.Context, shopID string) (*domain.Shop, error) {
	shop, err := s.shops.GetByID(ctx, shopID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrShopNotFound
		}
		return nil, fmt.Errorf("failed to get shop: %w", err)
	}
	return shop, nil
}

func (s *ShopService) invalidate(ctx context.Context, names ...string) {
	if s.cache == nil {
		return
	}
	keys := make([]string, 0, len(names))
	for _, n := range names {
		keys = append(keys, domain.SearchKey(n))
	}
	if err := s.cache.Invalidate(ctx, keys...); err != nil {
		logger.Warn().Err(err).Msg("Shop lookup cache invalidation failed")
	}
}

func applyShopRequest(shop *domain.Shop, req *entity.ShopRequest) {
	shop.OwnerID = req.OwnerID
	shop.Name = strings.TrimSpace(req.Name)
	shop.Email = strings.TrimSpace(req.Email)
	shop.Phone = req.Phone
	shop.Address = req.Address
	shop.Services = req.Services
	shop.Employees = req.Employees
	shop.Availability = req.Availability
}
