package recordrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"growvest-backend/internal/domain/record"
	"growvest-backend/internal/domain/subscription"
)

type SubscriptionRepository struct{ store record.Store }

func NewSubscriptionRepository(s record.Store) *SubscriptionRepository {
	return &SubscriptionRepository{store: s}
}

func (r *SubscriptionRepository) Get(ctx context.Context) (*subscription.Subscription, error) {
	rec, err := r.store.Get(ctx, record.TypeSubscription, record.SingletonKey)
	if errors.Is(err, record.ErrNotFound) {
		return nil, subscription.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get subscription: %w", err)
	}
	var s subscription.Subscription
	if err := json.Unmarshal(rec.Payload, &s); err != nil {
		return nil, subscription.ErrNotFound
	}
	return &s, nil
}

func (r *SubscriptionRepository) Save(ctx context.Context, s *subscription.Subscription) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, record.Record{Type: record.TypeSubscription, Key: record.SingletonKey, Payload: payload})
}
