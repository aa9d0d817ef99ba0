package recordrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"growvest-backend/internal/domain/profile"
	"growvest-backend/internal/domain/record"
)

type ProfileRepository struct{ store record.Store }

func NewProfileRepository(s record.Store) *ProfileRepository { return &ProfileRepository{store: s} }

// Get treats an undecodable profile as missing.
func (r *ProfileRepository) Get(ctx context.Context) (*profile.UserProfile, error) {
	rec, err := r.store.Get(ctx, record.TypeUserProfile, record.SingletonKey)
	if errors.Is(err, record.ErrNotFound) {
		return nil, profile.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	var p profile.UserProfile
	if err := json.Unmarshal(rec.Payload, &p); err != nil {
		return nil, profile.ErrNotFound
	}
	return &p, nil
}

func (r *ProfileRepository) Save(ctx context.Context, p *profile.UserProfile) error {
	payload, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, record.Record{Type: record.TypeUserProfile, Key: record.SingletonKey, Payload: payload})
}
