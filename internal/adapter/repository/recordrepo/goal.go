// Package recordrepo maps the typed goal, profile and subscription
// repositories onto any record.Store backend.
package recordrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"growvest-backend/internal/domain/goal"
	"growvest-backend/internal/domain/record"
)

type GoalRepository struct{ store record.Store }

func NewGoalRepository(s record.Store) *GoalRepository { return &GoalRepository{store: s} }

// List skips records whose payload no longer decodes so one corrupt entry
// does not hide the rest of the collection.
func (r *GoalRepository) List(ctx context.Context) ([]goal.Goal, error) {
	recs, err := r.store.List(ctx, record.TypeGoals)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	out := make([]goal.Goal, 0, len(recs))
	for _, rec := range recs {
		g, ok := decodeGoal(rec.Payload)
		if !ok {
			continue
		}
		out = append(out, g)
	}
	return out, nil
}

func (r *GoalRepository) GetByID(ctx context.Context, id string) (*goal.Goal, error) {
	rec, err := r.store.Get(ctx, record.TypeGoals, id)
	if errors.Is(err, record.ErrNotFound) {
		return nil, goal.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get goal %s: %w", id, err)
	}
	g, ok := decodeGoal(rec.Payload)
	if !ok {
		return nil, goal.ErrNotFound
	}
	return &g, nil
}

func (r *GoalRepository) Create(ctx context.Context, g *goal.Goal) error {
	if g.ID == "" {
		return errors.New("create goal: empty id")
	}
	return r.put(ctx, g)
}

func (r *GoalRepository) Save(ctx context.Context, g *goal.Goal) error { return r.put(ctx, g) }

func (r *GoalRepository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, record.TypeGoals, id)
}

func (r *GoalRepository) put(ctx context.Context, g *goal.Goal) error {
	payload, err := json.Marshal(g)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, record.Record{Type: record.TypeGoals, Key: g.ID, Payload: payload})
}

func decodeGoal(p []byte) (goal.Goal, bool) {
	var g goal.Goal
	if err := json.Unmarshal(p, &g); err != nil || g.ID == "" {
		return goal.Goal{}, false
	}
	return g, true
}
