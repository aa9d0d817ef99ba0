// Package record defines the key-value record store the goal engine persists
// through. Payloads are opaque JSON documents; the store never inspects them.
package record

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("record not found")

type Type string

const (
	TypeUserProfile  Type = "userProfile"
	TypeGoals        Type = "goals"
	TypeSubscription Type = "subscription"
)

// SingletonKey addresses single-record types (profile, subscription).
const SingletonKey = "default"

type Record struct {
	Type    Type
	Key     string
	Payload []byte
}

type Store interface {
	// ErrNotFound when absent.
	Get(ctx context.Context, t Type, key string) (*Record, error)

	// Upsert. A new key is appended after existing ones; an existing key keeps its position.
	Set(ctx context.Context, rec Record) error

	// All records of a type in insertion order.
	List(ctx context.Context, t Type) ([]Record, error)

	// No error when absent.
	Delete(ctx context.Context, t Type, key string) error
}
