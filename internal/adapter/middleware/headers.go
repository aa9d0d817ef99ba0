package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	HeaderRequestID = "Ax-Request-Id"
	HeaderRequestAt = "Ax-Request-At"

	// HeaderReplayed marks a response served from the idempotency ledger.
	HeaderReplayed = "Idempotent-Replayed"
)

var (
	reUUID  = regexp.MustCompile(`^[a-f0-9]{8}-[a-f0-9]{4}-[1-5][a-f0-9]{3}-[89ab][a-f0-9]{3}-[a-f0-9]{12}$`)
	reHex32 = regexp.MustCompile(`^[a-f0-9]{32}$`)

	errMissingID = errors.New("missing " + HeaderRequestID)
	errBadID     = errors.New("invalid " + HeaderRequestID + " format")
	errMissingAt = errors.New("missing " + HeaderRequestAt)
	errBadAt     = errors.New(HeaderRequestAt + " must be epoch (s/ms) or RFC3339 with timezone")
	errSkewedAt  = errors.New(HeaderRequestAt + " too skewed")
)

// requestMeta is what a mutating request must carry to be deduplicated.
type requestMeta struct {
	ID string
	At time.Time
}

func validRequestID(id string) bool {
	id = strings.ToLower(strings.TrimSpace(id))
	return reUUID.MatchString(id) || reHex32.MatchString(id)
}

// parseRequestAt accepts epoch seconds, epoch milliseconds, or RFC3339 with
// a zone. Timestamps without a zone are rejected.
func parseRequestAt(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, errMissingAt
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		if n > 1e12 {
			return time.UnixMilli(n).UTC(), nil
		}
		return time.Unix(n, 0).UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, errBadAt
}

func readMeta(h http.Header, now time.Time, skew time.Duration) (requestMeta, error) {
	id := strings.TrimSpace(h.Get(HeaderRequestID))
	switch {
	case id == "":
		return requestMeta{}, errMissingID
	case !validRequestID(id):
		return requestMeta{}, errBadID
	}
	at, err := parseRequestAt(h.Get(HeaderRequestAt))
	if err != nil {
		return requestMeta{}, err
	}
	if at.Before(now.Add(-skew)) || at.After(now.Add(skew)) {
		return requestMeta{}, errSkewedAt
	}
	return requestMeta{ID: strings.ToLower(id), At: at}, nil
}

func fingerprint(b []byte) string {
	s := sha256.Sum256(b)
	return hex.EncodeToString(s[:])
}
