package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"testing"
	"time"
)

func TestValidRequestID(t *testing.T) {
	cases := map[string]bool{
		"123e4567-e89b-12d3-a456-426614174000": true,
		"123E4567-E89B-12D3-A456-426614174000": true,
		"0123456789abcdef0123456789abcdef":     true,
		"  0123456789abcdef0123456789abcdef  ": true,
		"0123456789abcdef0123456789abcde":      false,
		"123e4567-e89b-62d3-a456-426614174000": false, // version 6
		"123e4567-e89b-12d3-c456-426614174000": false, // variant c
		"not-an-id":                            false,
		"":                                     false,
	}
	for in, want := range cases {
		if got := validRequestID(in); got != want {
			t.Errorf("validRequestID(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestParseRequestAt(t *testing.T) {
	sec := int64(1_736_123_456)
	ms := sec*1000 + 789

	cases := []struct {
		in   string
		want time.Time
	}{
		{strconv.FormatInt(sec, 10), time.Unix(sec, 0).UTC()},
		{strconv.FormatInt(ms, 10), time.UnixMilli(ms).UTC()},
		{"2025-09-05T10:00:00+07:00", time.Date(2025, 9, 5, 3, 0, 0, 0, time.UTC)},
		{"2025-09-05T03:00:00.5Z", time.Date(2025, 9, 5, 3, 0, 0, 500_000_000, time.UTC)},
	}
	for _, tc := range cases {
		got, err := parseRequestAt(tc.in)
		if err != nil {
			t.Fatalf("parseRequestAt(%q): %v", tc.in, err)
		}
		if !got.Equal(tc.want) || got.Location() != time.UTC {
			t.Fatalf("parseRequestAt(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}

	for _, bad := range []string{"", "   ", "2025-09-05T10:00:00", "2025/09/05", "abc"} {
		if _, err := parseRequestAt(bad); err == nil {
			t.Errorf("parseRequestAt(%q): expected error", bad)
		}
	}
}

func TestReadMeta(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	skew := 10 * time.Minute
	hdr := func(id, at string) http.Header {
		h := http.Header{}
		if id != "" {
			h.Set(HeaderRequestID, id)
		}
		if at != "" {
			h.Set(HeaderRequestAt, at)
		}
		return h
	}
	okID := "0123456789ABCDEF0123456789ABCDEF"
	okAt := now.Add(-time.Minute).Format(time.RFC3339)

	meta, err := readMeta(hdr(okID, okAt), now, skew)
	if err != nil {
		t.Fatalf("readMeta: %v", err)
	}
	if meta.ID != "0123456789abcdef0123456789abcdef" || !meta.At.Equal(now.Add(-time.Minute)) {
		t.Fatalf("meta = %+v", meta)
	}

	cases := []struct {
		name string
		h    http.Header
		want error
	}{
		{"missing id", hdr("", okAt), errMissingID},
		{"bad id", hdr("nope", okAt), errBadID},
		{"missing at", hdr(okID, ""), errMissingAt},
		{"bad at", hdr(okID, "yesterday"), errBadAt},
		{"past", hdr(okID, now.Add(-skew-time.Second).Format(time.RFC3339)), errSkewedAt},
		{"future", hdr(okID, now.Add(skew+time.Second).Format(time.RFC3339)), errSkewedAt},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := readMeta(tc.h, now, skew); !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestFingerprint(t *testing.T) {
	if got := fingerprint(nil); got != "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855" {
		t.Fatalf("fingerprint(nil) = %s", got)
	}
	if fingerprint([]byte(`{"a":1}`)) != fingerprint([]byte(`{"a":1}`)) {
		t.Fatal("same body must give the same fingerprint")
	}
	if fingerprint([]byte(`{"a":1}`)) == fingerprint([]byte(`{"a":2}`)) {
		t.Fatal("different bodies must differ")
	}
}
