package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestGet_DefaultsToNop(t *testing.T) {
	if Get() == nil {
		t.Fatal("Get returned nil before Init")
	}
}

func TestInit_SetsLevel(t *testing.T) {
	cases := map[LogLevel]zapcore.Level{
		DebugLevel: zapcore.DebugLevel,
		InfoLevel:  zapcore.InfoLevel,
		WarnLevel:  zapcore.WarnLevel,
		ErrorLevel: zapcore.ErrorLevel,
		"bogus":    zapcore.InfoLevel,
	}
	for lvl, want := range cases {
		l, err := Init(false, lvl)
		if err != nil {
			t.Fatalf("Init(%s): %v", lvl, err)
		}
		if !l.Core().Enabled(want) {
			t.Fatalf("%s: level %s should be enabled", lvl, want)
		}
		if want > zapcore.DebugLevel && l.Core().Enabled(want-1) {
			t.Fatalf("%s: level %s should be disabled", lvl, want-1)
		}
		if Get() != l {
			t.Fatalf("Get should return the initialized logger")
		}
	}
}
