package log

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestResolveLevel(t *testing.T) {
	cases := []struct {
		env, level string
		want       zerolog.Level
	}{
		{"production", "", zerolog.InfoLevel},
		{"development", "", zerolog.DebugLevel},
		{"production", "debug", zerolog.DebugLevel},
		{"development", "WARN", zerolog.WarnLevel},
		{"development", " error ", zerolog.ErrorLevel},
		{"production", "bogus", zerolog.InfoLevel},
	}
	for _, tc := range cases {
		if got := resolveLevel(tc.env, tc.level); got != tc.want {
			t.Errorf("resolveLevel(%q, %q) = %v, want %v", tc.env, tc.level, got, tc.want)
		}
	}
}
