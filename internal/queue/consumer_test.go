package queue

import (
	"errors"
	"testing"
)

func TestIsBusyGroup(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{errors.New("BUSYGROUP Consumer Group name already exists"), true},
		{errors.New("ERR no such key"), false},
	}
	for _, tt := range tests {
		if got := isBusyGroup(tt.err); got != tt.want {
			t.Errorf("isBusyGroup(%q) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
