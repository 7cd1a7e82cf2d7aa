package engine

import (
	"fmt"
	"testing"

	"github.com/sidemark/sidemark/internal/host"
	"github.com/sidemark/sidemark/internal/storage"
)

func TestIsFatal(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{host.ErrHostUnavailable, true},
		{storage.ErrPersistence, true},
		{fmt.Errorf("read host tree: %w", host.ErrHostUnavailable), true},
		{ErrValidation, false},
		{ErrNotFound, false},
	}
	for _, tc := range cases {
		if got := IsFatal(tc.err); got != tc.want {
			t.Errorf("IsFatal(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}

func TestIsRecoverable(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{ErrClassification, true},
		{host.ErrPassthroughUnsupported, true},
		{fmt.Errorf("%w: model offline", ErrClassification), true},
		{host.ErrHostUnavailable, false},
	}
	for _, tc := range cases {
		if got := IsRecoverable(tc.err); got != tc.want {
			t.Errorf("IsRecoverable(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}
