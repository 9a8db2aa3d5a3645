package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/XavierBriggs/fortuna/services/pick-service/internal/retry"
)

func TestExecute(t *testing.T) {
	errBoom := errors.New("boom")

	tests := []struct {
		name      string
		attempts  int
		failUntil int // calls that fail before success; -1 never succeeds
		permanent bool
		wantCalls int
		wantErr   bool
	}{
		{name: "first try", attempts: 3, failUntil: 0, wantCalls: 1},
		{name: "succeeds on retry", attempts: 3, failUntil: 2, wantCalls: 3},
		{name: "exhausted", attempts: 3, failUntil: -1, wantCalls: 3, wantErr: true},
		{name: "permanent stops early", attempts: 5, failUntil: -1, permanent: true, wantCalls: 1, wantErr: true},
		{name: "zero attempts runs once", attempts: 0, failUntil: -1, wantCalls: 1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := retry.NewPolicy(tt.attempts, time.Millisecond).Execute(context.Background(), func(ctx context.Context) error {
				calls++
				if tt.failUntil >= 0 && calls > tt.failUntil {
					return nil
				}
				if tt.permanent {
					return &retry.Permanent{Err: errBoom}
				}
				return errBoom
			})

			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, errBoom) {
				t.Errorf("err = %v, want wrapped boom", err)
			}
		})
	}
}

func TestExecute_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	err := retry.NewPolicy(5, time.Hour).Execute(ctx, func(ctx context.Context) error {
		calls++
		cancel()
		return errors.New("transient")
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}
