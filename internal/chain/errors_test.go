package chain

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsStaleBlockhash(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "blockhash not found", err: errors.New("rpc error: Blockhash not found"), want: true},
		{name: "expired", err: errors.New("transaction blockhash expired"), want: true},
		{name: "height exceeded", err: errors.New("block height exceeded for transaction"), want: true},
		{name: "wrapped", err: fmt.Errorf("send: %w", errors.New("Blockhash Not Found")), want: true},
		{name: "unrelated", err: errors.New("insufficient funds for rent"), want: false},
		{name: "timeout", err: errors.New("context deadline exceeded"), want: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if got := IsStaleBlockhash(tt.err); got != tt.want {
				t.Fatalf("IsStaleBlockhash(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
