package ports

import "context"

// WalletUpdate represents a single prestige change for a user.
type WalletUpdate struct {
	UserID   string
	Amount   int64
	Metadata map[string]interface{}
}

// EconomyPort defines the interface for the prestige currency. Prestige
// is a meta-progression reward settled when a session ends; it never
// feeds back into in-session influence or tokens.
type EconomyPort interface {
	// GetBalance retrieves the current prestige balance for a user.
	GetBalance(ctx context.Context, userID string) (int64, error)

	// UpdateBalances applies the end-of-game settlement for all players.
	UpdateBalances(ctx context.Context, updates []WalletUpdate) error
}
