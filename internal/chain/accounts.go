package chain

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// ResolveTokenAccount derives the associated token account that holds the
// given mint for a wallet. Account lookups happen only at stream start;
// a failure here rejects the start.
func ResolveTokenAccount(wallet, mint solana.PublicKey) (solana.PublicKey, error) {
	ata, _, err := solana.FindAssociatedTokenAddress(wallet, mint)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("derive token account for %s: %w", wallet, err)
	}
	return ata, nil
}

// ParseWallet parses a base58 wallet address.
func ParseWallet(addr string) (solana.PublicKey, error) {
	pk, err := solana.PublicKeyFromBase58(addr)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("invalid wallet address %q: %w", addr, err)
	}
	return pk, nil
}
