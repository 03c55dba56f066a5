package testutil

import (
	"jt-go/internal/jt"
	"jt-go/internal/vault"
)

// NewTestVault creates a new in-memory snapshot vault for testing.
func NewTestVault() jt.Vault {
	return vault.NewMemoryVault("test-vault")
}
