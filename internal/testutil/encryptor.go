package testutil

import (
	"jt-go/internal/encryption"
	"jt-go/internal/jt"
)

// NewTestEncryptor creates a reversible, keyless encryptor for testing.
func NewTestEncryptor() jt.Encryptor {
	return encryption.NewTestEncryptor()
}
