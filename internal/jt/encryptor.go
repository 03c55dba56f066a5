package jt

import "io"

// Encryptor protects database snapshots before they leave the machine.
// Encryption needs only the public key, so snapshots can be taken unattended.
// Decryption requires the passphrase that guards the private key.
type Encryptor interface {
	// Setup performs one-time key generation during `jt config init`.
	// The private key is stored encrypted with passphrase.
	Setup(passphrase string) error

	// Encrypt encrypts data read from r and writes ciphertext to w.
	Encrypt(r io.Reader, w io.Writer) error

	// Unlock decrypts the private key using the passphrase and returns a
	// DecryptionContext for the rest of the session.
	// Returns an error if the passphrase is incorrect.
	Unlock(passphrase string) (DecryptionContext, error)

	// IsConfigured returns true if the key material exists.
	IsConfigured() bool
}

// DecryptionContext holds an unlocked private key in memory. The key is never written to disk.
type DecryptionContext interface {
	// Decrypt decrypts data read from r and writes plaintext to w.
	Decrypt(r io.Reader, w io.Writer) error
}
