package encryption

import (
	"fmt"
	"io"

	"jt-go/internal/jt"
)

// NoneEncryptor stores snapshots as plaintext. It is meant for vaults that are
// already private, such as a local filesystem vault on an encrypted disk.
type NoneEncryptor struct{}

var _ jt.Encryptor = NoneEncryptor{}

func (NoneEncryptor) Setup(string) error { return nil }

func (NoneEncryptor) Encrypt(r io.Reader, w io.Writer) error {
	if _, err := io.Copy(w, r); err != nil {
		return fmt.Errorf("copying snapshot: %w", err)
	}
	return nil
}

func (NoneEncryptor) Unlock(string) (jt.DecryptionContext, error) {
	return plaintext{}, nil
}

func (NoneEncryptor) IsConfigured() bool { return true }

type plaintext struct{}

func (plaintext) Decrypt(r io.Reader, w io.Writer) error {
	if _, err := io.Copy(w, r); err != nil {
		return fmt.Errorf("copying snapshot: %w", err)
	}
	return nil
}
