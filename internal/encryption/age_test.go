package encryption

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"jt-go/internal/config"
)

func newTestAgeEncryptor(t *testing.T) *AgeEncryptor {
	t.Helper()
	dir := t.TempDir()
	return NewAgeEncryptor(config.EncryptionConfig{
		Type:           "age",
		PublicKeyPath:  filepath.Join(dir, "keys", "jt.pub"),
		PrivateKeyPath: filepath.Join(dir, "keys", "jt.key"),
	})
}

func TestAgeEncryptor_Setup(t *testing.T) {
	t.Parallel()
	e := newTestAgeEncryptor(t)
	if e.IsConfigured() {
		t.Fatal("IsConfigured() = true before Setup, want false")
	}

	if err := e.Setup("test-passphrase"); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	if !e.IsConfigured() {
		t.Error("IsConfigured() = false after Setup, want true")
	}

	pub, err := e.PublicKey()
	if err != nil {
		t.Fatalf("PublicKey() error = %v", err)
	}
	if !strings.HasPrefix(pub, "age1") {
		t.Errorf("PublicKey() = %q, want age1 prefix", pub)
	}

	if err := e.Setup("another"); !errors.Is(err, ErrAlreadyConfigured) {
		t.Errorf("second Setup() error = %v, want ErrAlreadyConfigured", err)
	}
	if err := newTestAgeEncryptor(t).Setup(""); err == nil {
		t.Error("Setup(\"\") should return error")
	}
}

func TestAgeEncryptor_EncryptDecryptRoundTrip(t *testing.T) {
	t.Parallel()

	passphrase := "test-passphrase"
	e := newTestAgeEncryptor(t)
	if err := e.Setup(passphrase); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}

	tests := []struct {
		name  string
		input []byte
	}{
		{name: "sqlite header", input: []byte("SQLite format 3\x00")},
		{name: "empty", input: []byte{}},
		{name: "large data", input: bytes.Repeat([]byte("abcdef"), 100000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var encrypted bytes.Buffer
			if err := e.Encrypt(bytes.NewReader(tt.input), &encrypted); err != nil {
				t.Fatalf("Encrypt() error = %v", err)
			}
			if len(tt.input) > 0 && bytes.Contains(encrypted.Bytes(), tt.input) {
				t.Error("encrypted output contains plaintext")
			}

			ctx, err := e.Unlock(passphrase)
			if err != nil {
				t.Fatalf("Unlock() error = %v", err)
			}
			var decrypted bytes.Buffer
			if err := ctx.Decrypt(&encrypted, &decrypted); err != nil {
				t.Fatalf("Decrypt() error = %v", err)
			}
			if !bytes.Equal(decrypted.Bytes(), tt.input) {
				t.Errorf("round-trip failed: got %d bytes, want %d bytes", decrypted.Len(), len(tt.input))
			}
		})
	}
}

func TestAgeEncryptor_Errors(t *testing.T) {
	t.Parallel()

	configured := newTestAgeEncryptor(t)
	if err := configured.Setup("correct-passphrase"); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	if _, err := configured.Unlock("wrong-passphrase"); err == nil {
		t.Error("Unlock() with wrong passphrase should return error")
	}

	bare := newTestAgeEncryptor(t)
	var buf bytes.Buffer
	if err := bare.Encrypt(strings.NewReader("data"), &buf); err == nil {
		t.Error("Encrypt() before Setup should return error")
	}
	if _, err := bare.Unlock("passphrase"); err == nil {
		t.Error("Unlock() before Setup should return error")
	}
	if _, err := bare.PublicKey(); err == nil {
		t.Error("PublicKey() before Setup should return error")
	}

	ctx, err := configured.Unlock("correct-passphrase")
	if err != nil {
		t.Fatalf("Unlock() error = %v", err)
	}
	if err := ctx.Decrypt(strings.NewReader("not age data"), &buf); err == nil {
		t.Error("Decrypt() of garbage should return error")
	}
}
