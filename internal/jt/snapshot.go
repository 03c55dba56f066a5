package jt

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// SnapshotName is the vault key under which database snapshots are stored.
const SnapshotName = "db"

// UploadSnapshot encrypts the database copy at path and stores it in the vault
// under hostID with the given version.
func (s *JTService) UploadSnapshot(hostID, path string, version int64) error {
	if s.vault == nil {
		return nil
	}
	if s.encryptor == nil {
		return fmt.Errorf("no encryptor configured")
	}
	src, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening snapshot: %w", err)
	}
	defer src.Close()

	// Ciphertext is staged next to the plaintext because the vault needs its size up front.
	enc, err := os.CreateTemp(filepath.Dir(path), "jt-snapshot-*.age")
	if err != nil {
		return fmt.Errorf("creating encrypted snapshot: %w", err)
	}
	defer os.Remove(enc.Name())
	defer enc.Close()

	if err := s.encryptor.Encrypt(src, enc); err != nil {
		return fmt.Errorf("encrypting snapshot: %w", err)
	}
	size, err := enc.Seek(0, io.SeekCurrent)
	if err != nil {
		return fmt.Errorf("sizing encrypted snapshot: %w", err)
	}
	if _, err := enc.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewinding encrypted snapshot: %w", err)
	}

	if err := s.vault.PutSnapshot(hostID, SnapshotName, enc, size, version); err != nil {
		return fmt.Errorf("uploading snapshot: %w", err)
	}
	s.logger.Info("snapshot uploaded", "host", hostID, "version", version, "bytes", size)
	return nil
}

// RemoteSnapshotVersion returns the version of the vault's snapshot for hostID,
// or 0 when no vault is configured or nothing has been uploaded.
func (s *JTService) RemoteSnapshotVersion(hostID string) (int64, error) {
	if s.vault == nil {
		return 0, nil
	}
	v, err := s.vault.GetSnapshotVersion(hostID, SnapshotName)
	if err != nil {
		return 0, fmt.Errorf("checking remote snapshot version: %w", err)
	}
	return v, nil
}

// RestoreSnapshot downloads the snapshot for hostID, decrypts it and writes the
// database to outPath. outPath must not already exist.
func (s *JTService) RestoreSnapshot(hostID, outPath string, decryptCtx DecryptionContext) error {
	if s.vault == nil {
		return fmt.Errorf("no vault configured")
	}
	if decryptCtx == nil {
		return fmt.Errorf("snapshot is encrypted but no passphrase was provided")
	}
	if _, err := os.Stat(outPath); err == nil {
		return fmt.Errorf("output file already exists: %s", outPath)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return fmt.Errorf("creating parent directory: %w", err)
	}

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer f.Close()

	// Pipe vault output straight into the decryptor.
	pr, pw := io.Pipe()
	vaultErrCh := make(chan error, 1)
	go func() {
		err := s.vault.GetSnapshot(hostID, SnapshotName, pw)
		pw.CloseWithError(err)
		vaultErrCh <- err
	}()

	decryptErr := decryptCtx.Decrypt(pr, f)
	pr.CloseWithError(decryptErr)
	vaultErr := <-vaultErrCh

	// A vault failure surfaces through the pipe as a decrypt error too.
	if decryptErr != nil {
		os.Remove(outPath)
		return fmt.Errorf("decrypting snapshot: %w", decryptErr)
	}
	if vaultErr != nil {
		os.Remove(outPath)
		return fmt.Errorf("retrieving snapshot from vault: %w", vaultErr)
	}

	s.logger.Info("snapshot restored", "host", hostID, "path", outPath)
	return nil
}
