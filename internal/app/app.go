package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"jt-go/internal/config"
	"jt-go/internal/database"
	"jt-go/internal/encryption"
	"jt-go/internal/extractor"
	"jt-go/internal/jt"
	"jt-go/internal/model"
	"jt-go/internal/vault"
)

// JTApp is the application layer between the CLI and JTService.
// It constructs all dependencies from config, journals mutating commands and
// snapshots the database to the vault on Close.
type JTApp struct {
	cfg       *config.Config
	db        jt.Database
	vault     jt.Vault
	encryptor jt.Encryptor
	service   *jt.JTService
	op        *Operation
	logger    *slog.Logger
	logFile   *os.File
}

// NewJTApp creates a fully wired JTApp from the given config.
// operation names the CLI command being run (e.g. "say", "app add") and args
// are recorded with it if the command mutates the database.
// The caller must call Close when done.
func NewJTApp(ctx context.Context, cfg *config.Config, operation string, args []string) (*JTApp, error) {
	var v jt.Vault
	if len(cfg.Vaults) > 0 {
		var err error
		v, err = vault.NewVaultFromConfig(ctx, cfg.Vaults[0])
		if err != nil {
			return nil, fmt.Errorf("creating vault: %w", err)
		}
	}

	enc, err := encryption.NewEncryptorFromConfig(cfg.Encryption)
	if err != nil {
		return nil, fmt.Errorf("creating encryptor: %w", err)
	}

	ext, err := extractor.NewExtractorFromConfig(ctx, cfg.Extractor)
	if err != nil {
		return nil, fmt.Errorf("creating extractor: %w", err)
	}
	timeout, err := cfg.Extractor.TimeoutDuration()
	if err != nil {
		return nil, err
	}

	profile, err := newProfile(cfg.Profile)
	if err != nil {
		return nil, err
	}

	db, err := database.NewDatabaseFromConfig(cfg.Database, cfg.HostID)
	if err != nil {
		return nil, fmt.Errorf("creating database: %w", err)
	}

	if err := db.CheckMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database schema out of date: %w", err)
	}

	// Refuse to run on a database older than the one in the vault.
	if err := checkSnapshotVersion(ctx, db, v, cfg.HostID); err != nil {
		db.Close()
		return nil, err
	}

	opID := time.Now().UTC().Format("20060102T150405Z")
	logger, logFile, err := newLogger(cfg.LogDir, opID)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	svc := jt.NewJTService(db, ext, v, enc, profile, timeout, &slogAdapter{l: logger}, jt.RealClock{}, jt.UUIDGenerator{})
	logger.Debug("app started", "operation", operation, "extractor", ext.Name())

	return &JTApp{
		cfg:       cfg,
		db:        db,
		vault:     v,
		encryptor: enc,
		service:   svc,
		op:        NewOperation(operation, encodeArgs(args)),
		logger:    logger,
		logFile:   logFile,
	}, nil
}

func newProfile(cfg config.ProfileConfig) (jt.Profile, error) {
	loc, err := cfg.Location()
	if err != nil {
		return jt.Profile{}, fmt.Errorf("loading profile: %w", err)
	}
	return jt.NewProfile(cfg.Name, loc, cfg.DefaultLocation, cfg.CompanyAliases), nil
}

func checkSnapshotVersion(ctx context.Context, db jt.Database, v jt.Vault, hostID string) error {
	if v == nil {
		return nil
	}
	remoteVersion, err := v.GetSnapshotVersion(hostID, jt.SnapshotName)
	if err != nil {
		return fmt.Errorf("checking remote snapshot version: %w", err)
	}
	localMax, err := db.MaxOperationID(ctx)
	if err != nil {
		return fmt.Errorf("checking local journal version: %w", err)
	}
	if remoteVersion > localMax {
		return fmt.Errorf("local database is behind remote (local=%d, remote=%d): run `jt restore` or re-initialize", localMax, remoteVersion)
	}
	return nil
}

func encodeArgs(args []string) string {
	if len(args) == 0 {
		return "[]"
	}
	b, err := json.Marshal(args)
	if err != nil {
		return "[]"
	}
	return string(b)
}

// Service returns the wired service for read-only commands and the HTTP server.
func (a *JTApp) Service() *jt.JTService {
	return a.service
}

// Logger returns the app's structured logger.
func (a *JTApp) Logger() *slog.Logger {
	return a.logger
}

// Mutating marks the current command as one that changes the database. It
// journals the operation, so Close will snapshot the database to the vault.
func (a *JTApp) Mutating(ctx context.Context) error {
	if a.op.Persisted() {
		return nil
	}
	rec, err := a.db.CreateOperation(ctx, a.op.Operation, a.op.Parameters)
	if err != nil {
		return fmt.Errorf("journaling operation: %w", err)
	}
	a.op.ID = rec.ID
	return nil
}

// Fail records that the current operation ended in an error.
func (a *JTApp) Fail(err error) {
	if err == nil {
		return
	}
	a.op.Status = "error"
	a.logger.Error("operation failed", "operation", a.op.Operation, "error", err)
}

// Say routes one free-text command through the command router.
func (a *JTApp) Say(ctx context.Context, text string) (jt.Outcome, error) {
	if err := a.Mutating(ctx); err != nil {
		return jt.Outcome{}, err
	}
	out := a.service.Handle(ctx, text)
	if out.Kind == jt.OutcomeRejected {
		a.op.Status = "error"
	}
	return out, nil
}

// AddApplication journals and creates an application.
func (a *JTApp) AddApplication(ctx context.Context, in jt.NewApplication) (*model.Application, error) {
	if err := a.Mutating(ctx); err != nil {
		return nil, err
	}
	app, err := a.service.AddApplication(ctx, in)
	a.Fail(err)
	return app, err
}

// UpdateStatus journals and applies a manual status change.
func (a *JTApp) UpdateStatus(ctx context.Context, id string, status model.Status, note string) (*model.Application, error) {
	if err := a.Mutating(ctx); err != nil {
		return nil, err
	}
	app, err := a.service.UpdateStatus(ctx, id, status, note)
	a.Fail(err)
	return app, err
}

// AddNote journals and appends a note to an application.
func (a *JTApp) AddNote(ctx context.Context, id, text string) error {
	if err := a.Mutating(ctx); err != nil {
		return err
	}
	err := a.service.AddNote(ctx, id, text)
	a.Fail(err)
	return err
}

// EditApplication journals and overwrites application details.
func (a *JTApp) EditApplication(ctx context.Context, id string, details model.ApplicationDetails) error {
	if err := a.Mutating(ctx); err != nil {
		return err
	}
	err := a.service.EditApplication(ctx, id, details)
	a.Fail(err)
	return err
}

// DeleteApplication journals and removes an application.
func (a *JTApp) DeleteApplication(ctx context.Context, id string) error {
	if err := a.Mutating(ctx); err != nil {
		return err
	}
	err := a.service.DeleteApplication(ctx, id)
	a.Fail(err)
	return err
}

// AddFact journals and stores a fact.
func (a *JTApp) AddFact(ctx context.Context, text, tag string) (*model.Fact, error) {
	if err := a.Mutating(ctx); err != nil {
		return nil, err
	}
	fact, err := a.service.AddFact(ctx, text, tag)
	a.Fail(err)
	return fact, err
}

// AddPrepQuestion journals and stores a prep question.
func (a *JTApp) AddPrepQuestion(ctx context.Context, in jt.NewPrepQuestion) (*model.PrepQuestion, error) {
	if err := a.Mutating(ctx); err != nil {
		return nil, err
	}
	q, err := a.service.AddPrepQuestion(ctx, in)
	a.Fail(err)
	return q, err
}

// Practice journals and marks a prep question practiced.
func (a *JTApp) Practice(ctx context.Context, id string, filter jt.PrepFilter) (*model.PrepQuestion, error) {
	if err := a.Mutating(ctx); err != nil {
		return nil, err
	}
	q, err := a.service.Practice(ctx, id, filter)
	a.Fail(err)
	return q, err
}

// DeletePrepQuestion journals and removes a prep question.
func (a *JTApp) DeletePrepQuestion(ctx context.Context, id string) error {
	if err := a.Mutating(ctx); err != nil {
		return err
	}
	err := a.service.DeletePrepQuestion(ctx, id)
	a.Fail(err)
	return err
}

// ImportPrep journals and imports prep questions from YAML.
func (a *JTApp) ImportPrep(ctx context.Context, r io.Reader) (int, error) {
	if err := a.Mutating(ctx); err != nil {
		return 0, err
	}
	n, err := a.service.ImportPrep(ctx, r)
	a.Fail(err)
	return n, err
}

// AddConcept journals and stores a concept.
func (a *JTApp) AddConcept(ctx context.Context, in jt.NewConcept) (*model.Concept, error) {
	if err := a.Mutating(ctx); err != nil {
		return nil, err
	}
	v, err := a.service.AddConcept(ctx, in)
	a.Fail(err)
	return v, err
}

// DeleteConcept journals and removes a concept.
func (a *JTApp) DeleteConcept(ctx context.Context, id string) error {
	if err := a.Mutating(ctx); err != nil {
		return err
	}
	err := a.service.DeleteConcept(ctx, id)
	a.Fail(err)
	return err
}

// LogPracticeSession journals and records a practice session.
func (a *JTApp) LogPracticeSession(ctx context.Context, in jt.NewPracticeSession) (*model.PracticeSession, error) {
	if err := a.Mutating(ctx); err != nil {
		return nil, err
	}
	v, err := a.service.LogPracticeSession(ctx, in)
	a.Fail(err)
	return v, err
}

// DeletePracticeSession journals and removes a practice session.
func (a *JTApp) DeletePracticeSession(ctx context.Context, id string) error {
	if err := a.Mutating(ctx); err != nil {
		return err
	}
	err := a.service.DeletePracticeSession(ctx, id)
	a.Fail(err)
	return err
}

// AddCompanyResearch journals and stores company research.
func (a *JTApp) AddCompanyResearch(ctx context.Context, in jt.CompanyResearchInput) (*model.CompanyResearch, error) {
	if err := a.Mutating(ctx); err != nil {
		return nil, err
	}
	v, err := a.service.AddCompanyResearch(ctx, in)
	a.Fail(err)
	return v, err
}

// UpdateCompanyResearch journals and merges company research.
func (a *JTApp) UpdateCompanyResearch(ctx context.Context, in jt.CompanyResearchInput) (*model.CompanyResearch, error) {
	if err := a.Mutating(ctx); err != nil {
		return nil, err
	}
	v, err := a.service.UpdateCompanyResearch(ctx, in)
	a.Fail(err)
	return v, err
}

// DeleteCompanyResearch journals and removes company research.
func (a *JTApp) DeleteCompanyResearch(ctx context.Context, company string) error {
	if err := a.Mutating(ctx); err != nil {
		return err
	}
	err := a.service.DeleteCompanyResearch(ctx, company)
	a.Fail(err)
	return err
}

// AddResume journals and stores a master resume.
func (a *JTApp) AddResume(ctx context.Context, in jt.NewResume) (*model.Resume, error) {
	if err := a.Mutating(ctx); err != nil {
		return nil, err
	}
	v, err := a.service.AddResume(ctx, in)
	a.Fail(err)
	return v, err
}

// TailorResume journals and derives a tailored resume.
func (a *JTApp) TailorResume(ctx context.Context, masterID string, in jt.TailorInput) (*model.Resume, error) {
	if err := a.Mutating(ctx); err != nil {
		return nil, err
	}
	v, err := a.service.TailorResume(ctx, masterID, in)
	a.Fail(err)
	return v, err
}

// UpdateResume journals and stores a new resume version.
func (a *JTApp) UpdateResume(ctx context.Context, id, content, note string) (*model.ResumeVersion, error) {
	if err := a.Mutating(ctx); err != nil {
		return nil, err
	}
	v, err := a.service.UpdateResume(ctx, id, content, note)
	a.Fail(err)
	return v, err
}

// ActivateResume journals and switches the active resume.
func (a *JTApp) ActivateResume(ctx context.Context, id string) error {
	if err := a.Mutating(ctx); err != nil {
		return err
	}
	err := a.service.ActivateResume(ctx, id)
	a.Fail(err)
	return err
}

// DeleteResume journals and removes a resume.
func (a *JTApp) DeleteResume(ctx context.Context, id string) error {
	if err := a.Mutating(ctx); err != nil {
		return err
	}
	err := a.service.DeleteResume(ctx, id)
	a.Fail(err)
	return err
}

// Close finalizes the operation and closes all resources.
// For journaled operations: finishes the operation record, snapshots the DB
// and uploads it to the vault. Otherwise it just closes the database.
func (a *JTApp) Close() error {
	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if a.op.Persisted() {
		if err := a.db.FinishOperation(context.Background(), a.op.ID, a.op.Status); err != nil {
			keep(fmt.Errorf("finishing operation: %w", err))
		}

		var tmpPath string
		if a.vault != nil {
			tmpFile, err := os.CreateTemp("", "jt-db-snapshot-*.db")
			if err != nil {
				keep(fmt.Errorf("creating temp file for db snapshot: %w", err))
			} else {
				tmpPath = tmpFile.Name()
				tmpFile.Close()
				// VACUUM INTO refuses to overwrite an existing file.
				os.Remove(tmpPath)
				if err := a.db.BackupTo(tmpPath); err != nil {
					keep(fmt.Errorf("backing up database: %w", err))
					os.Remove(tmpPath)
					tmpPath = ""
				}
			}
		}

		if err := a.db.Close(); err != nil {
			keep(fmt.Errorf("closing database: %w", err))
		}

		// The snapshot version is the operation ID, so the journal orders snapshots.
		if tmpPath != "" {
			keep(a.service.UploadSnapshot(a.cfg.HostID, tmpPath, a.op.ID))
			os.Remove(tmpPath)
		}
	} else {
		if err := a.db.Close(); err != nil {
			keep(fmt.Errorf("closing database: %w", err))
		}
	}

	if a.logFile != nil {
		a.logFile.Close()
	}
	return firstErr
}

// SetupEncryption generates the snapshot key pair for cfg, sealing the private
// key with passphrase.
func SetupEncryption(cfg *config.Config, passphrase string) error {
	enc, err := encryption.NewEncryptorFromConfig(cfg.Encryption)
	if err != nil {
		return fmt.Errorf("creating encryptor: %w", err)
	}
	if err := enc.Setup(passphrase); err != nil {
		return fmt.Errorf("setting up encryption: %w", err)
	}
	return nil
}

// Restore downloads this host's snapshot from the vault, decrypts it with
// passphrase and writes the database to outPath. It does not open the local
// database, so it works on a fresh machine.
func Restore(ctx context.Context, cfg *config.Config, outPath, passphrase string) error {
	if len(cfg.Vaults) == 0 {
		return fmt.Errorf("no vaults configured")
	}
	v, err := vault.NewVaultFromConfig(ctx, cfg.Vaults[0])
	if err != nil {
		return fmt.Errorf("creating vault: %w", err)
	}
	enc, err := encryption.NewEncryptorFromConfig(cfg.Encryption)
	if err != nil {
		return fmt.Errorf("creating encryptor: %w", err)
	}
	decrypt, err := enc.Unlock(passphrase)
	if err != nil {
		return fmt.Errorf("unlocking private key: %w", err)
	}
	profile, err := newProfile(cfg.Profile)
	if err != nil {
		return err
	}

	opID := time.Now().UTC().Format("20060102T150405Z")
	logger, logFile, err := newLogger(cfg.LogDir, opID)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer logFile.Close()

	svc := jt.NewJTService(nil, nil, v, enc, profile, 0, &slogAdapter{l: logger}, jt.RealClock{}, jt.UUIDGenerator{})
	return svc.RestoreSnapshot(cfg.HostID, outPath, decrypt)
}
