package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"jt-go/internal/database/migrations"
	"jt-go/internal/database/sqlc"
	"jt-go/internal/jt"
	"jt-go/internal/model"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteDatabase implements the Database interface using SQLite.
type SQLiteDatabase struct {
	db      *sql.DB
	queries *sqlc.Queries
	path    string
}

// NewSQLiteDatabase creates a new SQLite database connection.
// path can be a file path or ":memory:" for in-memory database.
func NewSQLiteDatabase(path string) (*SQLiteDatabase, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}

	return &SQLiteDatabase{
		db:      db,
		queries: sqlc.New(db),
		path:    path,
	}, nil
}

// NewSQLiteDatabaseFromDB wraps an existing database connection.
// The caller is responsible for ensuring the connection is properly configured.
func NewSQLiteDatabaseFromDB(db *sql.DB) *SQLiteDatabase {
	return &SQLiteDatabase{
		db:      db,
		queries: sqlc.New(db),
		path:    "",
	}
}

// OpenConnection opens and configures a SQLite database connection with appropriate PRAGMAs.
// This is exported for use in tools and tests that need a properly configured SQLite connection.
// path can be a file path or ":memory:" for in-memory database.
//
// The pool is limited to one connection, which serializes every write in this
// process. Transactions take the write lock when they begin, and other processes
// wait up to busy_timeout for it.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path+"?_txlock=immediate")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	// Enable foreign key constraints (SQLite default is OFF for backward compatibility)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	return db, nil
}

// Application operations

func (s *SQLiteDatabase) CreateApplication(ctx context.Context, app *model.Application, initial model.TimelineEvent) error {
	if app.ID == "" {
		return fmt.Errorf("application id is required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertApplication(ctx, s.queries.WithTx(tx), app, initial); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func (s *SQLiteDatabase) CreateApplicationUnlessActive(ctx context.Context, app *model.Application, initial model.TimelineEvent, sameCompany func(company string) bool) (*model.Application, error) {
	if app.ID == "" {
		return nil, fmt.Errorf("application id is required")
	}

	// _txlock=immediate takes the write lock here, so no other writer can
	// insert between the lookup and the insert.
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := s.queries.WithTx(tx)

	rows, err := qtx.ListActiveApplications(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing active applications: %w", err)
	}
	var existing *model.Application
	for _, row := range rows {
		if !sameCompany(row.Company) {
			continue
		}
		if existing == nil || row.CreatedAt.After(existing.CreatedAt) {
			existing = toApplication(row)
		}
	}
	if existing != nil {
		return existing, nil
	}

	if err := insertApplication(ctx, qtx, app, initial); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}
	return nil, nil
}

// insertApplication writes app and its first timeline event inside the caller's transaction.
func insertApplication(ctx context.Context, qtx *sqlc.Queries, app *model.Application, initial model.TimelineEvent) error {
	err := qtx.InsertApplication(ctx, sqlc.InsertApplicationParams{
		ID:             app.ID,
		Company:        app.Company,
		Role:           app.Role,
		Status:         string(app.Status),
		AppliedDate:    app.AppliedDate.UTC(),
		Notes:          app.Notes,
		Location:       app.Location,
		SalaryRange:    app.SalaryRange,
		JobUrl:         app.JobURL,
		JobDescription: app.JobDescription,
		CreatedAt:      app.CreatedAt.UTC(),
		UpdatedAt:      app.UpdatedAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("inserting application: %w", err)
	}

	status := initial.Status
	if status == "" {
		status = app.Status
	}
	occurredAt := initial.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = app.CreatedAt
	}
	_, err = qtx.InsertTimelineEvent(ctx, sqlc.InsertTimelineEventParams{
		ApplicationID: app.ID,
		Sequence:      1,
		OccurredAt:    occurredAt.UTC(),
		Status:        string(status),
		Note:          initial.Note,
	})
	if err != nil {
		return fmt.Errorf("inserting initial timeline event: %w", err)
	}
	return nil
}

func (s *SQLiteDatabase) GetApplication(ctx context.Context, id string) (*model.Application, error) {
	row, err := s.queries.GetApplication(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("getting application: %w", err)
	}

	events, err := s.queries.ListTimelineEvents(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("listing timeline events: %w", err)
	}

	app := toApplication(row)
	app.Timeline = make([]model.TimelineEvent, 0, len(events))
	for _, e := range events {
		app.Timeline = append(app.Timeline, toTimelineEvent(e))
	}
	return app, nil
}

func (s *SQLiteDatabase) ListApplications(ctx context.Context, filter jt.ApplicationFilter) ([]*model.Application, error) {
	var rows []sqlc.Application
	var err error
	if filter.ActiveOnly {
		rows, err = s.queries.ListActiveApplications(ctx)
	} else {
		rows, err = s.queries.ListApplications(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("listing applications: %w", err)
	}

	company := strings.ToLower(strings.TrimSpace(filter.Company))
	apps := make([]*model.Application, 0, len(rows))
	for _, row := range rows {
		if filter.Status != "" && model.Status(row.Status) != filter.Status {
			continue
		}
		if company != "" && !strings.Contains(strings.ToLower(row.Company), company) {
			continue
		}
		apps = append(apps, toApplication(row))
	}

	sortApplications(apps, filter.SortBy, filter.Desc)
	return apps, nil
}

// sortApplications orders apps by key, breaking ties by creation time.
func sortApplications(apps []*model.Application, key string, desc bool) {
	less := func(a, b *model.Application) bool {
		switch key {
		case "company":
			ca, cb := strings.ToLower(a.Company), strings.ToLower(b.Company)
			if ca != cb {
				return ca < cb
			}
		case "updated_at":
			if !a.UpdatedAt.Equal(b.UpdatedAt) {
				return a.UpdatedAt.Before(b.UpdatedAt)
			}
		case "created_at":
		default:
			if !a.AppliedDate.Equal(b.AppliedDate) {
				return a.AppliedDate.Before(b.AppliedDate)
			}
		}
		return a.CreatedAt.Before(b.CreatedAt)
	}
	sort.SliceStable(apps, func(i, j int) bool {
		if desc {
			return less(apps[j], apps[i])
		}
		return less(apps[i], apps[j])
	})
}

// UpdateApplication applies the status change and appends its timeline event in one transaction.
func (s *SQLiteDatabase) UpdateApplication(ctx context.Context, id string, m jt.Mutation) (*model.Application, error) {
	if _, ok := model.ParseStatus(string(m.Status)); !ok {
		return nil, fmt.Errorf("invalid status: %q", m.Status)
	}
	at := m.At
	if at.IsZero() {
		at = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := s.queries.WithTx(tx)

	current, err := qtx.GetApplication(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, jt.ErrApplicationNotFound
		}
		return nil, fmt.Errorf("getting application: %w", err)
	}

	next := model.Status(current.Status)
	switch m.Mode {
	case jt.StatusSet:
		next = m.Status
	case jt.StatusAdvance:
		if next.Precedes(m.Status) {
			next = m.Status
		}
	default:
		return nil, fmt.Errorf("unknown status mode: %d", m.Mode)
	}

	if _, err := qtx.UpdateApplicationStatus(ctx, sqlc.UpdateApplicationStatusParams{
		Status:    string(next),
		UpdatedAt: at.UTC(),
		ID:        id,
	}); err != nil {
		return nil, fmt.Errorf("updating status: %w", err)
	}

	seq, err := qtx.MaxTimelineSequence(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reading timeline sequence: %w", err)
	}
	if _, err := qtx.InsertTimelineEvent(ctx, sqlc.InsertTimelineEventParams{
		ApplicationID: id,
		Sequence:      seq + 1,
		OccurredAt:    at.UTC(),
		Status:        string(next),
		Note:          m.EventNote,
	}); err != nil {
		return nil, fmt.Errorf("appending timeline event: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}

	return s.GetApplication(ctx, id)
}

func (s *SQLiteDatabase) UpdateApplicationDetails(ctx context.Context, id string, details model.ApplicationDetails, at time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := s.queries.WithTx(tx)

	current, err := qtx.GetApplication(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return jt.ErrApplicationNotFound
		}
		return fmt.Errorf("getting application: %w", err)
	}

	params := sqlc.UpdateApplicationDetailsParams{
		Location:       firstNonEmpty(details.Location, current.Location),
		SalaryRange:    firstNonEmpty(details.SalaryRange, current.SalaryRange),
		JobUrl:         firstNonEmpty(details.JobURL, current.JobUrl),
		JobDescription: firstNonEmpty(details.JobDescription, current.JobDescription),
		UpdatedAt:      at.UTC(),
		ID:             id,
	}
	if _, err := qtx.UpdateApplicationDetails(ctx, params); err != nil {
		return fmt.Errorf("updating application details: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func (s *SQLiteDatabase) AppendApplicationNotes(ctx context.Context, id string, line string, at time.Time) error {
	n, err := s.queries.AppendApplicationNotes(ctx, sqlc.AppendApplicationNotesParams{
		Line:      line,
		UpdatedAt: at.UTC(),
		ID:        id,
	})
	if err != nil {
		return fmt.Errorf("appending notes: %w", err)
	}
	if n == 0 {
		return jt.ErrApplicationNotFound
	}
	return nil
}

func (s *SQLiteDatabase) DeleteApplication(ctx context.Context, id string) error {
	n, err := s.queries.DeleteApplication(ctx, id)
	if err != nil {
		return fmt.Errorf("deleting application: %w", err)
	}
	if n == 0 {
		return jt.ErrApplicationNotFound
	}
	return nil
}

// Fact operations

func (s *SQLiteDatabase) AppendFact(ctx context.Context, fact *model.Fact) error {
	if fact.ID == "" {
		return fmt.Errorf("fact id is required")
	}
	err := s.queries.InsertFact(ctx, sqlc.InsertFactParams{
		ID:        fact.ID,
		Text:      fact.Text,
		SourceTag: fact.SourceTag,
		CreatedAt: fact.CreatedAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("inserting fact: %w", err)
	}
	return nil
}

func (s *SQLiteDatabase) ListFacts(ctx context.Context, sourceTag string, limit int) ([]*model.Fact, error) {
	// SQLite treats a negative LIMIT as no limit.
	lim := int64(limit)
	if lim <= 0 {
		lim = -1
	}

	var rows []sqlc.Fact
	var err error
	if sourceTag != "" {
		rows, err = s.queries.ListFactsBySource(ctx, sqlc.ListFactsBySourceParams{SourceTag: sourceTag, Limit: lim})
	} else {
		rows, err = s.queries.ListFacts(ctx, lim)
	}
	if err != nil {
		return nil, fmt.Errorf("listing facts: %w", err)
	}

	facts := make([]*model.Fact, 0, len(rows))
	for _, row := range rows {
		facts = append(facts, toFact(row))
	}
	return facts, nil
}

func (s *SQLiteDatabase) SearchFacts(ctx context.Context, query string, limit int) ([]*model.Fact, error) {
	rows, err := s.queries.ListAllFacts(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing facts: %w", err)
	}
	facts := make([]*model.Fact, 0, len(rows))
	for _, row := range rows {
		facts = append(facts, toFact(row))
	}
	return rankFacts(query, facts, limit), nil
}

// Interview preparation operations

func (s *SQLiteDatabase) CreatePrepQuestion(ctx context.Context, q *model.PrepQuestion) error {
	if q.ID == "" {
		return fmt.Errorf("prep question id is required")
	}
	companies, err := encodeList(q.Companies)
	if err != nil {
		return err
	}
	tags, err := encodeList(q.Tags)
	if err != nil {
		return err
	}
	err = s.queries.InsertPrepQuestion(ctx, sqlc.InsertPrepQuestionParams{
		ID:              q.ID,
		Question:        q.Question,
		Answer:          q.Answer,
		Type:            q.Type,
		Category:        q.Category,
		Difficulty:      q.Difficulty,
		Companies:       companies,
		Tags:            tags,
		PracticeCount:   q.PracticeCount,
		LastPracticedAt: nullTime(q.LastPracticedAt),
		CreatedAt:       q.CreatedAt.UTC(),
		UpdatedAt:       q.UpdatedAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("inserting prep question: %w", err)
	}
	return nil
}

func (s *SQLiteDatabase) GetPrepQuestion(ctx context.Context, id string) (*model.PrepQuestion, error) {
	row, err := s.queries.GetPrepQuestion(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("getting prep question: %w", err)
	}
	return toPrepQuestion(row)
}

func (s *SQLiteDatabase) ListPrepQuestions(ctx context.Context, filter jt.PrepFilter) ([]*model.PrepQuestion, error) {
	rows, err := s.queries.ListPrepQuestions(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing prep questions: %w", err)
	}

	var out []*model.PrepQuestion
	for _, row := range rows {
		q, err := toPrepQuestion(row)
		if err != nil {
			return nil, err
		}
		if matchesPrepFilter(q, filter) {
			out = append(out, q)
		}
	}
	return out, nil
}

func matchesPrepFilter(q *model.PrepQuestion, f jt.PrepFilter) bool {
	if f.Type != "" && !strings.EqualFold(q.Type, f.Type) {
		return false
	}
	if f.Category != "" && !strings.EqualFold(q.Category, f.Category) {
		return false
	}
	if f.Difficulty != "" && !strings.EqualFold(q.Difficulty, f.Difficulty) {
		return false
	}
	if f.Company != "" && !containsFold(q.Companies, f.Company) {
		return false
	}
	if f.Tag != "" && !containsFold(q.Tags, f.Tag) {
		return false
	}
	return true
}

func (s *SQLiteDatabase) MarkPrepQuestionPracticed(ctx context.Context, id string, at time.Time) error {
	n, err := s.queries.MarkPrepQuestionPracticed(ctx, sqlc.MarkPrepQuestionPracticedParams{
		At: sql.NullTime{Time: at.UTC(), Valid: true},
		ID: id,
	})
	if err != nil {
		return fmt.Errorf("marking prep question practiced: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("prep question not found: %s", id)
	}
	return nil
}

func (s *SQLiteDatabase) DeletePrepQuestion(ctx context.Context, id string) error {
	n, err := s.queries.DeletePrepQuestion(ctx, id)
	if err != nil {
		return fmt.Errorf("deleting prep question: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("prep question not found: %s", id)
	}
	return nil
}

// Operation journal

func (s *SQLiteDatabase) CreateOperation(ctx context.Context, operation, parameters string) (*model.Operation, error) {
	row, err := s.queries.InsertOperation(ctx, sqlc.InsertOperationParams{
		Operation:  operation,
		Parameters: parameters,
		StartedAt:  time.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("creating operation: %w", err)
	}
	return toOperation(row), nil
}

func (s *SQLiteDatabase) FinishOperation(ctx context.Context, id int64, status string) error {
	err := s.queries.FinishOperation(ctx, sqlc.FinishOperationParams{
		FinishedAt: sql.NullTime{Time: time.Now().UTC(), Valid: true},
		Status:     status,
		ID:         id,
	})
	if err != nil {
		return fmt.Errorf("finishing operation: %w", err)
	}
	return nil
}

func (s *SQLiteDatabase) ListOperations(ctx context.Context, limit int) ([]*model.Operation, error) {
	lim := int64(limit)
	if lim <= 0 {
		lim = -1
	}
	rows, err := s.queries.ListOperations(ctx, lim)
	if err != nil {
		return nil, fmt.Errorf("listing operations: %w", err)
	}
	ops := make([]*model.Operation, 0, len(rows))
	for _, row := range rows {
		ops = append(ops, toOperation(row))
	}
	return ops, nil
}

func (s *SQLiteDatabase) MaxOperationID(ctx context.Context) (int64, error) {
	id, err := s.queries.MaxOperationID(ctx)
	if err != nil {
		return 0, fmt.Errorf("getting max operation id: %w", err)
	}
	return id, nil
}

// Path returns the database file path, or "" for wrapped connections.
func (s *SQLiteDatabase) Path() string {
	return s.path
}

// MigrateUp applies any pending migrations.
func (s *SQLiteDatabase) MigrateUp() error {
	return migrations.MigrateUp(s.db)
}

// CheckMigrations verifies that the database schema is up-to-date.
func (s *SQLiteDatabase) CheckMigrations() error {
	return migrations.CheckDBMigrationStatus(s.db)
}

// BackupTo creates a complete copy of the database at destPath using VACUUM INTO.
func (s *SQLiteDatabase) BackupTo(destPath string) error {
	_, err := s.db.Exec("VACUUM INTO ?", destPath)
	if err != nil {
		return fmt.Errorf("backing up database: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteDatabase) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func firstNonEmpty(a, b string) string {
	if strings.TrimSpace(a) != "" {
		return a
	}
	return b
}

func containsFold(list []string, v string) bool {
	for _, s := range list {
		if strings.EqualFold(s, v) {
			return true
		}
	}
	return false
}

// Compile-time check that SQLiteDatabase implements jt.Database interface
var _ jt.Database = (*SQLiteDatabase)(nil)
