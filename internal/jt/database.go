package jt

import (
	"context"
	"errors"
	"time"

	"jt-go/internal/model"
)

// ErrApplicationNotFound is returned by mutations that target a missing application.
var ErrApplicationNotFound = errors.New("application not found")

// Store errors for the interview preparation and resume records.
var (
	// ErrNotFound means the concept, session, research entry or resume does not exist.
	ErrNotFound = errors.New("not found")
	// ErrResearchExists means research for the company is already stored.
	ErrResearchExists = errors.New("company research already exists")
	// ErrResumeHasTailored means a master resume still has tailored resumes derived from it.
	ErrResumeHasTailored = errors.New("resume has tailored versions")
)

// StatusMode controls how a Mutation changes an application's status.
type StatusMode int

const (
	// StatusSet moves the application to the requested status unconditionally.
	StatusSet StatusMode = iota
	// StatusAdvance moves the application only if its current status precedes
	// the requested one on the forward path. It never regresses an application.
	StatusAdvance
)

// Mutation is an atomic status change plus the timeline event that records it.
type Mutation struct {
	Mode      StatusMode
	Status    model.Status
	EventNote string
	At        time.Time
}

// ApplicationFilter narrows ListApplications. Zero values match everything.
type ApplicationFilter struct {
	Status     model.Status
	Company    string // case-insensitive substring
	ActiveOnly bool
	SortBy     string // "applied_date" (default), "company", "updated_at" or "created_at"
	Desc       bool
}

// PrepFilter narrows ListPrepQuestions. Zero values match everything.
type PrepFilter struct {
	Type       string
	Category   string
	Difficulty string
	Company    string
	Tag        string
}

// RecordStore is the durable store of applications used by the command router.
type RecordStore interface {
	// CreateApplication inserts app together with its first timeline event in one transaction.
	// app.ID must already be set.
	CreateApplication(ctx context.Context, app *model.Application, initial model.TimelineEvent) error

	// CreateApplicationUnlessActive inserts app like CreateApplication unless an active
	// application whose company satisfies sameCompany exists. The lookup and the insert
	// share one write transaction. It returns the blocking application, most recently
	// created first, or nil when app was inserted.
	CreateApplicationUnlessActive(ctx context.Context, app *model.Application, initial model.TimelineEvent, sameCompany func(company string) bool) (*model.Application, error)

	// GetApplication returns the application with its full timeline, or nil if not found.
	GetApplication(ctx context.Context, id string) (*model.Application, error)

	// ListApplications returns applications matching filter. Timelines are not populated.
	ListApplications(ctx context.Context, filter ApplicationFilter) ([]*model.Application, error)

	// UpdateApplication applies m atomically: the status change and exactly one appended
	// timeline event commit together. Concurrent updates to the same application are serialized.
	// Returns ErrApplicationNotFound when id does not exist.
	UpdateApplication(ctx context.Context, id string, m Mutation) (*model.Application, error)
}

// FactStore is the append-only sink for free text.
type FactStore interface {
	// AppendFact stores a new fact. fact.ID must already be set.
	AppendFact(ctx context.Context, fact *model.Fact) error
}

// Database provides every storage operation the service layer needs.
type Database interface {
	RecordStore
	FactStore

	// Application operations

	// UpdateApplicationDetails overwrites the non-empty optional fields of an application.
	UpdateApplicationDetails(ctx context.Context, id string, details model.ApplicationDetails, at time.Time) error

	// AppendApplicationNotes appends a line to the application's notes without touching status.
	AppendApplicationNotes(ctx context.Context, id string, line string, at time.Time) error

	// DeleteApplication removes an application and its timeline.
	DeleteApplication(ctx context.Context, id string) error

	// Fact operations

	// ListFacts returns facts newest first, optionally restricted to one source tag.
	ListFacts(ctx context.Context, sourceTag string, limit int) ([]*model.Fact, error)

	// SearchFacts returns the facts most similar to query, best match first.
	SearchFacts(ctx context.Context, query string, limit int) ([]*model.Fact, error)

	// Interview preparation operations

	CreatePrepQuestion(ctx context.Context, q *model.PrepQuestion) error
	GetPrepQuestion(ctx context.Context, id string) (*model.PrepQuestion, error)
	ListPrepQuestions(ctx context.Context, filter PrepFilter) ([]*model.PrepQuestion, error)
	MarkPrepQuestionPracticed(ctx context.Context, id string, at time.Time) error
	DeletePrepQuestion(ctx context.Context, id string) error

	// Technical concepts

	CreateConcept(ctx context.Context, c *model.Concept) error
	// ListConcepts returns concepts ordered by name, optionally restricted to a
	// category and a tag (case-insensitive).
	ListConcepts(ctx context.Context, category, tag string) ([]*model.Concept, error)
	DeleteConcept(ctx context.Context, id string) error

	// Company research

	// CreateCompanyResearch returns ErrResearchExists when the company (case-insensitive)
	// already has an entry.
	CreateCompanyResearch(ctx context.Context, r *model.CompanyResearch) error
	// GetCompanyResearch looks research up by company name, case-insensitively. Returns nil if not found.
	GetCompanyResearch(ctx context.Context, company string) (*model.CompanyResearch, error)
	ListCompanyResearch(ctx context.Context) ([]*model.CompanyResearch, error)
	// UpdateCompanyResearch overwrites every descriptive field of the entry with r.ID.
	UpdateCompanyResearch(ctx context.Context, r *model.CompanyResearch) error
	DeleteCompanyResearch(ctx context.Context, id string) error

	// Practice sessions

	// CreatePracticeSession stores s and marks each of s.QuestionIDs practiced at
	// s.CreatedAt, all in one transaction. A missing question fails the whole call.
	CreatePracticeSession(ctx context.Context, s *model.PracticeSession) error
	// ListPracticeSessions returns sessions most recent first. A non-positive limit means no limit.
	ListPracticeSessions(ctx context.Context, sessionType string, limit int) ([]*model.PracticeSession, error)
	DeletePracticeSession(ctx context.Context, id string) error

	// Resumes

	// CreateResume stores r as version 1 with r.Content. When r.IsActive every
	// other resume is deactivated in the same transaction.
	CreateResume(ctx context.Context, r *model.Resume, changeNote string) error
	// GetResume returns the resume with the content of its latest version, or nil if not found.
	GetResume(ctx context.Context, id string) (*model.Resume, error)
	// ListResumes returns every resume without content, oldest first.
	ListResumes(ctx context.Context) ([]*model.Resume, error)
	// AddResumeVersion appends the next version of a resume and makes it current.
	AddResumeVersion(ctx context.Context, id, content, changeNote string, at time.Time) (*model.ResumeVersion, error)
	// ListResumeVersions returns a resume's versions, newest first.
	ListResumeVersions(ctx context.Context, id string) ([]*model.ResumeVersion, error)
	// SetActiveResume makes id the only active resume.
	SetActiveResume(ctx context.Context, id string, at time.Time) error
	// DeleteResume removes a resume and its versions. It returns ErrResumeHasTailored
	// while tailored resumes still point at it.
	DeleteResume(ctx context.Context, id string) error

	// Operation journal

	CreateOperation(ctx context.Context, operation, parameters string) (*model.Operation, error)
	FinishOperation(ctx context.Context, id int64, status string) error
	ListOperations(ctx context.Context, limit int) ([]*model.Operation, error)
	MaxOperationID(ctx context.Context) (int64, error)

	// CheckMigrations verifies the schema is up to date.
	CheckMigrations() error

	// BackupTo writes a consistent copy of the database to destPath.
	BackupTo(destPath string) error

	// Close closes the database connection.
	Close() error
}
