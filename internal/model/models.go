package model

import (
	"strings"
	"time"
)

// Status is the stage of a job application.
type Status string

const (
	StatusApplied   Status = "applied"
	StatusScreening Status = "screening"
	StatusInterview Status = "interview"
	StatusOffer     Status = "offer"
	StatusAccepted  Status = "accepted"
	StatusRejected  Status = "rejected"
	StatusWithdrawn Status = "withdrawn"
)

// Statuses lists every status in display order.
var Statuses = []Status{
	StatusApplied,
	StatusScreening,
	StatusInterview,
	StatusOffer,
	StatusAccepted,
	StatusRejected,
	StatusWithdrawn,
}

// forwardRank is the position of a status on the expected path
// applied -> screening -> interview -> offer -> accepted.
// Rejected and withdrawn are off the path and have no rank.
var forwardRank = map[Status]int{
	StatusApplied:   1,
	StatusScreening: 2,
	StatusInterview: 3,
	StatusOffer:     4,
	StatusAccepted:  5,
}

// ParseStatus parses a case-insensitive status name.
func ParseStatus(s string) (Status, bool) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Statuses {
		if st == known {
			return st, true
		}
	}
	return "", false
}

// IsActive reports whether the application is still in progress.
func (s Status) IsActive() bool {
	return s == StatusApplied || s == StatusScreening || s == StatusInterview
}

// IsTerminal reports whether the status ends the process.
func (s Status) IsTerminal() bool {
	return s == StatusAccepted || s == StatusRejected || s == StatusWithdrawn
}

// Precedes reports whether s comes strictly before other on the forward path.
// Statuses off the path never precede anything.
func (s Status) Precedes(other Status) bool {
	a, okA := forwardRank[s]
	b, okB := forwardRank[other]
	return okA && okB && a < b
}

// Application is one job application.
type Application struct {
	ID             string // UUID
	Company        string
	Role           string
	Status         Status
	AppliedDate    time.Time // calendar date, midnight UTC
	Notes          string
	Location       string
	SalaryRange    string
	JobURL         string
	JobDescription string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Timeline       []TimelineEvent // populated by single-record lookups only
}

// TimelineEvent is one append-only entry in an application's history.
type TimelineEvent struct {
	ID            int64
	ApplicationID string
	Sequence      int64
	OccurredAt    time.Time
	Status        Status // status of the application right after the event
	Note          string
}

// ApplicationDetails holds the optional descriptive fields of an application.
// Empty fields are left unchanged on update.
type ApplicationDetails struct {
	Location       string
	SalaryRange    string
	JobURL         string
	JobDescription string
}

// Fact is a free-text entry in the fact store.
type Fact struct {
	ID        string // UUID
	Text      string
	SourceTag string
	CreatedAt time.Time
}

// PrepQuestion is an interview preparation question.
type PrepQuestion struct {
	ID              string // UUID
	Question        string
	Answer          string
	Type            string // behavioral, technical, system_design, other
	Category        string
	Difficulty      string // easy, medium, hard
	Companies       []string
	Tags            []string
	PracticeCount   int64
	LastPracticedAt *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Concept is a technical concept kept for interview review.
type Concept struct {
	ID          string // UUID
	Name        string
	Category    string
	Explanation string
	Example     string
	Tags        []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CompanyResearch holds what the user has learned about one company.
// There is at most one entry per company.
type CompanyResearch struct {
	ID               string // UUID
	Company          string // canonical name
	Industry         string
	Overview         string
	Culture          string
	InterviewProcess string
	WhyCompany       string
	Notes            string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// PracticeSession is one logged block of interview practice.
type PracticeSession struct {
	ID              string // UUID
	SessionType     string    // mock_interview, questions, coding, system_design, other
	Date            time.Time // calendar date, midnight UTC
	DurationMinutes int64
	Company         string
	QuestionIDs     []string // questions practiced in the session
	Rating          int64    // self-assessment 1-5, 0 when unrated
	Notes           string
	CreatedAt       time.Time
}

// Resume is the metadata of one resume. Master resumes are the base
// documents; tailored resumes point at the master they were derived from.
type Resume struct {
	ID                     string // UUID
	Name                   string
	IsMaster               bool
	IsActive               bool
	ParentID               string // master this resume was tailored from, empty for masters
	TailoredForCompany     string
	TailoredForApplication string // application ID, optional
	Version                int64  // latest version number, starting at 1
	Content                string // text of the latest version
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// ResumeVersion is an immutable snapshot of a resume's content.
type ResumeVersion struct {
	ResumeID   string
	Version    int64
	Content    string
	ChangeNote string
	CreatedAt  time.Time
}

// Operation is a journaled CLI invocation.
type Operation struct {
	ID         int64
	Operation  string
	Parameters string
	StartedAt  time.Time
	FinishedAt *time.Time
	Status     string // "success" or "error"
}
