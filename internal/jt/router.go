package jt

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"jt-go/internal/model"
)

// Source tags recorded on facts written by the router.
const (
	SourceCommand         = "command"
	SourceCommandFallback = "command-fallback"
)

// OutcomeKind tags a router Outcome.
type OutcomeKind int

const (
	OutcomePassthrough OutcomeKind = iota
	OutcomeApplicationCreated
	OutcomeInterviewAttached
	OutcomeFactStored
	OutcomeRejected
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeApplicationCreated:
		return "application_created"
	case OutcomeInterviewAttached:
		return "interview_attached"
	case OutcomeFactStored:
		return "fact_stored"
	case OutcomeRejected:
		return "rejected"
	default:
		return "passthrough"
	}
}

// Outcome is the single report produced for one command.
type Outcome struct {
	Kind   OutcomeKind
	Intent Intent
	// ID is the created or mutated application, or the stored fact.
	ID string
	// Company is the resolved company name when one was extracted.
	Company string
	// Reason explains rejections and fallbacks in plain words.
	Reason string
	// Err carries the failure category (ErrExtraction, ErrDuplicateActive, ...)
	// for Rejected outcomes and for facts stored as a fallback.
	Err error
	// Fallback is set when a fact was stored because an interview could not be attached.
	Fallback bool
}

// Message renders the outcome as a one-line summary for the user.
func (o Outcome) Message() string {
	switch o.Kind {
	case OutcomeApplicationCreated:
		return fmt.Sprintf("Added application at %s (%s)", o.Company, o.ID)
	case OutcomeInterviewAttached:
		msg := fmt.Sprintf("Recorded interview on application at %s (%s)", o.Company, o.ID)
		if o.Reason != "" {
			msg += ": " + o.Reason
		}
		return msg
	case OutcomeFactStored:
		if o.Fallback {
			return fmt.Sprintf("Saved as a note (%s): %s", o.ID, o.Reason)
		}
		return fmt.Sprintf("Saved note %s", o.ID)
	case OutcomeRejected:
		return "Not saved: " + o.Reason
	default:
		return "No command recognized"
	}
}

// Router turns one utterance into at most one store mutation. It keeps no
// state between calls and is safe for concurrent use when its stores are.
type Router struct {
	records RecordStore
	facts   FactStore
	adapter *ExtractionAdapter
	profile Profile
	clock   Clock
	idGen   IDGenerator
	logger  Logger
}

// NewRouter creates a Router.
func NewRouter(records RecordStore, facts FactStore, adapter *ExtractionAdapter, profile Profile, clock Clock, idGen IDGenerator, logger Logger) *Router {
	if clock == nil {
		clock = RealClock{}
	}
	if idGen == nil {
		idGen = UUIDGenerator{}
	}
	if logger == nil {
		logger = NewNopLogger()
	}
	return &Router{
		records: records,
		facts:   facts,
		adapter: adapter,
		profile: profile,
		clock:   clock,
		idGen:   idGen,
		logger:  logger,
	}
}

// Handle classifies text and applies the matching command. It never panics on
// bad input and never returns failures as errors; every path ends in an Outcome.
func (r *Router) Handle(ctx context.Context, text string) Outcome {
	issuedAt := r.clock.Now()
	intent := Classify(text)
	r.logger.Debug("command classified", "intent", intent.String())

	var out Outcome
	switch intent {
	case IntentCreateApplication:
		out = r.createApplication(ctx, text, issuedAt)
	case IntentScheduleInterview:
		out = r.scheduleInterview(ctx, text, issuedAt)
	case IntentStoreFact:
		out = r.storeFact(ctx, text, issuedAt, SourceCommand, "", nil)
	default:
		out = Outcome{
			Kind:   OutcomePassthrough,
			Reason: "no command recognized, treating it as a question",
			Err:    ErrUnrecognized,
		}
	}
	out.Intent = intent

	r.logger.Info("command handled", "intent", intent.String(), "outcome", out.Kind.String(), "id", out.ID, "reason", out.Reason)
	return out
}

func (r *Router) createApplication(ctx context.Context, text string, issuedAt time.Time) Outcome {
	res := r.adapter.Extract(ctx, text, IntentCreateApplication, issuedAt, r.profile)
	if res.Status != ExtractionComplete {
		return rejected(res.Reason, res.Err)
	}
	f := res.Fields

	app := &model.Application{
		ID:          r.idGen.New(),
		Company:     f.Company,
		Role:        f.Role,
		Status:      model.StatusApplied,
		AppliedDate: f.Date,
		Location:    f.Location,
		SalaryRange: f.SalaryRange,
		CreatedAt:   issuedAt,
		UpdatedAt:   issuedAt,
	}
	if f.Notes != "" {
		app.Notes = FormatNoteLine(issuedAt, r.profile.location(), f.Notes)
	}
	initial := model.TimelineEvent{
		OccurredAt: issuedAt,
		Status:     model.StatusApplied,
		Note:       "Applied for " + f.Role,
	}
	existing, err := r.records.CreateApplicationUnlessActive(ctx, app, initial, SameCompany(f.Company))
	if err != nil {
		return rejected("could not save the application", err)
	}
	if existing != nil {
		return Outcome{
			Kind:    OutcomeRejected,
			ID:      existing.ID,
			Company: existing.Company,
			Reason:  fmt.Sprintf("already have an active application at %s (%s, %s)", existing.Company, existing.Role, existing.Status),
			Err:     ErrDuplicateActive,
		}
	}
	return Outcome{Kind: OutcomeApplicationCreated, ID: app.ID, Company: app.Company}
}

func (r *Router) scheduleInterview(ctx context.Context, text string, issuedAt time.Time) Outcome {
	res := r.adapter.Extract(ctx, text, IntentScheduleInterview, issuedAt, r.profile)
	if res.Status != ExtractionComplete {
		return r.storeFact(ctx, text, issuedAt, SourceCommandFallback, res.Reason, res.Err)
	}
	f := res.Fields

	candidates, err := r.records.ListApplications(ctx, ApplicationFilter{})
	if err != nil {
		return rejected("could not load applications", err)
	}
	resolved := Resolve(f.Company, candidates, r.profile)
	target := resolved.Target()
	if target == nil {
		return r.storeFact(ctx, text, issuedAt, SourceCommandFallback,
			fmt.Sprintf("no open application matches %q", f.Company), ErrResolution)
	}

	var reason string
	if resolved.Kind == ResolveAmbiguous {
		reason = fmt.Sprintf("%d applications match %q, used the most recent", len(resolved.Matches), f.Company)
		r.logger.Warn("ambiguous interview target", "company", f.Company, "matches", len(resolved.Matches), "chosen", target.ID)
	}

	updated, err := r.records.UpdateApplication(ctx, target.ID, Mutation{
		Mode:      StatusAdvance,
		Status:    model.StatusInterview,
		EventNote: InterviewNote(f),
		At:        issuedAt,
	})
	if errors.Is(err, ErrApplicationNotFound) {
		// Deleted between resolution and update.
		return r.storeFact(ctx, text, issuedAt, SourceCommandFallback,
			fmt.Sprintf("application at %s no longer exists", target.Company), ErrResolution)
	}
	if err != nil {
		return rejected("could not update the application", err)
	}
	return Outcome{Kind: OutcomeInterviewAttached, ID: updated.ID, Company: updated.Company, Reason: reason}
}

// storeFact appends text verbatim. cause is recorded on the outcome when the
// fact is a fallback for a failed interview command.
func (r *Router) storeFact(ctx context.Context, text string, issuedAt time.Time, source, reason string, cause error) Outcome {
	fact := &model.Fact{
		ID:        r.idGen.New(),
		Text:      strings.TrimSpace(text),
		SourceTag: source,
		CreatedAt: issuedAt,
	}
	if err := r.facts.AppendFact(ctx, fact); err != nil {
		return rejected("could not save the note", err)
	}
	return Outcome{
		Kind:     OutcomeFactStored,
		ID:       fact.ID,
		Reason:   reason,
		Err:      cause,
		Fallback: source == SourceCommandFallback,
	}
}

func rejected(reason string, err error) Outcome {
	if reason == "" && err != nil {
		reason = err.Error()
	}
	return Outcome{Kind: OutcomeRejected, Reason: reason, Err: err}
}

// InterviewNote renders interview fields as the timeline note text, for example
// "Interview scheduled for 2025-11-10 at 2:00 PM (phone screen) with Jane Doe".
func InterviewNote(f Fields) string {
	var b strings.Builder
	b.WriteString("Interview scheduled for ")
	b.WriteString(f.Date.Format("2006-01-02"))
	if f.Time != "" {
		b.WriteString(" at ")
		b.WriteString(f.Time)
	}
	if f.InterviewType != "" {
		fmt.Fprintf(&b, " (%s)", f.InterviewType)
	}
	if f.Interviewer != "" {
		b.WriteString(" with ")
		b.WriteString(f.Interviewer)
	}
	return b.String()
}

// FormatNoteLine prefixes a note with its local timestamp, as "[2006-01-02 15:04] text".
func FormatNoteLine(at time.Time, loc *time.Location, text string) string {
	if loc == nil {
		loc = time.UTC
	}
	return fmt.Sprintf("[%s] %s", at.In(loc).Format("2006-01-02 15:04"), strings.TrimSpace(text))
}

// SameCompany reports whether a stored company name refers to company. It is
// the duplicate-active key used when creating applications.
func SameCompany(company string) func(string) bool {
	want := normalizeCompany(company)
	return func(stored string) bool {
		return normalizeCompany(stored) == want
	}
}
