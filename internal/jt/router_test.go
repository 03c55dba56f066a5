package jt_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"jt-go/internal/extractor"
	"jt-go/internal/jt"
	"jt-go/internal/model"
	"jt-go/internal/testutil"
)

func TestRouter_Scenario(t *testing.T) {
	env := newTestEnv(t, extractor.NewHeuristicExtractor())
	ctx := context.Background()

	created := env.router.Handle(ctx, "Applied to Google for ML Engineer")
	if created.Kind != jt.OutcomeApplicationCreated {
		t.Fatalf("create: Kind = %s (%s), want application_created", created.Kind, created.Reason)
	}
	app := mustGet(t, env.db, created.ID)
	if app.Company != "Google" || app.Role != "ML Engineer" || app.Status != model.StatusApplied {
		t.Errorf("created = %s/%s/%s, want Google/ML Engineer/applied", app.Company, app.Role, app.Status)
	}
	if !app.AppliedDate.Equal(date(2025, 11, 3)) {
		t.Errorf("AppliedDate = %v, want 2025-11-03", app.AppliedDate)
	}
	if len(app.Timeline) != 1 || app.Timeline[0].Status != model.StatusApplied {
		t.Fatalf("Timeline = %+v, want one applied event", app.Timeline)
	}

	// The next day.
	env.clock.Advance(24 * time.Hour)
	attached := env.router.Handle(ctx, "Phone screen with Google tomorrow at 2pm")
	if attached.Kind != jt.OutcomeInterviewAttached {
		t.Fatalf("interview: Kind = %s (%s), want interview_attached", attached.Kind, attached.Reason)
	}
	if attached.ID != created.ID {
		t.Errorf("interview attached to %s, want %s", attached.ID, created.ID)
	}
	app = mustGet(t, env.db, created.ID)
	if app.Status != model.StatusInterview {
		t.Errorf("Status = %s, want interview", app.Status)
	}
	if len(app.Timeline) != 2 {
		t.Fatalf("Timeline has %d events, want 2", len(app.Timeline))
	}
	note := app.Timeline[1].Note
	for _, want := range []string{"2025-11-05", "2:00 PM", "phone screen"} {
		if !strings.Contains(note, want) {
			t.Errorf("timeline note %q does not mention %q", note, want)
		}
	}

	fact := env.router.Handle(ctx, "Remember that Google uses Kubernetes")
	if fact.Kind != jt.OutcomeFactStored || fact.Fallback {
		t.Fatalf("fact: Kind = %s fallback=%v, want fact_stored", fact.Kind, fact.Fallback)
	}
	facts := listFacts(t, env.db)
	if len(facts) != 1 || facts[0].Text != "Remember that Google uses Kubernetes" || facts[0].SourceTag != jt.SourceCommand {
		t.Errorf("facts = %+v, want the verbatim command text tagged %q", facts, jt.SourceCommand)
	}

	pass := env.router.Handle(ctx, "asdfghjkl")
	if pass.Kind != jt.OutcomePassthrough || pass.Intent != jt.IntentUnrecognized {
		t.Errorf("gibberish: Kind = %s intent = %s, want passthrough", pass.Kind, pass.Intent)
	}
	if n := countApplications(t, env.db); n != 1 {
		t.Errorf("applications = %d, want 1", n)
	}
	if n := len(listFacts(t, env.db)); n != 1 {
		t.Errorf("facts = %d, want 1", n)
	}
}

func TestRouter_DuplicateActiveRejected(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, extractor.NewHeuristicExtractor())
	ctx := context.Background()

	first := env.router.Handle(ctx, "Applied to Google for ML Engineer")
	if first.Kind != jt.OutcomeApplicationCreated {
		t.Fatalf("first: Kind = %s (%s)", first.Kind, first.Reason)
	}

	for _, text := range []string{"Applied to Google for ML Engineer", "applied to GOOGLE for Data Scientist"} {
		got := env.router.Handle(ctx, text)
		if got.Kind != jt.OutcomeRejected || !errors.Is(got.Err, jt.ErrDuplicateActive) {
			t.Errorf("%q: Kind = %s err = %v, want rejected duplicate", text, got.Kind, got.Err)
		}
		if !strings.Contains(got.Reason, "already have an active application at Google") {
			t.Errorf("%q: Reason = %q", text, got.Reason)
		}
		if got.ID != first.ID {
			t.Errorf("%q: ID = %q, want existing %q", text, got.ID, first.ID)
		}
	}

	if n := countApplications(t, env.db); n != 1 {
		t.Errorf("applications = %d, want 1", n)
	}
	if app := mustGet(t, env.db, first.ID); len(app.Timeline) != 1 {
		t.Errorf("Timeline has %d events, want 1", len(app.Timeline))
	}
}

// Concurrent create commands for one company produce exactly one application.
func TestRouter_ConcurrentCreatesKeepOneActive(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, extractor.NewHeuristicExtractor())

	const n = 20
	var wg sync.WaitGroup
	outcomes := make([]jt.Outcome, n)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			outcomes[i] = env.router.Handle(context.Background(), "Applied to Google for ML Engineer")
		}()
	}
	wg.Wait()

	created := 0
	for i, o := range outcomes {
		switch {
		case o.Kind == jt.OutcomeApplicationCreated:
			created++
		case o.Kind == jt.OutcomeRejected && errors.Is(o.Err, jt.ErrDuplicateActive):
		default:
			t.Errorf("outcome %d: Kind = %s err = %v", i, o.Kind, o.Err)
		}
	}
	if created != 1 {
		t.Errorf("created = %d, want 1", created)
	}
	if got := countApplications(t, env.db); got != 1 {
		t.Errorf("applications = %d, want 1", got)
	}
}

func TestRouter_ClosedApplicationDoesNotBlockCreate(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, extractor.NewHeuristicExtractor())
	ctx := context.Background()
	seedApplication(t, env.db, "old", "Google", model.StatusRejected, issuedAt.AddDate(0, -3, 0))

	got := env.router.Handle(ctx, "Applied to Google for ML Engineer")
	if got.Kind != jt.OutcomeApplicationCreated {
		t.Fatalf("Kind = %s (%s), want application_created", got.Kind, got.Reason)
	}
	if n := countApplications(t, env.db); n != 2 {
		t.Errorf("applications = %d, want 2", n)
	}
}

func TestRouter_CreateRejections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		extractor jt.Extractor
		wantErr   error
	}{
		{
			name:      "extractor down",
			extractor: testutil.ErrorExtractor(errors.New("503 service unavailable")),
			wantErr:   jt.ErrExtraction,
		},
		{
			name:      "role missing",
			extractor: testutil.PayloadExtractor(jt.Payload{"company": "Google"}),
			wantErr:   jt.ErrValidation,
		},
		{
			name:      "company missing",
			extractor: testutil.PayloadExtractor(jt.Payload{"role": "SWE"}),
			wantErr:   jt.ErrValidation,
		},
		{
			name:      "date not absolute",
			extractor: testutil.PayloadExtractor(jt.Payload{"company": "Google", "role": "SWE", "date": "yesterday"}),
			wantErr:   jt.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, tt.extractor)
			got := env.router.Handle(context.Background(), "Applied to Google for SWE")
			if got.Kind != jt.OutcomeRejected {
				t.Fatalf("Kind = %s, want rejected", got.Kind)
			}
			if !errors.Is(got.Err, tt.wantErr) {
				t.Errorf("Err = %v, want %v", got.Err, tt.wantErr)
			}
			if got.Reason == "" || !strings.HasPrefix(got.Message(), "Not saved: ") {
				t.Errorf("Reason = %q, Message = %q", got.Reason, got.Message())
			}
			if n := countApplications(t, env.db); n != 0 {
				t.Errorf("applications = %d, want 0", n)
			}
			if n := len(listFacts(t, env.db)); n != 0 {
				t.Errorf("facts = %d, want 0", n)
			}
		})
	}
}

func TestRouter_InterviewFallsBackToFact(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		extractor jt.Extractor
		seed      bool
		wantErr   error
	}{
		{
			name:      "no matching application",
			extractor: testutil.PayloadExtractor(jt.Payload{"company": "Stripe", "date": "2025-11-04"}),
			seed:      true,
			wantErr:   jt.ErrResolution,
		},
		{
			name:      "empty store",
			extractor: testutil.PayloadExtractor(jt.Payload{"company": "Google", "date": "2025-11-04"}),
			wantErr:   jt.ErrResolution,
		},
		{
			name:      "extractor down",
			extractor: testutil.ErrorExtractor(errors.New("timeout talking to model")),
			seed:      true,
			wantErr:   jt.ErrExtraction,
		},
		{
			name:      "date missing",
			extractor: testutil.PayloadExtractor(jt.Payload{"company": "Google"}),
			seed:      true,
			wantErr:   jt.ErrValidation,
		},
		{
			name:      "timed out",
			extractor: testutil.SlowExtractor(10*time.Second, jt.Payload{"company": "Google", "date": "2025-11-04"}),
			seed:      true,
			wantErr:   jt.ErrExtraction,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, tt.extractor)
			var seeded *model.Application
			if tt.seed {
				seeded = seedApplication(t, env.db, "g", "Google", model.StatusApplied, issuedAt.AddDate(0, 0, -7))
			}

			text := "Interview with Stripe tomorrow"
			got := env.router.Handle(context.Background(), text)
			if got.Kind != jt.OutcomeFactStored || !got.Fallback {
				t.Fatalf("Kind = %s fallback=%v (%s), want fallback fact", got.Kind, got.Fallback, got.Reason)
			}
			if !errors.Is(got.Err, tt.wantErr) {
				t.Errorf("Err = %v, want %v", got.Err, tt.wantErr)
			}

			facts := listFacts(t, env.db)
			if len(facts) != 1 || facts[0].Text != text || facts[0].SourceTag != jt.SourceCommandFallback {
				t.Errorf("facts = %+v, want one fallback fact with the original text", facts)
			}
			if seeded != nil {
				app := mustGet(t, env.db, seeded.ID)
				if app.Status != model.StatusApplied || len(app.Timeline) != 1 {
					t.Errorf("seeded application changed: %s with %d events", app.Status, len(app.Timeline))
				}
			}
		})
	}
}

func TestRouter_InterviewStatusTransitions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		from model.Status
		want model.Status
	}{
		{model.StatusApplied, model.StatusInterview},
		{model.StatusScreening, model.StatusInterview},
		{model.StatusInterview, model.StatusInterview},
		{model.StatusOffer, model.StatusOffer},
		{model.StatusAccepted, model.StatusAccepted},
	}

	for _, tt := range tests {
		t.Run(string(tt.from), func(t *testing.T) {
			env := newTestEnv(t, testutil.PayloadExtractor(jt.Payload{
				"company": "Google", "date": "2025-11-10", "time": "10am", "interviewer": "Priya",
			}))
			seedApplication(t, env.db, "g", "Google", tt.from, issuedAt.AddDate(0, 0, -10))

			got := env.router.Handle(context.Background(), "Final round with Google on Nov 10")
			if got.Kind != jt.OutcomeInterviewAttached || got.ID != "g" {
				t.Fatalf("Kind = %s id = %s (%s), want interview_attached on g", got.Kind, got.ID, got.Reason)
			}

			app := mustGet(t, env.db, "g")
			if app.Status != tt.want {
				t.Errorf("Status = %s, want %s", app.Status, tt.want)
			}
			if len(app.Timeline) != 2 {
				t.Fatalf("Timeline has %d events, want 2", len(app.Timeline))
			}
			last := app.Timeline[1]
			if last.Status != tt.want {
				t.Errorf("event Status = %s, want %s", last.Status, tt.want)
			}
			if want := "Interview scheduled for 2025-11-10 at 10:00 AM with Priya"; last.Note != want {
				t.Errorf("event Note = %q, want %q", last.Note, want)
			}
		})
	}
}

func TestRouter_AmbiguousPicksMostRecent(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, testutil.PayloadExtractor(jt.Payload{"company": "Google", "date": "2025-11-10"}))
	seedApplication(t, env.db, "older", "Google", model.StatusApplied, issuedAt.AddDate(0, -1, 0))
	seedApplication(t, env.db, "newer", "google", model.StatusScreening, issuedAt.AddDate(0, 0, -2))

	got := env.router.Handle(context.Background(), "Interview with Google next Monday")
	if got.Kind != jt.OutcomeInterviewAttached || got.ID != "newer" {
		t.Fatalf("Kind = %s id = %s, want interview_attached on newer", got.Kind, got.ID)
	}
	if !strings.Contains(got.Reason, "2 applications match") {
		t.Errorf("Reason = %q, want ambiguity explained", got.Reason)
	}
	if older := mustGet(t, env.db, "older"); older.Status != model.StatusApplied || len(older.Timeline) != 1 {
		t.Errorf("older application changed: %s with %d events", older.Status, len(older.Timeline))
	}
}

// A closed application with the exact company name keeps an interview from
// landing on a different open company whose name merely contains it.
func TestRouter_ClosedExactMatchStoresFact(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, testutil.PayloadExtractor(jt.Payload{"company": "Meta", "date": "2025-11-10"}))
	seedApplication(t, env.db, "meta", "Meta", model.StatusRejected, issuedAt.AddDate(0, -2, 0))
	seedApplication(t, env.db, "metadata", "Metadata Inc", model.StatusApplied, issuedAt.AddDate(0, 0, -3))

	got := env.router.Handle(context.Background(), "Interview with Meta next Monday")
	if got.Kind != jt.OutcomeFactStored || !got.Fallback {
		t.Fatalf("Kind = %s id = %s (%s), want fallback fact", got.Kind, got.ID, got.Reason)
	}
	if !errors.Is(got.Err, jt.ErrResolution) {
		t.Errorf("Err = %v, want %v", got.Err, jt.ErrResolution)
	}
	for _, id := range []string{"meta", "metadata"} {
		if app := mustGet(t, env.db, id); len(app.Timeline) != 1 {
			t.Errorf("application %s got %d events, want 1", id, len(app.Timeline))
		}
	}
}

func TestRouter_AliasResolvesInterview(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, extractor.NewHeuristicExtractor())
	seedApplication(t, env.db, "g", "Google", model.StatusApplied, issuedAt.AddDate(0, 0, -3))

	got := env.router.Handle(context.Background(), "Interview with Alphabet on Friday at 9:30am")
	if got.Kind != jt.OutcomeInterviewAttached || got.ID != "g" {
		t.Fatalf("Kind = %s id = %s (%s), want interview_attached on g", got.Kind, got.ID, got.Reason)
	}
}

// Concurrent interview commands against one application each append exactly
// one event and never interleave.
func TestRouter_ConcurrentInterviews(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, testutil.PayloadExtractor(jt.Payload{"company": "Google", "date": "2025-11-10"}))
	seedApplication(t, env.db, "g", "Google", model.StatusApplied, issuedAt.AddDate(0, 0, -3))

	const n = 10
	var wg sync.WaitGroup
	outcomes := make([]jt.Outcome, n)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			outcomes[i] = env.router.Handle(context.Background(), "Interview with Google on Nov 10")
		}()
	}
	wg.Wait()

	for i, o := range outcomes {
		if o.Kind != jt.OutcomeInterviewAttached {
			t.Errorf("outcome %d: Kind = %s (%s)", i, o.Kind, o.Reason)
		}
	}
	app := mustGet(t, env.db, "g")
	if len(app.Timeline) != n+1 {
		t.Fatalf("Timeline has %d events, want %d", len(app.Timeline), n+1)
	}
	for i, ev := range app.Timeline {
		if ev.Sequence != int64(i+1) {
			t.Errorf("event %d has sequence %d", i, ev.Sequence)
		}
	}
}

func TestOutcome_Message(t *testing.T) {
	t.Parallel()

	tests := []struct {
		outcome jt.Outcome
		want    string
	}{
		{jt.Outcome{Kind: jt.OutcomeApplicationCreated, ID: "id-1", Company: "Google"}, "Added application at Google (id-1)"},
		{jt.Outcome{Kind: jt.OutcomeInterviewAttached, ID: "id-1", Company: "Google"}, "Recorded interview on application at Google (id-1)"},
		{jt.Outcome{Kind: jt.OutcomeFactStored, ID: "id-2"}, "Saved note id-2"},
		{jt.Outcome{Kind: jt.OutcomeFactStored, ID: "id-2", Fallback: true, Reason: `no open application matches "Stripe"`}, `Saved as a note (id-2): no open application matches "Stripe"`},
		{jt.Outcome{Kind: jt.OutcomeRejected, Reason: "missing role"}, "Not saved: missing role"},
		{jt.Outcome{Kind: jt.OutcomePassthrough}, "No command recognized"},
	}
	for _, tt := range tests {
		if got := tt.outcome.Message(); got != tt.want {
			t.Errorf("Message() = %q, want %q", got, tt.want)
		}
	}
}
