package jt_test

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"jt-go/internal/jt"
	"jt-go/internal/model"
	"jt-go/internal/testutil"
)

func TestJTService_AddApplication(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)
	ctx := context.Background()

	app, err := env.svc.AddApplication(ctx, jt.NewApplication{
		Company: " alphabet ",
		Role:    "SRE",
		Notes:   "referred by Ana",
		Details: model.ApplicationDetails{JobURL: "https://careers.google.com/1"},
	})
	if err != nil {
		t.Fatalf("AddApplication() error = %v", err)
	}
	if app.Company != "Google" {
		t.Errorf("Company = %q, want alias canonicalized to Google", app.Company)
	}
	if !app.AppliedDate.Equal(date(2025, 11, 3)) {
		t.Errorf("AppliedDate = %v, want today", app.AppliedDate)
	}
	if app.Notes != "[2025-11-03 10:30] referred by Ana" {
		t.Errorf("Notes = %q", app.Notes)
	}
	if app.JobURL != "https://careers.google.com/1" {
		t.Errorf("JobURL = %q", app.JobURL)
	}
	if len(app.Timeline) != 1 || app.Timeline[0].Note != "Applied for SRE" {
		t.Errorf("Timeline = %+v", app.Timeline)
	}

	_, err = env.svc.AddApplication(ctx, jt.NewApplication{Company: "Google", Role: "SWE"})
	if !errors.Is(err, jt.ErrDuplicateActive) {
		t.Errorf("second AddApplication() error = %v, want ErrDuplicateActive", err)
	}

	for _, in := range []jt.NewApplication{{Company: "Stripe"}, {Role: "SWE"}} {
		if _, err := env.svc.AddApplication(ctx, in); !errors.Is(err, jt.ErrValidation) {
			t.Errorf("AddApplication(%+v) error = %v, want ErrValidation", in, err)
		}
	}
}

func TestJTService_GetApplicationByPrefix(t *testing.T) {
	t.Parallel()
	db := testutil.NewTestDatabase(t)
	svc := jt.NewJTService(db, nil, nil, nil, testProfile(), time.Second, jt.NewNopLogger(), testutil.FixedClock(), jt.UUIDGenerator{})
	ctx := context.Background()

	app, err := svc.AddApplication(ctx, jt.NewApplication{Company: "Stripe", Role: "SWE"})
	if err != nil {
		t.Fatalf("AddApplication() error = %v", err)
	}

	got, err := svc.GetApplication(ctx, app.ID[:8])
	if err != nil {
		t.Fatalf("GetApplication(prefix) error = %v", err)
	}
	if got.ID != app.ID {
		t.Errorf("GetApplication(prefix) = %s, want %s", got.ID, app.ID)
	}

	for _, id := range []string{"abc", "ffffffff-not-there"} {
		if _, err := svc.GetApplication(ctx, id); !jt.IsNotFound(err) {
			t.Errorf("GetApplication(%q) error = %v, want not found", id, err)
		}
	}
}

func TestJTService_UpdateStatusAndNotes(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)
	ctx := context.Background()
	seedApplication(t, env.db, "app-1", "Stripe", model.StatusInterview, issuedAt.AddDate(0, 0, -5))

	// Manual status changes may move backwards.
	app, err := env.svc.UpdateStatus(ctx, "app-1", model.StatusScreening, "")
	if err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}
	if app.Status != model.StatusScreening {
		t.Errorf("Status = %s, want screening", app.Status)
	}
	full := mustGet(t, env.db, "app-1")
	if n := len(full.Timeline); n != 2 || full.Timeline[1].Note != "Status changed to screening" {
		t.Errorf("Timeline = %+v", full.Timeline)
	}

	env.clock.Advance(90 * time.Minute)
	if err := env.svc.AddNote(ctx, "app-1", "sent thank-you email"); err != nil {
		t.Fatalf("AddNote() error = %v", err)
	}
	if err := env.svc.AddNote(ctx, "app-1", "asked about team"); err != nil {
		t.Fatalf("AddNote() error = %v", err)
	}
	full = mustGet(t, env.db, "app-1")
	want := "[2025-11-03 12:00] sent thank-you email\n[2025-11-03 12:00] asked about team"
	if full.Notes != want {
		t.Errorf("Notes = %q, want %q", full.Notes, want)
	}
	if len(full.Timeline) != 2 {
		t.Errorf("AddNote changed the timeline: %d events", len(full.Timeline))
	}

	if err := env.svc.AddNote(ctx, "app-1", "  "); !errors.Is(err, jt.ErrValidation) {
		t.Errorf("AddNote(empty) error = %v, want ErrValidation", err)
	}
	if _, err := env.svc.UpdateStatus(ctx, "missing", model.StatusOffer, ""); !jt.IsNotFound(err) {
		t.Errorf("UpdateStatus(missing) error = %v, want not found", err)
	}
}

func TestJTService_EditAndDelete(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)
	ctx := context.Background()
	seedApplication(t, env.db, "app-1", "Stripe", model.StatusApplied, issuedAt)

	if err := env.svc.EditApplication(ctx, "app-1", model.ApplicationDetails{Location: "Dublin", SalaryRange: "€100k"}); err != nil {
		t.Fatalf("EditApplication() error = %v", err)
	}
	if err := env.svc.EditApplication(ctx, "app-1", model.ApplicationDetails{JobURL: "https://stripe.com/jobs/1"}); err != nil {
		t.Fatalf("EditApplication() error = %v", err)
	}
	app := mustGet(t, env.db, "app-1")
	if app.Location != "Dublin" || app.SalaryRange != "€100k" || app.JobURL != "https://stripe.com/jobs/1" {
		t.Errorf("details = %q %q %q", app.Location, app.SalaryRange, app.JobURL)
	}

	if err := env.svc.DeleteApplication(ctx, "app-1"); err != nil {
		t.Fatalf("DeleteApplication() error = %v", err)
	}
	if _, err := env.svc.GetApplication(ctx, "app-1"); !jt.IsNotFound(err) {
		t.Errorf("GetApplication after delete error = %v, want not found", err)
	}
	if err := env.svc.DeleteApplication(ctx, "app-1"); !jt.IsNotFound(err) {
		t.Errorf("second DeleteApplication() error = %v, want not found", err)
	}
}

func TestJTService_SearchApplications(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)
	ctx := context.Background()

	for _, in := range []jt.NewApplication{
		{Company: "Stripe", Role: "Backend Engineer", Details: model.ApplicationDetails{Location: "Dublin"}},
		{Company: "Google", Role: "ML Engineer", Notes: "team works on Kubernetes"},
		{Company: "Figma", Role: "Designer"},
	} {
		if _, err := env.svc.AddApplication(ctx, in); err != nil {
			t.Fatalf("AddApplication() error = %v", err)
		}
	}

	tests := []struct {
		query string
		want  []string
	}{
		{"engineer", []string{"Google", "Stripe"}},
		{"dublin", []string{"Stripe"}},
		{"KUBERNETES", []string{"Google"}},
		{"rust", nil},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, err := env.svc.SearchApplications(ctx, tt.query)
			if err != nil {
				t.Fatalf("SearchApplications() error = %v", err)
			}
			companies := map[string]bool{}
			for _, a := range got {
				companies[a.Company] = true
			}
			if len(companies) != len(tt.want) {
				t.Fatalf("SearchApplications(%q) = %v, want %v", tt.query, companies, tt.want)
			}
			for _, c := range tt.want {
				if !companies[c] {
					t.Errorf("SearchApplications(%q) missing %s", tt.query, c)
				}
			}
		})
	}

	if _, err := env.svc.SearchApplications(ctx, " "); !errors.Is(err, jt.ErrValidation) {
		t.Errorf("SearchApplications(empty) error = %v, want ErrValidation", err)
	}
}

func TestJTService_GetStats(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)
	ctx := context.Background()

	empty, err := env.svc.GetStats(ctx)
	if err != nil {
		t.Fatalf("GetStats() error = %v", err)
	}
	if empty.Total != 0 || empty.ResponseRate != 0 || empty.AvgDaysToResponse != 0 {
		t.Errorf("empty stats = %+v", empty)
	}

	applied := issuedAt.AddDate(0, 0, -10)
	seedApplication(t, env.db, "a", "Google", model.StatusApplied, applied)
	seedApplication(t, env.db, "b", "Google", model.StatusApplied, applied)
	seedApplication(t, env.db, "c", "Stripe", model.StatusApplied, applied)
	seedApplication(t, env.db, "d", "Figma", model.StatusWithdrawn, applied)

	move := func(id string, status model.Status, daysLater int) {
		t.Helper()
		if _, err := env.db.UpdateApplication(ctx, id, jt.Mutation{
			Mode: jt.StatusSet, Status: status, EventNote: "moved", At: applied.AddDate(0, 0, daysLater),
		}); err != nil {
			t.Fatalf("UpdateApplication(%s) error = %v", id, err)
		}
	}
	move("b", model.StatusScreening, 2)
	move("b", model.StatusInterview, 5)
	move("c", model.StatusRejected, 6)

	st, err := env.svc.GetStats(ctx)
	if err != nil {
		t.Fatalf("GetStats() error = %v", err)
	}
	if st.Total != 4 || st.Active != 2 {
		t.Errorf("Total/Active = %d/%d, want 4/2", st.Total, st.Active)
	}
	wantBy := map[model.Status]int{model.StatusApplied: 1, model.StatusInterview: 1, model.StatusRejected: 1, model.StatusWithdrawn: 1}
	for s, n := range wantBy {
		if st.ByStatus[s] != n {
			t.Errorf("ByStatus[%s] = %d, want %d", s, st.ByStatus[s], n)
		}
	}
	if st.ResponseRate != 0.5 {
		t.Errorf("ResponseRate = %v, want 0.5", st.ResponseRate)
	}
	// b responded after 2 days, c after 6.
	if math.Abs(st.AvgDaysToResponse-4) > 1e-9 {
		t.Errorf("AvgDaysToResponse = %v, want 4", st.AvgDaysToResponse)
	}
	if len(st.TopCompanies) != 3 || st.TopCompanies[0] != (jt.CompanyCount{Company: "Google", Count: 2}) {
		t.Errorf("TopCompanies = %+v", st.TopCompanies)
	}
}

func TestJTService_Facts(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)
	ctx := context.Background()

	texts := []string{
		"Google uses Kubernetes and Go",
		"Stripe interviews include a bug squash round",
		"Recruiter at Google is Dana",
	}
	for _, text := range texts {
		if _, err := env.svc.AddFact(ctx, text, ""); err != nil {
			t.Fatalf("AddFact() error = %v", err)
		}
		env.clock.Advance(time.Minute)
	}
	if _, err := env.svc.AddFact(ctx, "salary band is L5", "comp"); err != nil {
		t.Fatalf("AddFact() error = %v", err)
	}
	if _, err := env.svc.AddFact(ctx, "   ", ""); !errors.Is(err, jt.ErrValidation) {
		t.Errorf("AddFact(empty) error = %v, want ErrValidation", err)
	}

	manual, err := env.svc.ListFacts(ctx, jt.SourceManual, 0)
	if err != nil {
		t.Fatalf("ListFacts() error = %v", err)
	}
	if len(manual) != 3 || manual[0].Text != texts[2] {
		t.Errorf("ListFacts(manual) = %d facts, newest %q", len(manual), manual[0].Text)
	}
	limited, err := env.svc.ListFacts(ctx, "", 2)
	if err != nil || len(limited) != 2 {
		t.Errorf("ListFacts(limit 2) = %d, %v", len(limited), err)
	}

	hits, err := env.svc.SearchFacts(ctx, "google kubernetes", 10)
	if err != nil {
		t.Fatalf("SearchFacts() error = %v", err)
	}
	if len(hits) == 0 || hits[0].Text != texts[0] {
		t.Errorf("SearchFacts() best hit = %v, want %q", hits, texts[0])
	}
	for _, h := range hits {
		if strings.Contains(h.Text, "Stripe") {
			t.Errorf("SearchFacts() returned unrelated fact %q", h.Text)
		}
	}
}

func TestJTService_History(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)
	ctx := context.Background()

	for _, op := range []string{"app add", "say", "fact add"} {
		rec, err := env.db.CreateOperation(ctx, op, "[]")
		if err != nil {
			t.Fatalf("CreateOperation() error = %v", err)
		}
		if err := env.db.FinishOperation(ctx, rec.ID, "success"); err != nil {
			t.Fatalf("FinishOperation() error = %v", err)
		}
	}

	ops, err := env.svc.GetHistory(ctx, 2)
	if err != nil {
		t.Fatalf("GetHistory() error = %v", err)
	}
	if len(ops) != 2 || ops[0].Operation != "fact add" || ops[1].Operation != "say" {
		t.Errorf("GetHistory() = %+v, want newest two", ops)
	}
}
