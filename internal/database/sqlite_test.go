package database

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"jt-go/internal/jt"
	"jt-go/internal/model"
)

// newTestDB creates a new in-memory database with schema applied.
func newTestDB(t *testing.T) *SQLiteDatabase {
	t.Helper()

	db, err := NewSQLiteDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create database: %v", err)
	}

	if _, err := db.db.Exec(Schema); err != nil {
		db.Close()
		t.Fatalf("failed to apply schema: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

var baseTime = time.Date(2025, 11, 3, 10, 30, 0, 0, time.UTC)

func newApp(id, company string, status model.Status, createdAt time.Time) *model.Application {
	return &model.Application{
		ID:          id,
		Company:     company,
		Role:        "Engineer",
		Status:      status,
		AppliedDate: time.Date(createdAt.Year(), createdAt.Month(), createdAt.Day(), 0, 0, 0, 0, time.UTC),
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
}

func mustCreate(t *testing.T, db *SQLiteDatabase, app *model.Application) {
	t.Helper()
	initial := model.TimelineEvent{OccurredAt: app.CreatedAt, Status: app.Status, Note: "created"}
	if err := db.CreateApplication(context.Background(), app, initial); err != nil {
		t.Fatalf("CreateApplication() error = %v", err)
	}
}

func TestSQLiteDatabase_GetApplication(t *testing.T) {
	ctx := context.Background()

	t.Run("returns nil when application not found", func(t *testing.T) {
		db := newTestDB(t)

		app, err := db.GetApplication(ctx, "missing")
		if err != nil {
			t.Fatalf("GetApplication() error = %v", err)
		}
		if app != nil {
			t.Errorf("GetApplication() = %v, want nil", app)
		}
	})

	t.Run("returns application with its timeline", func(t *testing.T) {
		db := newTestDB(t)
		created := newApp("app-1", "Google", model.StatusApplied, baseTime)
		created.Location = "Remote"
		mustCreate(t, db, created)

		app, err := db.GetApplication(ctx, "app-1")
		if err != nil {
			t.Fatalf("GetApplication() error = %v", err)
		}
		if app == nil {
			t.Fatal("GetApplication() returned nil, want application")
		}
		if app.Company != "Google" || app.Location != "Remote" {
			t.Errorf("got company=%q location=%q", app.Company, app.Location)
		}
		if !app.AppliedDate.Equal(created.AppliedDate) {
			t.Errorf("AppliedDate = %v, want %v", app.AppliedDate, created.AppliedDate)
		}
		if !app.CreatedAt.Equal(baseTime) {
			t.Errorf("CreatedAt = %v, want %v", app.CreatedAt, baseTime)
		}
		if len(app.Timeline) != 1 {
			t.Fatalf("len(Timeline) = %d, want 1", len(app.Timeline))
		}
		if ev := app.Timeline[0]; ev.Sequence != 1 || ev.Status != model.StatusApplied {
			t.Errorf("Timeline[0] = %+v", ev)
		}
	})
}

func TestSQLiteDatabase_CreateApplication(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects duplicate id without leaving a timeline event", func(t *testing.T) {
		db := newTestDB(t)
		mustCreate(t, db, newApp("app-1", "Google", model.StatusApplied, baseTime))

		err := db.CreateApplication(ctx, newApp("app-1", "Meta", model.StatusApplied, baseTime), model.TimelineEvent{})
		if err == nil {
			t.Fatal("CreateApplication() expected error for duplicate id")
		}

		app, _ := db.GetApplication(ctx, "app-1")
		if app.Company != "Google" {
			t.Errorf("Company = %q, want Google", app.Company)
		}
		if len(app.Timeline) != 1 {
			t.Errorf("len(Timeline) = %d, want 1", len(app.Timeline))
		}
	})

	t.Run("requires an id", func(t *testing.T) {
		db := newTestDB(t)
		if err := db.CreateApplication(ctx, newApp("", "Google", model.StatusApplied, baseTime), model.TimelineEvent{}); err == nil {
			t.Error("CreateApplication() expected error for empty id")
		}
	})
}

func TestSQLiteDatabase_CreateApplicationUnlessActive(t *testing.T) {
	ctx := context.Background()
	isGoogle := func(company string) bool { return company == "Google" }

	t.Run("returns the newest active application instead of inserting", func(t *testing.T) {
		db := newTestDB(t)
		mustCreate(t, db, newApp("old", "Google", model.StatusScreening, baseTime.Add(-48*time.Hour)))
		mustCreate(t, db, newApp("new", "Google", model.StatusApplied, baseTime.Add(-time.Hour)))

		existing, err := db.CreateApplicationUnlessActive(ctx, newApp("app-3", "Google", model.StatusApplied, baseTime), model.TimelineEvent{}, isGoogle)
		if err != nil {
			t.Fatalf("CreateApplicationUnlessActive() error = %v", err)
		}
		if existing == nil || existing.ID != "new" {
			t.Fatalf("existing = %+v, want new", existing)
		}
		if app, _ := db.GetApplication(ctx, "app-3"); app != nil {
			t.Error("application inserted despite an active duplicate")
		}
	})

	t.Run("closed applications do not block", func(t *testing.T) {
		db := newTestDB(t)
		mustCreate(t, db, newApp("old", "Google", model.StatusRejected, baseTime.Add(-48*time.Hour)))

		existing, err := db.CreateApplicationUnlessActive(ctx, newApp("app-2", "Google", model.StatusApplied, baseTime), model.TimelineEvent{Note: "Applied"}, isGoogle)
		if err != nil {
			t.Fatalf("CreateApplicationUnlessActive() error = %v", err)
		}
		if existing != nil {
			t.Fatalf("existing = %+v, want nil", existing)
		}
		app, _ := db.GetApplication(ctx, "app-2")
		if app == nil || len(app.Timeline) != 1 || app.Timeline[0].Note != "Applied" {
			t.Errorf("GetApplication() = %+v, want inserted with one event", app)
		}
	})

	t.Run("concurrent creates insert once", func(t *testing.T) {
		db, err := NewSQLiteDatabase(filepath.Join(t.TempDir(), "jt.db"))
		if err != nil {
			t.Fatalf("NewSQLiteDatabase() error = %v", err)
		}
		t.Cleanup(func() { db.Close() })
		if err := db.MigrateUp(); err != nil {
			t.Fatalf("MigrateUp() error = %v", err)
		}

		const n = 20
		var wg sync.WaitGroup
		inserted := make(chan string, n)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				id := fmt.Sprintf("app-%d", i)
				existing, err := db.CreateApplicationUnlessActive(ctx, newApp(id, "Google", model.StatusApplied, baseTime), model.TimelineEvent{}, isGoogle)
				if err != nil {
					t.Errorf("CreateApplicationUnlessActive() error = %v", err)
					return
				}
				if existing == nil {
					inserted <- id
				}
			}()
		}
		wg.Wait()
		close(inserted)

		if got := len(inserted); got != 1 {
			t.Errorf("inserted %d applications, want 1", got)
		}
		apps, err := db.ListApplications(ctx, jt.ApplicationFilter{})
		if err != nil {
			t.Fatalf("ListApplications() error = %v", err)
		}
		if len(apps) != 1 {
			t.Errorf("len(apps) = %d, want 1", len(apps))
		}
	})
}

func TestSQLiteDatabase_ListApplications(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	mustCreate(t, db, newApp("a", "Google", model.StatusApplied, baseTime))
	mustCreate(t, db, newApp("b", "Acme", model.StatusRejected, baseTime.Add(time.Hour)))
	mustCreate(t, db, newApp("c", "Google Cloud", model.StatusInterview, baseTime.Add(48*time.Hour)))
	mustCreate(t, db, newApp("d", "Zenith", model.StatusOffer, baseTime.Add(72*time.Hour)))

	tests := []struct {
		name   string
		filter jt.ApplicationFilter
		want   []string
	}{
		{"all by applied date", jt.ApplicationFilter{}, []string{"a", "b", "c", "d"}},
		{"descending", jt.ApplicationFilter{Desc: true}, []string{"d", "c", "b", "a"}},
		{"active only", jt.ApplicationFilter{ActiveOnly: true}, []string{"a", "c"}},
		{"by status", jt.ApplicationFilter{Status: model.StatusOffer}, []string{"d"}},
		{"company substring", jt.ApplicationFilter{Company: "goo"}, []string{"a", "c"}},
		{"sorted by company", jt.ApplicationFilter{SortBy: "company"}, []string{"b", "a", "c", "d"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apps, err := db.ListApplications(ctx, tt.filter)
			if err != nil {
				t.Fatalf("ListApplications() error = %v", err)
			}
			var got []string
			for _, a := range apps {
				got = append(got, a.ID)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ListApplications() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("ListApplications() = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestSQLiteDatabase_UpdateApplication(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		from       model.Status
		mode       jt.StatusMode
		to         model.Status
		wantStatus model.Status
	}{
		{"advance moves forward", model.StatusApplied, jt.StatusAdvance, model.StatusInterview, model.StatusInterview},
		{"advance never regresses offer", model.StatusOffer, jt.StatusAdvance, model.StatusInterview, model.StatusOffer},
		{"advance keeps same status", model.StatusInterview, jt.StatusAdvance, model.StatusInterview, model.StatusInterview},
		{"advance leaves rejected alone", model.StatusRejected, jt.StatusAdvance, model.StatusInterview, model.StatusRejected},
		{"set overrides", model.StatusOffer, jt.StatusSet, model.StatusRejected, model.StatusRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := newTestDB(t)
			mustCreate(t, db, newApp("app-1", "Google", tt.from, baseTime))

			at := baseTime.Add(24 * time.Hour)
			app, err := db.UpdateApplication(ctx, "app-1", jt.Mutation{
				Mode:      tt.mode,
				Status:    tt.to,
				EventNote: "event",
				At:        at,
			})
			if err != nil {
				t.Fatalf("UpdateApplication() error = %v", err)
			}
			if app.Status != tt.wantStatus {
				t.Errorf("Status = %q, want %q", app.Status, tt.wantStatus)
			}
			if len(app.Timeline) != 2 {
				t.Fatalf("len(Timeline) = %d, want exactly one appended event", len(app.Timeline))
			}
			last := app.Timeline[1]
			if last.Sequence != 2 || last.Status != tt.wantStatus || last.Note != "event" {
				t.Errorf("appended event = %+v", last)
			}
			if !app.UpdatedAt.Equal(at) {
				t.Errorf("UpdatedAt = %v, want %v", app.UpdatedAt, at)
			}
		})
	}

	t.Run("missing application", func(t *testing.T) {
		db := newTestDB(t)
		_, err := db.UpdateApplication(ctx, "nope", jt.Mutation{Status: model.StatusInterview})
		if !errors.Is(err, jt.ErrApplicationNotFound) {
			t.Errorf("UpdateApplication() error = %v, want ErrApplicationNotFound", err)
		}
	})

	t.Run("invalid status", func(t *testing.T) {
		db := newTestDB(t)
		mustCreate(t, db, newApp("app-1", "Google", model.StatusApplied, baseTime))
		if _, err := db.UpdateApplication(ctx, "app-1", jt.Mutation{Status: "ghosted"}); err == nil {
			t.Error("UpdateApplication() expected error for invalid status")
		}
	})

	t.Run("concurrent updates keep the timeline dense", func(t *testing.T) {
		db := newTestDB(t)
		mustCreate(t, db, newApp("app-1", "Google", model.StatusApplied, baseTime))

		const n = 10
		var wg sync.WaitGroup
		errs := make(chan error, n)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := db.UpdateApplication(ctx, "app-1", jt.Mutation{
					Mode:   jt.StatusAdvance,
					Status: model.StatusInterview,
					At:     baseTime,
				})
				errs <- err
			}()
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			if err != nil {
				t.Fatalf("UpdateApplication() error = %v", err)
			}
		}

		app, _ := db.GetApplication(ctx, "app-1")
		if len(app.Timeline) != n+1 {
			t.Fatalf("len(Timeline) = %d, want %d", len(app.Timeline), n+1)
		}
		for i, ev := range app.Timeline {
			if ev.Sequence != int64(i+1) {
				t.Errorf("Timeline[%d].Sequence = %d, want %d", i, ev.Sequence, i+1)
			}
		}
	})
}

func TestSQLiteDatabase_NotesAndDetails(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	mustCreate(t, db, newApp("app-1", "Google", model.StatusApplied, baseTime))

	if err := db.AppendApplicationNotes(ctx, "app-1", "first", baseTime); err != nil {
		t.Fatalf("AppendApplicationNotes() error = %v", err)
	}
	if err := db.AppendApplicationNotes(ctx, "app-1", "second", baseTime); err != nil {
		t.Fatalf("AppendApplicationNotes() error = %v", err)
	}
	if err := db.UpdateApplicationDetails(ctx, "app-1", model.ApplicationDetails{Location: "NYC"}, baseTime); err != nil {
		t.Fatalf("UpdateApplicationDetails() error = %v", err)
	}
	if err := db.UpdateApplicationDetails(ctx, "app-1", model.ApplicationDetails{JobURL: "https://example.com/job"}, baseTime); err != nil {
		t.Fatalf("UpdateApplicationDetails() error = %v", err)
	}

	app, _ := db.GetApplication(ctx, "app-1")
	if app.Notes != "first\nsecond" {
		t.Errorf("Notes = %q, want %q", app.Notes, "first\nsecond")
	}
	if app.Location != "NYC" || app.JobURL != "https://example.com/job" {
		t.Errorf("details not merged: location=%q url=%q", app.Location, app.JobURL)
	}
	if len(app.Timeline) != 1 {
		t.Errorf("notes and details must not touch the timeline, got %d events", len(app.Timeline))
	}

	if err := db.AppendApplicationNotes(ctx, "missing", "x", baseTime); !errors.Is(err, jt.ErrApplicationNotFound) {
		t.Errorf("AppendApplicationNotes() error = %v, want ErrApplicationNotFound", err)
	}
}

func TestSQLiteDatabase_DeleteApplication(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	mustCreate(t, db, newApp("app-1", "Google", model.StatusApplied, baseTime))

	if err := db.DeleteApplication(ctx, "app-1"); err != nil {
		t.Fatalf("DeleteApplication() error = %v", err)
	}
	if app, _ := db.GetApplication(ctx, "app-1"); app != nil {
		t.Error("application still present after delete")
	}
	if err := db.DeleteApplication(ctx, "app-1"); !errors.Is(err, jt.ErrApplicationNotFound) {
		t.Errorf("second DeleteApplication() error = %v, want ErrApplicationNotFound", err)
	}
}

func TestSQLiteDatabase_Facts(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	facts := []*model.Fact{
		{ID: "f1", Text: "Google uses Kubernetes", SourceTag: "command", CreatedAt: baseTime},
		{ID: "f2", Text: "Meta interviews focus on product sense", SourceTag: "manual", CreatedAt: baseTime.Add(time.Minute)},
		{ID: "f3", Text: "Recruiter at Google is Jane", SourceTag: "command", CreatedAt: baseTime.Add(2 * time.Minute)},
	}
	for _, f := range facts {
		if err := db.AppendFact(ctx, f); err != nil {
			t.Fatalf("AppendFact() error = %v", err)
		}
	}

	t.Run("list newest first", func(t *testing.T) {
		got, err := db.ListFacts(ctx, "", 0)
		if err != nil {
			t.Fatalf("ListFacts() error = %v", err)
		}
		if len(got) != 3 || got[0].ID != "f3" || got[2].ID != "f1" {
			t.Errorf("ListFacts() order wrong: %v", factIDs(got))
		}
	})

	t.Run("list by source with limit", func(t *testing.T) {
		got, err := db.ListFacts(ctx, "command", 1)
		if err != nil {
			t.Fatalf("ListFacts() error = %v", err)
		}
		if len(got) != 1 || got[0].ID != "f3" {
			t.Errorf("ListFacts(command, 1) = %v, want [f3]", factIDs(got))
		}
	})

	t.Run("search ranks by overlap", func(t *testing.T) {
		got, err := db.SearchFacts(ctx, "kubernetes at google", 10)
		if err != nil {
			t.Fatalf("SearchFacts() error = %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("SearchFacts() = %v, want two Google facts", factIDs(got))
		}
		if got[0].ID != "f1" {
			t.Errorf("best match = %s, want f1", got[0].ID)
		}
	})

	t.Run("search without overlap", func(t *testing.T) {
		got, err := db.SearchFacts(ctx, "salary negotiation", 10)
		if err != nil {
			t.Fatalf("SearchFacts() error = %v", err)
		}
		if len(got) != 0 {
			t.Errorf("SearchFacts() = %v, want none", factIDs(got))
		}
	})
}

func factIDs(facts []*model.Fact) []string {
	var ids []string
	for _, f := range facts {
		ids = append(ids, f.ID)
	}
	return ids
}

func TestSQLiteDatabase_PrepQuestions(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	q := &model.PrepQuestion{
		ID:         "q1",
		Question:   "Tell me about a conflict",
		Type:       "behavioral",
		Difficulty: "medium",
		Companies:  []string{"Google"},
		Tags:       []string{"conflict"},
		CreatedAt:  baseTime,
		UpdatedAt:  baseTime,
	}
	if err := db.CreatePrepQuestion(ctx, q); err != nil {
		t.Fatalf("CreatePrepQuestion() error = %v", err)
	}
	if err := db.CreatePrepQuestion(ctx, &model.PrepQuestion{
		ID: "q2", Question: "Design a URL shortener", Type: "system_design", Difficulty: "hard",
		CreatedAt: baseTime.Add(time.Minute), UpdatedAt: baseTime.Add(time.Minute),
	}); err != nil {
		t.Fatalf("CreatePrepQuestion() error = %v", err)
	}

	got, err := db.GetPrepQuestion(ctx, "q1")
	if err != nil || got == nil {
		t.Fatalf("GetPrepQuestion() = %v, %v", got, err)
	}
	if len(got.Companies) != 1 || got.Companies[0] != "Google" || got.LastPracticedAt != nil {
		t.Errorf("GetPrepQuestion() = %+v", got)
	}

	filtered, err := db.ListPrepQuestions(ctx, jt.PrepFilter{Company: "google"})
	if err != nil {
		t.Fatalf("ListPrepQuestions() error = %v", err)
	}
	if len(filtered) != 1 || filtered[0].ID != "q1" {
		t.Errorf("ListPrepQuestions(company=google) returned %d questions", len(filtered))
	}

	at := baseTime.Add(time.Hour)
	if err := db.MarkPrepQuestionPracticed(ctx, "q1", at); err != nil {
		t.Fatalf("MarkPrepQuestionPracticed() error = %v", err)
	}
	got, _ = db.GetPrepQuestion(ctx, "q1")
	if got.PracticeCount != 1 || got.LastPracticedAt == nil || !got.LastPracticedAt.Equal(at) {
		t.Errorf("after practice: count=%d last=%v", got.PracticeCount, got.LastPracticedAt)
	}

	if err := db.DeletePrepQuestion(ctx, "q2"); err != nil {
		t.Fatalf("DeletePrepQuestion() error = %v", err)
	}
	if err := db.DeletePrepQuestion(ctx, "q2"); err == nil {
		t.Error("DeletePrepQuestion() expected error for missing question")
	}
}

func TestSQLiteDatabase_Operations(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	max, err := db.MaxOperationID(ctx)
	if err != nil || max != 0 {
		t.Fatalf("MaxOperationID() on empty db = %d, %v", max, err)
	}

	op1, err := db.CreateOperation(ctx, "AddApplication", "Google")
	if err != nil {
		t.Fatalf("CreateOperation() error = %v", err)
	}
	op2, err := db.CreateOperation(ctx, "Command", "")
	if err != nil {
		t.Fatalf("CreateOperation() error = %v", err)
	}
	if op1.Status != "running" || op2.ID <= op1.ID {
		t.Errorf("unexpected operations: %+v %+v", op1, op2)
	}
	if err := db.FinishOperation(ctx, op1.ID, "success"); err != nil {
		t.Fatalf("FinishOperation() error = %v", err)
	}

	ops, err := db.ListOperations(ctx, 10)
	if err != nil {
		t.Fatalf("ListOperations() error = %v", err)
	}
	if len(ops) != 2 || ops[0].ID != op2.ID {
		t.Fatalf("ListOperations() should list newest first, got %d ops", len(ops))
	}
	if ops[1].Status != "success" || ops[1].FinishedAt == nil {
		t.Errorf("finished op = %+v", ops[1])
	}

	max, _ = db.MaxOperationID(ctx)
	if max != op2.ID {
		t.Errorf("MaxOperationID() = %d, want %d", max, op2.ID)
	}
}

func TestSQLiteDatabase_BackupTo(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	mustCreate(t, db, newApp("app-1", "Google", model.StatusApplied, baseTime))

	dest := filepath.Join(t.TempDir(), "backup.db")
	if err := db.BackupTo(dest); err != nil {
		t.Fatalf("BackupTo() error = %v", err)
	}

	restored, err := NewSQLiteDatabase(dest)
	if err != nil {
		t.Fatalf("opening backup: %v", err)
	}
	defer restored.Close()

	app, err := restored.GetApplication(ctx, "app-1")
	if err != nil || app == nil {
		t.Fatalf("GetApplication() on backup = %v, %v", app, err)
	}
	if app.Company != "Google" {
		t.Errorf("Company = %q, want Google", app.Company)
	}
}
