package jt_test

import (
	"context"
	"testing"
	"time"

	"jt-go/internal/jt"
	"jt-go/internal/model"
	"jt-go/internal/testutil"
)

// testEnv bundles a service and the collaborators tests poke at directly.
type testEnv struct {
	svc     *jt.JTService
	db      jt.Database
	router  *jt.Router
	clock   *testutil.StubClock
	profile jt.Profile
}

func testProfile() jt.Profile {
	return jt.NewProfile("Sam", time.UTC, "", map[string]string{"Alphabet": "Google"})
}

func newTestEnv(t *testing.T, ext jt.Extractor) *testEnv {
	t.Helper()
	db := testutil.NewTestDatabase(t)
	clock := testutil.FixedClock()
	idGen := testutil.NewStubIDGenerator()
	profile := testProfile()
	logger := jt.NewNopLogger()

	adapter := jt.NewExtractionAdapter(ext, time.Second, logger)
	return &testEnv{
		svc:     jt.NewJTService(db, ext, testutil.NewTestVault(), testutil.NewTestEncryptor(), profile, time.Second, logger, clock, idGen),
		db:      db,
		router:  jt.NewRouter(db, db, adapter, profile, clock, idGen, logger),
		clock:   clock,
		profile: profile,
	}
}

// seedApplication inserts an application directly, bypassing the duplicate guard.
func seedApplication(t *testing.T, db jt.Database, id, company string, status model.Status, created time.Time) *model.Application {
	t.Helper()
	app := &model.Application{
		ID:          id,
		Company:     company,
		Role:        "Engineer",
		Status:      status,
		AppliedDate: jt.CalendarDate(created, time.UTC),
		CreatedAt:   created,
		UpdatedAt:   created,
	}
	initial := model.TimelineEvent{OccurredAt: created, Status: status, Note: "seeded"}
	if err := db.CreateApplication(context.Background(), app, initial); err != nil {
		t.Fatalf("CreateApplication() error = %v", err)
	}
	return app
}

func mustGet(t *testing.T, db jt.Database, id string) *model.Application {
	t.Helper()
	app, err := db.GetApplication(context.Background(), id)
	if err != nil {
		t.Fatalf("GetApplication(%s) error = %v", id, err)
	}
	if app == nil {
		t.Fatalf("GetApplication(%s) = nil", id)
	}
	return app
}

func countApplications(t *testing.T, db jt.Database) int {
	t.Helper()
	apps, err := db.ListApplications(context.Background(), jt.ApplicationFilter{})
	if err != nil {
		t.Fatalf("ListApplications() error = %v", err)
	}
	return len(apps)
}

func listFacts(t *testing.T, db jt.Database) []*model.Fact {
	t.Helper()
	facts, err := db.ListFacts(context.Background(), "", 0)
	if err != nil {
		t.Fatalf("ListFacts() error = %v", err)
	}
	return facts
}
