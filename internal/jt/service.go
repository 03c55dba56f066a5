package jt

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"jt-go/internal/model"
)

// JTService is the orchestration layer behind the CLI and HTTP API. It owns the
// manual record operations and delegates free-text commands to the Router.
type JTService struct {
	database  Database
	router    *Router
	vault     Vault
	encryptor Encryptor
	profile   Profile
	logger    Logger
	clock     Clock
	idgen     IDGenerator
}

// NewJTService creates a new JTService with the provided dependencies.
// vault and encryptor may be nil when snapshots are not configured.
func NewJTService(database Database, extractor Extractor, vault Vault, encryptor Encryptor, profile Profile, extractTimeout time.Duration, logger Logger, clock Clock, idgen IDGenerator) *JTService {
	adapter := NewExtractionAdapter(extractor, extractTimeout, logger)
	return &JTService{
		database:  database,
		router:    NewRouter(database, database, adapter, profile, clock, idgen, logger),
		vault:     vault,
		encryptor: encryptor,
		profile:   profile,
		logger:    logger,
		clock:     clock,
		idgen:     idgen,
	}
}

// Handle routes one free-text command.
func (s *JTService) Handle(ctx context.Context, text string) Outcome {
	return s.router.Handle(ctx, text)
}

// NewApplication is the input to AddApplication.
type NewApplication struct {
	Company     string
	Role        string
	AppliedDate time.Time // zero means today in the profile's time zone
	Notes       string
	Details     model.ApplicationDetails
}

// AddApplication creates an application from explicit fields. Like the command
// path it refuses to create a second active application at the same company.
func (s *JTService) AddApplication(ctx context.Context, in NewApplication) (*model.Application, error) {
	company := s.profile.CanonicalCompany(in.Company)
	role := strings.TrimSpace(in.Role)
	if company == "" || role == "" {
		return nil, fmt.Errorf("%w: company and role are required", ErrValidation)
	}

	now := s.clock.Now()
	applied := in.AppliedDate
	if applied.IsZero() {
		applied = CalendarDate(now, s.profile.location())
	} else {
		applied = CalendarDate(applied, time.UTC)
	}
	location := in.Details.Location
	if location == "" {
		location = s.profile.DefaultLocation
	}

	app := &model.Application{
		ID:             s.idgen.New(),
		Company:        company,
		Role:           role,
		Status:         model.StatusApplied,
		AppliedDate:    applied,
		Location:       location,
		SalaryRange:    in.Details.SalaryRange,
		JobURL:         in.Details.JobURL,
		JobDescription: in.Details.JobDescription,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if strings.TrimSpace(in.Notes) != "" {
		app.Notes = FormatNoteLine(now, s.profile.location(), in.Notes)
	}
	initial := model.TimelineEvent{OccurredAt: now, Status: model.StatusApplied, Note: "Applied for " + role}
	existing, err := s.database.CreateApplicationUnlessActive(ctx, app, initial, SameCompany(company))
	if err != nil {
		return nil, fmt.Errorf("creating application: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: already have an active application at %s (%s)", ErrDuplicateActive, existing.Company, existing.ID)
	}

	s.logger.Info("application added", "id", app.ID, "company", app.Company)
	return s.GetApplication(ctx, app.ID)
}

// GetApplication returns an application with its timeline. A unique ID prefix
// of at least four characters is accepted.
func (s *JTService) GetApplication(ctx context.Context, id string) (*model.Application, error) {
	fullID, err := s.resolveID(ctx, id)
	if err != nil {
		return nil, err
	}
	app, err := s.database.GetApplication(ctx, fullID)
	if err != nil {
		return nil, fmt.Errorf("getting application: %w", err)
	}
	if app == nil {
		return nil, fmt.Errorf("%w: %s", ErrApplicationNotFound, id)
	}
	return app, nil
}

// ListApplications returns applications matching filter.
func (s *JTService) ListApplications(ctx context.Context, filter ApplicationFilter) ([]*model.Application, error) {
	apps, err := s.database.ListApplications(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing applications: %w", err)
	}
	return apps, nil
}

// UpdateStatus moves an application to status unconditionally and records the
// change with note on the timeline.
func (s *JTService) UpdateStatus(ctx context.Context, id string, status model.Status, note string) (*model.Application, error) {
	fullID, err := s.resolveID(ctx, id)
	if err != nil {
		return nil, err
	}
	if note == "" {
		note = "Status changed to " + string(status)
	}
	app, err := s.database.UpdateApplication(ctx, fullID, Mutation{
		Mode:      StatusSet,
		Status:    status,
		EventNote: note,
		At:        s.clock.Now(),
	})
	if err != nil {
		return nil, fmt.Errorf("updating status: %w", err)
	}
	s.logger.Info("status updated", "id", fullID, "status", string(status))
	return app, nil
}

// AddNote appends a timestamped line to an application's notes.
func (s *JTService) AddNote(ctx context.Context, id string, text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%w: note is empty", ErrValidation)
	}
	fullID, err := s.resolveID(ctx, id)
	if err != nil {
		return err
	}
	now := s.clock.Now()
	if err := s.database.AppendApplicationNotes(ctx, fullID, FormatNoteLine(now, s.profile.location(), text), now); err != nil {
		return fmt.Errorf("adding note: %w", err)
	}
	return nil
}

// EditApplication overwrites the non-empty optional fields of an application.
func (s *JTService) EditApplication(ctx context.Context, id string, details model.ApplicationDetails) error {
	fullID, err := s.resolveID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.database.UpdateApplicationDetails(ctx, fullID, details, s.clock.Now()); err != nil {
		return fmt.Errorf("editing application: %w", err)
	}
	return nil
}

// DeleteApplication removes an application and its timeline.
func (s *JTService) DeleteApplication(ctx context.Context, id string) error {
	fullID, err := s.resolveID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.database.DeleteApplication(ctx, fullID); err != nil {
		return fmt.Errorf("deleting application: %w", err)
	}
	s.logger.Info("application deleted", "id", fullID)
	return nil
}

// SearchApplications returns applications whose company, role, notes or location
// contain query, case-insensitively.
func (s *JTService) SearchApplications(ctx context.Context, query string) ([]*model.Application, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil, fmt.Errorf("%w: search query is empty", ErrValidation)
	}
	apps, err := s.database.ListApplications(ctx, ApplicationFilter{SortBy: "updated_at", Desc: true})
	if err != nil {
		return nil, fmt.Errorf("listing applications: %w", err)
	}
	var out []*model.Application
	for _, app := range apps {
		haystack := strings.ToLower(strings.Join([]string{app.Company, app.Role, app.Notes, app.Location}, "\n"))
		if strings.Contains(haystack, q) {
			out = append(out, app)
		}
	}
	return out, nil
}

// Stats summarizes the application pipeline.
type Stats struct {
	Total    int
	Active   int
	ByStatus map[model.Status]int
	// ResponseRate is the share of applications that got past "applied",
	// counting rejections. It is 0 when there are no applications.
	ResponseRate float64
	// AvgDaysToResponse is the mean number of days between the applied date and
	// the first timeline event that moved an application past "applied".
	AvgDaysToResponse float64
	// TopCompanies lists companies with the most applications, at most five.
	TopCompanies []CompanyCount
}

// CompanyCount is one row of Stats.TopCompanies.
type CompanyCount struct {
	Company string
	Count   int
}

// GetStats computes pipeline statistics over every application.
func (s *JTService) GetStats(ctx context.Context) (*Stats, error) {
	apps, err := s.database.ListApplications(ctx, ApplicationFilter{})
	if err != nil {
		return nil, fmt.Errorf("listing applications: %w", err)
	}

	st := &Stats{Total: len(apps), ByStatus: make(map[model.Status]int)}
	companies := make(map[string]*CompanyCount)
	responded := 0
	var responseDays []float64
	for _, app := range apps {
		st.ByStatus[app.Status]++
		if app.Status.IsActive() {
			st.Active++
		}
		if app.Status != model.StatusApplied && app.Status != model.StatusWithdrawn {
			responded++
			days, ok, err := s.daysToResponse(ctx, app)
			if err != nil {
				return nil, err
			}
			if ok {
				responseDays = append(responseDays, days)
			}
		}
		key := normalizeCompany(app.Company)
		if cc, ok := companies[key]; ok {
			cc.Count++
		} else {
			companies[key] = &CompanyCount{Company: app.Company, Count: 1}
		}
	}
	if st.Total > 0 {
		st.ResponseRate = float64(responded) / float64(st.Total)
	}
	if len(responseDays) > 0 {
		var sum float64
		for _, d := range responseDays {
			sum += d
		}
		st.AvgDaysToResponse = sum / float64(len(responseDays))
	}

	for _, cc := range companies {
		st.TopCompanies = append(st.TopCompanies, *cc)
	}
	sort.Slice(st.TopCompanies, func(i, j int) bool {
		if st.TopCompanies[i].Count != st.TopCompanies[j].Count {
			return st.TopCompanies[i].Count > st.TopCompanies[j].Count
		}
		return st.TopCompanies[i].Company < st.TopCompanies[j].Company
	})
	if len(st.TopCompanies) > 5 {
		st.TopCompanies = st.TopCompanies[:5]
	}
	return st, nil
}

// daysToResponse loads the timeline of app and measures the days from its
// applied date to the first event that left "applied".
func (s *JTService) daysToResponse(ctx context.Context, app *model.Application) (float64, bool, error) {
	full, err := s.database.GetApplication(ctx, app.ID)
	if err != nil {
		return 0, false, fmt.Errorf("getting application: %w", err)
	}
	if full == nil {
		return 0, false, nil
	}
	for _, ev := range full.Timeline {
		if ev.Status == model.StatusApplied {
			continue
		}
		responded := CalendarDate(ev.OccurredAt, s.profile.location())
		days := responded.Sub(app.AppliedDate).Hours() / 24
		if days < 0 {
			days = 0
		}
		return days, true, nil
	}
	return 0, false, nil
}

// GetHistory returns the most recent journaled operations, newest first.
func (s *JTService) GetHistory(ctx context.Context, limit int) ([]*model.Operation, error) {
	ops, err := s.database.ListOperations(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("listing operations: %w", err)
	}
	return ops, nil
}

// minIDPrefix is the shortest ID prefix resolveID accepts.
const minIDPrefix = 4

// resolveID expands a unique ID prefix to a full application ID.
func (s *JTService) resolveID(ctx context.Context, id string) (string, error) {
	id = strings.TrimSpace(id)
	app, err := s.database.GetApplication(ctx, id)
	if err != nil {
		return "", fmt.Errorf("getting application: %w", err)
	}
	if app != nil {
		return app.ID, nil
	}
	if len(id) < minIDPrefix {
		return "", fmt.Errorf("%w: %s", ErrApplicationNotFound, id)
	}

	apps, err := s.database.ListApplications(ctx, ApplicationFilter{})
	if err != nil {
		return "", fmt.Errorf("listing applications: %w", err)
	}
	var match string
	for _, a := range apps {
		if strings.HasPrefix(a.ID, id) {
			if match != "" {
				return "", fmt.Errorf("application id prefix %q is ambiguous", id)
			}
			match = a.ID
		}
	}
	if match == "" {
		return "", fmt.Errorf("%w: %s", ErrApplicationNotFound, id)
	}
	return match, nil
}

// IsNotFound reports whether err means the requested record does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrApplicationNotFound) || errors.Is(err, ErrNotFound)
}
