package jt

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ExtractionStatus classifies a validated extraction.
type ExtractionStatus int

const (
	// ExtractionComplete means every required field is present.
	ExtractionComplete ExtractionStatus = iota
	// ExtractionPartial means the company is known but another required field is missing.
	ExtractionPartial
	// ExtractionFailed means the call failed, timed out, returned garbage or had no company.
	ExtractionFailed
)

func (s ExtractionStatus) String() string {
	switch s {
	case ExtractionComplete:
		return "complete"
	case ExtractionPartial:
		return "partial"
	default:
		return "failed"
	}
}

// Fields is the typed result of a validated extraction. Only fields that belong
// to the intent's schema are populated.
type Fields struct {
	Company string
	Role    string
	// Date is an absolute calendar date at midnight UTC. It is zero when absent.
	Date          time.Time
	Time          string // normalized to "3:04 PM" when parseable
	Location      string
	SalaryRange   string
	Notes         string
	InterviewType string
	Interviewer   string
}

// ExtractionResult is the outcome of ExtractionAdapter.Extract.
type ExtractionResult struct {
	Status  ExtractionStatus
	Fields  Fields
	Missing []string // required fields absent from a Partial result
	Reason  string   // human-readable, set for Partial and Failed
	Err     error    // ErrExtraction or ErrValidation, set for Partial and Failed
}

// ExtractionAdapter calls an Extractor with an intent-specific schema and
// validates the untyped payload into an ExtractionResult.
type ExtractionAdapter struct {
	extractor Extractor
	timeout   time.Duration
	logger    Logger
}

// NewExtractionAdapter creates an adapter. A non-positive timeout disables the deadline.
func NewExtractionAdapter(extractor Extractor, timeout time.Duration, logger Logger) *ExtractionAdapter {
	if logger == nil {
		logger = NewNopLogger()
	}
	return &ExtractionAdapter{extractor: extractor, timeout: timeout, logger: logger}
}

// Extract runs extraction for intent. issuedAt is when the command was issued and
// anchors any relative dates. It never returns an error; failures are reported
// as ExtractionFailed.
func (a *ExtractionAdapter) Extract(ctx context.Context, text string, intent Intent, issuedAt time.Time, profile Profile) ExtractionResult {
	schema, ok := SchemaFor(intent, issuedAt, profile)
	if !ok {
		return failed(ErrExtraction, "no extraction schema for intent %s", intent)
	}
	if a.extractor == nil {
		return failed(ErrExtraction, "no extractor configured")
	}

	callCtx := ctx
	if a.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	payload, err := a.call(callCtx, text, schema)
	if err != nil {
		a.logger.Warn("extraction failed", "extractor", a.extractor.Name(), "intent", intent.String(), "error", err)
		if errors.Is(err, context.DeadlineExceeded) {
			return failed(ErrExtraction, "extraction timed out after %s", a.timeout)
		}
		return failed(ErrExtraction, "could not extract details: %v", err)
	}
	if payload == nil {
		return failed(ErrExtraction, "extractor returned no data")
	}

	result := validatePayload(payload, schema, profile)
	a.logger.Debug("extraction validated", "extractor", a.extractor.Name(), "intent", intent.String(),
		"status", result.Status.String(), "missing", strings.Join(result.Missing, ","))
	return result
}

type extractReply struct {
	payload Payload
	err     error
}

// call runs the extractor but stops waiting once ctx is done, even when the
// backend ignores ctx. The abandoned call finishes in the background.
func (a *ExtractionAdapter) call(ctx context.Context, text string, schema Schema) (Payload, error) {
	done := make(chan extractReply, 1)
	go func() {
		payload, err := a.extractor.Extract(ctx, text, schema)
		done <- extractReply{payload: payload, err: err}
	}()

	select {
	case r := <-done:
		if r.err == nil && ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return r.payload, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func failed(sentinel error, format string, args ...any) ExtractionResult {
	reason := fmt.Sprintf(format, args...)
	return ExtractionResult{
		Status: ExtractionFailed,
		Reason: reason,
		Err:    fmt.Errorf("%w: %s", sentinel, reason),
	}
}

// validatePayload converts an untyped payload into typed fields and decides the status.
func validatePayload(p Payload, schema Schema, profile Profile) ExtractionResult {
	var f Fields
	f.Company = profile.CanonicalCompany(stringField(p, "company"))
	if f.Company == "" {
		return failed(ErrValidation, "could not tell which company this is about")
	}

	loc := profile.location()
	var missing []string

	for _, field := range schema.Fields {
		switch field.Name {
		case "company":
			// handled above
		case "role":
			f.Role = stringField(p, "role")
		case "date":
			raw := stringField(p, "date")
			if raw == "" {
				break
			}
			d, err := parseAbsoluteDate(raw)
			if err != nil {
				return failed(ErrValidation, "could not resolve date %q to a calendar date", raw)
			}
			f.Date = d
		case "time":
			f.Time = normalizeClock(stringField(p, "time"))
		case "location":
			f.Location = stringField(p, "location")
		case "salary_range":
			f.SalaryRange = stringField(p, "salary_range")
		case "notes":
			f.Notes = stringField(p, "notes")
		case "interview_type":
			f.InterviewType = stringField(p, "interview_type")
		case "interviewer":
			f.Interviewer = stringField(p, "interviewer")
		}
	}

	if schema.Intent == IntentCreateApplication {
		if f.Date.IsZero() {
			f.Date = CalendarDate(schema.Reference, loc)
		}
		if f.Location == "" {
			f.Location = schema.DefaultLocation
		}
	}

	for _, field := range schema.Fields {
		if field.Required && !fieldPresent(f, field.Name) {
			missing = append(missing, field.Name)
		}
	}
	if len(missing) > 0 {
		reason := "missing " + strings.Join(missing, ", ")
		return ExtractionResult{
			Status:  ExtractionPartial,
			Fields:  f,
			Missing: missing,
			Reason:  reason,
			Err:     fmt.Errorf("%w: %s", ErrValidation, reason),
		}
	}
	return ExtractionResult{Status: ExtractionComplete, Fields: f}
}

func fieldPresent(f Fields, name string) bool {
	switch name {
	case "company":
		return f.Company != ""
	case "role":
		return f.Role != ""
	case "date":
		return !f.Date.IsZero()
	}
	return true
}

// stringField reads key as a trimmed string. Numbers are formatted; null-like
// strings and any other type count as absent.
func stringField(p Payload, key string) string {
	switch v := p[key].(type) {
	case string:
		s := strings.Join(strings.Fields(v), " ")
		switch strings.ToLower(s) {
		case "null", "none", "n/a", "unknown", "not specified":
			return ""
		}
		return s
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case fmt.Stringer: // json.Number
		return strings.TrimSpace(v.String())
	default:
		return ""
	}
}

var absoluteDateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006/01/02",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
}

// parseAbsoluteDate accepts only dates that carry a year, month and day.
// Relative text such as "tomorrow" is rejected.
func parseAbsoluteDate(s string) (time.Time, error) {
	for _, layout := range absoluteDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("not an absolute date: %q", s)
}

var clockLayouts = []string{"3:04 PM", "3:04PM", "3 PM", "3PM", "15:04", "15:04:05"}

// normalizeClock renders a recognizable time of day as "3:04 PM". Unrecognized
// text is kept as given.
func normalizeClock(s string) string {
	if s == "" {
		return ""
	}
	candidate := strings.ReplaceAll(strings.ToUpper(s), ".", "")
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, candidate); err == nil {
			return t.Format("3:04 PM")
		}
	}
	return s
}
