package jt

import (
	"context"
	"time"
)

// FieldSpec describes one field an Extractor is asked to fill.
type FieldSpec struct {
	Name        string
	Required    bool
	Description string
}

// Schema is the target shape handed to an Extractor for one intent.
type Schema struct {
	Intent Intent
	Fields []FieldSpec
	// Reference is the moment the command was issued. Relative dates in the
	// utterance are resolved against it, in Reference's location.
	Reference       time.Time
	DefaultLocation string
}

// Payload is the raw, untyped output of an Extractor. It never leaves the
// ExtractionAdapter; callers only see a validated ExtractionResult.
type Payload map[string]any

// Extractor turns free text into structured fields. Implementations may be
// nondeterministic, slow or wrong, and may return partially populated payloads.
type Extractor interface {
	Extract(ctx context.Context, text string, schema Schema) (Payload, error)
	Name() string
}

var createApplicationFields = []FieldSpec{
	{Name: "company", Required: true, Description: "the employer's name"},
	{Name: "role", Required: true, Description: "the job title applied for"},
	{Name: "date", Description: "date the application was submitted, as YYYY-MM-DD"},
	{Name: "location", Description: "job location"},
	{Name: "salary_range", Description: "salary range if mentioned"},
	{Name: "notes", Description: "any other details worth keeping"},
}

var scheduleInterviewFields = []FieldSpec{
	{Name: "company", Required: true, Description: "the employer's name"},
	{Name: "date", Required: true, Description: "interview date as YYYY-MM-DD"},
	{Name: "time", Description: "interview time such as 2:00 PM"},
	{Name: "interview_type", Description: "phone screen, technical, onsite, behavioral or similar"},
	{Name: "interviewer", Description: "interviewer name if mentioned"},
}

// SchemaFor returns the extraction schema for intent, or false when the intent
// needs no extraction.
func SchemaFor(intent Intent, reference time.Time, profile Profile) (Schema, bool) {
	var fields []FieldSpec
	switch intent {
	case IntentCreateApplication:
		fields = createApplicationFields
	case IntentScheduleInterview:
		fields = scheduleInterviewFields
	default:
		return Schema{}, false
	}
	return Schema{
		Intent:          intent,
		Fields:          fields,
		Reference:       reference.In(profile.location()),
		DefaultLocation: profile.DefaultLocation,
	}, true
}
