package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"jt-go/internal/database/sqlc"
	"jt-go/internal/model"
)

func toApplication(row sqlc.Application) *model.Application {
	return &model.Application{
		ID:             row.ID,
		Company:        row.Company,
		Role:           row.Role,
		Status:         model.Status(row.Status),
		AppliedDate:    row.AppliedDate.UTC(),
		Notes:          row.Notes,
		Location:       row.Location,
		SalaryRange:    row.SalaryRange,
		JobURL:         row.JobUrl,
		JobDescription: row.JobDescription,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}
}

func toTimelineEvent(row sqlc.TimelineEvent) model.TimelineEvent {
	return model.TimelineEvent{
		ID:            row.ID,
		ApplicationID: row.ApplicationID,
		Sequence:      row.Sequence,
		OccurredAt:    row.OccurredAt,
		Status:        model.Status(row.Status),
		Note:          row.Note,
	}
}

func toFact(row sqlc.Fact) *model.Fact {
	return &model.Fact{
		ID:        row.ID,
		Text:      row.Text,
		SourceTag: row.SourceTag,
		CreatedAt: row.CreatedAt,
	}
}

func toPrepQuestion(row sqlc.PrepQuestion) (*model.PrepQuestion, error) {
	companies, err := decodeList(row.Companies)
	if err != nil {
		return nil, fmt.Errorf("decoding companies of %s: %w", row.ID, err)
	}
	tags, err := decodeList(row.Tags)
	if err != nil {
		return nil, fmt.Errorf("decoding tags of %s: %w", row.ID, err)
	}
	q := &model.PrepQuestion{
		ID:            row.ID,
		Question:      row.Question,
		Answer:        row.Answer,
		Type:          row.Type,
		Category:      row.Category,
		Difficulty:    row.Difficulty,
		Companies:     companies,
		Tags:          tags,
		PracticeCount: row.PracticeCount,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
	if row.LastPracticedAt.Valid {
		t := row.LastPracticedAt.Time
		q.LastPracticedAt = &t
	}
	return q, nil
}

func toOperation(row sqlc.Operation) *model.Operation {
	op := &model.Operation{
		ID:         row.ID,
		Operation:  row.Operation,
		Parameters: row.Parameters,
		StartedAt:  row.StartedAt,
		Status:     row.Status,
	}
	if row.FinishedAt.Valid {
		t := row.FinishedAt.Time
		op.FinishedAt = &t
	}
	return op
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

// List columns hold JSON arrays of strings.

func encodeList(list []string) (string, error) {
	if list == nil {
		list = []string{}
	}
	b, err := json.Marshal(list)
	if err != nil {
		return "", fmt.Errorf("encoding list: %w", err)
	}
	return string(b), nil
}

func decodeList(s string) ([]string, error) {
	if s == "" {
		return []string{}, nil
	}
	var list []string
	if err := json.Unmarshal([]byte(s), &list); err != nil {
		return nil, err
	}
	return list, nil
}

func toConcept(row sqlc.Concept) (*model.Concept, error) {
	tags, err := decodeList(row.Tags)
	if err != nil {
		return nil, fmt.Errorf("decoding tags of %s: %w", row.ID, err)
	}
	return &model.Concept{
		ID:          row.ID,
		Name:        row.Name,
		Category:    row.Category,
		Explanation: row.Explanation,
		Example:     row.Example,
		Tags:        tags,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}, nil
}

func toCompanyResearch(row sqlc.CompanyResearch) *model.CompanyResearch {
	return &model.CompanyResearch{
		ID:               row.ID,
		Company:          row.Company,
		Industry:         row.Industry,
		Overview:         row.Overview,
		Culture:          row.Culture,
		InterviewProcess: row.InterviewProcess,
		WhyCompany:       row.WhyCompany,
		Notes:            row.Notes,
		CreatedAt:        row.CreatedAt,
		UpdatedAt:        row.UpdatedAt,
	}
}

func toPracticeSession(row sqlc.PracticeSession) (*model.PracticeSession, error) {
	ids, err := decodeList(row.QuestionIds)
	if err != nil {
		return nil, fmt.Errorf("decoding question ids of %s: %w", row.ID, err)
	}
	return &model.PracticeSession{
		ID:              row.ID,
		SessionType:     row.SessionType,
		Date:            row.Date.UTC(),
		DurationMinutes: row.DurationMinutes,
		Company:         row.Company,
		QuestionIDs:     ids,
		Rating:          row.Rating,
		Notes:           row.Notes,
		CreatedAt:       row.CreatedAt,
	}, nil
}

func toResume(row sqlc.Resume) *model.Resume {
	return &model.Resume{
		ID:                     row.ID,
		Name:                   row.Name,
		IsMaster:               row.IsMaster,
		IsActive:               row.IsActive,
		ParentID:               row.ParentID,
		TailoredForCompany:     row.TailoredForCompany,
		TailoredForApplication: row.TailoredForApplication,
		Version:                row.Version,
		CreatedAt:              row.CreatedAt,
		UpdatedAt:              row.UpdatedAt,
	}
}

func toResumeVersion(row sqlc.ResumeVersion) *model.ResumeVersion {
	return &model.ResumeVersion{
		ResumeID:   row.ResumeID,
		Version:    row.Version,
		Content:    row.Content,
		ChangeNote: row.ChangeNote,
		CreatedAt:  row.CreatedAt,
	}
}
