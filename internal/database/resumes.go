package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"jt-go/internal/database/sqlc"
	"jt-go/internal/jt"
	"jt-go/internal/model"
)

func (s *SQLiteDatabase) CreateResume(ctx context.Context, r *model.Resume, changeNote string) error {
	if r.ID == "" {
		return fmt.Errorf("resume id is required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := s.queries.WithTx(tx)
	if r.IsActive {
		if err := qtx.ClearActiveResumes(ctx); err != nil {
			return fmt.Errorf("deactivating resumes: %w", err)
		}
	}
	err = qtx.InsertResume(ctx, sqlc.InsertResumeParams{
		ID:                     r.ID,
		Name:                   r.Name,
		IsMaster:               r.IsMaster,
		IsActive:               r.IsActive,
		ParentID:               r.ParentID,
		TailoredForCompany:     r.TailoredForCompany,
		TailoredForApplication: r.TailoredForApplication,
		Version:                1,
		CreatedAt:              r.CreatedAt.UTC(),
		UpdatedAt:              r.UpdatedAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("inserting resume: %w", err)
	}
	err = qtx.InsertResumeVersion(ctx, sqlc.InsertResumeVersionParams{
		ResumeID:   r.ID,
		Version:    1,
		Content:    r.Content,
		ChangeNote: changeNote,
		CreatedAt:  r.CreatedAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("inserting resume version: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	r.Version = 1
	return nil
}

func (s *SQLiteDatabase) GetResume(ctx context.Context, id string) (*model.Resume, error) {
	row, err := s.queries.GetResume(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("getting resume: %w", err)
	}
	v, err := s.queries.GetResumeVersion(ctx, sqlc.GetResumeVersionParams{ResumeID: id, Version: row.Version})
	if err != nil {
		return nil, fmt.Errorf("getting resume version %d: %w", row.Version, err)
	}
	r := toResume(row)
	r.Content = v.Content
	return r, nil
}

func (s *SQLiteDatabase) ListResumes(ctx context.Context) ([]*model.Resume, error) {
	rows, err := s.queries.ListResumes(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing resumes: %w", err)
	}
	out := make([]*model.Resume, 0, len(rows))
	for _, row := range rows {
		out = append(out, toResume(row))
	}
	return out, nil
}

func (s *SQLiteDatabase) AddResumeVersion(ctx context.Context, id, content, changeNote string, at time.Time) (*model.ResumeVersion, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := s.queries.WithTx(tx)
	row, err := qtx.GetResume(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("resume %s: %w", id, jt.ErrNotFound)
		}
		return nil, fmt.Errorf("getting resume: %w", err)
	}

	v := sqlc.InsertResumeVersionParams{
		ResumeID:   id,
		Version:    row.Version + 1,
		Content:    content,
		ChangeNote: changeNote,
		CreatedAt:  at.UTC(),
	}
	if err := qtx.InsertResumeVersion(ctx, v); err != nil {
		return nil, fmt.Errorf("inserting resume version: %w", err)
	}
	if _, err := qtx.SetResumeVersion(ctx, sqlc.SetResumeVersionParams{Version: v.Version, UpdatedAt: at.UTC(), ID: id}); err != nil {
		return nil, fmt.Errorf("updating resume version: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}
	return &model.ResumeVersion{
		ResumeID:   id,
		Version:    v.Version,
		Content:    content,
		ChangeNote: changeNote,
		CreatedAt:  v.CreatedAt,
	}, nil
}

func (s *SQLiteDatabase) ListResumeVersions(ctx context.Context, id string) ([]*model.ResumeVersion, error) {
	rows, err := s.queries.ListResumeVersions(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("listing resume versions: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("resume %s: %w", id, jt.ErrNotFound)
	}
	out := make([]*model.ResumeVersion, 0, len(rows))
	for _, row := range rows {
		out = append(out, toResumeVersion(row))
	}
	return out, nil
}

func (s *SQLiteDatabase) SetActiveResume(ctx context.Context, id string, at time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := s.queries.WithTx(tx)
	if err := qtx.ClearActiveResumes(ctx); err != nil {
		return fmt.Errorf("deactivating resumes: %w", err)
	}
	n, err := qtx.ActivateResume(ctx, sqlc.ActivateResumeParams{UpdatedAt: at.UTC(), ID: id})
	if err != nil {
		return fmt.Errorf("activating resume: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("resume %s: %w", id, jt.ErrNotFound)
	}
	return tx.Commit()
}

func (s *SQLiteDatabase) DeleteResume(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := s.queries.WithTx(tx)
	children, err := qtx.CountTailoredResumes(ctx, id)
	if err != nil {
		return fmt.Errorf("counting tailored resumes: %w", err)
	}
	if children > 0 {
		return fmt.Errorf("resume %s: %w (%d)", id, jt.ErrResumeHasTailored, children)
	}
	n, err := qtx.DeleteResume(ctx, id)
	if err != nil {
		return fmt.Errorf("deleting resume: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("resume %s: %w", id, jt.ErrNotFound)
	}
	return tx.Commit()
}
