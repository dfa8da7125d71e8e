package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dubd59/Digital-Creator-Pro-OS/internal/models"
)

// CreateTemplate inserts a template definition together with its first
// version in one transaction.
func (s *Storage) CreateTemplate(ctx context.Context, tmpl models.Template, content string) (*models.Template, error) {
	const op = "storage.CreateTemplate"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := tx.QueryRowContext(ctx,
		`INSERT INTO templates (user_id, title, description, is_public)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		tmpl.UserID, tmpl.Title, tmpl.Description, tmpl.IsPublic).
		Scan(&tmpl.ID, &tmpl.CreatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var version models.TemplateVersion
	version.TemplateID = tmpl.ID
	version.VersionNumber = 1
	version.Content = content
	if err := tx.QueryRowContext(ctx,
		`INSERT INTO template_versions (template_id, version_number, content)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		version.TemplateID, version.VersionNumber, version.Content).
		Scan(&version.ID, &version.CreatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	tmpl.Versions = []models.TemplateVersion{version}
	return &tmpl, nil
}

// ListTemplates returns the user's templates, each with only its latest
// version attached.
func (s *Storage) ListTemplates(ctx context.Context, userID int64) ([]*models.Template, error) {
	const op = "storage.ListTemplates"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT t.id, t.user_id, t.title, t.description, t.is_public,
			      t.created_at, t.updated_at,
			      v.id, v.version_number, v.content, v.created_at
			  FROM templates t
			  JOIN LATERAL (
			      SELECT id, version_number, content, created_at
			      FROM template_versions
			      WHERE template_id = t.id
			      ORDER BY version_number DESC
			      LIMIT 1
			  ) v ON true
			  WHERE t.user_id = $1
			  ORDER BY t.created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Template
	for rows.Next() {
		var t models.Template
		var v models.TemplateVersion
		var updatedAt sql.NullTime
		if err := rows.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.IsPublic,
			&t.CreatedAt, &updatedAt,
			&v.ID, &v.VersionNumber, &v.Content, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if updatedAt.Valid {
			t.UpdatedAt = &updatedAt.Time
		}
		v.TemplateID = t.ID
		t.Versions = []models.TemplateVersion{v}
		result = append(result, &t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// GetTemplateForUser returns a template with all its versions, newest
// first, scoped to its owner. Someone else's template yields ErrNotFound.
func (s *Storage) GetTemplateForUser(ctx context.Context, id, userID int64) (*models.Template, error) {
	const op = "storage.GetTemplateForUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var t models.Template
	var updatedAt sql.NullTime
	err := s.DB.QueryRowContext(ctx,
		`SELECT id, user_id, title, description, is_public, created_at, updated_at
		 FROM templates
		 WHERE id = $1 AND user_id = $2`, id, userID).
		Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.IsPublic, &t.CreatedAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if updatedAt.Valid {
		t.UpdatedAt = &updatedAt.Time
	}

	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, template_id, version_number, content, created_at
		 FROM template_versions
		 WHERE template_id = $1
		 ORDER BY version_number DESC`, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	for rows.Next() {
		var v models.TemplateVersion
		if err := rows.Scan(&v.ID, &v.TemplateID, &v.VersionNumber, &v.Content, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		t.Versions = append(t.Versions, v)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &t, nil
}

// UpdateTemplate updates the definition fields and, when content is
// provided, appends a new version with the next version number.
// Returns ErrNotFound when the template does not belong to the user.
func (s *Storage) UpdateTemplate(ctx context.Context, id, userID int64, title, description string, isPublic bool, content *string) (*models.Template, error) {
	const op = "storage.UpdateTemplate"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var t models.Template
	var updatedAt sql.NullTime
	err = tx.QueryRowContext(ctx,
		`UPDATE templates
		 SET title = $1, description = $2, is_public = $3, updated_at = now()
		 WHERE id = $4 AND user_id = $5
		 RETURNING id, user_id, title, description, is_public, created_at, updated_at`,
		title, description, isPublic, id, userID).
		Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.IsPublic, &t.CreatedAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if updatedAt.Valid {
		t.UpdatedAt = &updatedAt.Time
	}

	if content != nil {
		var v models.TemplateVersion
		v.TemplateID = t.ID
		v.Content = *content
		if err := tx.QueryRowContext(ctx,
			`INSERT INTO template_versions (template_id, version_number, content)
			 SELECT $1, COALESCE(MAX(version_number), 0) + 1, $2
			 FROM template_versions
			 WHERE template_id = $1
			 RETURNING id, version_number, created_at`,
			v.TemplateID, v.Content).
			Scan(&v.ID, &v.VersionNumber, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		t.Versions = []models.TemplateVersion{v}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &t, nil
}

// RemoveTemplate deletes a template owned by the user and returns the
// number of deleted rows. Versions go with it via ON DELETE CASCADE.
func (s *Storage) RemoveTemplate(ctx context.Context, id, userID int64) (int64, error) {
	const op = "storage.RemoveTemplate"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx,
		`DELETE FROM templates WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return rowsAffected, nil
}
