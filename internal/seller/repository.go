package seller

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
)

type Repository interface {
	CreateApplication(ctx context.Context, userID int64, data json.RawMessage) (*Application, error)
	GetApplication(ctx context.Context, applicationID int64) (*Application, error)
	HasPending(ctx context.Context, userID int64) (bool, error)
	ListByStatus(ctx context.Context, status ApplicationStatus, limit, page *int32) ([]*Application, error)
	Review(ctx context.Context, applicationID, reviewerID int64, status ApplicationStatus) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const applicationColumns = `id, user_id, data, status, submitted_at, reviewed_at, reviewer_id`

func (r *repository) CreateApplication(ctx context.Context, userID int64, data json.RawMessage) (*Application, error) {
	var a Application
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO seller_applications (user_id, data, status)
		VALUES ($1, $2, $3)
		RETURNING `+applicationColumns+`
	`, userID, data, StatusPending).Scan(
		&a.ID, &a.UserID, &a.Data, &a.Status, &a.SubmittedAt, &a.ReviewedAt, &a.ReviewerID,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repository) GetApplication(ctx context.Context, applicationID int64) (*Application, error) {
	var a Application
	err := r.db.QueryRowContext(ctx, `
		SELECT `+applicationColumns+`
		FROM seller_applications
		WHERE id = $1
	`, applicationID).Scan(
		&a.ID, &a.UserID, &a.Data, &a.Status, &a.SubmittedAt, &a.ReviewedAt, &a.ReviewerID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repository) HasPending(ctx context.Context, userID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM seller_applications
			WHERE user_id = $1 AND status = $2
		)
	`, userID, StatusPending).Scan(&exists)
	return exists, err
}

func (r *repository) ListByStatus(
	ctx context.Context,
	status ApplicationStatus,
	limit, page *int32,
) ([]*Application, error) {

	finalLimit := int32(20)
	if limit != nil && *limit > 0 {
		finalLimit = *limit
	}
	finalPage := int32(1)
	if page != nil && *page > 0 {
		finalPage = *page
	}
	offset := (finalPage - 1) * finalLimit

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+applicationColumns+`
		FROM seller_applications
		WHERE status = $1
		ORDER BY submitted_at DESC
		LIMIT $2 OFFSET $3
	`, status, finalLimit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	apps := make([]*Application, 0, finalLimit)
	for rows.Next() {
		var a Application
		if err := rows.Scan(
			&a.ID, &a.UserID, &a.Data, &a.Status, &a.SubmittedAt, &a.ReviewedAt, &a.ReviewerID,
		); err != nil {
			return nil, err
		}
		apps = append(apps, &a)
	}

	return apps, rows.Err()
}

func (r *repository) Review(ctx context.Context, applicationID, reviewerID int64, status ApplicationStatus) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE seller_applications
		SET status = $1, reviewer_id = $2, reviewed_at = NOW()
		WHERE id = $3 AND status = $4
	`, status, reviewerID, applicationID, StatusPending)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrAlreadyReviewed
	}
	return nil
}
