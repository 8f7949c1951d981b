package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/adityarana14/makris-portfolio/internal/models"
)

// CreatePremiumRequest сохраняет новую заявку и возвращает её ID.
func (s *Storage) CreatePremiumRequest(ctx context.Context, req models.PremiumRequest) (int, error) {
	const op = "storage.CreatePremiumRequest"

	var id int
	query := `INSERT INTO premium_requests (user_uid, email, created_utc, status, notes)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id;`
	err := s.DB.QueryRowContext(ctx, query,
		req.UserUID, req.Email, req.CreatedUtc, req.Status, nullable(req.Notes)).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// GetPremiumRequest возвращает заявку по ID или ErrRequestNotFound.
func (s *Storage) GetPremiumRequest(ctx context.Context, id int) (*models.PremiumRequest, error) {
	const op = "storage.GetPremiumRequest"

	query := `SELECT id, user_uid, email, created_utc, status, reviewed_by, reviewed_utc, notes
			  FROM premium_requests
			  WHERE id = $1`
	req, err := scanRequest(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrRequestNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return req, nil
}

// GetLatestRequestByUser возвращает последнюю заявку пользователя
// или ErrRequestNotFound, если заявок нет.
func (s *Storage) GetLatestRequestByUser(ctx context.Context, userUID string) (*models.PremiumRequest, error) {
	const op = "storage.GetLatestRequestByUser"

	query := `SELECT id, user_uid, email, created_utc, status, reviewed_by, reviewed_utc, notes
			  FROM premium_requests
			  WHERE user_uid = $1
			  ORDER BY id DESC
			  LIMIT 1`
	req, err := scanRequest(s.DB.QueryRowContext(ctx, query, userUID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrRequestNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return req, nil
}

// ListPremiumRequests возвращает заявки с заданным статусом. Пустой статус
// означает все заявки. Сортировка: Pending, Approved, Denied; внутри
// статуса — новые раньше.
func (s *Storage) ListPremiumRequests(ctx context.Context, status string) ([]*models.PremiumRequest, error) {
	const op = "storage.ListPremiumRequests"

	query := `SELECT id, user_uid, email, created_utc, status, reviewed_by, reviewed_utc, notes
			  FROM premium_requests
			  WHERE $1 = '' OR status = $1
			  ORDER BY CASE status
			      WHEN 'Pending' THEN 0
			      WHEN 'Approved' THEN 1
			      ELSE 2
			  END, created_utc DESC`
	rows, err := s.DB.QueryContext(ctx, query, status)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.PremiumRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, req)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// MarkRequestReviewed переводит заявку в статус status, фиксируя
// рецензента и время. Заявка, уже находящаяся в этом статусе, не
// изменяется — повторное решение не перезаписывает время ревью.
// Возвращает true, если строка была изменена.
func (s *Storage) MarkRequestReviewed(ctx context.Context, id int, status, reviewedBy string, reviewedUtc time.Time) (bool, error) {
	const op = "storage.MarkRequestReviewed"

	query := `UPDATE premium_requests
			  SET status = $2, reviewed_by = $3, reviewed_utc = $4
			  WHERE id = $1 AND status <> $2`
	res, err := s.DB.ExecContext(ctx, query, id, status, reviewedBy, reviewedUtc)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return affected > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRequest(row rowScanner) (*models.PremiumRequest, error) {
	req := &models.PremiumRequest{}
	var reviewedBy, notes sql.NullString
	var reviewedUtc sql.NullTime
	if err := row.Scan(&req.ID, &req.UserUID, &req.Email, &req.CreatedUtc,
		&req.Status, &reviewedBy, &reviewedUtc, &notes); err != nil {
		return nil, err
	}
	if reviewedBy.Valid {
		req.ReviewedBy = reviewedBy.String
	}
	if reviewedUtc.Valid {
		req.ReviewedUtc = &reviewedUtc.Time
	}
	if notes.Valid {
		req.Notes = notes.String
	}
	return req, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
