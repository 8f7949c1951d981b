package repository

import (
	"context"
	"fmt"

	"github.com/adityarana14/makris-portfolio/internal/models"
)

// CreateResource сохраняет новый ресурс и возвращает его ID.
func (s *Storage) CreateResource(ctx context.Context, r models.Resource) (int, error) {
	const op = "storage.CreateResource"

	var id int
	query := `INSERT INTO resources (title, url, is_premium)
			  VALUES ($1, $2, $3)
			  RETURNING id;`
	if err := s.DB.QueryRowContext(ctx, query, r.Title, r.URL, r.IsPremium).Scan(&id); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// ListResources возвращает ресурсы с заданным признаком премиальности.
func (s *Storage) ListResources(ctx context.Context, premium bool) ([]models.Resource, error) {
	const op = "storage.ListResources"

	query := `SELECT id, title, url, is_premium
			  FROM resources
			  WHERE is_premium = $1
			  ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query, premium)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.Resource
	for rows.Next() {
		var r models.Resource
		if err = rows.Scan(&r.ID, &r.Title, &r.URL, &r.IsPremium); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, r)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
