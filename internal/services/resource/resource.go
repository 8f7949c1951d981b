// Package services содержит бизнес-логику выдачи ресурсов портфолио
// с кэшированием списков.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/adityarana14/makris-portfolio/internal/lib/sl"
	"github.com/adityarana14/makris-portfolio/internal/models"
)

// Ключи кэша списков ресурсов.
const (
	cacheKeyPublic  = "resources:public"
	cacheKeyPremium = "resources:premium"
)

const cacheTTL = time.Hour

// ResourceRepository определяет методы для работы с ресурсами в хранилище.
type ResourceRepository interface {
	// ListResources возвращает ресурсы с заданным признаком премиальности.
	ListResources(ctx context.Context, premium bool) ([]models.Resource, error)
	// CreateResource добавляет новый ресурс и возвращает его ID.
	CreateResource(ctx context.Context, r models.Resource) (int, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кэша по ключу.
	Get(ctx context.Context, key string, result any) (bool, error)
	// Set сохраняет значение в кэш с временем жизни.
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кэша по ключу.
	Invalidate(ctx context.Context, key string) error
}

// ResourceService реализует выдачу и создание ресурсов с кэшированием.
type ResourceService struct {
	repo  ResourceRepository
	cache Cache
	log   *slog.Logger
}

// NewResourceService создает новый экземпляр ResourceService.
func NewResourceService(repo ResourceRepository, cache Cache, log *slog.Logger) *ResourceService {
	return &ResourceService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// ListPublic возвращает публичные ресурсы.
func (s *ResourceService) ListPublic(ctx context.Context) ([]models.Resource, error) {
	return s.list(ctx, cacheKeyPublic, false)
}

// ListPremium возвращает премиум-ресурсы.
func (s *ResourceService) ListPremium(ctx context.Context) ([]models.Resource, error) {
	return s.list(ctx, cacheKeyPremium, true)
}

// Create добавляет новый ресурс и инвалидирует кэш списков.
func (s *ResourceService) Create(ctx context.Context, r models.Resource) (models.Resource, error) {
	id, err := s.repo.CreateResource(ctx, r)
	if err != nil {
		return models.Resource{}, err
	}
	r.ID = id
	s.log.Info("created new resource", slog.Int("id", id), slog.Bool("is_premium", r.IsPremium))

	key := cacheKeyPublic
	if r.IsPremium {
		key = cacheKeyPremium
	}
	if err := s.cache.Invalidate(ctx, key); err != nil {
		s.log.Warn("failed to invalidate resource cache", slog.String("key", key), sl.Err(err))
	}
	return r, nil
}

func (s *ResourceService) list(ctx context.Context, key string, premium bool) ([]models.Resource, error) {
	var cached []models.Resource
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		s.log.Warn("resource cache read failed", slog.String("key", key), sl.Err(err))
	}
	if found {
		return cached, nil
	}

	result, err := s.repo.ListResources(ctx, premium)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, key, result, cacheTTL); err != nil {
		s.log.Warn("failed to cache resources", slog.String("key", key), sl.Err(err))
	}
	return result, nil
}
