package service

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/cloo-solutions/tryonadmin/internal/domain"
	"github.com/cloo-solutions/tryonadmin/internal/telemetry"
)

// BusinessPlatform is the slice of the platform API the directory needs.
type BusinessPlatform interface {
	GetAllBusinesses(ctx context.Context) ([]domain.Business, error)
	CreateBusiness(ctx context.Context, input domain.CreateBusinessInput) (*domain.Business, error)
}

// BusinessService keeps a cached copy of the business directory.
type BusinessService struct {
	platform BusinessPlatform

	mu        sync.RWMutex
	cache     []domain.Business
	fetchedAt time.Time
	loaded    bool
}

// NewBusinessService creates a new BusinessService instance
func NewBusinessService(platform BusinessPlatform) *BusinessService {
	return &BusinessService{platform: platform}
}

// List fetches the directory from the platform and replaces the cache.
// On failure the cache is left as it was.
func (s *BusinessService) List(ctx context.Context) ([]domain.Business, error) {
	ctx, span := telemetry.StartSpan(ctx, "platform.getAllBusinesses", telemetry.SpanAttributes{Operation: "list"})
	defer span.End()

	businesses, err := s.platform.GetAllBusinesses(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch businesses: %w", err)
	}

	s.mu.Lock()
	s.cache = slices.Clone(businesses)
	s.fetchedAt = time.Now()
	s.loaded = true
	s.mu.Unlock()

	return slices.Clone(businesses), nil
}

// Cached returns the last fetched directory and whether one was ever loaded.
func (s *BusinessService) Cached() ([]domain.Business, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.cache), s.loaded
}

// ListCachedOrFresh serves the cache when loaded and fetches otherwise.
func (s *BusinessService) ListCachedOrFresh(ctx context.Context) ([]domain.Business, error) {
	if cached, ok := s.Cached(); ok {
		return cached, nil
	}
	return s.List(ctx)
}

// FetchedAt reports when the cache was last refreshed.
func (s *BusinessService) FetchedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fetchedAt
}

// BusinessIDs returns the ids of the cached businesses.
func (s *BusinessService) BusinessIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.cache))
	for _, b := range s.cache {
		if b.ID != "" {
			ids = append(ids, b.ID)
		}
	}
	return ids
}

// Create validates input, registers the business and adds it to the cache.
func (s *BusinessService) Create(ctx context.Context, input domain.CreateBusinessInput) (*domain.Business, error) {
	input = input.Normalize()
	if err := domain.ValidateCreateBusinessInput(input); err != nil {
		return nil, err
	}

	ctx, span := telemetry.StartSpan(ctx, "platform.createBusiness", telemetry.SpanAttributes{Operation: "create"})
	defer span.End()

	business, err := s.platform.CreateBusiness(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to create business: %w", err)
	}

	s.mu.Lock()
	s.cache = append(s.cache, *business)
	s.mu.Unlock()

	return business, nil
}
