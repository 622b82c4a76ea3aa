package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/nilevalley-edu/fileshare-service/internal/cache"
	"github.com/nilevalley-edu/fileshare-service/internal/repositories"
	"github.com/nilevalley-edu/fileshare-service/internal/utils"
)

const dashboardCountsKey = "counts"

type dashboardService struct {
	repo   repositories.Repository
	cache  *cache.CacheHelper
	logger utils.Logger
}

func NewDashboardService(repo repositories.Repository, cacheHelper *cache.CacheHelper, logger utils.Logger) DashboardService {
	return &dashboardService{repo: repo, cache: cacheHelper, logger: logger}
}

// GetCounts returns the dashboard totals, served from cache when fresh.
// Cache failures fall through to the database.
func (s *dashboardService) GetCounts(ctx context.Context) (*repositories.DashboardCounts, error) {
	var cached repositories.DashboardCounts
	err := s.cache.Get(ctx, dashboardCountsKey, &cached)
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, cache.ErrCacheNotFound) && !errors.Is(err, cache.ErrCacheNotAvailable) {
		s.logger.Warn("dashboard cache read failed", "error", err)
	}

	counts, err := s.repo.Dashboard().GetCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load dashboard counts: %w", err)
	}

	if err := s.cache.Set(ctx, dashboardCountsKey, counts); err != nil && !errors.Is(err, cache.ErrCacheNotAvailable) {
		s.logger.Warn("dashboard cache write failed", "error", err)
	}

	return counts, nil
}
