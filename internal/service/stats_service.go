package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/addisware/procure-api/internal/dto"
	"github.com/addisware/procure-api/internal/models"
	"github.com/addisware/procure-api/internal/repository"
)

// StatsService aggregates platform counters for the admin dashboard.
type StatsService interface {
	GetStats(ctx context.Context) (dto.AdminStatsResponse, error)
}

type statsService struct {
	stats    repository.StatsRepository
	cache    *redis.Client
	cacheTTL time.Duration
	logger   zerolog.Logger
	now      func() time.Time
}

// NewStatsService constructs the stats service. The cache client may be nil;
// aggregation then runs on every request.
func NewStatsService(stats repository.StatsRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) StatsService {
	return &statsService{
		stats:    stats,
		cache:    cache,
		cacheTTL: ttl,
		logger:   logger.With().Str("component", "stats_service").Logger(),
		now:      time.Now,
	}
}

func (s *statsService) GetStats(ctx context.Context) (dto.AdminStatsResponse, error) {
	const cacheKey = "stats:admin"

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, cacheKey).Result()
		if err == nil {
			var response dto.AdminStatsResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				response.CacheHit = true
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read stats cache")
		}
	}

	active, err := s.stats.CountTenders(ctx, models.TenderStatusOpen, nil)
	if err != nil {
		return dto.AdminStatsResponse{}, err
	}
	closed, err := s.stats.CountTenders(ctx, models.TenderStatusClosed, nil)
	if err != nil {
		return dto.AdminStatsResponse{}, err
	}
	cancelled, err := s.stats.CountTenders(ctx, models.TenderStatusCancelled, nil)
	if err != nil {
		return dto.AdminStatsResponse{}, err
	}
	totalBids, err := s.stats.CountBids(ctx, nil)
	if err != nil {
		return dto.AdminStatsResponse{}, err
	}
	pending, err := s.stats.CountUnevaluatedBids(ctx)
	if err != nil {
		return dto.AdminStatsResponse{}, err
	}
	completed, err := s.stats.CountEvaluations(ctx, nil)
	if err != nil {
		return dto.AdminStatsResponse{}, err
	}

	response := dto.AdminStatsResponse{
		ActiveTenders:        active,
		ClosedTenders:        closed,
		CancelledTenders:     cancelled,
		TotalBids:            totalBids,
		PendingEvaluations:   pending,
		CompletedEvaluations: completed,
		GeneratedAt:          s.now(),
	}

	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store stats cache")
			}
		}
	}

	return response, nil
}
