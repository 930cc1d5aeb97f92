package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/placement-cell/forum-api/internal/dto"
	"github.com/placement-cell/forum-api/internal/repository"
)

const companyCacheKey = "forum:companies"

// CompanyService produces the per-company topic rollup.
type CompanyService interface {
	ListCompanies(ctx context.Context) (dto.CompanyListResponse, error)
}

type companyService struct {
	topics   repository.TopicRepository
	cache    *redis.Client
	cacheTTL time.Duration
	logger   zerolog.Logger
}

// NewCompanyService builds the company aggregator. The rollup is derived on
// every cache miss; nothing is persisted.
func NewCompanyService(topics repository.TopicRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) CompanyService {
	return &companyService{
		topics:   topics,
		cache:    cache,
		cacheTTL: ttl,
		logger:   logger.With().Str("component", "company_service").Logger(),
	}
}

func (s *companyService) ListCompanies(ctx context.Context) (dto.CompanyListResponse, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, companyCacheKey).Result(); err == nil {
			var response dto.CompanyListResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				s.logger.Debug().Msg("company rollup cache hit")
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read company rollup cache")
		}
	}

	stats, err := s.topics.CountByCompany(ctx)
	if err != nil {
		return dto.CompanyListResponse{}, err
	}

	response := dto.CompanyListResponse{Companies: dto.NewCompanyResponseSlice(stats)}

	if s.cache != nil {
		payload, err := json.Marshal(response)
		if err == nil {
			if err := s.cache.Set(ctx, companyCacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store company rollup cache")
			}
		}
	}

	return response, nil
}
