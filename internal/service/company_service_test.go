package service

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/placement-cell/forum-api/internal/dto"
	"github.com/placement-cell/forum-api/internal/models"
	"github.com/placement-cell/forum-api/internal/repository"
)

func TestCompanyServiceRollupAndCache(t *testing.T) {
	db := setupServiceDB(t)
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	logger := zerolog.New(io.Discard)
	topicRepo := repository.NewTopicRepository(db)
	svc := NewCompanyService(topicRepo, client, time.Minute, logger)

	for _, company := range []string{"Acme", "Acme", "Globex"} {
		topic := models.Topic{
			Title:    "Topic at " + company,
			Company:  company,
			Content:  "body",
			Author:   models.AuthorSnapshot{UserID: "u1", Name: "User One"},
			IsActive: true,
		}
		require.NoError(t, db.Create(&topic).Error)
	}

	response, err := svc.ListCompanies(context.Background())
	require.NoError(t, err)
	require.Equal(t, []dto.CompanyResponse{
		{Name: "Acme", Count: 2},
		{Name: "Globex", Count: 1},
	}, response.Companies)

	// A new topic is invisible until the cache entry expires.
	extra := models.Topic{
		Title:    "Late topic",
		Company:  "Initech",
		Content:  "body",
		Author:   models.AuthorSnapshot{UserID: "u1", Name: "User One"},
		IsActive: true,
	}
	require.NoError(t, db.Create(&extra).Error)

	cached, err := svc.ListCompanies(context.Background())
	require.NoError(t, err)
	require.Len(t, cached.Companies, 2)

	mr.FastForward(2 * time.Minute)

	fresh, err := svc.ListCompanies(context.Background())
	require.NoError(t, err)
	require.Len(t, fresh.Companies, 3)
}

func TestCompanyServiceWorksWithoutCache(t *testing.T) {
	db := setupServiceDB(t)
	logger := zerolog.New(io.Discard)
	topicRepo := repository.NewTopicRepository(db)
	svc := NewCompanyService(topicRepo, nil, time.Minute, logger)

	topic := models.Topic{
		Title:    "Solo topic",
		Company:  "Acme",
		Content:  "body",
		Author:   models.AuthorSnapshot{UserID: "u1", Name: "User One"},
		IsActive: true,
	}
	require.NoError(t, db.Create(&topic).Error)

	response, err := svc.ListCompanies(context.Background())
	require.NoError(t, err)
	require.Equal(t, []dto.CompanyResponse{{Name: "Acme", Count: 1}}, response.Companies)
}
