package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"skill_assess_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// VideoSearchProvider abstracts the external video-search backend so
// linking can be tested with fakes.
type VideoSearchProvider interface {
	Search(ctx context.Context, query string, limit int) ([]string, error)
}

type TopicVideos struct {
	Topic string   `json:"topic"`
	Links []string `json:"links"`
}

// RecommendationService maps weak topics to remediation video links.
// Lookups are independent per topic: one failed search yields an
// empty link list for that topic and the batch carries on.
type RecommendationService struct {
	Provider   VideoSearchProvider
	Redis      *redis.Client
	MaxResults int
	CacheTTL   time.Duration
}

func NewRecommendationService(provider VideoSearchProvider, rdb *redis.Client, maxResults int, cacheTTL time.Duration) *RecommendationService {
	return &RecommendationService{
		Provider:   provider,
		Redis:      rdb,
		MaxResults: maxResults,
		CacheTTL:   cacheTTL,
	}
}

// LinkVideos returns one entry per input topic, preserving input
// order.
func (s *RecommendationService) LinkVideos(ctx context.Context, skillName string, topics []string) []TopicVideos {
	results := make([]TopicVideos, 0, len(topics))
	for _, topic := range topics {
		results = append(results, TopicVideos{
			Topic: topic,
			Links: s.linksForTopic(ctx, skillName, topic),
		})
	}
	return results
}

func (s *RecommendationService) linksForTopic(ctx context.Context, skillName, topic string) []string {
	cacheKey := fmt.Sprintf("videos:%s:%s", skillName, topic)

	if s.Redis != nil {
		if cached, err := s.Redis.Get(ctx, cacheKey).Result(); err == nil {
			var links []string
			if json.Unmarshal([]byte(cached), &links) == nil {
				return links
			}
		}
	}

	query := fmt.Sprintf("%s %s tutorial", skillName, topic)
	links, err := s.Provider.Search(ctx, query, s.MaxResults)
	if err != nil {
		logger.Log.Warn("video search failed",
			zap.String("topic", topic),
			zap.String("query", query),
			zap.Error(err))
		return []string{}
	}
	if links == nil {
		links = []string{}
	}

	if s.Redis != nil {
		if payload, err := json.Marshal(links); err == nil {
			if err := s.Redis.Set(ctx, cacheKey, payload, s.CacheTTL).Err(); err != nil {
				logger.Log.Warn("video cache write failed", zap.String("topic", topic), zap.Error(err))
			}
		}
	}

	return links
}
