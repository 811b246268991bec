package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"skill_assess_backend/internal/config"
)

const defaultSearchBaseURL = "https://www.googleapis.com/youtube/v3"

// VideoSearchService queries the YouTube Data API search endpoint.
type VideoSearchService struct {
	mu     sync.RWMutex
	config config.SearchConfig
	client *http.Client
}

func NewVideoSearchService(cfg config.SearchConfig) *VideoSearchService {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultSearchBaseURL
	}
	return &VideoSearchService{
		config: cfg,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// UpdateConfig swaps search credentials on config hot reload.
func (s *VideoSearchService) UpdateConfig(cfg config.SearchConfig) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultSearchBaseURL
	}
	s.mu.Lock()
	s.config = cfg
	s.mu.Unlock()
}

type youtubeSearchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
	} `json:"items"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (s *VideoSearchService) Search(ctx context.Context, query string, limit int) ([]string, error) {
	s.mu.RLock()
	cfg := s.config
	s.mu.RUnlock()

	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("type", "video")
	params.Set("maxResults", strconv.Itoa(limit))
	params.Set("q", query)
	params.Set("key", cfg.APIKey)

	req, err := http.NewRequestWithContext(ctx, "GET", cfg.BaseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("video search error (status %d): %s", resp.StatusCode, string(body))
	}

	var result youtubeSearchResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, err
	}

	links := make([]string, 0, len(result.Items))
	for _, item := range result.Items {
		if item.ID.VideoID == "" {
			continue
		}
		links = append(links, "https://www.youtube.com/watch?v="+item.ID.VideoID)
		if len(links) >= limit {
			break
		}
	}
	return links, nil
}
