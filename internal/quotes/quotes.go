package quotes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"dayplan/internal/model"
)

// historyLimit caps the cached backlog used for the rotating footer.
const historyLimit = 30

// Quote is a single motivational line shown in the footer.
type Quote struct {
	Text   string `json:"text"`
	Author string `json:"author,omitempty"`
}

type cacheFile struct {
	FetchedOn string  `json:"fetchedOn"`
	Quotes    []Quote `json:"quotes"`
}

// apiQuote matches the quotable.io response shape.
type apiQuote struct {
	Content string `json:"content"`
	Author  string `json:"author"`
}

// Service fetches a quote of the day at most once per calendar day and keeps
// a small on-disk backlog so the UI has something to rotate through offline.
type Service struct {
	url       string
	cachePath string
	client    *http.Client
	now       func() time.Time
	pick      func(n int) int
}

func NewService(url, cachePath string) *Service {
	return &Service{
		url:       url,
		cachePath: cachePath,
		client:    &http.Client{Timeout: 10 * time.Second},
		now:       time.Now,
		pick:      rand.Intn,
	}
}

// Today returns the quote of the day. The network is hit only when the cache
// was not already refreshed today; a failed fetch falls back to the backlog.
func (s *Service) Today(ctx context.Context) (Quote, error) {
	cache := s.readCache()
	today := model.DayOf(s.now()).String()

	if cache.FetchedOn == today && len(cache.Quotes) > 0 {
		return cache.Quotes[len(cache.Quotes)-1], nil
	}
	fetched, err := s.fetch(ctx)
	if err != nil {
		if len(cache.Quotes) > 0 {
			return cache.Quotes[len(cache.Quotes)-1], nil
		}
		return Quote{}, err
	}

	cache.FetchedOn = today
	cache.Quotes = append(cache.Quotes, fetched)
	if len(cache.Quotes) > historyLimit {
		cache.Quotes = cache.Quotes[len(cache.Quotes)-historyLimit:]
	}
	if err := s.writeCache(cache); err != nil {
		return fetched, err
	}
	return fetched, nil
}

// Random returns an arbitrary cached quote, for rotating the footer without
// touching the network. False when the backlog is empty.
func (s *Service) Random() (Quote, bool) {
	cache := s.readCache()
	if len(cache.Quotes) == 0 {
		return Quote{}, false
	}
	return cache.Quotes[s.pick(len(cache.Quotes))], true
}

func (s *Service) fetch(ctx context.Context) (Quote, error) {
	if s.url == "" {
		return Quote{}, errors.New("quotes: no endpoint configured")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return Quote{}, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return Quote{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Quote{}, fmt.Errorf("quotes: unexpected status %d", resp.StatusCode)
	}
	var body apiQuote
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Quote{}, err
	}
	if body.Content == "" {
		return Quote{}, errors.New("quotes: empty response")
	}
	return Quote{Text: body.Content, Author: body.Author}, nil
}

func (s *Service) readCache() cacheFile {
	var cache cacheFile
	raw, err := os.ReadFile(s.cachePath)
	if err != nil {
		return cache
	}
	// A corrupt cache is treated as empty and rewritten on the next fetch.
	_ = json.Unmarshal(raw, &cache)
	return cache
}

func (s *Service) writeCache(cache cacheFile) error {
	payload, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.cachePath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tmp := s.cachePath + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.cachePath)
}
