package quote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"planeteye/backend/internal/cache"
	"planeteye/backend/internal/config"
)

// Fallback is shown whenever the upstream fetch fails for any reason.
const Fallback = "Keep pushing forward, excellence is a habit."

const prompt = "Provide a single, short, powerful motivational thought for an employee. Maximum 15 words."

const cacheKey = "quote:current"

// Provider produces a short motivational thought.
type Provider interface {
	MotivationalThought(ctx context.Context) (string, error)
}

// GeminiProvider calls the generative-language REST endpoint with a fixed
// prompt and temperature.
type GeminiProvider struct {
	baseURL     string
	model       string
	apiKey      string
	temperature float64
	client      *http.Client
}

func NewGeminiProvider(cfg config.QuoteConfig) *GeminiProvider {
	return &GeminiProvider{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		model:       cfg.Model,
		apiKey:      cfg.APIKey,
		temperature: cfg.Temperature,
		client:      &http.Client{Timeout: cfg.RequestTimeout},
	}
}

type generatePart struct {
	Text string `json:"text"`
}

type generateContent struct {
	Parts []generatePart `json:"parts"`
}

type generateRequest struct {
	Contents         []generateContent `json:"contents"`
	GenerationConfig struct {
		Temperature float64 `json:"temperature"`
	} `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content generateContent `json:"content"`
	} `json:"candidates"`
}

func (p *GeminiProvider) MotivationalThought(ctx context.Context) (string, error) {
	req := generateRequest{
		Contents: []generateContent{{Parts: []generatePart{{Text: prompt}}}},
	}
	req.GenerationConfig.Temperature = p.temperature

	body, err := json.Marshal(req)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", p.baseURL, p.model, p.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("quote provider returned status %d", resp.StatusCode)
	}

	var parsed generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("quote provider returned no candidates")
	}

	text := strings.TrimSpace(parsed.Candidates[0].Content.Parts[0].Text)
	if text == "" {
		return "", fmt.Errorf("quote provider returned empty text")
	}
	return text, nil
}

// Service fronts the provider with a cache and a circuit breaker. Current
// never fails: any upstream problem yields the fixed fallback.
type Service struct {
	provider Provider
	cache    cache.Cache
	breaker  *cache.CircuitBreaker
	ttl      time.Duration
}

func NewService(provider Provider, c cache.Cache, ttl time.Duration) *Service {
	return &Service{
		provider: provider,
		cache:    c,
		breaker:  cache.NewCircuitBreaker(nil),
		ttl:      ttl,
	}
}

// Current returns the cached thought, fetching a fresh one on a cold
// cache. The boolean reports whether a live value was served rather than
// the fallback.
func (s *Service) Current(ctx context.Context) (string, bool) {
	if s.cache != nil {
		var cached string
		if err := s.cache.Get(cacheKey, &cached); err == nil && cached != "" {
			return cached, true
		}
	}
	return s.Refresh(ctx)
}

// Refresh fetches a new thought and caches it. On failure the previous
// cached value is left alone and the fallback is returned.
func (s *Service) Refresh(ctx context.Context) (string, bool) {
	var text string
	err := s.breaker.Execute(func() error {
		fetched, fetchErr := s.provider.MotivationalThought(ctx)
		if fetchErr != nil {
			return fetchErr
		}
		text = fetched
		return nil
	})
	if err != nil {
		return Fallback, false
	}

	if s.cache != nil {
		s.cache.Set(cacheKey, text, s.ttl)
	}
	return text, true
}
