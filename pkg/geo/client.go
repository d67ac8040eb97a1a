// Package geo provides a client for the IBGE localidades reference service,
// which supplies the state and municipality lists behind the form's cascading
// dropdowns.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DefaultTimeout is the maximum time to wait for IBGE responses.
const DefaultTimeout = 15 * time.Second

// Estado is one Brazilian federative unit.
type Estado struct {
	ID    int    `json:"id"`
	Sigla string `json:"sigla"`
	Nome  string `json:"nome"`
}

// Municipio is one municipality of a state.
type Municipio struct {
	ID   int    `json:"id"`
	Nome string `json:"nome"`
}

// Client provides access to the IBGE localidades API. Responses change rarely,
// so they are cached in Redis when a cache client is supplied; a nil cache
// means every call goes to IBGE.
type Client struct {
	httpClient *http.Client
	baseURL    string
	cache      *redis.Client
	cacheTTL   time.Duration
	logger     *zap.Logger
}

// NewClient creates a new IBGE localidades client. cache may be nil.
func NewClient(baseURL string, cache *redis.Client, cacheTTL time.Duration, logger *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		baseURL:  baseURL,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger.Named("geo"),
	}
}

// Estados returns all states ordered by name.
func (c *Client) Estados(ctx context.Context) ([]Estado, error) {
	body, err := c.fetch(ctx, "geo:estados", c.baseURL+"/estados?orderBy=nome")
	if err != nil {
		return nil, err
	}

	var estados []Estado
	if err := json.Unmarshal(body, &estados); err != nil {
		return nil, fmt.Errorf("failed to decode estados: %w", err)
	}
	return estados, nil
}

// Municipios returns the municipalities of one state ordered by name.
func (c *Client) Municipios(ctx context.Context, uf string) ([]Municipio, error) {
	endpoint := fmt.Sprintf("%s/estados/%s/municipios?orderBy=nome", c.baseURL, url.PathEscape(uf))
	body, err := c.fetch(ctx, "geo:municipios:"+uf, endpoint)
	if err != nil {
		return nil, err
	}

	var municipios []Municipio
	if err := json.Unmarshal(body, &municipios); err != nil {
		return nil, fmt.Errorf("failed to decode municipios: %w", err)
	}
	return municipios, nil
}

// fetch returns the raw response body for endpoint, consulting the cache
// first and populating it on a miss. Cache failures are logged and ignored;
// the lookup itself must still succeed.
func (c *Client) fetch(ctx context.Context, cacheKey, endpoint string) ([]byte, error) {
	if c.cache != nil {
		cached, err := c.cache.Get(ctx, cacheKey).Bytes()
		if err == nil {
			return cached, nil
		}
		if err != redis.Nil {
			c.logger.Warn("Geo cache read failed", zap.String("key", cacheKey), zap.Error(err))
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach IBGE: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("IBGE returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read IBGE response: %w", err)
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, cacheKey, body, c.cacheTTL).Err(); err != nil {
			c.logger.Warn("Geo cache write failed", zap.String("key", cacheKey), zap.Error(err))
		}
	}

	return body, nil
}
