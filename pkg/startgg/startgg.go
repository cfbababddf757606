// Package startgg provides a client for the start.gg GraphQL API.
package startgg

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	apperrors "github.com/abrezinsky/bracketview/internal/errors"
	"github.com/abrezinsky/bracketview/internal/logger"
)

// DefaultBaseURL is the public start.gg API host
const DefaultBaseURL = "https://api.start.gg"

// DefaultRequestsPerMinute stays under start.gg's documented 80 requests / 60s
const DefaultRequestsPerMinute = 80

// Client defines the interface for start.gg operations
type Client interface {
	// FetchPhaseRaw retrieves every set of a phase and returns the response body
	// as a single phase document suitable for caching and DecodePhase.
	FetchPhaseRaw(ctx context.Context, phaseID string) ([]byte, error)
	// FetchStreamQueue retrieves the stream queues of a tournament
	FetchStreamQueue(ctx context.Context, slug string) ([]StreamQueue, error)
	// FetchSet retrieves a single set with entrant and standing details
	FetchSet(ctx context.Context, setID string) (*Set, error)
	// BaseURL returns the configured API base URL
	BaseURL() string
}

// HTTPClient is a real HTTP client for start.gg
type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
	log        logger.Logger
}

// Option configures an HTTPClient
type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) {
		c.httpClient = hc
	}
}

// WithRateLimit sets the outbound request budget. Zero or less disables limiting.
func WithRateLimit(perMinute int) Option {
	return func(c *HTTPClient) {
		if perMinute <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1)
	}
}

// NewHTTPClient creates a new start.gg client authenticating with token
func NewHTTPClient(baseURL, token string, log logger.Logger, opts ...Option) *HTTPClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        log,
	}
	WithRateLimit(DefaultRequestsPerMinute)(c)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured API base URL
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

func (c *HTTPClient) endpoint() string {
	return c.baseURL + "/gql/alpha"
}

// post executes one GraphQL request and returns the raw response body.
// Transport and HTTP status failures are ErrTransport.
func (c *HTTPClient) post(ctx context.Context, query string, variables map[string]any) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, apperrors.Transport(err, "rate limiter")
	}

	payload, err := json.Marshal(map[string]any{"query": query, "variables": variables})
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	c.log.Debug("start.gg request", "url", c.endpoint(), "variables", variables)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(payload))
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.Transport(err, "failed to connect to start.gg")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.Transport(err, "failed to read response")
	}

	c.log.Debug("start.gg response", "status", resp.StatusCode, "bytes", len(body))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apperrors.Transportf("start.gg returned status %d", resp.StatusCode)
	}
	return body, nil
}

// unwrap extracts "data" from a GraphQL envelope into out
func unwrap(body []byte, out any) error {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return apperrors.Malformed(err, "failed to parse response")
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		if len(env.Errors) > 0 {
			return apperrors.Malformedf("graphql error: %s", env.Errors[0].Message)
		}
		return apperrors.Malformedf("response has no data")
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return apperrors.Malformed(err, "failed to parse data")
	}
	return nil
}

// FetchPhaseRaw follows set pagination until every page has been read. A
// single-page phase is returned byte for byte; multi-page phases are merged
// into one document with all sets under their phase groups.
func (c *HTTPClient) FetchPhaseRaw(ctx context.Context, phaseID string) ([]byte, error) {
	first, err := c.post(ctx, phaseQuery, phaseVariables(phaseID, 1))
	if err != nil {
		return nil, err
	}

	var data PhaseData
	if err := unwrap(first, &data); err != nil {
		return nil, err
	}
	if data.Phase == nil {
		return nil, apperrors.Malformedf("phase %s not found", phaseID)
	}

	pages := data.TotalPages()
	if pages <= 1 {
		return first, nil
	}

	for page := 2; page <= pages; page++ {
		body, err := c.post(ctx, phaseQuery, phaseVariables(phaseID, page))
		if err != nil {
			return nil, err
		}
		var next PhaseData
		if err := unwrap(body, &next); err != nil {
			return nil, err
		}
		mergePhase(&data, next)
	}

	c.log.Debug("Merged phase pages", "phase", phaseID, "pages", pages)
	return json.Marshal(map[string]any{"data": data})
}

func phaseVariables(phaseID string, page int) map[string]any {
	return map[string]any{"phaseId": phaseID, "page": page, "perPage": SetsPerPage}
}

// mergePhase appends the sets of next's phase groups to the matching groups of dst
func mergePhase(dst *PhaseData, next PhaseData) {
	if dst.Phase.PhaseGroups == nil || next.Phase == nil || next.Phase.PhaseGroups == nil {
		return
	}
	byID := make(map[ID]*PhaseGroup, len(dst.Phase.PhaseGroups.Nodes))
	for i := range dst.Phase.PhaseGroups.Nodes {
		g := &dst.Phase.PhaseGroups.Nodes[i]
		byID[g.ID] = g
	}
	for _, g := range next.Phase.PhaseGroups.Nodes {
		target, ok := byID[g.ID]
		if !ok || g.Sets == nil {
			continue
		}
		if target.Sets == nil {
			target.Sets = &SetConnection{}
		}
		target.Sets.Nodes = append(target.Sets.Nodes, g.Sets.Nodes...)
	}
}

// FetchStreamQueue retrieves the stream queues of a tournament
func (c *HTTPClient) FetchStreamQueue(ctx context.Context, slug string) ([]StreamQueue, error) {
	body, err := c.post(ctx, streamQueueQuery, map[string]any{"slug": slug})
	if err != nil {
		return nil, err
	}
	var data tournamentData
	if err := unwrap(body, &data); err != nil {
		return nil, err
	}
	if data.Tournament == nil {
		return nil, apperrors.NotFoundf("tournament %s not found", slug)
	}
	return data.Tournament.StreamQueue, nil
}

// FetchSet retrieves a single set with entrant and standing details
func (c *HTTPClient) FetchSet(ctx context.Context, setID string) (*Set, error) {
	body, err := c.post(ctx, setQuery, map[string]any{"setId": setID})
	if err != nil {
		return nil, err
	}
	var data setData
	if err := unwrap(body, &data); err != nil {
		return nil, err
	}
	if data.Set == nil {
		return nil, apperrors.NotFoundf("set %s not found", setID)
	}
	return data.Set, nil
}

// Ensure HTTPClient implements Client
var _ Client = (*HTTPClient)(nil)
