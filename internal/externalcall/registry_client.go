package externalcall

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Meesho/BharatMLStack/company-export/pkg/metric"
	"github.com/Meesho/BharatMLStack/company-export/pkg/workbook"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	defaultRegistryTimeout  = 60 * time.Second
	defaultRegistryTokenTTL = time.Hour
)

// RegistryClient talks to the business registry: one call for a bearer token, one call per
// search page. Calls are never retried.
type RegistryClient interface {
	FetchToken(ctx context.Context, creds Credentials) (string, error)
	SearchPage(ctx context.Context, query SearchQuery) (*SearchPage, error)
}

type Credentials struct {
	Username    string
	APIKey      string
	Environment Environment
}

type SearchQuery struct {
	Token       string
	Environment Environment
	Filters     map[string]string
	Page        int
	PageSize    int
}

// SearchPage is one page of search results plus the body it was decoded from.
type SearchPage struct {
	Records []workbook.Record
	Raw     json.RawMessage
}

type RegistryConfig struct {
	Endpoints map[Environment]RegistryEndpoints
	// empty means the default scope of each environment
	Scopes   []string
	TokenTTL time.Duration
	Timeout  time.Duration
}

type tokenRequest struct {
	Scopes []string `json:"scopes"`
	TTL    int      `json:"ttl"`
}

type tokenResponse struct {
	Token   string `json:"token"`
	Success *bool  `json:"success"`
	Message string `json:"message"`
}

type searchResponse struct {
	Data    []workbook.Record `json:"data"`
	Success *bool             `json:"success"`
	Message string            `json:"message"`
}

type registryClientImpl struct {
	endpoints  map[Environment]RegistryEndpoints
	scopes     []string
	tokenTTL   time.Duration
	HTTPClient *http.Client
}

var (
	registryOnce     sync.Once
	registryInstance RegistryClient
)

// InitRegistryClient builds the process wide registry client. Later calls return the first instance.
func InitRegistryClient(cfg RegistryConfig) RegistryClient {
	registryOnce.Do(func() {
		client, err := NewRegistryClient(cfg)
		if err != nil {
			log.Panic().Err(err).Msg("Registry client initialization failed")
		}
		registryInstance = client
		log.Info().
			Str("production_search_url", cfg.Endpoints[EnvironmentProduction].SearchURL).
			Str("test_search_url", cfg.Endpoints[EnvironmentTest].SearchURL).
			Msg("Registry client initialized")
	})
	return registryInstance
}

func GetRegistryClient() RegistryClient {
	return registryInstance
}

func NewRegistryClient(cfg RegistryConfig) (RegistryClient, error) {
	for env, endpoints := range cfg.Endpoints {
		if err := endpoints.validate(); err != nil {
			return nil, fmt.Errorf("registry environment %s: %w", env, err)
		}
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultRegistryTimeout
	}
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = defaultRegistryTokenTTL
	}
	return &registryClientImpl{
		endpoints: cfg.Endpoints,
		scopes:    cfg.Scopes,
		tokenTTL:  ttl,
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

func (r *registryClientImpl) endpointsFor(env Environment) (RegistryEndpoints, error) {
	endpoints, ok := r.endpoints[env]
	if !ok {
		return RegistryEndpoints{}, fmt.Errorf("unknown registry environment %q", env)
	}
	return endpoints, nil
}

func (r *registryClientImpl) scopesFor(endpoints RegistryEndpoints) []string {
	if len(r.scopes) > 0 {
		return r.scopes
	}
	return []string{endpoints.defaultScope()}
}

// FetchToken exchanges username and API key for a bearer token.
func (r *registryClientImpl) FetchToken(ctx context.Context, creds Credentials) (string, error) {
	endpoints, err := r.endpointsFor(creds.Environment)
	if err != nil {
		return "", err
	}
	tokenURL := strings.TrimRight(endpoints.AuthURL, "/") + "/token"

	payload, err := json.Marshal(tokenRequest{
		Scopes: r.scopesFor(endpoints),
		TTL:    int(r.tokenTTL.Seconds()),
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal token request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.SetBasicAuth(creds.Username, creds.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	zerolog.Ctx(ctx).Info().
		Str("url", tokenURL).
		Str("environment", string(creds.Environment)).
		Str("username", creds.Username).
		Msg("Requesting registry token")

	status, body, err := r.do(req, OperationToken, creds.Environment)
	if err != nil {
		return "", &UpstreamError{Operation: OperationToken, Message: "registry authentication request failed", Cause: err}
	}
	if status < 200 || status > 299 {
		upstreamErr := newStatusError(OperationToken, status, body)
		zerolog.Ctx(ctx).Error().
			Int("status_code", status).
			Str("response_body", upstreamErr.Body).
			Msg("Registry token request rejected")
		return "", upstreamErr
	}

	var response tokenResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", &UpstreamError{
			Operation: OperationToken,
			Status:    status,
			Message:   "registry returned a malformed token payload",
			Body:      truncateBody(body),
			Cause:     err,
		}
	}
	if response.Success != nil && !*response.Success {
		message := response.Message
		if message == "" {
			message = "registry refused to issue a token"
		}
		return "", &UpstreamError{Operation: OperationToken, Status: status, Message: message, Body: truncateBody(body)}
	}
	if response.Token == "" {
		return "", &UpstreamError{
			Operation: OperationToken,
			Status:    status,
			Message:   "registry returned a malformed token payload",
			Body:      truncateBody(body),
			Cause:     errors.New("token field is missing or empty"),
		}
	}
	return response.Token, nil
}

// SearchPage fetches one page of companies matching the filters. Page is zero based.
func (r *registryClientImpl) SearchPage(ctx context.Context, query SearchQuery) (*SearchPage, error) {
	endpoints, err := r.endpointsFor(query.Environment)
	if err != nil {
		return nil, err
	}
	searchURL, err := buildSearchURL(endpoints.SearchURL, query)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+query.Token)
	req.Header.Set("Accept", "application/json")

	zerolog.Ctx(ctx).Info().
		Str("url", searchURL).
		Int("page", query.Page).
		Int("page_size", query.PageSize).
		Msg("Searching registry")

	status, body, err := r.do(req, OperationSearch, query.Environment)
	if err != nil {
		return nil, &UpstreamError{Operation: OperationSearch, Message: "registry search request failed", Cause: err}
	}
	if status < 200 || status > 299 {
		upstreamErr := newStatusError(OperationSearch, status, body)
		zerolog.Ctx(ctx).Error().
			Int("status_code", status).
			Int("page", query.Page).
			Str("response_body", upstreamErr.Body).
			Msg("Registry search request rejected")
		return nil, upstreamErr
	}

	var response searchResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, &UpstreamError{
			Operation: OperationSearch,
			Status:    status,
			Message:   "registry returned a malformed search payload",
			Body:      truncateBody(body),
			Cause:     err,
		}
	}
	if response.Success != nil && !*response.Success {
		message := response.Message
		if message == "" {
			message = "registry search was not successful"
		}
		return nil, &UpstreamError{Operation: OperationSearch, Status: status, Message: message, Body: truncateBody(body)}
	}

	return &SearchPage{
		Records: response.Data,
		Raw:     json.RawMessage(body),
	}, nil
}

func buildSearchURL(base string, query SearchQuery) (string, error) {
	parsed, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid search url %q: %w", base, err)
	}
	values := parsed.Query()
	for key, value := range query.Filters {
		values.Set(key, value)
	}
	values.Set("skip", strconv.Itoa(query.Page*query.PageSize))
	values.Set("limit", strconv.Itoa(query.PageSize))
	parsed.RawQuery = values.Encode()
	return parsed.String(), nil
}

// do sends the request and reads the whole body, recording request count and latency.
func (r *registryClientImpl) do(req *http.Request, operation string, env Environment) (int, []byte, error) {
	startTime := time.Now()
	statusTag := "error"
	defer func() {
		tags := metric.BuildTag(
			metric.NewTag(metric.TagExternalService, metric.TagValueExternalServiceRegistry),
			metric.NewTag(metric.TagExternalServicePath, operation),
			metric.NewTag(metric.TagExternalServiceMethod, req.Method),
			metric.NewTag(metric.TagExternalServiceStatusCode, statusTag),
			metric.NewTag(metric.TagRegistryEnvironment, string(env)),
		)
		metric.Incr(metric.ExternalApiRequestCount, tags)
		metric.Timing(metric.ExternalApiRequestLatency, time.Since(startTime), tags)
	}()

	resp, err := r.HTTPClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to make HTTP request: %w", err)
	}
	defer resp.Body.Close()
	statusTag = strconv.Itoa(resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return resp.StatusCode, body, nil
}
