package synology

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	// DefaultSessionName is the session parameter Download Station expects.
	DefaultSessionName = "DownloadStation"

	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "dsctl"
	infoPath         = "query.cgi"
	redacted         = "*****"
)

// Client talks to the Synology web API under <base>/webapi. It holds the API
// path table discovered through SYNO.API.Info; authenticated calls go through
// a Session.
type Client struct {
	baseURL     *url.URL
	httpClient  *http.Client
	userAgent   string
	sessionName string
	logger      zerolog.Logger
	apis        map[string]APIInfo
}

// BaseURL builds the web API root for a NAS.
func BaseURL(host string, port int, https bool) string {
	scheme := "http"
	if https {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s:%d/webapi", scheme, host, port)
}

// NewClient creates a new client. No request is made until QueryAPIInfo.
func NewClient(baseURL string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	httpClient := o.httpClient
	if httpClient == nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		if o.insecureSkipVerify {
			transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // self-signed DSM certificates
		}
		httpClient = &http.Client{
			Timeout:   o.timeout,
			Transport: transport,
		}
	}

	return &Client{
		baseURL:     base,
		httpClient:  httpClient,
		userAgent:   o.userAgent,
		sessionName: o.sessionName,
		logger:      logger,
		apis:        make(map[string]APIInfo),
	}, nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: base URL is required", ErrInvalidConfig)
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("%w: parse base URL %q: %v", ErrInvalidConfig, raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: base URL %q has no host", ErrInvalidConfig, raw)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	if !strings.HasSuffix(u.Path, "/webapi") {
		u.Path += "/webapi"
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}

// BaseURL returns the resolved web API root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// QueryAPIInfo resolves the CGI path and version range of the named APIs and
// adds them to the client's path table. With no names every API is queried.
func (c *Client) QueryAPIInfo(ctx context.Context, names ...string) (map[string]APIInfo, error) {
	query := "ALL"
	if len(names) > 0 {
		query = strings.Join(names, ",")
	}

	var found map[string]APIInfo
	err := c.get(ctx, request{
		api:     APIInfoName,
		version: 1,
		method:  "query",
		params:  url.Values{"query": {query}},
	}, &found)
	if err != nil {
		return nil, err
	}

	maps.Copy(c.apis, found)
	c.logger.Debug().Int("count", len(found)).Str("query", query).Msg("Resolved API paths")
	return found, nil
}

// HasAPI reports whether name has been discovered.
func (c *Client) HasAPI(name string) bool {
	_, ok := c.apis[name]
	return ok
}

// API returns the discovered entry for name.
func (c *Client) API(name string) (APIInfo, bool) {
	info, ok := c.apis[name]
	return info, ok
}

// APINames returns the discovered API names in sorted order.
func (c *Client) APINames() []string {
	return slices.Sorted(maps.Keys(c.apis))
}

// version clamps preferred into the discovered range of api.
func (c *Client) version(api string, preferred int) int {
	info, ok := c.apis[api]
	if !ok {
		return preferred
	}
	if info.MaxVersion > 0 && preferred > info.MaxVersion {
		return info.MaxVersion
	}
	if preferred < info.MinVersion {
		return info.MinVersion
	}
	return preferred
}

// request is a single Synology web API call.
type request struct {
	api     string
	version int
	method  string
	params  url.Values
	sid     string
}

// query returns the full query string values: the operation fields plus
// api, version, method and _sid.
func (r request) query() url.Values {
	q := make(url.Values, len(r.params)+4)
	for k, v := range r.params {
		q[k] = slices.Clone(v)
	}
	q.Set("api", r.api)
	q.Set("version", strconv.Itoa(r.version))
	q.Set("method", r.method)
	if r.sid != "" {
		q.Set("_sid", r.sid)
	}
	return q
}

// envelope is the outer shape of every response.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   json.RawMessage `json:"error"`
}

// get issues the GET for r and decodes the data field into dest.
func (c *Client) get(ctx context.Context, r request, dest any) error {
	path := infoPath
	if info, ok := c.apis[r.api]; ok {
		path = info.Path
	} else if r.api != APIInfoName {
		return fmt.Errorf("%w: %s", ErrAPINotAvailable, r.api)
	}

	endpoint := c.baseURL.JoinPath(path)
	query := r.query()
	endpoint.RawQuery = query.Encode()

	c.logger.Debug().
		Str("api", r.api).
		Str("method", r.method).
		Int("version", r.version).
		Str("url", redactURL(endpoint, query)).
		Msg("Making Synology API request")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s request failed: %w", r.api, r.method, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s %s: unexpected status code: %d", r.api, r.method, resp.StatusCode)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrUnexpectedResponse, r.api, r.method, err)
	}

	if !env.Success {
		apiErr := parseAPIError(r.api, r.method, env.Error)
		c.logger.Debug().Str("api", r.api).Str("method", r.method).Str("error", apiErr.Raw).Msg("Synology API returned failure")
		return apiErr
	}

	if dest == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, dest); err != nil {
		return fmt.Errorf("failed to decode %s %s data: %w", r.api, r.method, err)
	}
	return nil
}

// redactURL renders u with credentials masked, for logging.
func redactURL(u *url.URL, query url.Values) string {
	safe := make(url.Values, len(query))
	for k, v := range query {
		switch k {
		case "passwd", "_sid", "otp_code":
			safe.Set(k, redacted)
		default:
			safe[k] = v
		}
	}
	masked := *u
	masked.RawQuery = safe.Encode()
	return masked.String()
}
