package payloadcms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	pkgerrors "github.com/karangtaruna-pekunden/marketplace/pkg/errors"
	"github.com/karangtaruna-pekunden/marketplace/pkg/metrics"
)

const (
	defaultSort                 = "-createdAt"
	defaultAuthCollection       = "users"
	responseBodyReadLimit int64 = 1024
)

var errBaseURLRequired = errors.New("payload cms base url is required")

// Client reads collections from the Payload REST API.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	apiKey         string
	authCollection string
	metrics        *metrics.DependencyMetrics
}

// Option configures optional client behavior.
type Option func(*Client)

func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithAPIKey authenticates as an API-key enabled auth collection, "users" by default.
func WithAPIKey(collection, key string) Option {
	return func(c *Client) {
		c.apiKey = strings.TrimSpace(key)
		if trimmed := strings.TrimSpace(collection); trimmed != "" {
			c.authCollection = trimmed
		}
	}
}

func WithMetrics(m *metrics.DependencyMetrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewClient builds a client rooted at the CMS origin, e.g. https://cms.example.org.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errBaseURLRequired
	}
	client := &Client{
		baseURL:        trimmed,
		authCollection: defaultAuthCollection,
		httpClient:     &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

// BaseURL returns the CMS origin.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// FindParams narrows a collection query.
type FindParams struct {
	// Sort defaults to newest first.
	Sort  string
	Depth int
	// Where holds raw where[...] filters, e.g. {"where[key][equals]": "Makanan"}.
	Where map[string]string
}

// FindResult carries the undecoded documents of a collection query.
type FindResult struct {
	Docs      []json.RawMessage `json:"docs"`
	TotalDocs int               `json:"totalDocs"`
}

// Decode unmarshals the documents into out, which must be a pointer to a slice.
func (r *FindResult) Decode(out any) error {
	if r == nil {
		return errors.New("payloadcms: nil result")
	}
	raw, err := json.Marshal(r.Docs)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("payloadcms: decode docs: %w", err)
	}
	return nil
}

// Find fetches every document in a collection with pagination disabled.
func (c *Client) Find(ctx context.Context, collection string, params FindParams) (_ *FindResult, err error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "payload cms client not configured")
	}
	if strings.TrimSpace(collection) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "collection is required")
	}
	defer c.metrics.Track(metrics.DependencyCMS, time.Now(), &err)

	q := url.Values{}
	q.Set("pagination", "false")
	sort := params.Sort
	if sort == "" {
		sort = defaultSort
	}
	q.Set("sort", sort)
	q.Set("depth", strconv.Itoa(params.Depth))
	for k, v := range params.Where {
		q.Set(k, v)
	}

	var result FindResult
	if err := c.get(ctx, fmt.Sprintf("/api/%s", url.PathEscape(collection)), q, &result); err != nil {
		return nil, err
	}
	if result.Docs == nil {
		result.Docs = []json.RawMessage{}
	}
	return &result, nil
}

// FindByID fetches a single document and decodes it into out.
func (c *Client) FindByID(ctx context.Context, collection, id string, depth int, out any) (err error) {
	if c == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "payload cms client not configured")
	}
	if strings.TrimSpace(collection) == "" || strings.TrimSpace(id) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "collection and id are required")
	}
	defer c.metrics.Track(metrics.DependencyCMS, time.Now(), &err)

	q := url.Values{}
	q.Set("depth", strconv.Itoa(depth))
	path := fmt.Sprintf("/api/%s/%s", url.PathEscape(collection), url.PathEscape(strings.TrimSpace(id)))
	return c.get(ctx, path, q, out)
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	endpoint := c.baseURL + path
	if encoded := q.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build cms request")
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", fmt.Sprintf("%s API-Key %s", c.authCollection, c.apiKey))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute cms request")
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return pkgerrors.New(pkgerrors.CodeNotFound, "cms document not found")
	case resp.StatusCode != http.StatusOK:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		return pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "cms request failed")
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode cms response")
	}
	return nil
}
