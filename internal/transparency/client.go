package transparency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/farxc/painel-emendas/internal/logger"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the Portal da Transparencia endpoint for expense documents.
var DefaultBaseURL = "https://api.portaldatransparencia.gov.br/api-de-dados/despesas/documentos"

const (
	apiKeyHeader = "chave-api-dados"
	userAgent    = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/58.0.3029.110 Safari/537.3"
	maxBodySize  = 10 << 20
)

var (
	ErrDocumentNotFound = errors.New("document not found in the Portal API")
	ErrForwarding       = errors.New("failed to reach the Portal API")
)

// UpstreamError is a non-success answer from the Portal API.
type UpstreamError struct {
	Status int
	Code   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("portal answered status %d for document %s", e.Status, e.Code)
}

func (e *UpstreamError) Is(target error) bool {
	return target == ErrDocumentNotFound && e.Status == http.StatusNotFound
}

type Kind string

const (
	KindJSON   Kind = "json"
	KindBinary Kind = "binary"
	KindText   Kind = "text"
)

/*
Document is the outcome of a lookup. JSON answers carry the decoded payload
in Data, PDF and image answers only carry the URL the client should open and
anything else is returned as text.
*/
type Document struct {
	Kind        Kind   `json:"-"`
	Codigo      string `json:"codigo"`
	Data        any    `json:"data,omitempty"`
	URL         string `json:"url,omitempty"`
	ContentType string `json:"contentType"`
}

type Config struct {
	BaseURL       string
	APIKey        string
	RatePerMinute int
	Timeout       time.Duration
}

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	limiter *rate.Limiter
	logger  *logger.Logger
}

func NewClient(cfg Config, appLogger *logger.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	limit := rate.Inf
	if cfg.RatePerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(cfg.RatePerMinute))
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(limit, 1),
		logger:  appLogger,
	}
}

// DocumentURL is the Portal URL of a document code.
func (c *Client) DocumentURL(code string) string {
	return c.baseURL + "/" + url.PathEscape(code)
}

// Lookup fetches a document by its code. A non-success status is returned as
// *UpstreamError; network failures and throttling cancellations match
// ErrForwarding.
func (c *Client) Lookup(ctx context.Context, code string) (Document, error) {
	const component = "PortalClient"

	if err := c.limiter.Wait(ctx); err != nil {
		return Document{}, fmt.Errorf("%w: %w", ErrForwarding, err)
	}

	docURL := c.DocumentURL(code)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, docURL, nil)
	if err != nil {
		return Document{}, fmt.Errorf("%w: %w", ErrForwarding, err)
	}
	req.Header.Set("Accept", "*/*")
	req.Header.Set("User-Agent", userAgent)
	if c.apiKey != "" {
		req.Header.Set(apiKeyHeader, c.apiKey)
	}

	c.logger.Debug(component, "Looking up document: codigo=%s", code)
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error(component, "Request failed: codigo=%s error=%v", code, err)
		return Document{}, fmt.Errorf("%w: %w", ErrForwarding, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn(component, "Non-OK response: codigo=%s status=%d", code, resp.StatusCode)
		return Document{}, &UpstreamError{Status: resp.StatusCode, Code: code}
	}

	contentType := resp.Header.Get("Content-Type")
	if strings.Contains(contentType, "application/pdf") || strings.Contains(contentType, "image/") {
		return Document{Kind: KindBinary, Codigo: code, URL: docURL, ContentType: contentType}, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return Document{}, fmt.Errorf("%w: %w", ErrForwarding, err)
	}
	if len(body) > maxBodySize {
		c.logger.Warn(component, "Response too large: codigo=%s limitBytes=%d", code, maxBodySize)
		return Document{}, fmt.Errorf("%w: response body exceeds %d bytes", ErrForwarding, maxBodySize)
	}

	if strings.Contains(contentType, "application/json") && json.Valid(body) {
		return Document{Kind: KindJSON, Codigo: code, Data: json.RawMessage(body), ContentType: string(KindJSON)}, nil
	}
	return Document{Kind: KindText, Codigo: code, Data: string(body), ContentType: string(KindText)}, nil
}
