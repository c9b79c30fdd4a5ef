package semanticscholar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/yungbote/aura-backend/internal/platform/httpx"
	"github.com/yungbote/aura-backend/internal/platform/logger"
)

const (
	DefaultBaseURL = "https://api.semanticscholar.org/graph/v1"
	paperFields    = "paperId,externalIds,title,abstract,authors,url,venue,year,publicationDate,citationCount,referenceCount,fieldsOfStudy,openAccessPdf"
	maxBodyBytes   = 8 << 20
	maxLimit       = 100
)

var ErrNotFound = errors.New("semanticscholar: paper not found")

type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	// RequestsPerSecond caps outgoing calls; the public tier allows about one.
	RequestsPerSecond float64
}

type Paper struct {
	ExternalID     string
	Title          string
	Abstract       string
	Authors        []string
	URL            string
	PDFURL         string
	Published      *time.Time
	Venue          string
	DOI            string
	CitationCount  int
	ReferenceCount int
	FieldsOfStudy  []string
}

type Client struct {
	log        *logger.Logger
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

func New(log *logger.Logger, cfg Config) *Client {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 1
	}
	return &Client{
		log:        log.With("client", "semantic_scholar"),
		baseURL:    base,
		apiKey:     strings.TrimSpace(cfg.APIKey),
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
	}
}

type apiPaper struct {
	PaperID     string            `json:"paperId"`
	ExternalIDs map[string]any    `json:"externalIds"`
	Title       string            `json:"title"`
	Abstract    *string           `json:"abstract"`
	URL         string            `json:"url"`
	Venue       string            `json:"venue"`
	Year        *int              `json:"year"`
	PubDate     *string           `json:"publicationDate"`
	Citations   int               `json:"citationCount"`
	References  int               `json:"referenceCount"`
	Fields      []string          `json:"fieldsOfStudy"`
	Authors     []apiAuthor       `json:"authors"`
	OpenAccess  *apiOpenAccessPDF `json:"openAccessPdf"`
}

type apiAuthor struct {
	AuthorID string `json:"authorId"`
	Name     string `json:"name"`
}

type apiOpenAccessPDF struct {
	URL string `json:"url"`
}

type searchResponse struct {
	Total  int        `json:"total"`
	Offset int        `json:"offset"`
	Data   []apiPaper `json:"data"`
}

// Search calls /paper/search and maps the results.
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]Paper, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("semanticscholar: empty query")
	}
	if maxResults <= 0 {
		maxResults = 10
	}
	if maxResults > maxLimit {
		maxResults = maxLimit
	}
	params := url.Values{}
	params.Set("query", query)
	params.Set("limit", strconv.Itoa(maxResults))
	params.Set("fields", paperFields)

	var resp searchResponse
	if err := c.get(ctx, "/paper/search", params, &resp); err != nil {
		return nil, err
	}
	out := make([]Paper, 0, len(resp.Data))
	for _, p := range resp.Data {
		if strings.TrimSpace(p.Title) == "" {
			continue
		}
		out = append(out, p.toPaper())
	}
	return out, nil
}

// GetPaper fetches one paper by its Semantic Scholar id (or any id form the
// Graph API accepts, such as "DOI:..." or "arXiv:...").
func (c *Client) GetPaper(ctx context.Context, id string) (*Paper, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrNotFound
	}
	params := url.Values{}
	params.Set("fields", paperFields)

	var p apiPaper
	if err := c.get(ctx, "/paper/"+url.PathEscape(id), params, &p); err != nil {
		if httpx.StatusOf(err) == http.StatusNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	out := p.toPaper()
	return &out, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("semanticscholar: rate limiter: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	start := time.Now()
	_, raw, err := httpx.Do(c.httpClient, "semantic_scholar", req, maxBodyBytes)
	if err != nil {
		c.log.Warn("Semantic Scholar request failed", "path", path, "error", err, "duration_ms", time.Since(start).Milliseconds())
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("semanticscholar: decode %s: %w", path, err)
	}
	c.log.Debug("Semantic Scholar request complete", "path", path, "duration_ms", time.Since(start).Milliseconds())
	return nil
}

func (p apiPaper) toPaper() Paper {
	out := Paper{
		ExternalID:     p.PaperID,
		Title:          strings.TrimSpace(p.Title),
		URL:            p.URL,
		Venue:          p.Venue,
		CitationCount:  p.Citations,
		ReferenceCount: p.References,
		Authors:        make([]string, 0, len(p.Authors)),
		FieldsOfStudy:  p.Fields,
	}
	if out.FieldsOfStudy == nil {
		out.FieldsOfStudy = []string{}
	}
	if p.Abstract != nil {
		out.Abstract = strings.TrimSpace(*p.Abstract)
	}
	if out.URL == "" && p.PaperID != "" {
		out.URL = "https://www.semanticscholar.org/paper/" + p.PaperID
	}
	for _, a := range p.Authors {
		if name := strings.TrimSpace(a.Name); name != "" {
			out.Authors = append(out.Authors, name)
		}
	}
	if p.OpenAccess != nil {
		out.PDFURL = p.OpenAccess.URL
	}
	if doi, ok := p.ExternalIDs["DOI"].(string); ok {
		out.DOI = doi
	}
	switch {
	case p.PubDate != nil && *p.PubDate != "":
		if t, err := time.Parse("2006-01-02", *p.PubDate); err == nil {
			out.Published = &t
		}
	case p.Year != nil && *p.Year > 0:
		t := time.Date(*p.Year, 1, 1, 0, 0, 0, 0, time.UTC)
		out.Published = &t
	}
	return out
}
