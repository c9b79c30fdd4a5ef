package arxiv

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/yungbote/aura-backend/internal/platform/httpx"
	"github.com/yungbote/aura-backend/internal/platform/logger"
)

const (
	DefaultBaseURL = "http://export.arxiv.org/api/query"
	maxBodyBytes   = 8 << 20
)

var ErrNotFound = errors.New("arxiv: paper not found")

type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Paper is one Atom entry mapped to plain fields.
type Paper struct {
	ExternalID string
	Title      string
	Abstract   string
	Authors    []string
	URL        string
	PDFURL     string
	Published  *time.Time
	Categories []string
	DOI        string
	JournalRef string
}

type Client struct {
	log        *logger.Logger
	baseURL    string
	httpClient *http.Client
}

func New(log *logger.Logger, cfg Config) *Client {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		base = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		log:        log.With("client", "arxiv"),
		baseURL:    base,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Search runs a relevance-sorted query. Free text without a field prefix is
// searched across all fields.
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]Paper, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("arxiv: empty query")
	}
	if maxResults <= 0 {
		maxResults = 10
	}
	if !strings.Contains(query, ":") {
		query = "all:" + query
	}
	params := url.Values{}
	params.Set("search_query", query)
	params.Set("start", "0")
	params.Set("max_results", strconv.Itoa(maxResults))
	params.Set("sortBy", "relevance")
	params.Set("sortOrder", "descending")
	return c.fetch(ctx, params)
}

// Get fetches a single paper by arXiv id (with or without version suffix).
func (c *Client) Get(ctx context.Context, id string) (*Paper, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrNotFound
	}
	params := url.Values{}
	params.Set("id_list", id)
	papers, err := c.fetch(ctx, params)
	if err != nil {
		return nil, err
	}
	if len(papers) == 0 {
		return nil, ErrNotFound
	}
	return &papers[0], nil
}

func (c *Client) fetch(ctx context.Context, params url.Values) ([]Paper, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/atom+xml")

	start := time.Now()
	_, raw, err := httpx.Do(c.httpClient, "arxiv", req, maxBodyBytes)
	if err != nil {
		c.log.Warn("arXiv request failed", "error", err, "duration_ms", time.Since(start).Milliseconds())
		return nil, err
	}
	papers, err := Parse(raw)
	if err != nil {
		return nil, err
	}
	c.log.Debug("arXiv request complete", "results", len(papers), "duration_ms", time.Since(start).Milliseconds())
	return papers, nil
}

type atomFeed struct {
	XMLName xml.Name    `xml:"http://www.w3.org/2005/Atom feed"`
	Entries []atomEntry `xml:"http://www.w3.org/2005/Atom entry"`
}

type atomEntry struct {
	ID        string `xml:"http://www.w3.org/2005/Atom id"`
	Title     string `xml:"http://www.w3.org/2005/Atom title"`
	Summary   string `xml:"http://www.w3.org/2005/Atom summary"`
	Published string `xml:"http://www.w3.org/2005/Atom published"`
	Authors   []struct {
		Name string `xml:"http://www.w3.org/2005/Atom name"`
	} `xml:"http://www.w3.org/2005/Atom author"`
	Links []struct {
		Href  string `xml:"href,attr"`
		Rel   string `xml:"rel,attr"`
		Title string `xml:"title,attr"`
		Type  string `xml:"type,attr"`
	} `xml:"http://www.w3.org/2005/Atom link"`
	Categories []struct {
		Term string `xml:"term,attr"`
	} `xml:"http://www.w3.org/2005/Atom category"`
	DOI        string `xml:"http://arxiv.org/schemas/atom doi"`
	JournalRef string `xml:"http://arxiv.org/schemas/atom journal_ref"`
}

var versionSuffix = regexp.MustCompile(`v\d+$`)

// Parse decodes an Atom feed returned by the arXiv query API.
func Parse(raw []byte) ([]Paper, error) {
	var feed atomFeed
	if err := xml.Unmarshal(raw, &feed); err != nil {
		return nil, fmt.Errorf("arxiv: decode feed: %w", err)
	}
	out := make([]Paper, 0, len(feed.Entries))
	for _, e := range feed.Entries {
		// the API reports malformed queries as a single entry under /api/errors
		if strings.Contains(e.ID, "/api/errors") {
			return nil, fmt.Errorf("arxiv: query rejected: %s", collapse(e.Summary))
		}
		title := collapse(e.Title)
		if title == "" {
			continue
		}
		p := Paper{
			ExternalID: ExternalID(e.ID),
			Title:      title,
			Abstract:   collapse(e.Summary),
			URL:        strings.TrimSpace(e.ID),
			Authors:    make([]string, 0, len(e.Authors)),
			Categories: make([]string, 0, len(e.Categories)),
			DOI:        strings.TrimSpace(e.DOI),
			JournalRef: collapse(e.JournalRef),
		}
		for _, a := range e.Authors {
			if name := collapse(a.Name); name != "" {
				p.Authors = append(p.Authors, name)
			}
		}
		for _, cat := range e.Categories {
			if cat.Term != "" {
				p.Categories = append(p.Categories, cat.Term)
			}
		}
		if t, err := time.Parse(time.RFC3339, strings.TrimSpace(e.Published)); err == nil {
			d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			p.Published = &d
		}
		for _, l := range e.Links {
			if l.Title == "pdf" || l.Type == "application/pdf" {
				p.PDFURL = l.Href
				break
			}
		}
		if p.PDFURL == "" && p.ExternalID != "" {
			p.PDFURL = "https://arxiv.org/pdf/" + p.ExternalID
		}
		out = append(out, p)
	}
	return out, nil
}

// ExternalID extracts the arXiv identifier from an abs URL, dropping the
// version suffix so that revisions of one paper share an id.
func ExternalID(absURL string) string {
	absURL = strings.TrimSpace(absURL)
	i := strings.Index(absURL, "/abs/")
	if i < 0 {
		return ""
	}
	return versionSuffix.ReplaceAllString(absURL[i+len("/abs/"):], "")
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
