package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/LeoCastillo21/Proyecto/internal/league"
	"github.com/LeoCastillo21/Proyecto/internal/logger"
	"github.com/LeoCastillo21/Proyecto/internal/stats"
	"github.com/PuerkitoBio/goquery"
	"github.com/avast/retry-go/v4"
)

const (
	UserAgent  = "league-stats/1.0 (github.com/LeoCastillo21/Proyecto)"
	Timeout    = 30 * time.Second
	Retries    = 3
	RetryDelay = time.Second

	tableSelector   = "table.table"
	headingSelector = "h2.title"
	nameSelector    = "span.name"
)

// ErrNoCategory is returned when a statistics table has no heading before it
var ErrNoCategory = errors.New("table has no preceding category heading")

// StatusError reports a non-200 response
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d from %s", e.Code, e.URL)
}

// Scraper handles fetching and parsing league statistics pages
type Scraper struct {
	client     *http.Client
	userAgent  string
	retries    uint
	retryDelay time.Duration
}

// Option configures a Scraper
type Option func(*Scraper)

// WithTimeout bounds each HTTP request
func WithTimeout(d time.Duration) Option {
	return func(s *Scraper) {
		s.client.Timeout = d
	}
}

// WithUserAgent sets the User-Agent header sent with every request
func WithUserAgent(ua string) Option {
	return func(s *Scraper) {
		s.userAgent = ua
	}
}

// WithRetries sets how many attempts a fetch gets and the pause between them
func WithRetries(attempts uint, delay time.Duration) Option {
	return func(s *Scraper) {
		s.retries = attempts
		s.retryDelay = delay
	}
}

// New creates a new Scraper instance
func New(opts ...Option) *Scraper {
	s := &Scraper{
		client: &http.Client{
			Timeout: Timeout,
		},
		userAgent:  UserAgent,
		retries:    Retries,
		retryDelay: RetryDelay,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.retries < 1 {
		s.retries = 1
	}
	return s
}

// FetchPage fetches and parses the statistics page of a league
func (s *Scraper) FetchPage(ctx context.Context, l league.League) (*stats.Page, error) {
	start := time.Now()
	body, err := s.fetch(ctx, l.URL)
	if err != nil {
		return nil, err
	}
	logger.RecordTiming("scrape.fetch", time.Since(start))

	page, err := ParsePage(bytes.NewReader(body), l)
	if err != nil {
		return nil, err
	}

	logger.Debug("Fetched statistics page", logger.Fields{
		"league": l.Slug,
		"url":    l.URL,
		"tables": len(page.Tables),
		"rows":   page.RowCount(),
	})

	return page, nil
}

// LoadPage parses a statistics page saved to disk
func LoadPage(path string, l league.League) (*stats.Page, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening page: %w", err)
	}
	defer f.Close()

	page, err := ParsePage(f, l)
	if err != nil {
		return nil, err
	}
	page.URL = path
	return page, nil
}

// fetch GETs url, retrying transport errors and 5xx responses
func (s *Scraper) fetch(ctx context.Context, url string) ([]byte, error) {
	var body []byte

	err := retry.Do(
		func() error {
			b, err := s.get(ctx, url)
			if err != nil {
				return err
			}
			body = b
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(s.retries),
		retry.Delay(s.retryDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(isRetryable),
		retry.OnRetry(func(n uint, err error) {
			logger.IncrCounter("scrape.retry")
			logger.Warn("Retrying fetch", logger.Fields{
				"url":     url,
				"attempt": n + 1,
				"error":   err.Error(),
			})
		}),
	)
	if err != nil {
		return nil, err
	}

	return body, nil
}

func (s *Scraper) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, retry.Unrecoverable(fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{URL: url, Code: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading body: %w", err)
	}
	return body, nil
}

// isRetryable reports whether a failed fetch is worth another attempt
func isRetryable(err error) bool {
	if !retry.IsRecoverable(err) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code >= http.StatusInternalServerError
	}
	return true
}

// ParsePage extracts every statistics table of a league page
func ParsePage(r io.Reader, l league.League) (*stats.Page, error) {
	start := time.Now()
	tables, err := ParseTables(r)
	if err != nil {
		return nil, err
	}
	logger.RecordTiming("scrape.parse", time.Since(start))

	return &stats.Page{
		League:    l.Name,
		URL:       l.URL,
		Tables:    tables,
		FetchedAt: time.Now().UTC(),
	}, nil
}

// ParseTables extracts category tables from HTML in document order
func ParseTables(r io.Reader) ([]*stats.Table, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	tables := make([]*stats.Table, 0)
	heading := ""
	index := 0

	// The selector group matches in document order, so the last heading seen
	// is the one that precedes the current table.
	doc.Find(headingSelector + ", " + tableSelector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if sel.Is(headingSelector) {
			heading = cleanText(sel.Text())
			return true
		}

		index++
		if heading == "" {
			err = fmt.Errorf("table %d: %w", index, ErrNoCategory)
			return false
		}

		tables = append(tables, parseTable(sel, heading))
		return true
	})
	if err != nil {
		return nil, err
	}

	return tables, nil
}

// parseTable reads the data rows of one table, skipping the header row
func parseTable(sel *goquery.Selection, category string) *stats.Table {
	table := stats.NewTable(category)

	rows := sel.Find("tr")
	if rows.Length() < 2 {
		return table
	}

	rows.Slice(1, goquery.ToEnd).Each(func(i int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if cells.Length() < 3 {
			table.Skipped++
			logger.Warn("Skipping row with missing cells", logger.Fields{
				"category": category,
				"row":      i + 1,
				"cells":    cells.Length(),
			})
			return
		}

		name := cells.Eq(1).Find(nameSelector).First()
		if name.Length() == 0 {
			table.Skipped++
			logger.Warn("Skipping row without player name", logger.Fields{
				"category": category,
				"row":      i + 1,
			})
			return
		}

		table.Add(
			strings.TrimSpace(cells.Eq(0).Text()),
			cleanText(name.Text()),
			strings.TrimSpace(cells.Eq(2).Text()),
		)
	})

	return table
}

// cleanText trims and collapses internal whitespace
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
