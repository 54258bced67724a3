package omniweb

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/couchcryptid/cme-arrival-service/internal/domain"
	"github.com/couchcryptid/cme-arrival-service/internal/observability"
)

// DefaultBaseURL is the NASA SPDF directory holding the hourly OMNI2 yearly files.
const DefaultBaseURL = "https://spdf.gsfc.nasa.gov/pub/data/omni/low_res_omni"

// maxLineSize bounds a single OMNI2 row. Real rows are about 200 bytes.
const maxLineSize = 64 * 1024

// Client implements domain.SeriesProvider against the OMNI2 low-resolution archive.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates an archive client. requestsPerSecond throttles downloads
// so a training run over a long catalog does not hammer the archive.
func NewClient(baseURL string, timeout time.Duration, requestsPerSecond float64, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: newTransport(),
		},
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
		metrics: metrics,
		logger:  logger,
	}
}

// newTransport serves file:// base URLs from the local filesystem so a mirrored
// or generated archive can be used offline.
func newTransport() http.RoundTripper {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.RegisterProtocol("file", http.NewFileTransport(http.Dir("/")))
	return t
}

// FetchYear downloads omni2_<year>.dat and splits it into whitespace-separated rows.
// Every failure wraps domain.ErrDataUnavailable.
func (c *Client) FetchYear(ctx context.Context, year int) (*domain.SeriesTable, error) {
	start := time.Now()
	table, err := c.fetch(ctx, year)
	c.metrics.TableFetchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.TableFetches.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("%w: year %d: %w", domain.ErrDataUnavailable, year, err)
	}
	c.metrics.TableFetches.WithLabelValues("success").Inc()
	c.logger.Debug("solar wind table fetched", "year", year, "rows", table.Len())
	return table, nil
}

func (c *Client) fetch(ctx context.Context, year int) (*domain.SeriesTable, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	u := fmt.Sprintf("%s/omni2_%d.dat", c.baseURL, year)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("archive request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("archive error: status %d: %s", resp.StatusCode, body)
	}

	rows, err := ParseRows(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read table: %w", err)
	}
	return &domain.SeriesTable{Year: year, Rows: rows}, nil
}

// ParseRows splits an OMNI2 text body into rows of whitespace-separated tokens.
// Blank lines are skipped.
func ParseRows(r io.Reader) ([][]string, error) {
	var rows [][]string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), maxLineSize)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		rows = append(rows, fields)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return rows, nil
}
