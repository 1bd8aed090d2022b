package holidays

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/warp/leave-engine/generic"
	"go.uber.org/zap"
)

// DefaultGovUKURL is the published England, Scotland and Northern Ireland feed.
const DefaultGovUKURL = "https://www.gov.uk/bank-holidays.json"

// maxFeedBytes bounds the feed body; the real document is about 20 KB.
const maxFeedBytes = 4 << 20

type govukEvent struct {
	Title string `json:"title"`
	Date  string `json:"date"`
	Notes string `json:"notes"`
}

type govukDivision struct {
	Division string       `json:"division"`
	Events   []govukEvent `json:"events"`
}

// ParseGovUK decodes a GOV.UK bank-holidays document into holidays keyed by
// region. Events with unparsable dates are skipped.
func ParseGovUK(r io.Reader) (map[string][]generic.Holiday, error) {
	var feed map[string]govukDivision
	if err := json.NewDecoder(r).Decode(&feed); err != nil {
		return nil, fmt.Errorf("decode bank holidays feed: %w", err)
	}

	out := make(map[string][]generic.Holiday, len(feed))
	for key, div := range feed {
		region := div.Division
		if region == "" {
			region = key
		}
		hs := make([]generic.Holiday, 0, len(div.Events))
		for _, ev := range div.Events {
			d, err := time.Parse(generic.DateLayout, ev.Date)
			if err != nil {
				continue
			}
			hs = append(hs, generic.Holiday{
				Region: region,
				Date:   generic.DateOf(d, time.UTC),
				Title:  ev.Title,
				Notes:  ev.Notes,
			})
		}
		sortHolidays(hs)
		out[region] = hs
	}
	return out, nil
}

// GovUK fetches the GOV.UK feed and caches it for TTL.
type GovUK struct {
	URL    string
	Client *http.Client
	TTL    time.Duration
	Logger *zap.Logger

	mu        sync.Mutex
	feed      map[string][]generic.Holiday
	fetchedAt time.Time
}

var _ Source = (*GovUK)(nil)

func NewGovUK(url string, timeout time.Duration, logger *zap.Logger) *GovUK {
	if url == "" {
		url = DefaultGovUKURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GovUK{
		URL:    url,
		Client: &http.Client{Timeout: timeout},
		TTL:    24 * time.Hour,
		Logger: logger,
	}
}

func (g *GovUK) Holidays(ctx context.Context, region string, year int) ([]generic.Holiday, error) {
	feed, err := g.Feed(ctx)
	if err != nil {
		return nil, err
	}
	hs, ok := feed[region]
	if !ok {
		return nil, fmt.Errorf("%w: %s", generic.ErrRegionUnknown, region)
	}
	return FilterYear(hs, region, year), nil
}

// Feed returns the cached feed, fetching it when empty or stale.
func (g *GovUK) Feed(ctx context.Context) (map[string][]generic.Holiday, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.feed != nil && (g.TTL <= 0 || time.Since(g.fetchedAt) < g.TTL) {
		return g.feed, nil
	}

	feed, err := g.fetch(ctx)
	if err != nil {
		return nil, err
	}
	g.feed = feed
	g.fetchedAt = time.Now()
	return feed, nil
}

func (g *GovUK) fetch(ctx context.Context) (map[string][]generic.Holiday, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", generic.ErrUpstream, err)
	}
	req.Header.Set("Accept", "application/json")

	client := g.Client
	if client == nil {
		client = http.DefaultClient
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", generic.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned %d", generic.ErrUpstream, g.URL, resp.StatusCode)
	}

	feed, err := ParseGovUK(io.LimitReader(resp.Body, maxFeedBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", generic.ErrUpstream, err)
	}

	if g.Logger != nil {
		g.Logger.Info("fetched bank holidays",
			zap.String("url", g.URL),
			zap.Int("regions", len(feed)),
			zap.Duration("took", time.Since(start)))
	}
	return feed, nil
}
