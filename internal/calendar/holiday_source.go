package calendar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	// GovUKBankHolidaysURL is the public England & Wales feed.
	GovUKBankHolidaysURL = "https://www.gov.uk/bank-holidays.json"

	englandAndWales        = "england-and-wales"
	defaultFeedTimeout     = 10 * time.Second
	defaultRetryAfter      = 5 * time.Minute
	holidayFeedMaxSize     = 1 << 20
	defaultHolidayCacheTTL = 24 * time.Hour
)

// ErrNoHolidayDivision the feed did not contain the england-and-wales division
var ErrNoHolidayDivision = errors.New("bank holiday feed has no england-and-wales division")

// HolidaySource yields bank-holiday dates as yyyy-MM-dd strings.
type HolidaySource interface {
	Fetch(ctx context.Context) ([]string, error)
}

// bankHolidayFeed mirrors the gov.uk JSON document.
type bankHolidayFeed map[string]struct {
	Division string `json:"division"`
	Events   []struct {
		Title   string `json:"title"`
		Date    string `json:"date"`
		Notes   string `json:"notes"`
		Bunting bool   `json:"bunting"`
	} `json:"events"`
}

// decodeBankHolidayFeed extracts the england-and-wales dates.
func decodeBankHolidayFeed(r io.Reader) ([]string, error) {
	var feed bankHolidayFeed
	if err := json.NewDecoder(r).Decode(&feed); err != nil {
		return nil, fmt.Errorf("decode bank holiday feed: %w", err)
	}
	div, ok := feed[englandAndWales]
	if !ok {
		return nil, ErrNoHolidayDivision
	}
	dates := make([]string, 0, len(div.Events))
	for _, ev := range div.Events {
		t, err := ParseDate(ev.Date)
		if err != nil {
			return nil, fmt.Errorf("bank holiday %q: %w", ev.Title, err)
		}
		dates = append(dates, FormatDate(t))
	}
	return dates, nil
}

// ── gov.uk feed ──

// GovUKSource fetches the gov.uk bank-holiday JSON over HTTP.
type GovUKSource struct {
	url    string
	client *http.Client
}

// NewGovUKSource creates a feed client; empty url means the public feed.
func NewGovUKSource(url string, timeout time.Duration) *GovUKSource {
	if url == "" {
		url = GovUKBankHolidaysURL
	}
	if timeout <= 0 {
		timeout = defaultFeedTimeout
	}
	return &GovUKSource{url: url, client: &http.Client{Timeout: timeout}}
}

// Fetch downloads and decodes the feed.
func (s *GovUKSource) Fetch(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build bank holiday request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch bank holidays: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch bank holidays: HTTP %d", resp.StatusCode)
	}
	return decodeBankHolidayFeed(io.LimitReader(resp.Body, holidayFeedMaxSize))
}

// ── local file ──

// FileSource reads a local copy of the gov.uk document.
type FileSource struct {
	path string
}

// NewFileSource creates a file-backed source.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Fetch reads and decodes the file.
func (s *FileSource) Fetch(_ context.Context) ([]string, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open bank holiday file: %w", err)
	}
	defer f.Close()
	return decodeBankHolidayFeed(f)
}

// ── composite ──

// CompositeSource tries primary, then fallback.
type CompositeSource struct {
	primary  HolidaySource
	fallback HolidaySource
	logger   *zap.Logger
}

// NewCompositeSource chains two sources.
func NewCompositeSource(primary, fallback HolidaySource, logger *zap.Logger) *CompositeSource {
	return &CompositeSource{primary: primary, fallback: fallback, logger: logger}
}

// Fetch returns the primary result or, on error, the fallback result.
func (s *CompositeSource) Fetch(ctx context.Context) ([]string, error) {
	dates, err := s.primary.Fetch(ctx)
	if err == nil {
		return dates, nil
	}
	if s.fallback == nil {
		return nil, err
	}

	s.logger.Warn("primary bank holiday source failed, falling back", zap.Error(err))

	dates, fbErr := s.fallback.Fetch(ctx)
	if fbErr != nil {
		return nil, fmt.Errorf("primary and fallback both failed: primary=%w, fallback=%v", err, fbErr)
	}
	return dates, nil
}

// ── shared store ──

// HolidayStore persists fetched dates so several processes share one fetch.
type HolidayStore interface {
	GetBankHolidays(ctx context.Context) ([]string, bool, error)
	SetBankHolidays(ctx context.Context, dates []string, ttl time.Duration) error
}

// CachedSource consults a HolidayStore before the wrapped source.
type CachedSource struct {
	source HolidaySource
	store  HolidayStore
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedSource wraps source with store; a nil store disables caching.
func NewCachedSource(source HolidaySource, store HolidayStore, ttl time.Duration, logger *zap.Logger) *CachedSource {
	if ttl <= 0 {
		ttl = defaultHolidayCacheTTL
	}
	return &CachedSource{source: source, store: store, ttl: ttl, logger: logger}
}

// Fetch returns stored dates when present, otherwise fetches and stores.
func (s *CachedSource) Fetch(ctx context.Context) ([]string, error) {
	if s.store != nil {
		dates, ok, err := s.store.GetBankHolidays(ctx)
		if err != nil {
			s.logger.Warn("bank holiday store read failed", zap.Error(err))
		} else if ok {
			return dates, nil
		}
	}

	dates, err := s.source.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	if s.store != nil {
		if err := s.store.SetBankHolidays(ctx, dates, s.ttl); err != nil {
			s.logger.Warn("bank holiday store write failed", zap.Error(err))
		}
	}
	return dates, nil
}

// ── provisioning ──

// Provisioner fills a BankHolidays cache from a source at most once per
// process. A failed fetch leaves the cache empty (fail-open) and is retried
// no sooner than RetryAfter.
type Provisioner struct {
	source     HolidaySource
	cache      *BankHolidays
	logger     *zap.Logger
	retryAfter time.Duration

	// OnFetch, when set, observes every fetch attempt with the number of
	// dates it returned.
	OnFetch func(count int, err error)

	mu          sync.Mutex
	lastFailure time.Time
	now         func() time.Time
}

// NewProvisioner binds a source to a cache.
func NewProvisioner(source HolidaySource, cache *BankHolidays, retryAfter time.Duration, logger *zap.Logger) *Provisioner {
	if retryAfter <= 0 {
		retryAfter = defaultRetryAfter
	}
	return &Provisioner{
		source:     source,
		cache:      cache,
		logger:     logger,
		retryAfter: retryAfter,
		now:        time.Now,
	}
}

// Cache returns the provisioned cache.
func (p *Provisioner) Cache() *BankHolidays { return p.cache }

// Ensure populates the cache unless it is already loaded. The returned error
// is informational: callers carry on with whatever the cache holds.
func (p *Provisioner) Ensure(ctx context.Context) error {
	if p.cache.Loaded() {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cache.Loaded() {
		return nil
	}
	if !p.lastFailure.IsZero() && p.now().Sub(p.lastFailure) < p.retryAfter {
		return nil
	}

	dates, err := p.source.Fetch(ctx)
	if p.OnFetch != nil {
		p.OnFetch(len(dates), err)
	}
	if err != nil {
		p.lastFailure = p.now()
		p.logger.Warn("bank holidays unavailable, treating every day as a working day", zap.Error(err))
		return err
	}

	p.cache.Populate(dates)
	p.logger.Info("bank holidays loaded", zap.Int("count", len(dates)))
	return nil
}
