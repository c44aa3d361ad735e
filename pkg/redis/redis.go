package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/oxtobyd/panelplanner/config"
)

// Client wraps go-redis. Redis is optional: callers hold a nil *Client when
// it is not configured, and every method treats nil as "no cache".
type Client struct {
	rdb    *goredis.Client
	logger *zap.Logger
}

// NewClient connects and pings.
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	if cfg.Addr == "" {
		return nil, errors.New("redis address not configured")
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	logger.Info("redis connected", zap.String("addr", cfg.Addr))

	return &Client{rdb: rdb, logger: logger}, nil
}

// Ping checks the connection for health probes.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.rdb.Ping(ctx).Err()
}

// ── rate limiting ──

// CheckRateLimit records one hit under key and reports whether the sliding
// window still has room.
func (c *Client) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	if c == nil {
		return true, nil
	}
	now := time.Now()
	member := strconv.FormatInt(now.UnixNano(), 10)
	windowStart := strconv.FormatInt(now.Add(-window).UnixNano(), 10)

	var count *goredis.IntCmd
	_, err := c.rdb.TxPipelined(ctx, func(p goredis.Pipeliner) error {
		p.ZRemRangeByScore(ctx, key, "0", windowStart)
		p.ZAdd(ctx, key, goredis.Z{Score: float64(now.UnixNano()), Member: member})
		count = p.ZCard(ctx, key)
		p.Expire(ctx, key, window)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("rate limit %s: %w", key, err)
	}
	return count.Val() <= int64(limit), nil
}

// ── bank holidays ──

const bankHolidaysKey = "calendar:bank_holidays:england-and-wales"

// GetBankHolidays returns the shared copy of the holiday feed, if any.
func (c *Client) GetBankHolidays(ctx context.Context) ([]string, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	raw, err := c.rdb.Get(ctx, bankHolidaysKey).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read bank holidays: %w", err)
	}
	var dates []string
	if err := json.Unmarshal(raw, &dates); err != nil {
		return nil, false, fmt.Errorf("decode cached bank holidays: %w", err)
	}
	return dates, true, nil
}

// SetBankHolidays stores the holiday list for ttl.
func (c *Client) SetBankHolidays(ctx context.Context, dates []string, ttl time.Duration) error {
	if c == nil {
		return nil
	}
	raw, err := json.Marshal(dates)
	if err != nil {
		return fmt.Errorf("encode bank holidays: %w", err)
	}
	return c.rdb.Set(ctx, bankHolidaysKey, raw, ttl).Err()
}

// Close closes the connection.
func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	return c.rdb.Close()
}
