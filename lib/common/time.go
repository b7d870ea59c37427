package common

import (
	"sync"
	"time"

	"github.com/beevik/ntp"
)

const (
	TIMEFORMAT_ISO8601 string = "2006-01-02T15:04:05.000000000Z07:00"
)

func FormatISO8601(t time.Time) string {
	return t.Format(TIMEFORMAT_ISO8601)
}

func NowISO8601() string {
	return FormatISO8601(time.Now())
}

func ParseISO8601(s string) (time.Time, error) {
	return time.Parse(TIMEFORMAT_ISO8601, s)
}

// Clock is the ledger time source. Poll deadlines are compared against
// `Now().Unix()`.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// NTPClock is the local clock corrected by the offset measured against an
// NTP server. Until the first successful `Sync` it behaves like
// `SystemClock`.
type NTPClock struct {
	sync.RWMutex

	server string
	offset time.Duration
	query  func(string) (time.Duration, error)
}

func NewNTPClock(server string) *NTPClock {
	return &NTPClock{
		server: server,
		query: func(host string) (time.Duration, error) {
			r, err := ntp.Query(host)
			if err != nil {
				return 0, err
			}
			return r.ClockOffset, nil
		},
	}
}

func (c *NTPClock) Server() string {
	return c.server
}

func (c *NTPClock) Offset() time.Duration {
	c.RLock()
	defer c.RUnlock()

	return c.offset
}

func (c *NTPClock) Sync() error {
	offset, err := c.query(c.server)
	if err != nil {
		return err
	}

	c.Lock()
	c.offset = offset
	c.Unlock()

	return nil
}

func (c *NTPClock) Now() time.Time {
	return time.Now().Add(c.Offset())
}

// FixedClock always returns the same instant.
type FixedClock struct {
	sync.RWMutex
	t time.Time
}

func NewFixedClock(t time.Time) *FixedClock {
	return &FixedClock{t: t}
}

func (c *FixedClock) Now() time.Time {
	c.RLock()
	defer c.RUnlock()

	return c.t
}

func (c *FixedClock) Set(t time.Time) {
	c.Lock()
	defer c.Unlock()

	c.t = t
}
