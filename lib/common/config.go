package common

import (
	"net"
	"strings"

	"github.com/ulule/limiter"

	"boscoin.io/tokenpoll/lib/errors"
)

//
// Config holds the runtime settings shared by the ledger and its API.
//
type Config struct {
	NetworkID []byte
	OpsLimit  int

	// InitialPoints is credited to a wallet the first time the points store
	// sees it.
	InitialPoints uint64

	NTPServer string

	RateLimitRuleAPI RateLimitRule

	HTTPCacheAdapter    string
	HTTPCachePoolSize   int
	HTTPCacheRedisAddrs map[string]string
}

func NewConfig(networkID []byte) Config {
	p := Config{}

	p.NetworkID = networkID
	p.OpsLimit = DefaultOperationsInTransactionLimit
	p.InitialPoints = DefaultInitialPoints
	p.NTPServer = DefaultNTPServer

	p.RateLimitRuleAPI = NewRateLimitRule(MustParseRate(RateLimitAPI))

	p.HTTPCachePoolSize = HTTPCachePoolSize

	return p
}

// RateLimitRule has a default rate and per-IP overrides.
type RateLimitRule struct {
	Default     limiter.Rate
	ByIPAddress map[string]limiter.Rate
}

func NewRateLimitRule(rate limiter.Rate) RateLimitRule {
	return RateLimitRule{
		Default:     rate,
		ByIPAddress: map[string]limiter.Rate{},
	}
}

func MustParseRate(s string) limiter.Rate {
	rate, err := limiter.NewRateFromFormatted(s)
	if err != nil {
		panic(err)
	}

	return rate
}

// Parse reads `<rate>` for the default rate or `<ip>=<rate>`
// for an override, eg. "100-S" or "127.0.0.1=1000-M".
func (r *RateLimitRule) Parse(s string) error {
	var ip, formatted string
	if i := strings.Index(s, "="); i < 0 {
		formatted = s
	} else {
		ip, formatted = s[:i], s[i+1:]
		if net.ParseIP(ip) == nil {
			return errors.BadRequestParameter.Clone().SetData("ip", ip)
		}
	}

	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return errors.BadRequestParameter.Clone().SetData("rate", formatted)
	}

	if len(ip) < 1 {
		r.Default = rate
	} else {
		r.ByIPAddress[ip] = rate
	}

	return nil
}

// RateFor returns the rate applied to the given ip.
func (r RateLimitRule) RateFor(ip string) limiter.Rate {
	if rate, found := r.ByIPAddress[ip]; found {
		return rate
	}

	return r.Default
}
