package common

import "time"

const (
	// DefaultOperationsInTransactionLimit caps the operations of one transaction.
	DefaultOperationsInTransactionLimit = 100

	// DefaultInitialPoints is the balance of a wallet the points store has
	// never seen.
	DefaultInitialPoints uint64 = 1000

	// DefaultTokenDecimals is used by `genesis` when no decimals are given.
	DefaultTokenDecimals uint8 = 9

	DefaultNTPServer = "pool.ntp.org"

	DefaultNTPSyncInterval = 10 * time.Minute

	HTTPCachePoolSize = 10000

	HTTPCacheMemoryAdapterName = "mem"
	HTTPCacheRedisAdapterName  = "redis"
	HTTPCacheNopAdapterName    = "nop"

	RateLimitAPI = "100-S"
)
