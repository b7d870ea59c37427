package program

import (
	"math"
	"time"

	"boscoin.io/tokenpoll/lib/common"
	"boscoin.io/tokenpoll/lib/storage"
	"boscoin.io/tokenpoll/lib/token"
)

// Context is what an operation handler sees. `Storage` is the open storage
// transaction of the whole ledger transaction.
type Context struct {
	Storage *storage.LevelDBBackend
	Custody token.Custody
	Source  string
	TxHash  string
	Index   int
	Now     time.Time

	staked  common.Amount
	touched []touched
}

type touched struct {
	resource string
	address  string
}

// touch records a record written by the current transaction; observers are
// notified about it after commit.
func (ctx *Context) touch(resource string, addresses ...string) {
	for _, address := range addresses {
		t := touched{resource: resource, address: address}

		var found bool
		for _, e := range ctx.touched {
			if e == t {
				found = true
				break
			}
		}
		if !found {
			ctx.touched = append(ctx.touched, t)
		}
	}
}

func (ctx *Context) touchedAddresses(resource string) (addresses []string) {
	for _, t := range ctx.touched {
		if t.resource == resource {
			addresses = append(addresses, t.address)
		}
	}

	return
}

// stake adds amount to the tokens staked by the transaction. The total only
// feeds metrics, so it saturates instead of failing the transaction.
func (ctx *Context) stake(amount common.Amount) {
	n, err := ctx.staked.Add(amount)
	if err != nil {
		log.Warn("staked amount overflows", "hash", ctx.TxHash, "staked", ctx.staked, "amount", amount)
		n = common.Amount(math.MaxUint64)
	}
	ctx.staked = n
}
