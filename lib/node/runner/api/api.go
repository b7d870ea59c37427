package api

import (
	"fmt"

	"boscoin.io/tokenpoll/lib/common/keypair"
	"boscoin.io/tokenpoll/lib/network/httpcache"
	"boscoin.io/tokenpoll/lib/node"
	"boscoin.io/tokenpoll/lib/points"
	"boscoin.io/tokenpoll/lib/program"
	"boscoin.io/tokenpoll/lib/storage"
)

const APIVersionV1 = "v1"

// API Endpoint patterns
const (
	GetNodeInfoPattern                 = "/"
	GetPollsHandlerPattern             = "/polls"
	GetPollHandlerPattern              = "/polls/{id}"
	GetPollStreamHandlerPattern        = "/polls/{id}/stream"
	GetPollWebSocketHandlerPattern     = "/polls/{id}/ws"
	PostResetPollsHandlerPattern       = "/polls/reset"
	GetHoldingHandlerPattern           = "/holdings/{id}"
	GetMintHandlerPattern              = "/mints/{id}"
	GetTransactionsHandlerPattern      = "/transactions"
	GetTransactionByHashHandlerPattern = "/transactions/{id}"
	PostTransactionPattern             = "/transactions"
	GetPointsHandlerPattern            = "/points/{id}"
	PostExchangeHandlerPattern         = "/exchange"
)

// MaxRequestBodySize limits the body of the POST endpoints.
const MaxRequestBodySize int64 = 1 << 20

type NetworkHandlerAPI struct {
	localNode *keypair.Full
	program   *program.Program
	exchanger *points.Exchanger
	cache     httpcache.Cache
	urlPrefix string
	version   string
	nodeInfo  node.NodeInfo
}

// NewNetworkHandlerAPI serves the ledger of `p`. `exchanger` may be nil when
// the node has no treasury.
func NewNetworkHandlerAPI(localNode *keypair.Full, p *program.Program, exchanger *points.Exchanger, urlPrefix string, nodeInfo node.NodeInfo) *NetworkHandlerAPI {
	return &NetworkHandlerAPI{
		localNode: localNode,
		program:   p,
		exchanger: exchanger,
		cache:     httpcache.NewNopClient(),
		urlPrefix: urlPrefix,
		version:   APIVersionV1,
		nodeInfo:  nodeInfo,
	}
}

func (api *NetworkHandlerAPI) SetCache(c httpcache.Cache) {
	api.cache = c
}

func (api NetworkHandlerAPI) Cache() httpcache.Cache {
	return api.cache
}

func (api NetworkHandlerAPI) HandlerURLPattern(pattern string) string {
	return fmt.Sprintf("%s/%s%s", api.urlPrefix, api.version, pattern)
}

func (api NetworkHandlerAPI) storage() *storage.LevelDBBackend {
	return api.program.Storage()
}

func (api NetworkHandlerAPI) now() int64 {
	return api.program.Clock().Now().Unix()
}

// executed drops the cached reads once the ledger changed.
func (api NetworkHandlerAPI) executed() {
	api.cache.Purge()
}
