package runner

import (
	"context"
	"net/http"
	"time"

	logging "github.com/inconshreveable/log15"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"boscoin.io/tokenpoll/lib/common"
	"boscoin.io/tokenpoll/lib/common/keypair"
	"boscoin.io/tokenpoll/lib/network"
	"boscoin.io/tokenpoll/lib/network/httpcache"
	"boscoin.io/tokenpoll/lib/network/httputils"
	"boscoin.io/tokenpoll/lib/node"
	"boscoin.io/tokenpoll/lib/node/runner/api"
	"boscoin.io/tokenpoll/lib/points"
	"boscoin.io/tokenpoll/lib/program"
	"boscoin.io/tokenpoll/lib/token"
	"boscoin.io/tokenpoll/lib/version"
)

const (
	UrlPathPrefixAPI = "/api"
	UrlPathMetric    = "/metrics"
	UrlPathJSONRPC   = "/jsonrpc"

	// DefaultCacheTTL bounds how stale a cached read can be when the cache
	// adapter can not be purged.
	DefaultCacheTTL = 2 * time.Second
)

// NodeRunner wires the ledger program, the points exchanger and the http
// server of one node.
type NodeRunner struct {
	localNode *keypair.Full
	conf      common.Config
	program   *program.Program
	exchanger *points.Exchanger
	server    *network.Server
	cache     httpcache.Cache
	nodeInfo  node.NodeInfo
	log       logging.Logger
}

// NewNodeRunner prepares the node; `exchanger` may be nil when the node does
// not pay out points.
func NewNodeRunner(
	localNode *keypair.Full,
	conf common.Config,
	p *program.Program,
	exchanger *points.Exchanger,
	server *network.Server,
	endpoint *common.Endpoint,
	alias string,
) (nr *NodeRunner, err error) {
	nr = &NodeRunner{
		localNode: localNode,
		conf:      conf,
		program:   p,
		exchanger: exchanger,
		server:    server,
		log:       log.New(logging.Ctx{"node": localNode.Address()}),
	}

	if nr.cache, err = httpcache.NewCache(conf, DefaultCacheTTL); err != nil {
		return nil, err
	}

	nr.nodeInfo = nr.makeNodeInfo(endpoint, alias)

	return nr, nil
}

func (nr *NodeRunner) makeNodeInfo(endpoint *common.Endpoint, alias string) node.NodeInfo {
	info := node.NodeInfo{
		Node: node.NodeInfoNode{
			Version: node.NodeVersion{
				Version:   version.Version,
				GitCommit: version.GitCommit,
				GitState:  version.GitState,
				BuildDate: version.BuildDate,
			},
			Started:  common.NowISO8601(),
			Alias:    alias,
			Address:  nr.localNode.Address(),
			Endpoint: endpoint,
		},
		Policy: node.NodePolicy{
			NetworkID:        string(nr.conf.NetworkID),
			OperationsLimit:  nr.conf.OpsLimit,
			InitialPoints:    nr.conf.InitialPoints,
			RateLimitRuleAPI: nr.conf.RateLimitRuleAPI.Default.Formatted,
			MaxCandidates:    5,
			MaxTitleLength:   40,
		},
	}

	if nr.exchanger != nil {
		info.Ledger.Mint = nr.exchanger.Mint()
		info.Ledger.Treasury = nr.exchanger.TreasuryHolding()
		if m, err := token.GetMint(nr.program.Storage(), nr.exchanger.Mint()); err == nil {
			info.Ledger.Decimals = m.Decimals
		} else {
			nr.log.Error("failed to load the exchange mint", "mint", nr.exchanger.Mint(), "error", err)
		}
	}

	return info
}

// Ready adds the middlewares and the handlers to the server.
func (nr *NodeRunner) Ready() {
	router := nr.server.Router()

	// base router middlewares impact all the sub routers.
	router.Use(network.RecoverMiddleware(false))

	router.Handle(UrlPathMetric, promhttp.Handler()).Methods("GET")
	router.Handle(UrlPathJSONRPC, NewJSONRPCHandler(nr.program.Storage())).Methods("POST", "OPTIONS")

	apiRouter := nr.server.APIRouter()
	apiRouter.Use(
		network.MetricsMiddleware,
		network.RateLimitMiddleware(nr.log, nr.conf.RateLimitRuleAPI),
		network.CORSMiddleware(),
	)

	apiHandler := api.NewNetworkHandlerAPI(
		nr.localNode,
		nr.program,
		nr.exchanger,
		UrlPathPrefixAPI,
		nr.nodeInfo,
	)
	apiHandler.SetCache(nr.cache)

	cached := nr.cache.WrapHandlerFunc

	apiRouter.HandleFunc(api.GetNodeInfoPattern, apiHandler.GetNodeInfoHandler).Methods("GET", "OPTIONS")
	apiRouter.HandleFunc(api.GetPollsHandlerPattern, cached(apiHandler.GetPollsHandler)).Methods("GET", "OPTIONS")
	apiRouter.HandleFunc(api.PostResetPollsHandlerPattern, apiHandler.PostResetPollsHandler).Methods("POST", "OPTIONS")
	apiRouter.HandleFunc(api.GetPollStreamHandlerPattern, apiHandler.GetPollStreamHandler).Methods("GET", "OPTIONS")
	apiRouter.HandleFunc(api.GetPollWebSocketHandlerPattern, apiHandler.GetPollWebSocketHandler).Methods("GET")
	apiRouter.HandleFunc(api.GetPollHandlerPattern, nr.pollHandler(apiHandler)).Methods("GET", "OPTIONS")
	apiRouter.HandleFunc(api.GetHoldingHandlerPattern, cached(apiHandler.GetHoldingHandler)).Methods("GET", "OPTIONS")
	apiRouter.HandleFunc(api.GetMintHandlerPattern, cached(apiHandler.GetMintHandler)).Methods("GET", "OPTIONS")
	apiRouter.HandleFunc(api.GetTransactionByHashHandlerPattern, cached(apiHandler.GetTransactionByHashHandler)).Methods("GET", "OPTIONS")
	apiRouter.HandleFunc(api.GetTransactionsHandlerPattern, apiHandler.GetTransactionsHandler).Methods("GET", "OPTIONS")
	apiRouter.HandleFunc(api.PostTransactionPattern, apiHandler.PostTransactionHandler).
		Methods("POST", "OPTIONS").
		MatcherFunc(common.PostAndJSONMatcher)
	apiRouter.HandleFunc(api.GetPointsHandlerPattern, apiHandler.GetPointsHandler).Methods("GET", "OPTIONS")
	apiRouter.HandleFunc(api.PostExchangeHandlerPattern, apiHandler.PostExchangeHandler).
		Methods("POST", "OPTIONS").
		MatcherFunc(common.PostAndJSONMatcher)
}

// pollHandler caches poll reads but never the event streams.
func (nr *NodeRunner) pollHandler(apiHandler *api.NetworkHandlerAPI) http.HandlerFunc {
	cached := nr.cache.WrapHandlerFunc(apiHandler.GetPollHandler)
	return func(w http.ResponseWriter, r *http.Request) {
		if httputils.IsEventStream(r) {
			apiHandler.GetPollStreamHandler(w, r)
			return
		}
		cached(w, r)
	}
}

func (nr *NodeRunner) Start() error {
	nr.Ready()

	nr.log.Info("node started", "endpoint", nr.nodeInfo.Node.Endpoint, "network", string(nr.conf.NetworkID))
	return nr.server.Start()
}

func (nr *NodeRunner) Stop(ctx context.Context) error {
	nr.log.Info("node stopping")
	return nr.server.Stop(ctx)
}

func (nr *NodeRunner) Node() *keypair.Full {
	return nr.localNode
}

func (nr *NodeRunner) Program() *program.Program {
	return nr.program
}

func (nr *NodeRunner) Server() *network.Server {
	return nr.server
}

func (nr *NodeRunner) NodeInfo() node.NodeInfo {
	return nr.nodeInfo
}

func (nr *NodeRunner) Log() logging.Logger {
	return nr.log
}
