package api

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"

	"github.com/gorilla/mux"

	"boscoin.io/tokenpoll/lib/common"
	"boscoin.io/tokenpoll/lib/common/keypair"
	"boscoin.io/tokenpoll/lib/node"
	"boscoin.io/tokenpoll/lib/points"
	"boscoin.io/tokenpoll/lib/program"
)

const testTreasuryTokens common.Amount = 100 * 1000000000

type testAPI struct {
	*NetworkHandlerAPI
	ledger   *program.TestLedger
	node     *keypair.Full
	treasury *keypair.Full
	store    *points.MemoryStore
	server   *httptest.Server
}

func prepareAPIServer() *testAPI {
	l := program.NewTestLedger()

	treasury := keypair.Random()
	l.Fund(treasury.Address(), testTreasuryTokens)

	store := points.NewMemoryStore(common.DefaultInitialPoints)
	localNode := keypair.Random()

	api := NewNetworkHandlerAPI(
		localNode,
		l.Program,
		points.NewExchanger(store, l.Program, treasury, l.Mint),
		"/api",
		node.NodeInfo{Node: node.NodeInfoNode{Address: localNode.Address()}},
	)

	router := mux.NewRouter()
	router.HandleFunc(api.HandlerURLPattern(GetNodeInfoPattern), api.GetNodeInfoHandler).Methods("GET")
	router.HandleFunc(api.HandlerURLPattern(GetPollsHandlerPattern), api.GetPollsHandler).Methods("GET")
	router.HandleFunc(api.HandlerURLPattern(PostResetPollsHandlerPattern), api.PostResetPollsHandler).Methods("POST")
	router.HandleFunc(api.HandlerURLPattern(GetPollHandlerPattern), api.GetPollHandler).Methods("GET")
	router.HandleFunc(api.HandlerURLPattern(GetPollStreamHandlerPattern), api.GetPollStreamHandler).Methods("GET")
	router.HandleFunc(api.HandlerURLPattern(GetHoldingHandlerPattern), api.GetHoldingHandler).Methods("GET")
	router.HandleFunc(api.HandlerURLPattern(GetMintHandlerPattern), api.GetMintHandler).Methods("GET")
	router.HandleFunc(api.HandlerURLPattern(GetTransactionsHandlerPattern), api.GetTransactionsHandler).Methods("GET")
	router.HandleFunc(api.HandlerURLPattern(GetTransactionByHashHandlerPattern), api.GetTransactionByHashHandler).Methods("GET")
	router.HandleFunc(api.HandlerURLPattern(PostTransactionPattern), api.PostTransactionHandler).Methods("POST")
	router.HandleFunc(api.HandlerURLPattern(GetPointsHandlerPattern), api.GetPointsHandler).Methods("GET")
	router.HandleFunc(api.HandlerURLPattern(PostExchangeHandlerPattern), api.PostExchangeHandler).Methods("POST")

	return &testAPI{
		NetworkHandlerAPI: api,
		ledger:            l,
		node:              localNode,
		treasury:          treasury,
		store:             store,
		server:            httptest.NewServer(router),
	}
}

func (t *testAPI) Close() {
	t.server.Close()
	t.ledger.Program.Storage().Close()
}

func (t *testAPI) request(method, path string, body []byte, streaming bool) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequest(method, t.server.URL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if streaming {
		req.Header.Set("Accept", ContentTypeEventStream)
	}

	return t.server.Client().Do(req)
}
