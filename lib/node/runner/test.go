package runner

import (
	"net/http/httptest"

	"boscoin.io/tokenpoll/lib/common"
	"boscoin.io/tokenpoll/lib/common/keypair"
	"boscoin.io/tokenpoll/lib/network"
	"boscoin.io/tokenpoll/lib/points"
	"boscoin.io/tokenpoll/lib/program"
)

// TestNodeRunner is a ready `NodeRunner` on a `program.TestLedger`, served by
// a httptest server instead of its own listener.
type TestNodeRunner struct {
	*NodeRunner

	Ledger   *program.TestLedger
	Treasury *keypair.Full
	HTTP     *httptest.Server
}

func NewTestNodeRunner(conf common.Config) *TestNodeRunner {
	l := program.NewTestLedger()

	treasury := keypair.Random()
	l.Fund(treasury.Address(), 100*common.Amount(1000000000))

	endpoint := common.MustParseEndpoint("http://localhost:12345")
	config, err := network.NewServerConfigFromEndpoint(endpoint)
	if err != nil {
		panic(err)
	}

	nr, err := NewNodeRunner(
		keypair.Random(),
		conf,
		l.Program,
		points.NewExchanger(points.NewMemoryStore(common.DefaultInitialPoints), l.Program, treasury, l.Mint),
		network.NewServer(config),
		endpoint,
		"test-node",
	)
	if err != nil {
		panic(err)
	}
	nr.Ready()

	return &TestNodeRunner{
		NodeRunner: nr,
		Ledger:     l,
		Treasury:   treasury,
		HTTP:       httptest.NewServer(nr.Server().Handler()),
	}
}

func (t *TestNodeRunner) Close() {
	t.HTTP.Close()
	t.Ledger.Program.Storage().Close()
}
