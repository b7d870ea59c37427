package node

import (
	"encoding/json"

	"boscoin.io/tokenpoll/lib/common"
)

// NodeInfo is served at the root of the api.
type NodeInfo struct {
	Node   NodeInfoNode `json:"node"`
	Policy NodePolicy   `json:"policy"`
	Ledger NodeLedger   `json:"ledger"`
}

type NodeInfoNode struct {
	Version  NodeVersion      `json:"version"`
	Started  string           `json:"started"`
	Alias    string           `json:"alias"`
	Address  string           `json:"address"`
	Endpoint *common.Endpoint `json:"endpoint"`
}

type NodePolicy struct {
	NetworkID        string `json:"network-id"`
	OperationsLimit  int    `json:"operations-limit"` // operations limit in a transaction
	InitialPoints    uint64 `json:"initial-points"`   // points of a wallet never seen before
	RateLimitRuleAPI string `json:"rate-limit-api"`
	MaxCandidates    int    `json:"max-candidates"`
	MaxTitleLength   int    `json:"max-title-length"`
}

// NodeLedger describes the token the node pays exchanged points with.
type NodeLedger struct {
	Mint     string `json:"mint"`
	Decimals uint8  `json:"decimals"`
	Treasury string `json:"treasury"`
	Time     string `json:"time"`
}

type NodeVersion struct {
	Version   string `json:"version"`
	GitCommit string `json:"git-commit"`
	GitState  string `json:"git-state"`
	BuildDate string `json:"build-date"`
}

func NewNodeInfoFromJSON(b []byte) (nodeInfo NodeInfo, err error) {
	err = json.Unmarshal(b, &nodeInfo)
	return
}
