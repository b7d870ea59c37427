package api

import (
	"bufio"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"boscoin.io/tokenpoll/lib/common"
	"boscoin.io/tokenpoll/lib/common/keypair"
	"boscoin.io/tokenpoll/lib/errors"
	"boscoin.io/tokenpoll/lib/program"
	"boscoin.io/tokenpoll/lib/token"
	"boscoin.io/tokenpoll/lib/transaction"
	"boscoin.io/tokenpoll/lib/transaction/operation"
)

const farDeadline = program.TestLedgerNow + 3600

func readJSON(t *testing.T, resp *http.Response) map[string]interface{} {
	defer resp.Body.Close()

	b, err := ioutil.ReadAll(resp.Body)
	require.NoError(t, err)

	m := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(b, &m), string(b))
	return m
}

func records(m map[string]interface{}) []map[string]interface{} {
	var rs []map[string]interface{}
	embedded, ok := m["_embedded"].(map[string]interface{})
	if !ok {
		return rs
	}
	for _, r := range embedded["records"].([]interface{}) {
		rs = append(rs, r.(map[string]interface{}))
	}
	return rs
}

func requireProblem(t *testing.T, resp *http.Response, status int, e *errors.Error) {
	require.Equal(t, status, resp.StatusCode)
	m := readJSON(t, resp)
	require.Equal(t, float64(e.Code), m["code"])
}

func TestGetNodeInfo(t *testing.T) {
	ta := prepareAPIServer()
	defer ta.Close()

	resp, err := ta.request("GET", "/api/v1/", nil, false)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	m := readJSON(t, resp)
	require.Equal(t, ta.node.Address(), m["node"].(map[string]interface{})["address"])
	ledgerTime, err := common.ParseISO8601(m["ledger"].(map[string]interface{})["time"].(string))
	require.NoError(t, err)
	require.Equal(t, program.TestLedgerNow, ledgerTime.Unix())
}

func TestGetPoll(t *testing.T) {
	ta := prepareAPIServer()
	defer ta.Close()

	owner := keypair.Random()
	address := ta.ledger.CreatePoll(owner, farDeadline, "yes", "no")

	resp, err := ta.request("GET", "/api/v1/polls/"+address, nil, false)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "application/hal+json", resp.Header.Get("Content-Type"))

	m := readJSON(t, resp)
	require.Equal(t, address, m["address"])
	require.Equal(t, []interface{}{"yes", "no"}, m["candidates"])
	require.Equal(t, []interface{}{"0", "0"}, m["votes"])
	require.Equal(t, true, m["is_open"])
	require.Equal(t, ta.ledger.Vault(address), m["vault"])

	resp, err = ta.request("GET", "/api/v1/polls/"+keypair.Random().Address(), nil, false)
	require.NoError(t, err)
	requireProblem(t, resp, http.StatusNotFound, errors.PollDoesNotExist)
}

func TestGetPolls(t *testing.T) {
	ta := prepareAPIServer()
	defer ta.Close()

	owner := keypair.Random()
	var addresses []string
	for i := 0; i < 3; i++ {
		addresses = append(addresses, ta.ledger.CreatePoll(owner, farDeadline, "a", "b"))
	}
	other := ta.ledger.CreatePoll(keypair.Random(), farDeadline, "a", "b")

	// close the first one
	_, err := ta.ledger.Execute(owner, operation.MakeTestResetPoll(addresses[0]))
	require.NoError(t, err)

	{ // active polls only
		resp, err := ta.request("GET", "/api/v1/polls", nil, false)
		require.NoError(t, err)
		rs := records(readJSON(t, resp))
		require.Equal(t, 3, len(rs))
		require.Equal(t, addresses[1], rs[0]["address"])
		require.Equal(t, other, rs[2]["address"])
	}

	{ // all
		resp, err := ta.request("GET", "/api/v1/polls?all=true", nil, false)
		require.NoError(t, err)
		require.Equal(t, 4, len(records(readJSON(t, resp))))
	}

	{ // by owner
		resp, err := ta.request("GET", "/api/v1/polls?all=1&owner="+owner.Address(), nil, false)
		require.NoError(t, err)
		rs := records(readJSON(t, resp))
		require.Equal(t, 3, len(rs))
		for i, r := range rs {
			require.Equal(t, addresses[i], r["address"])
		}
	}

	{ // bad query
		resp, err := ta.request("GET", "/api/v1/polls?all=maybe", nil, false)
		require.NoError(t, err)
		requireProblem(t, resp, http.StatusBadRequest, errors.BadRequestParameter)

		resp, err = ta.request("GET", "/api/v1/polls?owner=nobody", nil, false)
		require.NoError(t, err)
		requireProblem(t, resp, http.StatusBadRequest, errors.BadPublicAddress)
	}
}

func TestGetPollsPaging(t *testing.T) {
	ta := prepareAPIServer()
	defer ta.Close()

	owner := keypair.Random()
	var addresses []string
	for i := 0; i < 5; i++ {
		addresses = append(addresses, ta.ledger.CreatePoll(owner, farDeadline, "a", "b"))
	}

	var seen []string
	path := "/api/v1/polls?limit=2"
	for i := 0; i < 5 && len(path) > 0; i++ {
		resp, err := ta.request("GET", path, nil, false)
		require.NoError(t, err)
		m := readJSON(t, resp)

		rs := records(m)
		if len(rs) < 1 {
			break
		}
		for _, r := range rs {
			seen = append(seen, r["address"].(string))
		}

		path = m["_links"].(map[string]interface{})["next"].(map[string]interface{})["href"].(string)
	}

	require.Equal(t, addresses, seen)

	resp, err := ta.request("GET", "/api/v1/polls?limit=1000", nil, false)
	require.NoError(t, err)
	requireProblem(t, resp, http.StatusBadRequest, errors.BadRequestParameter)
}

func TestPollStream(t *testing.T) {
	ta := prepareAPIServer()
	defer ta.Close()

	owner := keypair.Random()
	address := ta.ledger.CreatePoll(owner, farDeadline, "yes", "no")

	voter := keypair.Random()
	holding := ta.ledger.Fund(voter.Address(), 100)

	resp, err := ta.request("GET", "/api/v1/polls/"+address+"/stream", nil, true)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, ContentTypeEventStream, resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	readPoll := func() map[string]interface{} {
		line, err := reader.ReadBytes('\n')
		require.NoError(t, err)

		m := map[string]interface{}{}
		require.NoError(t, json.Unmarshal(line, &m))
		return m
	}

	require.Equal(t, []interface{}{"0", "0"}, readPoll()["votes"])

	_, err = ta.ledger.Vote(voter, address, 1, 25, holding)
	require.NoError(t, err)

	done := make(chan map[string]interface{})
	go func() {
		done <- readPoll()
	}()

	select {
	case m := <-done:
		require.Equal(t, address, m["address"])
		require.Equal(t, []interface{}{"0", "25"}, m["votes"])
	case <-time.After(5 * time.Second):
		t.Fatal("poll update was not streamed")
	}
}

func TestPostResetPolls(t *testing.T) {
	ta := prepareAPIServer()
	defer ta.Close()

	var owned []string
	for i := 0; i < 3; i++ {
		owned = append(owned, ta.ledger.CreatePoll(ta.node, farDeadline, "a", "b"))
	}
	other := ta.ledger.CreatePoll(keypair.Random(), farDeadline, "a", "b")

	// already closed polls are skipped
	_, err := ta.ledger.Execute(ta.node, operation.MakeTestResetPoll(owned[0]))
	require.NoError(t, err)

	resp, err := ta.request("POST", "/api/v1/polls/reset", nil, false)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	rs := records(readJSON(t, resp))
	require.Equal(t, 1, len(rs))
	require.Equal(t, ta.node.Address(), rs[0]["source"])
	require.Equal(t, 2, len(rs[0]["operations"].([]interface{})))

	for _, address := range owned {
		resp, err := ta.request("GET", "/api/v1/polls/"+address, nil, false)
		require.NoError(t, err)
		require.Equal(t, true, readJSON(t, resp)["is_closed"])
	}

	resp, err = ta.request("GET", "/api/v1/polls/"+other, nil, false)
	require.NoError(t, err)
	require.Equal(t, false, readJSON(t, resp)["is_closed"])

	// nothing left to reset
	resp, err = ta.request("POST", "/api/v1/polls/reset", nil, false)
	require.NoError(t, err)
	require.Equal(t, 0, len(records(readJSON(t, resp))))
}

func TestPostTransactionVote(t *testing.T) {
	ta := prepareAPIServer()
	defer ta.Close()

	owner := keypair.Random()
	address := ta.ledger.CreatePoll(owner, farDeadline, "yes", "no")

	voter := keypair.Random()
	holding := ta.ledger.Fund(voter.Address(), 100)

	tx := transaction.TestMakeTransaction(
		ta.ledger.NetworkID,
		voter,
		operation.MakeTestVote(address, 0, 10, holding, ta.ledger.Vault(address)),
	)
	body, err := json.Marshal(tx)
	require.NoError(t, err)

	resp, err := ta.request("POST", "/api/v1/transactions", body, false)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	m := readJSON(t, resp)
	require.Equal(t, tx.GetHash(), m["hash"])
	require.Equal(t, "/api/v1/polls/"+address, m["_links"].(map[string]interface{})["poll"].(map[string]interface{})["href"])

	resp, err = ta.request("GET", "/api/v1/polls/"+address, nil, false)
	require.NoError(t, err)
	require.Equal(t, []interface{}{"10", "0"}, readJSON(t, resp)["votes"])

	resp, err = ta.request("GET", "/api/v1/holdings/"+holding, nil, false)
	require.NoError(t, err)
	require.Equal(t, "90", readJSON(t, resp)["amount"])

	resp, err = ta.request("GET", "/api/v1/holdings/"+ta.ledger.Vault(address), nil, false)
	require.NoError(t, err)
	require.Equal(t, "10", readJSON(t, resp)["amount"])

	// replay
	resp, err = ta.request("POST", "/api/v1/transactions", body, false)
	require.NoError(t, err)
	requireProblem(t, resp, http.StatusConflict, errors.TransactionAlreadyExists)

	// receipt
	resp, err = ta.request("GET", "/api/v1/transactions/"+tx.GetHash(), nil, false)
	require.NoError(t, err)
	require.Equal(t, voter.Address(), readJSON(t, resp)["source"])
}

func TestPostTransactionFailures(t *testing.T) {
	ta := prepareAPIServer()
	defer ta.Close()

	owner := keypair.Random()
	address := ta.ledger.CreatePoll(owner, farDeadline, "yes", "no")

	voter := keypair.Random()
	holding := ta.ledger.Fund(voter.Address(), 5)

	{ // not json
		resp, err := ta.request("POST", "/api/v1/transactions", []byte("{"), false)
		require.NoError(t, err)
		requireProblem(t, resp, http.StatusBadRequest, errors.BadRequestParameter)
	}

	{ // insufficient tokens
		tx := transaction.TestMakeTransaction(
			ta.ledger.NetworkID,
			voter,
			operation.MakeTestVote(address, 0, 10, holding, ta.ledger.Vault(address)),
		)
		body, err := json.Marshal(tx)
		require.NoError(t, err)

		resp, err := ta.request("POST", "/api/v1/transactions", body, false)
		require.NoError(t, err)
		requireProblem(t, resp, http.StatusBadRequest, errors.InsufficientToken)
	}

	{ // reset by someone else
		tx := transaction.TestMakeTransaction(ta.ledger.NetworkID, voter, operation.MakeTestResetPoll(address))
		body, err := json.Marshal(tx)
		require.NoError(t, err)

		resp, err := ta.request("POST", "/api/v1/transactions", body, false)
		require.NoError(t, err)
		requireProblem(t, resp, http.StatusForbidden, errors.PollOwnerMismatch)
	}

	resp, err := ta.request("GET", "/api/v1/transactions/unknown", nil, false)
	require.NoError(t, err)
	requireProblem(t, resp, http.StatusNotFound, errors.TransactionDoesNotExist)
}

func TestGetTransactions(t *testing.T) {
	ta := prepareAPIServer()
	defer ta.Close()

	owner := keypair.Random()
	ta.ledger.CreatePoll(owner, farDeadline, "a", "b")
	ta.ledger.CreatePoll(owner, farDeadline, "a", "b")

	resp, err := ta.request("GET", "/api/v1/transactions?source="+owner.Address(), nil, false)
	require.NoError(t, err)
	rs := records(readJSON(t, resp))
	require.Equal(t, 2, len(rs))
	for _, r := range rs {
		require.Equal(t, owner.Address(), r["source"])
	}

	// mint creation and treasury funding come first
	resp, err = ta.request("GET", "/api/v1/transactions?reverse=true&limit=1", nil, false)
	require.NoError(t, err)
	rs = records(readJSON(t, resp))
	require.Equal(t, 1, len(rs))
	require.Equal(t, owner.Address(), rs[0]["source"])
}

func TestGetMint(t *testing.T) {
	ta := prepareAPIServer()
	defer ta.Close()

	resp, err := ta.request("GET", "/api/v1/mints/"+ta.ledger.Mint, nil, false)
	require.NoError(t, err)
	m := readJSON(t, resp)
	require.Equal(t, ta.ledger.Authority.Address(), m["authority"])
	require.Equal(t, float64(common.DefaultTokenDecimals), m["decimals"])
	require.Equal(t, testTreasuryTokens.String(), m["supply"])

	resp, err = ta.request("GET", "/api/v1/mints/"+keypair.Random().Address(), nil, false)
	require.NoError(t, err)
	requireProblem(t, resp, http.StatusNotFound, errors.MintDoesNotExist)
}

func TestPointsAndExchange(t *testing.T) {
	ta := prepareAPIServer()
	defer ta.Close()

	wallet := keypair.Random()

	resp, err := ta.request("GET", "/api/v1/points/"+wallet.Address(), nil, false)
	require.NoError(t, err)
	require.Equal(t, float64(common.DefaultInitialPoints), readJSON(t, resp)["balance"])

	body, err := json.Marshal(ExchangeRequest{Wallet: wallet.Address(), Points: 3})
	require.NoError(t, err)

	resp, err = ta.request("POST", "/api/v1/exchange", body, false)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	m := readJSON(t, resp)
	require.Equal(t, float64(common.DefaultInitialPoints-3), m["balance"])
	require.Contains(t, m["_embedded"], "receipt")

	holding := token.AssociatedHoldingAddress(wallet.Address(), ta.ledger.Mint)
	resp, err = ta.request("GET", "/api/v1/holdings/"+holding, nil, false)
	require.NoError(t, err)
	require.Equal(t, "3000000000", readJSON(t, resp)["amount"])

	// more points than the wallet has
	body, err = json.Marshal(ExchangeRequest{Wallet: wallet.Address(), Points: common.DefaultInitialPoints})
	require.NoError(t, err)
	resp, err = ta.request("POST", "/api/v1/exchange", body, false)
	require.NoError(t, err)
	requireProblem(t, resp, http.StatusBadRequest, errors.InsufficientPoints)

	// more tokens than the treasury has; the points are refunded
	big := keypair.Random()
	ta.store.Credit(big.Address(), 1000)
	body, err = json.Marshal(ExchangeRequest{Wallet: big.Address(), Points: 2000})
	require.NoError(t, err)
	resp, err = ta.request("POST", "/api/v1/exchange", body, false)
	require.NoError(t, err)
	requireProblem(t, resp, http.StatusBadRequest, errors.TokenInsufficientFunds)

	balance, err := ta.store.Balance(big.Address())
	require.NoError(t, err)
	require.Equal(t, uint64(2000), balance)

	resp, err = ta.request("GET", "/api/v1/points/nobody", nil, false)
	require.NoError(t, err)
	requireProblem(t, resp, http.StatusBadRequest, errors.BadPublicAddress)
}
