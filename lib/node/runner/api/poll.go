package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"boscoin.io/tokenpoll/lib/common"
	"boscoin.io/tokenpoll/lib/common/observer"
	"boscoin.io/tokenpoll/lib/errors"
	"boscoin.io/tokenpoll/lib/network/httputils"
	"boscoin.io/tokenpoll/lib/node/runner/api/resource"
	"boscoin.io/tokenpoll/lib/poll"
	"boscoin.io/tokenpoll/lib/program"
	"boscoin.io/tokenpoll/lib/transaction"
	"boscoin.io/tokenpoll/lib/transaction/operation"
)

// GetPollsHandler lists the polls which are not closed. `all=true` includes
// the closed ones and `owner=<address>` lists the polls of one owner.
func (api NetworkHandlerAPI) GetPollsHandler(w http.ResponseWriter, r *http.Request) {
	p, err := NewPageQuery(r)
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	query := r.URL.Query()

	var all bool
	if v := query.Get("all"); len(v) > 0 {
		if all, err = common.ParseBoolQueryString(v); err != nil {
			httputils.WriteJSONError(w, err)
			return
		}
	}

	var iterFunc func() (*poll.Poll, bool, []byte)
	var closeFunc func()
	if owner := query.Get("owner"); len(owner) > 0 {
		if !common.IsValidAddress(owner) {
			httputils.WriteJSONError(w, errors.BadPublicAddress.Clone().SetData("owner", owner))
			return
		}
		iterFunc, closeFunc = poll.GetPollsByOwner(api.storage(), owner, p.ListOptions())
	} else {
		iterFunc, closeFunc = poll.GetPollsByCreated(api.storage(), p.ListOptions())
	}
	defer closeFunc()

	now := api.now()

	var rs []resource.Resource
	var firstCursor, cursor []byte
	for {
		o, hasNext, c := iterFunc()
		if !hasNext {
			break
		}
		if p.IsCursor(c) {
			continue
		}

		cursor = c
		if firstCursor == nil {
			firstCursor = c
		}

		if !all && o.IsClosed {
			continue
		}
		rs = append(rs, resource.NewPoll(o, now))
	}

	httputils.WriteJSON(w, http.StatusOK, p.ResourceList(rs, firstCursor, cursor))
}

func (api NetworkHandlerAPI) GetPollHandler(w http.ResponseWriter, r *http.Request) {
	if httputils.IsEventStream(r) {
		api.GetPollStreamHandler(w, r)
		return
	}

	p, err := poll.GetPoll(api.storage(), mux.Vars(r)["id"])
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	httputils.WriteJSON(w, http.StatusOK, resource.NewPoll(p, api.now()))
}

// GetPollStreamHandler writes the poll and then the poll again after every
// transaction which changed it.
func (api NetworkHandlerAPI) GetPollStreamHandler(w http.ResponseWriter, r *http.Request) {
	p, err := poll.GetPoll(api.storage(), mux.Vars(r)["id"])
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	renderFunc := func(args ...interface{}) ([]byte, error) {
		if len(args) <= 1 {
			return nil, errors.BadRequestParameter
		}

		switch v := args[1].(type) {
		case *poll.Poll:
			return json.Marshal(resource.NewPoll(v, api.now()).Resource())
		case nil:
			return []byte{}, nil
		}
		return json.Marshal(args[1])
	}

	es := NewEventStream(w, r, renderFunc, ContentTypeEventStream)
	run := es.Start(
		observer.ResourceObserver,
		observer.NewEvent(observer.ResourcePoll, observer.ConditionAddress, p.Address).String(),
	)
	es.Render(p)
	run()
}

// PostResetPollsHandler closes every open poll owned by the node key. Polls
// are reset in transactions of at most `OpsLimit` operations, signed by the
// node.
func (api NetworkHandlerAPI) PostResetPollsHandler(w http.ResponseWriter, r *http.Request) {
	receipts, err := api.resetNodePolls()
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	var rs []resource.Resource
	for _, receipt := range receipts {
		rs = append(rs, resource.NewReceipt(receipt))
	}

	httputils.WriteJSON(w, http.StatusOK, resource.NewResourceList(rs, r.URL.String(), "", ""))
}

func (api NetworkHandlerAPI) resetNodePolls() ([]*program.Receipt, error) {
	if api.localNode == nil {
		return nil, errors.NotImplemented
	}

	var ops []operation.Operation
	iterFunc, closeFunc := poll.GetPollsByOwner(api.storage(), api.localNode.Address(), nil)
	for {
		o, hasNext, _ := iterFunc()
		if !hasNext {
			break
		}
		if o.IsClosed {
			continue
		}
		ops = append(ops, operation.MustNewOperation(operation.NewResetPoll(o.Address)))
	}
	closeFunc()

	limit := api.program.Config().OpsLimit
	var receipts []*program.Receipt
	for len(ops) > 0 {
		n := len(ops)
		if n > limit {
			n = limit
		}

		tx, err := transaction.NewTransaction(api.localNode.Address(), ops[:n]...)
		if err != nil {
			return receipts, err
		}
		if err = tx.Sign(api.localNode, api.program.Config().NetworkID); err != nil {
			return receipts, err
		}

		receipt, err := api.program.Execute(tx)
		if err != nil {
			return receipts, err
		}
		api.executed()

		receipts = append(receipts, receipt)
		ops = ops[n:]
	}

	return receipts, nil
}
