package api

import (
	"io/ioutil"
	"net/http"

	"github.com/gorilla/mux"

	"boscoin.io/tokenpoll/lib/common"
	"boscoin.io/tokenpoll/lib/errors"
	"boscoin.io/tokenpoll/lib/network/httputils"
	"boscoin.io/tokenpoll/lib/node/runner/api/resource"
	"boscoin.io/tokenpoll/lib/program"
	"boscoin.io/tokenpoll/lib/transaction"
)

// PostTransactionHandler executes a signed transaction and returns its
// receipt.
func (api NetworkHandlerAPI) PostTransactionHandler(w http.ResponseWriter, r *http.Request) {
	body, err := ioutil.ReadAll(http.MaxBytesReader(w, r.Body, MaxRequestBodySize))
	if err != nil {
		httputils.WriteJSONError(w, errors.BadRequestParameter.Clone().SetData("error", err.Error()))
		return
	}

	tx, err := transaction.NewTransactionFromJSON(body)
	if err != nil {
		httputils.WriteJSONError(w, errors.BadRequestParameter.Clone().SetData("error", err.Error()))
		return
	}

	receipt, err := api.program.Execute(tx)
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}
	api.executed()

	httputils.WriteJSON(w, http.StatusOK, resource.NewReceipt(receipt))
}

func (api NetworkHandlerAPI) GetTransactionByHashHandler(w http.ResponseWriter, r *http.Request) {
	receipt, err := program.GetReceipt(api.storage(), mux.Vars(r)["id"])
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	httputils.WriteJSON(w, http.StatusOK, resource.NewReceipt(receipt))
}

// GetTransactionsHandler lists the receipts in executed order, or the ones of
// `source=<address>`.
func (api NetworkHandlerAPI) GetTransactionsHandler(w http.ResponseWriter, r *http.Request) {
	p, err := NewPageQuery(r)
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	var iterFunc func() (*program.Receipt, bool, []byte)
	var closeFunc func()
	if source := r.URL.Query().Get("source"); len(source) > 0 {
		if !common.IsValidAddress(source) {
			httputils.WriteJSONError(w, errors.BadPublicAddress.Clone().SetData("source", source))
			return
		}
		iterFunc, closeFunc = program.GetReceiptsBySource(api.storage(), source, p.ListOptions())
	} else {
		iterFunc, closeFunc = program.GetReceiptsByCreated(api.storage(), p.ListOptions())
	}
	defer closeFunc()

	var rs []resource.Resource
	var firstCursor, cursor []byte
	for {
		receipt, hasNext, c := iterFunc()
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
		rs = append(rs, resource.NewReceipt(receipt))
	}

	httputils.WriteJSON(w, http.StatusOK, p.ResourceList(rs, firstCursor, cursor))
}
