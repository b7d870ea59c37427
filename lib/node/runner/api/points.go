package api

import (
	"encoding/json"
	"io/ioutil"
	"net/http"

	"github.com/gorilla/mux"

	"boscoin.io/tokenpoll/lib/common"
	"boscoin.io/tokenpoll/lib/errors"
	"boscoin.io/tokenpoll/lib/network/httputils"
	"boscoin.io/tokenpoll/lib/node/runner/api/resource"
)

type ExchangeRequest struct {
	Wallet string `json:"wallet"`
	Points uint64 `json:"points"`
}

func (api NetworkHandlerAPI) GetPointsHandler(w http.ResponseWriter, r *http.Request) {
	if api.exchanger == nil {
		httputils.WriteJSONError(w, errors.TreasuryNotSet)
		return
	}

	wallet := mux.Vars(r)["id"]
	if !common.IsValidAddress(wallet) {
		httputils.WriteJSONError(w, errors.BadPublicAddress.Clone().SetData("wallet", wallet))
		return
	}

	balance, err := api.exchanger.Store().Balance(wallet)
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	httputils.WriteJSON(w, http.StatusOK, resource.NewPoints(wallet, balance))
}

// PostExchangeHandler pays `points` whole tokens from the node treasury to
// the associated holding of `wallet`.
func (api NetworkHandlerAPI) PostExchangeHandler(w http.ResponseWriter, r *http.Request) {
	if api.exchanger == nil {
		httputils.WriteJSONError(w, errors.TreasuryNotSet)
		return
	}

	body, err := ioutil.ReadAll(http.MaxBytesReader(w, r.Body, MaxRequestBodySize))
	if err != nil {
		httputils.WriteJSONError(w, errors.BadRequestParameter.Clone().SetData("error", err.Error()))
		return
	}

	var req ExchangeRequest
	if err := json.Unmarshal(body, &req); err != nil {
		httputils.WriteJSONError(w, errors.BadRequestParameter.Clone().SetData("error", err.Error()))
		return
	}

	receipt, err := api.exchanger.Exchange(req.Wallet, req.Points)
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}
	api.executed()

	balance, err := api.exchanger.Store().Balance(req.Wallet)
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	httputils.WriteJSON(w, http.StatusOK, resource.NewExchange(receipt, req.Wallet, req.Points, balance))
}
