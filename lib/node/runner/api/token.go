package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"boscoin.io/tokenpoll/lib/network/httputils"
	"boscoin.io/tokenpoll/lib/node/runner/api/resource"
	"boscoin.io/tokenpoll/lib/token"
)

func (api NetworkHandlerAPI) GetHoldingHandler(w http.ResponseWriter, r *http.Request) {
	h, err := token.GetHolding(api.storage(), mux.Vars(r)["id"])
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	httputils.WriteJSON(w, http.StatusOK, resource.NewHolding(h))
}

func (api NetworkHandlerAPI) GetMintHandler(w http.ResponseWriter, r *http.Request) {
	m, err := token.GetMint(api.storage(), mux.Vars(r)["id"])
	if err != nil {
		httputils.WriteJSONError(w, err)
		return
	}

	httputils.WriteJSON(w, http.StatusOK, resource.NewMint(m))
}
