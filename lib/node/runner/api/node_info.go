package api

import (
	"net/http"

	"boscoin.io/tokenpoll/lib/common"
	"boscoin.io/tokenpoll/lib/network/httputils"
)

func (api NetworkHandlerAPI) GetNodeInfoHandler(w http.ResponseWriter, r *http.Request) {
	info := api.nodeInfo
	info.Ledger.Time = common.FormatISO8601(api.program.Clock().Now())

	httputils.WriteJSON(w, http.StatusOK, info)
}
