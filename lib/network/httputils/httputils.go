package httputils

import (
	"net/http"

	"boscoin.io/tokenpoll/lib/errors"
)

// IsEventStream checks request header accept is text/event-stream
func IsEventStream(r *http.Request) bool {
	return r.Header.Get("Accept") == "text/event-stream"
}

var ErrorsToStatus = map[uint]int{
	errors.PollOwnerMismatch.Code:        http.StatusForbidden,
	errors.MintAuthorityMismatch.Code:    http.StatusForbidden,
	errors.TokenOwnerMismatch.Code:       http.StatusForbidden,
	errors.PollDoesNotExist.Code:         http.StatusNotFound,
	errors.MintDoesNotExist.Code:         http.StatusNotFound,
	errors.HoldingDoesNotExist.Code:      http.StatusNotFound,
	errors.TransactionDoesNotExist.Code:  http.StatusNotFound,
	errors.PollAlreadyExists.Code:        http.StatusConflict,
	errors.MintAlreadyExists.Code:        http.StatusConflict,
	errors.HoldingAlreadyExists.Code:     http.StatusConflict,
	errors.TransactionAlreadyExists.Code: http.StatusConflict,
	errors.ContentTypeNotJSON.Code:       http.StatusUnsupportedMediaType,
	errors.TooManyRequests.Code:          http.StatusTooManyRequests,
	errors.NotImplemented.Code:           http.StatusNotImplemented,
	errors.TreasuryNotSet.Code:           http.StatusServiceUnavailable,
	errors.PointsStoreError.Code:         http.StatusServiceUnavailable,
	errors.StorageCoreError.Code:         http.StatusInternalServerError,
	errors.HTTPServerError.Code:          http.StatusInternalServerError,
}

// StatusCode maps err to a http status. Coded errors not listed in
// `ErrorsToStatus` are client errors.
func StatusCode(err error) int {
	if e, ok := err.(*errors.Error); ok {
		if status, found := ErrorsToStatus[e.Code]; found {
			return status
		}
		return http.StatusBadRequest
	}

	return http.StatusInternalServerError
}
