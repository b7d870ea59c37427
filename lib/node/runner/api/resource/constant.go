package resource

const (
	APIVersionV1 = "/v1"
	APIPrefix    = "/api"

	URLPolls             = APIPrefix + APIVersionV1 + "/polls"
	URLPoll              = APIPrefix + APIVersionV1 + "/polls/{id}"
	URLPollStream        = APIPrefix + APIVersionV1 + "/polls/{id}/stream"
	URLHolding           = APIPrefix + APIVersionV1 + "/holdings/{id}"
	URLMint              = APIPrefix + APIVersionV1 + "/mints/{id}"
	URLTransactions      = APIPrefix + APIVersionV1 + "/transactions"
	URLTransactionByHash = APIPrefix + APIVersionV1 + "/transactions/{id}"
	URLPoints            = APIPrefix + APIVersionV1 + "/points/{id}"
)
