package errors

// Ledger instruction errors. The codes are part of the public API and must
// stay stable.
var (
	PollClosed        = NewError(100, "the poll deadline has passed")
	InvalidCandidate  = NewError(101, "invalid candidate")
	InsufficientToken = NewError(102, "insufficient tokens in the voter holding")
	WrongMint         = NewError(103, "holding mint does not match the poll mint")
	NoTokenAccount    = NewError(104, "holding is not owned by the signer")
	PollOwnerMismatch = NewError(105, "signer is not the poll owner")
	InvalidTitle      = NewError(106, "invalid poll title")
	PollDoesNotExist  = NewError(107, "poll does not exist")
	PollAlreadyExists = NewError(108, "poll already exists")
	InvalidPollRecord = NewError(109, "malformed poll record")
	InvalidVault      = NewError(110, "vault is not the custody holding of the poll")
)

// Token sub-system errors.
var (
	MintDoesNotExist       = NewError(120, "mint does not exist")
	MintAlreadyExists      = NewError(121, "mint already exists")
	MintAuthorityMismatch  = NewError(122, "signer is not the mint authority")
	HoldingDoesNotExist    = NewError(123, "holding does not exist")
	HoldingAlreadyExists   = NewError(124, "holding already exists")
	TokenOwnerMismatch     = NewError(125, "authority does not own the source holding")
	TokenMintMismatch      = NewError(126, "source and destination holdings differ in mint")
	TokenInsufficientFunds = NewError(127, "insufficient funds in the source holding")
	AmountOverflow         = NewError(128, "amount overflows")
	AmountUnderflow        = NewError(129, "amount underflows")
	InvalidAmount          = NewError(130, "invalid amount")
	InvalidDecimals        = NewError(131, "decimals out of range")
)

// Transaction and execution errors.
var (
	TransactionAlreadyExists     = NewError(140, "transaction already executed")
	TransactionDoesNotExist      = NewError(141, "transaction does not exist")
	TransactionEmptyOperations   = NewError(142, "transaction has no operations")
	TransactionTooManyOperations = NewError(143, "transaction has too many operations")
	TransactionInvalidVersion    = NewError(144, "invalid transaction version")
	InvalidSignature             = NewError(145, "signature verification failed")
	HashDoesNotMatch             = NewError(146, "hash does not match")
	BadPublicAddress             = NewError(147, "failed to parse public address")
	UnknownOperationType         = NewError(148, "unknown operation type")
	InvalidOperation             = NewError(149, "invalid operation")
	DuplicatedOperation          = NewError(150, "duplicated operation in transaction")
)

// Points errors.
var (
	InsufficientPoints = NewError(160, "insufficient points")
	PointsStoreError   = NewError(161, "points store error")
	TreasuryNotSet     = NewError(162, "node has no treasury holding")
	GenesisNotFound    = NewError(163, "ledger has no genesis")
	GenesisExists      = NewError(164, "ledger genesis already exists")
)

// Infrastructure errors.
var (
	StorageCoreError              = NewError(200, "storage error")
	StorageRecordDoesNotExist     = NewError(201, "record does not exist")
	StorageRecordAlreadyExists    = NewError(202, "record already exists")
	StorageTransactionAlreadyOpen = NewError(203, "storage transaction already opened")
	StorageNotTransaction         = NewError(204, "storage is not in transaction")
	FailedToParseStorageConfig    = NewError(205, "failed to parse storage config")
	BadRequestParameter           = NewError(210, "bad request parameter")
	ContentTypeNotJSON            = NewError(211, "`Content-Type` must be `application/json`")
	HTTPServerError               = NewError(212, "Internal Server Error")
	TooManyRequests               = NewError(213, "too many requests")
	NotImplemented                = NewError(214, "not implemented")
)
