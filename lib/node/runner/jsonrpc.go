package runner

import (
	"net/http"

	"github.com/gorilla/rpc"
	jsonrpc "github.com/gorilla/rpc/json"

	"boscoin.io/tokenpoll/lib/poll"
	"boscoin.io/tokenpoll/lib/storage"
)

const MaxLimitListOptions uint64 = 10000

type DBEchoArgs string
type DBEchoResult string

type DBHasArgs string
type DBHasResult bool

type DBGetArgs string
type DBGetResult storage.IterItem

type GetIteratorOptions struct {
	Reverse bool
	Cursor  []byte
	Limit   uint64
}

type DBGetIteratorArgs struct {
	Prefix  string
	Options GetIteratorOptions
}

type DBGetIteratorResult struct {
	Limit uint64
	Items []storage.IterItem
}

// jsonrpcDBApp reads the raw ledger storage.
type jsonrpcDBApp struct {
	st *storage.LevelDBBackend
}

func (j *jsonrpcDBApp) Echo(r *http.Request, args *DBEchoArgs, result *DBEchoResult) error {
	*result = DBEchoResult(string(*args))
	return nil
}

func (j *jsonrpcDBApp) Has(r *http.Request, args *DBHasArgs, result *DBHasResult) error {
	o, err := j.st.Has(string(*args))
	if err != nil {
		return err
	}

	*result = DBHasResult(o)
	return nil
}

func (j *jsonrpcDBApp) Get(r *http.Request, args *DBGetArgs, result *DBGetResult) error {
	o, err := j.st.GetRaw(string(*args))
	if err != nil {
		return err
	}

	*result = DBGetResult{Key: []byte(*args), Value: o}
	return nil
}

func (j *jsonrpcDBApp) GetIterator(r *http.Request, args *DBGetIteratorArgs, result *DBGetIteratorResult) error {
	limit := args.Options.Limit
	if limit < 1 || limit > MaxLimitListOptions {
		limit = MaxLimitListOptions
	}

	options := storage.NewDefaultListOptions(args.Options.Reverse, args.Options.Cursor, limit)

	it, closeFunc := j.st.GetIterator(args.Prefix, options)
	defer closeFunc()

	collected := []storage.IterItem{}
	for {
		v, hasNext := it()
		if !hasNext {
			break
		}
		collected = append(collected, v)
	}

	result.Items = collected
	result.Limit = limit

	return nil
}

type LedgerGetPollArgs string

// jsonrpcLedgerApp decodes ledger records.
type jsonrpcLedgerApp struct {
	st *storage.LevelDBBackend
}

func (j *jsonrpcLedgerApp) GetPoll(r *http.Request, args *LedgerGetPollArgs, result *poll.Poll) error {
	p, err := poll.GetPoll(j.st, string(*args))
	if err != nil {
		return err
	}

	*result = *p
	return nil
}

type jsonrpcHandler struct {
	*rpc.Server
}

func (s *jsonrpcHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set(
		"Access-Control-Allow-Headers",
		"Accept, Content-Type, Content-Length, Accept-Encoding",
	)

	if r.Method == "OPTIONS" {
		return
	}

	s.Server.ServeHTTP(w, r)
}

// NewJSONRPCHandler serves the `DB` and `Ledger` services over json-rpc 1.0.
func NewJSONRPCHandler(st *storage.LevelDBBackend) http.Handler {
	s := &jsonrpcHandler{Server: rpc.NewServer()}
	s.RegisterCodec(jsonrpc.NewCodec(), "application/json")
	s.RegisterCodec(jsonrpc.NewCodec(), "application/json;charset=UTF-8")

	s.RegisterService(&jsonrpcDBApp{st: st}, "DB")
	s.RegisterService(&jsonrpcLedgerApp{st: st}, "Ledger")

	return s
}
