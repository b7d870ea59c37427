package transaction

import (
	"encoding/json"

	"github.com/btcsuite/btcutil/base58"

	"boscoin.io/tokenpoll/lib/common"
	"boscoin.io/tokenpoll/lib/common/keypair"
	"boscoin.io/tokenpoll/lib/errors"
	"boscoin.io/tokenpoll/lib/transaction/operation"
)

const TransactionVersionV1 = "1"

// Transaction is a signed list of operations executed atomically: either
// every operation applies or none does.
type Transaction struct {
	H Header `json:"H"`
	B Body   `json:"B"`
}

type Header struct {
	Version   string `json:"version"`
	Hash      string `json:"hash"`
	Signature string `json:"signature"`
}

// Body is hashed and signed. `Created` keeps otherwise identical
// transactions apart.
type Body struct {
	Source     string                `json:"source"`
	Created    string                `json:"created"`
	Operations []operation.Operation `json:"operations"`
}

func (tb Body) MakeHash() ([]byte, error) {
	return common.MakeObjectHash(tb)
}

func (tb Body) MakeHashString() (string, error) {
	b, err := tb.MakeHash()
	if err != nil {
		return "", err
	}

	return base58.Encode(b), nil
}

func NewTransaction(source string, ops ...operation.Operation) (tx Transaction, err error) {
	if len(ops) < 1 {
		err = errors.TransactionEmptyOperations
		return
	}

	body := Body{
		Source:     source,
		Created:    common.NowISO8601(),
		Operations: ops,
	}

	var hash string
	if hash, err = body.MakeHashString(); err != nil {
		return
	}

	tx = Transaction{
		H: Header{
			Version: TransactionVersionV1,
			Hash:    hash,
		},
		B: body,
	}

	return
}

var WellFormedCheckerFuncs = []common.CheckerFunc{
	CheckVersion,
	CheckOverOperationsLimit,
	CheckSource,
	CheckOperations,
	CheckHash,
	CheckVerifySignature,
}

// IsWellFormed checks the transaction without looking at the ledger state.
func (tx Transaction) IsWellFormed(conf common.Config) (err error) {
	checker := &Checker{
		DefaultChecker: common.DefaultChecker{Funcs: WellFormedCheckerFuncs},
		Config:         conf,
		Transaction:    tx,
	}

	return common.RunChecker(checker, common.DefaultDeferFunc)
}

func (tx Transaction) GetHash() string {
	return tx.H.Hash
}

func (tx Transaction) Source() string {
	return tx.B.Source
}

func (tx Transaction) Serialize() (encoded []byte, err error) {
	encoded, err = json.Marshal(tx)
	return
}

func (tx Transaction) String() string {
	encoded, _ := json.MarshalIndent(tx, "", "  ")
	return string(encoded)
}

func (tx *Transaction) Sign(kp keypair.KP, networkID []byte) error {
	hash, err := tx.B.MakeHashString()
	if err != nil {
		return err
	}

	signature, err := keypair.MakeSignature(kp, networkID, hash)
	if err != nil {
		return err
	}

	tx.H.Hash = hash
	tx.H.Signature = base58.Encode(signature)

	return nil
}

func NewTransactionFromJSON(b []byte) (tx Transaction, err error) {
	if err = json.Unmarshal(b, &tx); err != nil {
		if e, ok := err.(*errors.Error); ok {
			err = e
			return
		}
		err = errors.BadRequestParameter.Clone().SetData("error", err.Error())
	}

	return
}
