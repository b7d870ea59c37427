package program

import (
	"fmt"
	"time"

	"boscoin.io/tokenpoll/lib/common"
	"boscoin.io/tokenpoll/lib/errors"
	"boscoin.io/tokenpoll/lib/storage"
	"boscoin.io/tokenpoll/lib/transaction"
	"boscoin.io/tokenpoll/lib/transaction/operation"
)

// Receipt is the record of an executed transaction.
//
// models
//  * 'receipt-hash-<Receipt.Hash>': `Receipt`
//  * 'receipt-created-<sequential uuid1>': `Receipt.Hash`
//  * 'receipt-source-<Receipt.Source>-<sequential uuid1>': `Receipt.Hash`

const (
	ReceiptPrefixHash    string = "receipt-hash-"
	ReceiptPrefixCreated string = "receipt-created-"
	ReceiptPrefixSource  string = "receipt-source-"
)

type Receipt struct {
	Hash       string             `json:"hash"`
	Source     string             `json:"source"`
	Executed   string             `json:"executed"`
	Operations []ReceiptOperation `json:"operations"`

	Transaction transaction.Transaction `json:"transaction"`
}

// ReceiptOperation names the record an operation created or changed.
type ReceiptOperation struct {
	Index  int                     `json:"index"`
	Type   operation.OperationType `json:"type"`
	Target string                  `json:"target"`
}

func NewReceipt(tx transaction.Transaction, executed time.Time) *Receipt {
	return &Receipt{
		Hash:        tx.GetHash(),
		Source:      tx.Source(),
		Executed:    common.FormatISO8601(executed),
		Operations:  []ReceiptOperation{},
		Transaction: tx,
	}
}

func (r *Receipt) add(index int, op operation.Operation, target string) {
	r.Operations = append(r.Operations, ReceiptOperation{
		Index:  index,
		Type:   op.H.Type,
		Target: target,
	})
}

func (r *Receipt) String() string {
	return string(common.MustMarshalJSON(r))
}

func (r *Receipt) Save(st *storage.LevelDBBackend) error {
	uid := common.GetUniqueIDFromUUID()
	err := st.News(
		storage.Item{Key: GetReceiptKey(r.Hash), Value: r},
		storage.Item{Key: GetReceiptCreatedKey(uid), Value: r.Hash},
		storage.Item{Key: GetReceiptSourceKey(r.Source, uid), Value: r.Hash},
	)
	if errors.StorageRecordAlreadyExists.Is(err) {
		return errors.TransactionAlreadyExists.Clone().SetData("hash", r.Hash)
	}

	return err
}

func GetReceiptKey(hash string) string {
	return fmt.Sprintf("%s%s", ReceiptPrefixHash, hash)
}

func GetReceiptCreatedKey(created string) string {
	return fmt.Sprintf("%s%s", ReceiptPrefixCreated, created)
}

func GetReceiptSourceKey(source, created string) string {
	return fmt.Sprintf("%s%s-%s", ReceiptPrefixSource, source, created)
}

func ExistsReceipt(st *storage.LevelDBBackend, hash string) (bool, error) {
	return st.Has(GetReceiptKey(hash))
}

func GetReceipt(st *storage.LevelDBBackend, hash string) (r *Receipt, err error) {
	r = &Receipt{}
	if err = st.Get(GetReceiptKey(hash), r); err != nil {
		if errors.StorageRecordDoesNotExist.Is(err) {
			err = errors.TransactionDoesNotExist.Clone().SetData("hash", hash)
		}
		return nil, err
	}

	return
}

func iterateReceipts(st *storage.LevelDBBackend, prefix string, options storage.ListOptions) (func() (*Receipt, bool, []byte), func()) {
	iterFunc, closeFunc := st.GetIterator(prefix, options)

	return (func() (*Receipt, bool, []byte) {
			item, hasNext := iterFunc()
			if !hasNext {
				return nil, false, item.Key
			}

			var hash string
			common.MustUnmarshalJSON(item.Value, &hash)

			r, err := GetReceipt(st, hash)
			if err != nil {
				return nil, false, item.Key
			}

			return r, hasNext, item.Key
		}), (func() {
			closeFunc()
		})
}

func GetReceiptsByCreated(st *storage.LevelDBBackend, options storage.ListOptions) (func() (*Receipt, bool, []byte), func()) {
	return iterateReceipts(st, ReceiptPrefixCreated, options)
}

func GetReceiptsBySource(st *storage.LevelDBBackend, source string, options storage.ListOptions) (func() (*Receipt, bool, []byte), func()) {
	return iterateReceipts(st, GetReceiptSourceKey(source, ""), options)
}
