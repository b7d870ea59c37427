package transaction

import (
	"fmt"

	"github.com/btcsuite/btcutil/base58"

	"boscoin.io/tokenpoll/lib/common"
	"boscoin.io/tokenpoll/lib/common/keypair"
	"boscoin.io/tokenpoll/lib/errors"
	"boscoin.io/tokenpoll/lib/transaction/operation"
)

type Checker struct {
	common.DefaultChecker

	Config      common.Config
	Transaction Transaction
}

func CheckVersion(c common.Checker, args ...interface{}) (err error) {
	checker := c.(*Checker)
	if checker.Transaction.H.Version != TransactionVersionV1 {
		err = errors.TransactionInvalidVersion.Clone().SetData("version", checker.Transaction.H.Version)
	}

	return
}

func CheckOverOperationsLimit(c common.Checker, args ...interface{}) (err error) {
	checker := c.(*Checker)

	if len(checker.Transaction.B.Operations) > checker.Config.OpsLimit {
		err = errors.TransactionTooManyOperations.Clone().SetData("limit", checker.Config.OpsLimit)
	}

	return
}

func CheckSource(c common.Checker, args ...interface{}) (err error) {
	checker := c.(*Checker)
	if _, err = keypair.Parse(checker.Transaction.B.Source); err != nil {
		err = errors.BadPublicAddress.Clone().SetData("address", checker.Transaction.B.Source)
	}

	return
}

// CheckOperations requires at least one operation, every operation to be
// well formed and no two operations of the same type on the same target.
func CheckOperations(c common.Checker, args ...interface{}) (err error) {
	checker := c.(*Checker)

	if len(checker.Transaction.B.Operations) < 1 {
		err = errors.TransactionEmptyOperations
		return
	}

	var targets []string
	for _, op := range checker.Transaction.B.Operations {
		if op.B == nil || !operation.IsValidOperationType(string(op.H.Type)) {
			err = errors.UnknownOperationType.Clone().SetData("type", op.H.Type)
			return
		}
		if err = op.IsWellFormed(checker.Config); err != nil {
			return
		}

		// votes may repeat; each one stakes its own amount
		if op.H.Type == operation.TypeVote {
			continue
		}

		if top, ok := op.B.(operation.Targetable); ok {
			u := fmt.Sprintf("%s-%s", op.H.Type, top.TargetAddress())
			if _, found := common.InStringArray(targets, u); found {
				err = errors.DuplicatedOperation.Clone().SetData("target", top.TargetAddress())
				return
			}

			targets = append(targets, u)
		}
	}

	return
}

func CheckHash(c common.Checker, args ...interface{}) (err error) {
	checker := c.(*Checker)
	if len(checker.Transaction.H.Hash) < 1 {
		err = errors.HashDoesNotMatch
		return
	}

	var hash string
	if hash, err = checker.Transaction.B.MakeHashString(); err != nil {
		err = errors.HashDoesNotMatch.Clone().SetData("error", err.Error())
		return
	}
	if checker.Transaction.H.Hash != hash {
		err = errors.HashDoesNotMatch
	}

	return
}

func CheckVerifySignature(c common.Checker, args ...interface{}) (err error) {
	checker := c.(*Checker)

	err = keypair.VerifySignature(
		checker.Transaction.B.Source,
		checker.Config.NetworkID,
		checker.Transaction.H.Hash,
		base58.Decode(checker.Transaction.H.Signature),
	)
	if err != nil {
		err = errors.InvalidSignature
	}

	return
}
