package points

import (
	"boscoin.io/tokenpoll/lib/common"
	"boscoin.io/tokenpoll/lib/common/keypair"
	"boscoin.io/tokenpoll/lib/errors"
	"boscoin.io/tokenpoll/lib/metrics"
	"boscoin.io/tokenpoll/lib/program"
	"boscoin.io/tokenpoll/lib/token"
	"boscoin.io/tokenpoll/lib/transaction"
	"boscoin.io/tokenpoll/lib/transaction/operation"
)

// Exchanger turns points into whole tokens of `Mint`, paid from the
// treasury holding of the node key. One point buys one token.
type Exchanger struct {
	store    Store
	program  *program.Program
	treasury *keypair.Full
	mint     string
}

func NewExchanger(store Store, p *program.Program, treasury *keypair.Full, mint string) *Exchanger {
	return &Exchanger{
		store:    store,
		program:  p,
		treasury: treasury,
		mint:     mint,
	}
}

func (e *Exchanger) Store() Store {
	return e.store
}

func (e *Exchanger) Mint() string {
	return e.mint
}

func (e *Exchanger) TreasuryHolding() string {
	return token.AssociatedHoldingAddress(e.treasury.Address(), e.mint)
}

// Exchange debits points from wallet and transfers the tokens to its
// associated holding, creating the holding when it is missing. When the
// payout fails the points are credited back.
func (e *Exchanger) Exchange(wallet string, points uint64) (receipt *program.Receipt, err error) {
	defer func() {
		metrics.Points.Exchange(err)
	}()

	if len(e.mint) < 1 || e.treasury == nil {
		return nil, errors.TreasuryNotSet
	}
	if points < 1 {
		return nil, errors.InvalidAmount.Clone().SetData("points", points)
	}
	if !common.IsValidAddress(wallet) {
		return nil, errors.BadPublicAddress.Clone().SetData("address", wallet)
	}

	var mint *token.Mint
	if mint, err = token.GetMint(e.program.Storage(), e.mint); err != nil {
		return nil, err
	}

	var amount common.Amount
	if amount, err = common.Amount(points).ScaleByDecimals(mint.Decimals); err != nil {
		return nil, err
	}

	var ops []operation.Operation
	holding := token.AssociatedHoldingAddress(wallet, e.mint)
	var exists bool
	if exists, err = token.ExistsHolding(e.program.Storage(), holding); err != nil {
		return nil, err
	} else if !exists {
		ops = append(ops, operation.MustNewOperation(operation.NewCreateHolding(e.mint, wallet)))
	}
	ops = append(ops, operation.MustNewOperation(operation.NewTransfer(e.TreasuryHolding(), holding, amount)))

	var tx transaction.Transaction
	if tx, err = transaction.NewTransaction(e.treasury.Address(), ops...); err != nil {
		return nil, err
	}
	if err = tx.Sign(e.treasury, e.program.Config().NetworkID); err != nil {
		return nil, err
	}

	if _, err = e.store.Debit(wallet, points); err != nil {
		return nil, err
	}

	if receipt, err = e.program.Execute(tx); err != nil {
		if _, cerr := e.store.Credit(wallet, points); cerr != nil {
			log.Error("failed to refund points", "wallet", wallet, "points", points, "error", cerr)
		} else {
			metrics.Points.Refunds.Add(float64(points))
		}
		log.Debug("exchange failed", "wallet", wallet, "points", points, "error", err)
		return nil, err
	}

	log.Info("points exchanged", "wallet", wallet, "points", points, "amount", amount, "tx", receipt.Hash)

	return receipt, nil
}
