package program

import (
	"time"

	logging "github.com/inconshreveable/log15"

	"boscoin.io/tokenpoll/lib/common"
	"boscoin.io/tokenpoll/lib/common/observer"
	"boscoin.io/tokenpoll/lib/errors"
	"boscoin.io/tokenpoll/lib/metrics"
	"boscoin.io/tokenpoll/lib/poll"
	"boscoin.io/tokenpoll/lib/storage"
	"boscoin.io/tokenpoll/lib/token"
	"boscoin.io/tokenpoll/lib/transaction"
	"boscoin.io/tokenpoll/lib/transaction/operation"
)

// Program executes signed transactions against the ledger. Every transaction
// runs inside one storage transaction: it is committed only when all of its
// operations succeed.
type Program struct {
	storage *storage.LevelDBBackend
	config  common.Config
	clock   common.Clock
	custody token.Custody

	log logging.Logger
}

func NewProgram(st *storage.LevelDBBackend, config common.Config, clock common.Clock) *Program {
	return &Program{
		storage: st,
		config:  config,
		clock:   clock,
		custody: token.DefaultCustody{},
		log:     log.New(logging.Ctx{"network": string(config.NetworkID)}),
	}
}

func (p *Program) Storage() *storage.LevelDBBackend {
	return p.storage
}

func (p *Program) Config() common.Config {
	return p.config
}

func (p *Program) Clock() common.Clock {
	return p.clock
}

func (p *Program) SetCustody(c token.Custody) {
	p.custody = c
}

// Execute checks and applies tx. The returned error is the first failing
// check or operation; nothing is written in that case.
func (p *Program) Execute(tx transaction.Transaction) (receipt *Receipt, err error) {
	started := time.Now()
	defer func() {
		metrics.Program.Transaction(err, started)
	}()

	if err = tx.IsWellFormed(p.config); err != nil {
		p.log.Debug("transaction is not well formed", "hash", tx.GetHash(), "error", err)
		return
	}

	var ts *storage.LevelDBBackend
	if ts, err = p.storage.OpenTransaction(); err != nil {
		return
	}

	ctx := &Context{
		Storage: ts,
		Custody: p.custody,
		Source:  tx.Source(),
		TxHash:  tx.GetHash(),
		Now:     p.clock.Now(),
	}

	if receipt, err = execute(ctx, tx); err != nil {
		if derr := ts.Discard(); derr != nil {
			p.log.Error("failed to discard storage transaction", "hash", tx.GetHash(), "error", derr)
		}
		p.log.Debug("transaction discarded", "hash", tx.GetHash(), "error", err)
		return nil, err
	}

	if err = commit(ts); err != nil {
		p.log.Error("failed to commit storage transaction", "hash", tx.GetHash(), "error", err)
		return nil, err
	}

	p.log.Info(
		"transaction executed",
		"hash", receipt.Hash,
		"source", receipt.Source,
		"operations", len(receipt.Operations),
	)

	if ctx.staked > 0 {
		metrics.Program.Staked(uint64(ctx.staked))
	}
	triggerEvents(p.storage, ctx, receipt)

	return receipt, nil
}

func execute(ctx *Context, tx transaction.Transaction) (*Receipt, error) {
	if exists, err := ExistsReceipt(ctx.Storage, tx.GetHash()); err != nil {
		return nil, err
	} else if exists {
		return nil, errors.TransactionAlreadyExists.Clone().SetData("hash", tx.GetHash())
	}

	receipt := NewReceipt(tx, ctx.Now)
	for i, op := range tx.B.Operations {
		ctx.Index = i

		target, err := finishOperation(ctx, op)
		metrics.Program.Operation(string(op.H.Type), err)
		if err != nil {
			if e, ok := err.(*errors.Error); ok {
				err = e.Clone().SetData("operation", i)
			}
			return nil, err
		}

		receipt.add(i, op, target)
	}

	if err := receipt.Save(ctx.Storage); err != nil {
		return nil, err
	}

	return receipt, nil
}

// finishOperation applies op by its type and returns the address of the
// record it created or changed.
func finishOperation(ctx *Context, op operation.Operation) (string, error) {
	switch op.H.Type {
	case operation.TypeCreatePoll:
		pop, ok := op.B.(operation.CreatePoll)
		if !ok {
			return "", errors.UnknownOperationType
		}
		return finishCreatePoll(ctx, pop)
	case operation.TypeVote:
		pop, ok := op.B.(operation.Vote)
		if !ok {
			return "", errors.UnknownOperationType
		}
		return finishVote(ctx, pop)
	case operation.TypeResetPoll:
		pop, ok := op.B.(operation.ResetPoll)
		if !ok {
			return "", errors.UnknownOperationType
		}
		return finishResetPoll(ctx, pop)
	case operation.TypeCreateMint:
		pop, ok := op.B.(operation.CreateMint)
		if !ok {
			return "", errors.UnknownOperationType
		}
		return finishCreateMint(ctx, pop)
	case operation.TypeMintTo:
		pop, ok := op.B.(operation.MintTo)
		if !ok {
			return "", errors.UnknownOperationType
		}
		return finishMintTo(ctx, pop)
	case operation.TypeCreateHolding:
		pop, ok := op.B.(operation.CreateHolding)
		if !ok {
			return "", errors.UnknownOperationType
		}
		return finishCreateHolding(ctx, pop)
	case operation.TypeTransfer:
		pop, ok := op.B.(operation.Transfer)
		if !ok {
			return "", errors.UnknownOperationType
		}
		return finishTransfer(ctx, pop)
	default:
		return "", errors.UnknownOperationType.Clone().SetData("type", op.H.Type)
	}
}

// triggerEvents notifies observers with the committed state of every record
// the transaction touched.
func triggerEvents(st *storage.LevelDBBackend, ctx *Context, receipt *Receipt) {
	var (
		t     = observer.ResourceObserver.Trigger
		event = observer.NewEvent
	)

	for _, address := range ctx.touchedAddresses(observer.ResourcePoll) {
		p, err := poll.GetPoll(st, address)
		if err != nil {
			log.Error("failed to load poll for event", "poll", address, "error", err)
			continue
		}
		t(event(observer.ResourcePoll, observer.ConditionAll, "").String(), p)
		t(event(observer.ResourcePoll, observer.ConditionAddress, p.Address).String(), p)
		t(event(observer.ResourcePoll, observer.ConditionOwner, p.Owner).String(), p)
	}

	for _, address := range ctx.touchedAddresses(observer.ResourceHolding) {
		h, err := token.GetHolding(st, address)
		if err != nil {
			log.Error("failed to load holding for event", "holding", address, "error", err)
			continue
		}
		t(event(observer.ResourceHolding, observer.ConditionAll, "").String(), h)
		t(event(observer.ResourceHolding, observer.ConditionAddress, h.Address).String(), h)
		t(event(observer.ResourceHolding, observer.ConditionOwner, h.Owner).String(), h)
	}

	for _, address := range ctx.touchedAddresses(observer.ResourceMint) {
		m, err := token.GetMint(st, address)
		if err != nil {
			log.Error("failed to load mint for event", "mint", address, "error", err)
			continue
		}
		t(event(observer.ResourceMint, observer.ConditionAll, "").String(), m)
		t(event(observer.ResourceMint, observer.ConditionAddress, m.Address).String(), m)
	}

	t(event(observer.ResourceTransaction, observer.ConditionAll, "").String(), receipt)
	t(event(observer.ResourceTransaction, observer.ConditionTxHash, receipt.Hash).String(), receipt)
}

type storageTransaction interface {
	Commit() error
	Discard() error
}

// commit discards ts when the commit fails; an undiscarded transaction keeps
// the storage write lock.
func commit(ts storageTransaction) error {
	err := ts.Commit()
	if err != nil {
		ts.Discard()
	}

	return err
}
