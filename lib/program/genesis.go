package program

import (
	"boscoin.io/tokenpoll/lib/common"
	"boscoin.io/tokenpoll/lib/common/keypair"
	"boscoin.io/tokenpoll/lib/errors"
	"boscoin.io/tokenpoll/lib/storage"
	"boscoin.io/tokenpoll/lib/token"
	"boscoin.io/tokenpoll/lib/transaction"
	"boscoin.io/tokenpoll/lib/transaction/operation"
)

const GenesisKey = "genesis"

// Genesis is the mint created when the ledger was initialized and the
// holding of its authority, which the node pays exchanged points from.
type Genesis struct {
	Mint      string        `json:"mint"`
	Authority string        `json:"authority"`
	Treasury  string        `json:"treasury"`
	Supply    common.Amount `json:"supply"`
}

func GetGenesis(st *storage.LevelDBBackend) (*Genesis, error) {
	if exists, err := st.Has(GenesisKey); err != nil {
		return nil, err
	} else if !exists {
		return nil, errors.GenesisNotFound
	}

	g := &Genesis{}
	if err := st.Get(GenesisKey, g); err != nil {
		return nil, err
	}

	return g, nil
}

// MakeGenesis creates the ledger mint with authority and mints supply into
// the associated holding of authority.
func MakeGenesis(p *Program, authority *keypair.Full, decimals uint8, supply common.Amount) (*Genesis, error) {
	if exists, err := p.Storage().Has(GenesisKey); err != nil {
		return nil, err
	} else if exists {
		return nil, errors.GenesisExists
	}

	receipt, err := p.executeSigned(authority, operation.NewCreateMint(decimals))
	if err != nil {
		return nil, err
	}

	g := &Genesis{
		Mint:      receipt.Operations[0].Target,
		Authority: authority.Address(),
		Supply:    supply,
	}
	g.Treasury = token.AssociatedHoldingAddress(authority.Address(), g.Mint)

	bodies := []operation.Body{operation.NewCreateHolding(g.Mint, authority.Address())}
	if supply > 0 {
		bodies = append(bodies, operation.NewMintTo(g.Mint, g.Treasury, supply))
	}
	if _, err = p.executeSigned(authority, bodies...); err != nil {
		return nil, err
	}

	if err = p.Storage().New(GenesisKey, g); err != nil {
		return nil, err
	}

	log.Info("genesis created", "mint", g.Mint, "treasury", g.Treasury, "supply", supply)

	return g, nil
}

func (p *Program) executeSigned(kp *keypair.Full, bodies ...operation.Body) (*Receipt, error) {
	var ops []operation.Operation
	for _, body := range bodies {
		op, err := operation.NewOperation(body)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}

	tx, err := transaction.NewTransaction(kp.Address(), ops...)
	if err != nil {
		return nil, err
	}
	if err = tx.Sign(kp, p.config.NetworkID); err != nil {
		return nil, err
	}

	return p.Execute(tx)
}
