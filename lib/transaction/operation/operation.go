package operation

import (
	"encoding/json"
	"reflect"

	"boscoin.io/tokenpoll/lib/common"
	"boscoin.io/tokenpoll/lib/errors"
)

type OperationType string

const (
	TypeCreatePoll    OperationType = "create-poll"
	TypeVote          OperationType = "vote"
	TypeResetPoll     OperationType = "reset-poll"
	TypeCreateMint    OperationType = "create-mint"
	TypeMintTo        OperationType = "mint-to"
	TypeCreateHolding OperationType = "create-holding"
	TypeTransfer      OperationType = "transfer"
)

func IsValidOperationType(oType string) bool {
	_, b := common.InStringArray([]string{
		string(TypeCreatePoll),
		string(TypeVote),
		string(TypeResetPoll),
		string(TypeCreateMint),
		string(TypeMintTo),
		string(TypeCreateHolding),
		string(TypeTransfer),
	}, oType)
	return b
}

type Operation struct {
	H Header
	B Body
}

func NewOperation(opb Body) (op Operation, err error) {
	var t OperationType
	switch opb.(type) {
	case CreatePoll:
		t = TypeCreatePoll
	case Vote:
		t = TypeVote
	case ResetPoll:
		t = TypeResetPoll
	case CreateMint:
		t = TypeCreateMint
	case MintTo:
		t = TypeMintTo
	case CreateHolding:
		t = TypeCreateHolding
	case Transfer:
		t = TypeTransfer
	default:
		err = errors.UnknownOperationType
		return
	}

	op = Operation{
		H: Header{Type: t},
		B: opb,
	}

	return
}

func MustNewOperation(opb Body) Operation {
	op, err := NewOperation(opb)
	if err != nil {
		panic(err)
	}

	return op
}

type Header struct {
	Type OperationType `json:"type"`
}

type Body interface {
	//
	// Check that this operation is self consistent, without looking at the
	// ledger state
	//
	// Returns:
	//   An `error` if that operation is invalid, `nil` otherwise
	//
	IsWellFormed(common.Config) error
}

// Targetable bodies touch one ledger record besides the source account;
// observers use it to notify the watchers of that record.
type Targetable interface {
	TargetAddress() string
}

func (o Operation) IsWellFormed(conf common.Config) (err error) {
	return o.B.IsWellFormed(conf)
}

func (o Operation) String() string {
	encoded, _ := json.MarshalIndent(o, "", "  ")

	return string(encoded)
}

type envelop struct {
	H Header
	B interface{}
}

func (o *Operation) UnmarshalJSON(b []byte) (err error) {
	var raw json.RawMessage
	oj := envelop{
		B: &raw,
	}
	if err = json.Unmarshal(b, &oj); err != nil {
		return
	}

	o.H = oj.H

	var body Body
	if body, err = UnmarshalBodyJSON(oj.H.Type, raw); err != nil {
		return
	}
	o.B = body
	return nil
}

func UnmarshalBodyJSON(t OperationType, b []byte) (Body, error) {
	if bi, err := newBodyFromType(t); err != nil {
		return nil, err
	} else if err = json.Unmarshal(b, bi); err != nil {
		return nil, errors.InvalidOperation.Clone().SetData("error", err.Error())
	} else {
		// No other way to go from interface-to-pointer to interface-to-value
		// because values within interfaces are not addressable
		return reflect.ValueOf(bi).Elem().Interface().(Body), nil
	}
}

// Returns: A pointer to a body with a type matching `ty`
func newBodyFromType(ty OperationType) (interface{}, error) {
	switch ty {
	case TypeCreatePoll:
		return &CreatePoll{}, nil
	case TypeVote:
		return &Vote{}, nil
	case TypeResetPoll:
		return &ResetPoll{}, nil
	case TypeCreateMint:
		return &CreateMint{}, nil
	case TypeMintTo:
		return &MintTo{}, nil
	case TypeCreateHolding:
		return &CreateHolding{}, nil
	case TypeTransfer:
		return &Transfer{}, nil
	default:
		return nil, errors.UnknownOperationType.Clone().SetData("type", ty)
	}
}

func checkAddresses(addresses ...string) error {
	for _, a := range addresses {
		if !common.IsValidAddress(a) {
			return errors.BadPublicAddress.Clone().SetData("address", a)
		}
	}

	return nil
}
