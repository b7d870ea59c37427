//
// Define the `Amount` type, the unit of every token balance and vote tally.
//
// Amounts cover the whole `uint64` range. Arithmetic is checked:
// - `Add` / `Sub` return an error instead of wrapping around
// - `MustAdd` / `MustSub` turn the error into a `panic`, for tests only
//
package common

import (
	"fmt"
	"strconv"

	"boscoin.io/tokenpoll/lib/errors"
)

type Amount uint64

func (a Amount) String() string {
	return strconv.FormatUint(uint64(a), 10)
}

//
// Add an `Amount` to this `Amount`
//
// If the sum does not fit in 64 bits, `errors.AmountOverflow` is returned
// together with the unchanged receiver.
//
func (a Amount) Add(added Amount) (Amount, error) {
	n := a + added
	if n < a {
		return a, errors.AmountOverflow
	}
	return n, nil
}

func (a Amount) MustAdd(added Amount) Amount {
	if v, err := a.Add(added); err != nil {
		panic(err)
	} else {
		return v
	}
}

func (a Amount) Sub(sub Amount) (Amount, error) {
	if a < sub {
		return a, errors.AmountUnderflow
	}
	return a - sub, nil
}

func (a Amount) MustSub(sub Amount) Amount {
	if v, err := a.Sub(sub); err != nil {
		panic(err)
	} else {
		return v
	}
}

func (a Amount) MultUint64(n uint64) (Amount, error) {
	if n == 0 || a == 0 {
		return Amount(0), nil
	}

	if ^uint64(0)/n < uint64(a) {
		return a, errors.AmountOverflow
	}

	return Amount(uint64(a) * n), nil
}

// ScaleByDecimals converts whole tokens into base units, `a * 10^decimals`.
func (a Amount) ScaleByDecimals(decimals uint8) (Amount, error) {
	scaled := a
	var err error
	for i := uint8(0); i < decimals; i++ {
		if scaled, err = scaled.MultUint64(10); err != nil {
			return a, err
		}
	}

	return scaled, nil
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("\"%s\"", a.String())), nil
}

// UnmarshalJSON accepts both the quoted form written by `MarshalJSON` and a
// bare JSON number.
func (a *Amount) UnmarshalJSON(b []byte) (err error) {
	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	*a, err = AmountFromString(s)
	return
}

func AmountFromString(str string) (Amount, error) {
	if value, err := strconv.ParseUint(str, 10, 64); err != nil {
		return 0, errors.InvalidAmount.Clone().SetData("amount", str)
	} else {
		return Amount(value), nil
	}
}

func MustAmountFromString(str string) Amount {
	if value, err := AmountFromString(str); err != nil {
		panic(err)
	} else {
		return value
	}
}
