package client

import (
	"fmt"

	"boscoin.io/tokenpoll/lib/common"
	"boscoin.io/tokenpoll/lib/program"
)

type Problem struct {
	Type     string                 `json:"type"`
	Title    string                 `json:"title"`
	Status   int                    `json:"status"`
	Detail   string                 `json:"detail,omitempty"`
	Instance string                 `json:"instance,omitempty"`
	Code     uint                   `json:"code,omitempty"`
	Data     map[string]interface{} `json:"data,omitempty"`
}

// Error is returned when the node answers with a problem.
type Error struct {
	Problem Problem
}

func (e Error) Error() string {
	return fmt.Sprintf("status=%d code=%d title=%q", e.Problem.Status, e.Problem.Code, e.Problem.Title)
}

type Link struct {
	Href      string `json:"href"`
	Templated bool   `json:"templated,omitempty"`
}

type Poll struct {
	Links struct {
		Self   Link `json:"self"`
		Stream Link `json:"stream"`
		Vault  Link `json:"vault"`
		Mint   Link `json:"mint"`
	} `json:"_links"`

	Address      string          `json:"address"`
	Title        string          `json:"title"`
	Candidates   []string        `json:"candidates"`
	Votes        []common.Amount `json:"votes"`
	Owner        string          `json:"owner"`
	Deadline     int64           `json:"deadline"`
	RequiredMint string          `json:"required_mint"`
	IsClosed     bool            `json:"is_closed"`
	IsOpen       bool            `json:"is_open"`
	Vault        string          `json:"vault"`
}

type PollsPage struct {
	Links struct {
		Self Link `json:"self"`
		Next Link `json:"next"`
		Prev Link `json:"prev"`
	} `json:"_links"`
	Embedded struct {
		Records []Poll `json:"records"`
	} `json:"_embedded"`
}

type Holding struct {
	Links struct {
		Self Link `json:"self"`
		Mint Link `json:"mint"`
	} `json:"_links"`

	Address string        `json:"address"`
	Mint    string        `json:"mint"`
	Owner   string        `json:"owner"`
	Amount  common.Amount `json:"amount"`
}

type Mint struct {
	Links struct {
		Self Link `json:"self"`
	} `json:"_links"`

	Address   string        `json:"address"`
	Authority string        `json:"authority"`
	Decimals  uint8         `json:"decimals"`
	Supply    common.Amount `json:"supply"`
}

type Receipt struct {
	Links struct {
		Self Link `json:"self"`
	} `json:"_links"`

	Hash       string                     `json:"hash"`
	Source     string                     `json:"source"`
	Executed   string                     `json:"executed"`
	Operations []program.ReceiptOperation `json:"operations"`
	Signature  string                     `json:"signature"`
	Created    string                     `json:"created"`
}

// Target returns the record the operation at index changed.
func (r Receipt) Target(index int) string {
	for _, op := range r.Operations {
		if op.Index == index {
			return op.Target
		}
	}
	return ""
}

type ReceiptsPage struct {
	Links struct {
		Self Link `json:"self"`
		Next Link `json:"next"`
		Prev Link `json:"prev"`
	} `json:"_links"`
	Embedded struct {
		Records []Receipt `json:"records"`
	} `json:"_embedded"`
}

type Points struct {
	Wallet  string `json:"wallet"`
	Balance uint64 `json:"balance"`
}

type Exchange struct {
	Wallet   string `json:"wallet"`
	Points   uint64 `json:"points"`
	Balance  uint64 `json:"balance"`
	Embedded struct {
		Receipt Receipt `json:"receipt"`
	} `json:"_embedded"`
}
