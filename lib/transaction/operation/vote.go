package operation

import (
	"boscoin.io/tokenpoll/lib/common"
)

// Vote stakes `Amount` tokens of `Holding` on the candidate at index
// `Candidate`. The tokens move to `Vault`, the custody holding of the poll.
type Vote struct {
	Poll      string        `json:"poll"`
	Candidate uint8         `json:"candidate"`
	Amount    common.Amount `json:"amount"`
	Holding   string        `json:"holding"`
	Vault     string        `json:"vault"`
}

func NewVote(pollAddress string, candidate uint8, amount common.Amount, holding, vault string) Vote {
	return Vote{
		Poll:      pollAddress,
		Candidate: candidate,
		Amount:    amount,
		Holding:   holding,
		Vault:     vault,
	}
}

// IsWellFormed accepts a zero amount; such a vote moves nothing and leaves
// the tally as it is.
func (o Vote) IsWellFormed(common.Config) error {
	return checkAddresses(o.Poll, o.Holding, o.Vault)
}

func (o Vote) TargetAddress() string {
	return o.Poll
}
