package operation

import (
	"boscoin.io/tokenpoll/lib/common"
)

func MakeTestCreatePoll(mint string, deadline int64, candidates ...string) Operation {
	if len(candidates) < 1 {
		candidates = []string{"A", "B"}
	}

	return MustNewOperation(NewCreatePoll("test poll", candidates, deadline, mint))
}

func MakeTestVote(pollAddress string, candidate uint8, amount common.Amount, holding, vault string) Operation {
	return MustNewOperation(NewVote(pollAddress, candidate, amount, holding, vault))
}

func MakeTestResetPoll(pollAddress string) Operation {
	return MustNewOperation(NewResetPoll(pollAddress))
}
