package operation

import (
	"boscoin.io/tokenpoll/lib/common"
)

type ResetPoll struct {
	Poll string `json:"poll"`
}

func NewResetPoll(pollAddress string) ResetPoll {
	return ResetPoll{Poll: pollAddress}
}

func (o ResetPoll) IsWellFormed(common.Config) error {
	return checkAddresses(o.Poll)
}

func (o ResetPoll) TargetAddress() string {
	return o.Poll
}
