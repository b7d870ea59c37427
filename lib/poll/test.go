package poll

import (
	"boscoin.io/tokenpoll/lib/common"
	"boscoin.io/tokenpoll/lib/common/keypair"
)

// TestMakePoll returns an open poll with candidates "A" and "B", owned by a
// random key, whose deadline is unix time 3600.
func TestMakePoll() *Poll {
	p, err := NewPoll(
		common.DeriveAddress("poll", common.GetUniqueIDFromUUID()),
		keypair.Random().Address(),
		"lunch",
		[]string{"A", "B"},
		3600,
		common.DeriveAddress("mint", common.GetUniqueIDFromUUID()),
	)
	if err != nil {
		panic(err)
	}

	return p
}
