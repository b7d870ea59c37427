package poll

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"boscoin.io/tokenpoll/lib/common"
	"boscoin.io/tokenpoll/lib/common/keypair"
	"boscoin.io/tokenpoll/lib/errors"
	"boscoin.io/tokenpoll/lib/storage"
)

func TestRecordSize(t *testing.T) {
	require.Equal(t, 293, RecordSize)
}

func TestNewPoll(t *testing.T) {
	owner := keypair.Random().Address()
	mint := common.DeriveAddress("mint", "0")
	address := common.DeriveAddress("poll", "0")

	p, err := NewPoll(address, owner, "lunch", []string{"A", "B", "C"}, 100, mint)
	require.NoError(t, err)
	require.Equal(t, []string{"A", "B", "C"}, p.Candidates())
	require.Equal(t, []common.Amount{0, 0, 0}, p.Votes())
	require.Equal(t, 3, p.CandidateCount())
	require.False(t, p.IsClosed)
	require.Equal(t, owner, p.Owner)
	require.Equal(t, mint, p.RequiredMint)
	require.Equal(t, int64(100), p.Deadline)
}

func TestNewPollCandidateCount(t *testing.T) {
	owner := keypair.Random().Address()
	mint := common.DeriveAddress("mint", "0")
	address := common.DeriveAddress("poll", "0")

	for _, candidates := range [][]string{
		nil,
		{"A"},
		{"A", "B", "C", "D", "E", "F"},
	} {
		_, err := NewPoll(address, owner, "t", candidates, 100, mint)
		require.True(t, errors.InvalidCandidate.Is(err), "%v", candidates)
	}

	for _, candidates := range [][]string{
		{"A", "B"},
		{"A", "B", "C", "D", "E"},
	} {
		_, err := NewPoll(address, owner, "t", candidates, 100, mint)
		require.NoError(t, err)
	}
}

func TestNewPollLengths(t *testing.T) {
	owner := keypair.Random().Address()
	mint := common.DeriveAddress("mint", "0")
	address := common.DeriveAddress("poll", "0")

	_, err := NewPoll(address, owner, strings.Repeat("t", MaxTitleLen), []string{"A", "B"}, 100, mint)
	require.NoError(t, err)

	_, err = NewPoll(address, owner, strings.Repeat("t", MaxTitleLen+1), []string{"A", "B"}, 100, mint)
	require.True(t, errors.InvalidTitle.Is(err))

	_, err = NewPoll(address, owner, "t", []string{"A", strings.Repeat("c", MaxCandidateLen)}, 100, mint)
	require.NoError(t, err)

	_, err = NewPoll(address, owner, "t", []string{"A", strings.Repeat("c", MaxCandidateLen+1)}, 100, mint)
	require.True(t, errors.InvalidCandidate.Is(err))

	// byte length, not rune count
	_, err = NewPoll(address, owner, "t", []string{"A", strings.Repeat("가", 7)}, 100, mint)
	require.True(t, errors.InvalidCandidate.Is(err))
}

func TestNewPollPastDeadline(t *testing.T) {
	p, err := NewPoll(
		common.DeriveAddress("poll", "0"),
		keypair.Random().Address(),
		"t",
		[]string{"A", "B"},
		-1,
		common.DeriveAddress("mint", "0"),
	)
	require.NoError(t, err)
	require.False(t, p.IsOpen(0))
}

func TestPollIsOpen(t *testing.T) {
	p := TestMakePoll()
	require.True(t, p.IsOpen(3599))
	require.False(t, p.IsOpen(3600))
	require.False(t, p.IsOpen(3601))

	p.Close()
	require.True(t, p.IsClosed)
	require.True(t, p.IsOpen(0))
}

func TestPollAddVote(t *testing.T) {
	p := TestMakePoll()

	require.NoError(t, p.AddVote(0, 10))
	require.NoError(t, p.AddVote(1, 5))
	require.NoError(t, p.AddVote(1, 5))
	require.Equal(t, []common.Amount{10, 10}, p.Votes())

	require.True(t, errors.InvalidCandidate.Is(p.AddVote(2, 1)))
	require.True(t, errors.InvalidCandidate.Is(p.AddVote(-1, 1)))
	require.Equal(t, []common.Amount{10, 10}, p.Votes())
}

func TestPollAddVoteOverflow(t *testing.T) {
	p := TestMakePoll()

	require.NoError(t, p.AddVote(0, math.MaxUint64))
	err := p.AddVote(0, 1)
	require.True(t, errors.AmountOverflow.Is(err))
	require.Equal(t, common.Amount(math.MaxUint64), p.Votes()[0])
}

func TestPollRecordRoundTrip(t *testing.T) {
	p, err := NewPoll(
		common.DeriveAddress("poll", "0"),
		keypair.Random().Address(),
		strings.Repeat("t", MaxTitleLen),
		[]string{"A", "", strings.Repeat("c", MaxCandidateLen), "D", "E"},
		math.MinInt64,
		common.DeriveAddress("mint", "0"),
	)
	require.NoError(t, err)
	require.NoError(t, p.AddVote(4, math.MaxUint64))
	p.Close()

	b, err := p.Serialize()
	require.NoError(t, err)
	require.Equal(t, RecordSize, len(b))
	require.Equal(t, Discriminator[:], b[:8])

	decoded := &Poll{Address: p.Address}
	require.NoError(t, decoded.Deserialize(b))
	require.Equal(t, p, decoded)
}

func TestPollRecordSizeIndependentOfCandidates(t *testing.T) {
	p := TestMakePoll()
	b, err := p.Serialize()
	require.NoError(t, err)
	require.Equal(t, RecordSize, len(b))
}

func TestPollRecordDeserializeInvalid(t *testing.T) {
	p := TestMakePoll()
	b, err := p.Serialize()
	require.NoError(t, err)

	var decoded Poll
	require.True(t, errors.InvalidPollRecord.Is(decoded.Deserialize(b[:RecordSize-1])))

	broken := append([]byte{}, b...)
	broken[0]++
	require.True(t, errors.InvalidPollRecord.Is(decoded.Deserialize(broken)))

	// candidate count is stored right after the title slot
	broken = append([]byte{}, b...)
	broken[8+4+MaxTitleLen] = 6
	require.True(t, errors.InvalidPollRecord.Is(decoded.Deserialize(broken)))

	broken = append([]byte{}, b...)
	broken[RecordSize-1] = 2
	require.True(t, errors.InvalidPollRecord.Is(decoded.Deserialize(broken)))
}

func TestPollJSON(t *testing.T) {
	p := TestMakePoll()
	require.NoError(t, p.AddVote(1, 7))

	b, err := json.Marshal(p)
	require.NoError(t, err)

	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &m))
	require.Equal(t, []interface{}{"A", "B"}, m["candidates"])
	require.Equal(t, []interface{}{"0", "7"}, m["votes"])
	require.Equal(t, false, m["is_closed"])

	var decoded Poll
	require.NoError(t, json.Unmarshal(b, &decoded))
	require.Equal(t, p, &decoded)
}

func TestPollSaveAndGet(t *testing.T) {
	st := storage.NewTestStorage()
	defer st.Close()

	p := TestMakePoll()
	require.NoError(t, p.Save(st))

	exists, err := ExistsPoll(st, p.Address)
	require.NoError(t, err)
	require.True(t, exists)

	fetched, err := GetPoll(st, p.Address)
	require.NoError(t, err)
	require.Equal(t, p, fetched)

	require.NoError(t, fetched.AddVote(0, 3))
	fetched.Close()
	require.NoError(t, fetched.Save(st))

	again, err := GetPoll(st, p.Address)
	require.NoError(t, err)
	require.Equal(t, []common.Amount{3, 0}, again.Votes())
	require.True(t, again.IsClosed)

	_, err = GetPoll(st, common.DeriveAddress("poll", "missing"))
	require.True(t, errors.PollDoesNotExist.Is(err))
}

func TestGetPollsByCreatedAndOwner(t *testing.T) {
	st := storage.NewTestStorage()
	defer st.Close()

	owner := keypair.Random().Address()

	var saved []*Poll
	for i := 0; i < 5; i++ {
		p := TestMakePoll()
		if i%2 == 0 {
			p.Owner = owner
		}
		require.NoError(t, p.Save(st))
		saved = append(saved, p)
	}

	// saving again must not add index entries
	require.NoError(t, saved[0].Save(st))

	var fetched []string
	iterFunc, closeFunc := GetPollsByCreated(st, nil)
	for {
		p, hasNext, _ := iterFunc()
		if !hasNext {
			break
		}
		fetched = append(fetched, p.Address)
	}
	closeFunc()
	require.Equal(t, 5, len(fetched))
	for i, p := range saved {
		require.Equal(t, p.Address, fetched[i])
	}

	var owned []string
	iterFunc, closeFunc = GetPollsByOwner(st, owner, nil)
	for {
		p, hasNext, _ := iterFunc()
		if !hasNext {
			break
		}
		require.Equal(t, owner, p.Owner)
		owned = append(owned, p.Address)
	}
	closeFunc()
	require.Equal(t, []string{saved[0].Address, saved[2].Address, saved[4].Address}, owned)
}
