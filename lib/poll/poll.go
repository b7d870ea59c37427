package poll

import (
	"encoding/json"
	"fmt"
	"strconv"

	"boscoin.io/tokenpoll/lib/common"
	"boscoin.io/tokenpoll/lib/errors"
	"boscoin.io/tokenpoll/lib/storage"
)

// Poll is the ledger record of one ballot. The storage should support,
//  * find by `Address`
//  * get list by created order
//  * get list by owner, in created order
//
// models
//  * 'address'
// 	- 'poll-address-<Poll.Address>': `Poll`, in the fixed binary layout
//  * 'created'
// 	- 'poll-created-<sequential uuid1>': `Poll.Address`
//  * 'owner'
// 	- 'poll-owner-<Poll.Owner>-<sequential uuid1>': `Poll.Address`

const (
	PollPrefixAddress string = "poll-address-"
	PollPrefixCreated string = "poll-created-"
	PollPrefixOwner   string = "poll-owner-"
)

const (
	MinCandidates   = 2
	MaxCandidates   = 5
	MaxTitleLen     = 40
	MaxCandidateLen = 20
)

type Poll struct {
	Address string

	Title        string
	Owner        string
	Deadline     int64
	RequiredMint string
	IsClosed     bool

	candidateCount int
	candidates     [MaxCandidates]string
	votes          [MaxCandidates]common.Amount
}

// NewPoll validates the inputs and returns an open poll with zeroed tallies.
// The deadline is not compared with the current time.
func NewPoll(address, owner, title string, candidates []string, deadline int64, requiredMint string) (*Poll, error) {
	if err := CheckCandidates(candidates); err != nil {
		return nil, err
	}
	if err := CheckTitle(title); err != nil {
		return nil, err
	}

	for _, a := range []string{address, owner, requiredMint} {
		if !common.IsValidAddress(a) {
			return nil, errors.BadPublicAddress.Clone().SetData("address", a)
		}
	}

	p := &Poll{
		Address:        address,
		Title:          title,
		Owner:          owner,
		Deadline:       deadline,
		RequiredMint:   requiredMint,
		candidateCount: len(candidates),
	}
	copy(p.candidates[:], candidates)

	return p, nil
}

func CheckCandidates(candidates []string) error {
	if len(candidates) < MinCandidates || len(candidates) > MaxCandidates {
		return errors.InvalidCandidate.Clone().SetData("count", len(candidates))
	}

	for i, c := range candidates {
		if len(c) > MaxCandidateLen {
			return errors.InvalidCandidate.Clone().SetData("index", i).SetData("length", len(c))
		}
	}

	return nil
}

func CheckTitle(title string) error {
	if len(title) > MaxTitleLen {
		return errors.InvalidTitle.Clone().SetData("length", len(title))
	}

	return nil
}

func (p *Poll) Candidates() []string {
	c := make([]string, p.candidateCount)
	copy(c, p.candidates[:p.candidateCount])
	return c
}

func (p *Poll) Votes() []common.Amount {
	v := make([]common.Amount, p.candidateCount)
	copy(v, p.votes[:p.candidateCount])
	return v
}

func (p *Poll) CandidateCount() int {
	return p.candidateCount
}

// IsOpen reports whether votes are accepted at the unix time now. Closing
// the poll with `Close` does not affect it.
func (p *Poll) IsOpen(now int64) bool {
	return now < p.Deadline
}

// AddVote adds amount to the tally of the candidate at index. On overflow the
// tally is left untouched.
func (p *Poll) AddVote(index int, amount common.Amount) error {
	if index < 0 || index >= p.candidateCount {
		return errors.InvalidCandidate.Clone().SetData("index", index)
	}

	n, err := p.votes[index].Add(amount)
	if err != nil {
		return errors.AmountOverflow.Clone().SetData("candidate", index)
	}
	p.votes[index] = n

	return nil
}

func (p *Poll) Close() {
	p.IsClosed = true
}

func (p *Poll) String() string {
	return string(common.MustMarshalJSON(p))
}

type pollJSON struct {
	Address      string          `json:"address"`
	Title        string          `json:"title"`
	Candidates   []string        `json:"candidates"`
	Votes        []common.Amount `json:"votes"`
	Owner        string          `json:"owner"`
	Deadline     int64           `json:"deadline"`
	RequiredMint string          `json:"required_mint"`
	IsClosed     bool            `json:"is_closed"`
}

func (p *Poll) MarshalJSON() ([]byte, error) {
	return json.Marshal(pollJSON{
		Address:      p.Address,
		Title:        p.Title,
		Candidates:   p.Candidates(),
		Votes:        p.Votes(),
		Owner:        p.Owner,
		Deadline:     p.Deadline,
		RequiredMint: p.RequiredMint,
		IsClosed:     p.IsClosed,
	})
}

func (p *Poll) UnmarshalJSON(b []byte) error {
	var j pollJSON
	if err := json.Unmarshal(b, &j); err != nil {
		return err
	}
	if len(j.Candidates) > MaxCandidates || len(j.Votes) != len(j.Candidates) {
		return errors.InvalidPollRecord
	}

	*p = Poll{
		Address:        j.Address,
		Title:          j.Title,
		Owner:          j.Owner,
		Deadline:       j.Deadline,
		RequiredMint:   j.RequiredMint,
		IsClosed:       j.IsClosed,
		candidateCount: len(j.Candidates),
	}
	copy(p.candidates[:], j.Candidates)
	copy(p.votes[:], j.Votes)

	return nil
}

// Save writes the poll; the first save also writes its created and owner
// index entries.
func (p *Poll) Save(st *storage.LevelDBBackend) (err error) {
	key := GetPollKey(p.Address)

	var exists bool
	if exists, err = st.Has(key); err != nil {
		return
	}

	if exists {
		return st.Set(key, p)
	}

	uid := common.GetUniqueIDFromUUID()
	return st.News(
		storage.Item{Key: key, Value: p},
		storage.Item{Key: GetPollCreatedKey(uid), Value: p.Address},
		storage.Item{Key: GetPollOwnerKey(p.Owner, uid), Value: p.Address},
	)
}

// MakeAddress derives the address of the poll created by the operation at
// index of the transaction txHash.
func MakeAddress(txHash string, index int) string {
	return common.DeriveAddress("poll", txHash, strconv.Itoa(index))
}

func GetPollKey(address string) string {
	return fmt.Sprintf("%s%s", PollPrefixAddress, address)
}

func GetPollCreatedKey(created string) string {
	return fmt.Sprintf("%s%s", PollPrefixCreated, created)
}

func GetPollOwnerKey(owner, created string) string {
	return fmt.Sprintf("%s%s-%s", PollPrefixOwner, owner, created)
}

func ExistsPoll(st *storage.LevelDBBackend, address string) (bool, error) {
	return st.Has(GetPollKey(address))
}

func GetPoll(st *storage.LevelDBBackend, address string) (p *Poll, err error) {
	p = &Poll{}
	if err = st.Get(GetPollKey(address), p); err != nil {
		if errors.StorageRecordDoesNotExist.Is(err) {
			err = errors.PollDoesNotExist.Clone().SetData("address", address)
		}
		return nil, err
	}
	p.Address = address

	return
}

func iteratePolls(st *storage.LevelDBBackend, prefix string, options storage.ListOptions) (func() (*Poll, bool, []byte), func()) {
	iterFunc, closeFunc := st.GetIterator(prefix, options)

	return (func() (*Poll, bool, []byte) {
			item, hasNext := iterFunc()
			if !hasNext {
				return nil, false, item.Key
			}

			var address string
			common.MustUnmarshalJSON(item.Value, &address)

			p, err := GetPoll(st, address)
			if err != nil {
				return nil, false, item.Key
			}

			return p, hasNext, item.Key
		}), (func() {
			closeFunc()
		})
}

// GetPollsByCreated iterates every poll in created order. The third value is
// the index key, usable as the cursor of the next page.
func GetPollsByCreated(st *storage.LevelDBBackend, options storage.ListOptions) (func() (*Poll, bool, []byte), func()) {
	return iteratePolls(st, PollPrefixCreated, options)
}

func GetPollsByOwner(st *storage.LevelDBBackend, owner string, options storage.ListOptions) (func() (*Poll, bool, []byte), func()) {
	return iteratePolls(st, GetPollOwnerKey(owner, ""), options)
}
