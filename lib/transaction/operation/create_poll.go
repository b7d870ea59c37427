package operation

import (
	"io"
	"strconv"

	"github.com/ethereum/go-ethereum/rlp"

	"boscoin.io/tokenpoll/lib/common"
	"boscoin.io/tokenpoll/lib/poll"
)

// CreatePoll opens a poll owned by the transaction source. The poll is
// stored at `poll.MakeAddress(<tx hash>, <operation index>)`.
type CreatePoll struct {
	Title        string   `json:"title"`
	Candidates   []string `json:"candidates"`
	Deadline     int64    `json:"deadline"`
	RequiredMint string   `json:"required_mint"`
}

func NewCreatePoll(title string, candidates []string, deadline int64, requiredMint string) CreatePoll {
	return CreatePoll{
		Title:        title,
		Candidates:   candidates,
		Deadline:     deadline,
		RequiredMint: requiredMint,
	}
}

func (o CreatePoll) IsWellFormed(common.Config) error {
	if err := poll.CheckCandidates(o.Candidates); err != nil {
		return err
	}
	if err := poll.CheckTitle(o.Title); err != nil {
		return err
	}

	return checkAddresses(o.RequiredMint)
}

// EncodeRLP writes the deadline as a decimal string; rlp has no signed
// integers.
func (o CreatePoll) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, []interface{}{
		o.Title,
		o.Candidates,
		strconv.FormatInt(o.Deadline, 10),
		o.RequiredMint,
	})
}

func (o *CreatePoll) DecodeRLP(s *rlp.Stream) error {
	var v struct {
		Title        string
		Candidates   []string
		Deadline     string
		RequiredMint string
	}
	if err := s.Decode(&v); err != nil {
		return err
	}

	deadline, err := strconv.ParseInt(v.Deadline, 10, 64)
	if err != nil {
		return err
	}

	*o = NewCreatePoll(v.Title, v.Candidates, deadline, v.RequiredMint)

	return nil
}
