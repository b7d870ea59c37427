package poll

import (
	"encoding/binary"

	"boscoin.io/tokenpoll/lib/common"
	"boscoin.io/tokenpoll/lib/errors"
)

// The poll slot has a fixed size regardless of the number of candidates:
//
//	discriminator      8
//	title              4 + MaxTitleLen
//	candidates         4 + MaxCandidates * (4 + MaxCandidateLen)
//	votes              4 + MaxCandidates * 8
//	owner              32
//	deadline           8
//	required mint      32
//	closed             1
//
// Integers are little endian.
const RecordSize = 8 +
	4 + MaxTitleLen +
	4 + MaxCandidates*(4+MaxCandidateLen) +
	4 + MaxCandidates*8 +
	common.AddressLength +
	8 +
	common.AddressLength +
	1

var Discriminator = func() (d [8]byte) {
	copy(d[:], common.MakeHash([]byte("tokenpoll:poll")))
	return
}()

type recordWriter struct {
	b   []byte
	pos int
}

func (w *recordWriter) bytes(b []byte) {
	copy(w.b[w.pos:], b)
	w.pos += len(b)
}

func (w *recordWriter) u32(v uint32) {
	binary.LittleEndian.PutUint32(w.b[w.pos:], v)
	w.pos += 4
}

func (w *recordWriter) u64(v uint64) {
	binary.LittleEndian.PutUint64(w.b[w.pos:], v)
	w.pos += 8
}

// text writes a length prefixed string into a slot of size bytes.
func (w *recordWriter) text(s string, size int) {
	w.u32(uint32(len(s)))
	copy(w.b[w.pos:w.pos+size], s)
	w.pos += size
}

type recordReader struct {
	b   []byte
	pos int
}

func (r *recordReader) bytes(n int) []byte {
	b := r.b[r.pos : r.pos+n]
	r.pos += n
	return b
}

func (r *recordReader) u32() uint32 {
	return binary.LittleEndian.Uint32(r.bytes(4))
}

func (r *recordReader) u64() uint64 {
	return binary.LittleEndian.Uint64(r.bytes(8))
}

func (r *recordReader) text(size int) (string, bool) {
	n := int(r.u32())
	slot := r.bytes(size)
	if n > size {
		return "", false
	}
	return string(slot[:n]), true
}

func (p *Poll) Serialize() ([]byte, error) {
	if p.candidateCount < MinCandidates || p.candidateCount > MaxCandidates {
		return nil, errors.InvalidCandidate.Clone().SetData("count", p.candidateCount)
	}
	if err := CheckTitle(p.Title); err != nil {
		return nil, err
	}
	if err := CheckCandidates(p.Candidates()); err != nil {
		return nil, err
	}

	owner, err := common.DecodeAddress(p.Owner)
	if err != nil {
		return nil, err
	}
	mint, err := common.DecodeAddress(p.RequiredMint)
	if err != nil {
		return nil, err
	}

	w := &recordWriter{b: make([]byte, RecordSize)}
	w.bytes(Discriminator[:])
	w.text(p.Title, MaxTitleLen)

	w.u32(uint32(p.candidateCount))
	for _, c := range p.candidates {
		w.text(c, MaxCandidateLen)
	}

	w.u32(uint32(p.candidateCount))
	for _, v := range p.votes {
		w.u64(uint64(v))
	}

	w.bytes(owner)
	w.u64(uint64(p.Deadline))
	w.bytes(mint)
	if p.IsClosed {
		w.bytes([]byte{1})
	} else {
		w.bytes([]byte{0})
	}

	return w.b, nil
}

func (p *Poll) Deserialize(b []byte) error {
	if len(b) != RecordSize {
		return errors.InvalidPollRecord.Clone().SetData("size", len(b))
	}

	r := &recordReader{b: b}
	if string(r.bytes(8)) != string(Discriminator[:]) {
		return errors.InvalidPollRecord.Clone().SetData("reason", "discriminator")
	}

	var decoded Poll
	var ok bool
	if decoded.Title, ok = r.text(MaxTitleLen); !ok {
		return errors.InvalidPollRecord.Clone().SetData("reason", "title")
	}

	count := int(r.u32())
	if count < MinCandidates || count > MaxCandidates {
		return errors.InvalidPollRecord.Clone().SetData("reason", "candidates")
	}
	decoded.candidateCount = count
	for i := range decoded.candidates {
		if decoded.candidates[i], ok = r.text(MaxCandidateLen); !ok {
			return errors.InvalidPollRecord.Clone().SetData("reason", "candidate")
		}
	}

	if int(r.u32()) != count {
		return errors.InvalidPollRecord.Clone().SetData("reason", "votes")
	}
	for i := range decoded.votes {
		decoded.votes[i] = common.Amount(r.u64())
	}

	var err error
	if decoded.Owner, err = common.EncodeAddress(r.bytes(common.AddressLength)); err != nil {
		return err
	}
	decoded.Deadline = int64(r.u64())
	if decoded.RequiredMint, err = common.EncodeAddress(r.bytes(common.AddressLength)); err != nil {
		return err
	}

	switch r.bytes(1)[0] {
	case 0:
	case 1:
		decoded.IsClosed = true
	default:
		return errors.InvalidPollRecord.Clone().SetData("reason", "closed")
	}

	decoded.Address = p.Address
	*p = decoded

	return nil
}
