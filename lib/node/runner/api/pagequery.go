package api

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"boscoin.io/tokenpoll/lib/common"
	"boscoin.io/tokenpoll/lib/errors"
	"boscoin.io/tokenpoll/lib/node/runner/api/resource"
	"boscoin.io/tokenpoll/lib/storage"
)

const (
	DefaultLimit uint64 = 20
	MaxLimit     uint64 = 100
)

// PageQuery reads `cursor`, `limit` and `reverse` of list requests. Cursors
// are base64 encoded index keys.
type PageQuery struct {
	request *http.Request
	cursor  []byte
	reverse bool
	limit   uint64
}

func NewPageQuery(r *http.Request) (*PageQuery, error) {
	p := &PageQuery{
		request: r,
		limit:   DefaultLimit,
	}
	err := p.parseRequest()
	return p, err
}

func (p *PageQuery) Limit() uint64 {
	return p.limit
}

func (p *PageQuery) Reverse() bool {
	return p.reverse
}

func (p *PageQuery) Cursor() []byte {
	return p.cursor
}

// ListOptions asks one more item than the limit; the storage cursor is
// inclusive and the item at the cursor was already served.
func (p *PageQuery) ListOptions() storage.ListOptions {
	limit := p.limit
	if len(p.cursor) > 0 {
		limit++
	}
	return storage.NewDefaultListOptions(p.reverse, p.cursor, limit)
}

// IsCursor reports whether key is the item the page started from.
func (p *PageQuery) IsCursor(key []byte) bool {
	return len(p.cursor) > 0 && bytes.Equal(p.cursor, key)
}

func (p *PageQuery) SelfLink() string {
	return p.request.URL.String()
}

func (p *PageQuery) link(cursor []byte, reverse bool) string {
	query := p.request.URL.Query()
	for k, v := range p.urlValues(cursor, reverse) {
		query[k] = v
	}
	return fmt.Sprintf("%s?%s", p.request.URL.Path, query.Encode())
}

func (p *PageQuery) ResourceList(rs []resource.Resource, firstCursor, lastCursor []byte) *resource.ResourceList {
	var next, prev string
	if len(lastCursor) > 0 {
		next = p.link(lastCursor, p.reverse)
	}
	if len(firstCursor) > 0 {
		prev = p.link(firstCursor, !p.reverse)
	}

	return resource.NewResourceList(rs, p.SelfLink(), next, prev)
}

func (p *PageQuery) parseRequest() error {
	q := p.request.URL.Query()
	if r := q.Get("reverse"); r != "" {
		reverse, err := common.ParseBoolQueryString(r)
		if err != nil {
			return err
		}
		p.reverse = reverse
	}

	if c := q.Get("cursor"); c != "" {
		bs, err := base64.URLEncoding.DecodeString(c)
		if err != nil {
			return errors.BadRequestParameter.Clone().SetData("cursor", c)
		}
		p.cursor = bs
	}

	if l := q.Get("limit"); l != "" {
		limit, err := strconv.ParseUint(l, 10, 64)
		if err != nil || limit < 1 || limit > MaxLimit {
			return errors.BadRequestParameter.Clone().SetData("limit", l)
		}
		p.limit = limit
	}

	return nil
}

func (p PageQuery) urlValues(cursor []byte, reverse bool) url.Values {
	v := url.Values{
		"reverse": []string{strconv.FormatBool(reverse)},
		"limit":   []string{strconv.FormatUint(p.limit, 10)},
	}
	if len(cursor) > 0 {
		v.Set("cursor", base64.URLEncoding.EncodeToString(cursor))
	}

	return v
}
