package client

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	neturl "net/url"
	"strings"

	"boscoin.io/tokenpoll/lib/common"
	"boscoin.io/tokenpoll/lib/node"
	"boscoin.io/tokenpoll/lib/transaction"
)

const (
	UrlPrefixForAPIV1 = "/api/v1"

	UrlNodeInfo          = "/"
	UrlPolls             = "/polls"
	UrlPoll              = "/polls/{id}"
	UrlPollStream        = "/polls/{id}/stream"
	UrlResetPolls        = "/polls/reset"
	UrlHolding           = "/holdings/{id}"
	UrlMint              = "/mints/{id}"
	UrlTransactions      = "/transactions"
	UrlTransactionByHash = "/transactions/{id}"
	UrlPoints            = "/points/{id}"
	UrlExchange          = "/exchange"
)

type QueryKey string

func (qk QueryKey) String() string {
	return string(qk)
}

const (
	QueryLimit   QueryKey = "limit"
	QueryReverse QueryKey = "reverse"
	QueryCursor  QueryKey = "cursor"
	QueryAll     QueryKey = "all"
	QueryOwner   QueryKey = "owner"
	QuerySource  QueryKey = "source"
)

type Q struct {
	Key   QueryKey
	Value string
}

type Queries []Q

func (qs Queries) toQueryString() string {
	if len(qs) == 0 {
		return ""
	}

	urlValues := neturl.Values{}
	for _, q := range qs {
		urlValues.Add(q.Key.String(), q.Value)
	}
	return "?" + urlValues.Encode()
}

type Client struct {
	URL string

	HTTP *common.HTTP2Client

	// stream is not retried, it only ends with the context or the stream.
	stream *common.HTTP2Client
}

// NewClient connects to the node at url. Failed requests are retried with
// exponential backoff.
func NewClient(url string) (*Client, error) {
	httpClient, err := common.NewPersistentHTTP2Client(
		0,
		0,
		true,
		&common.RetrySetting{
			MaxRetries:  3,
			Concurrency: 1,
			Backoff:     common.DefaultBackoff,
		},
	)
	if err != nil {
		return nil, err
	}

	streamClient, err := common.NewHTTP2Client(0, 0, true)
	if err != nil {
		return nil, err
	}

	return &Client{
		URL:    strings.TrimRight(url, "/"),
		HTTP:   httpClient,
		stream: streamClient,
	}, nil
}

func (c *Client) Close() {
	c.HTTP.Close()
	c.stream.Close()
}

func (c *Client) toResponse(resp *http.Response, response interface{}) (err error) {
	defer resp.Body.Close()
	decoder := json.NewDecoder(resp.Body)

	if !(resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices) {
		var p Problem
		if err = decoder.Decode(&p); err != nil {
			return
		}
		if p.Status == 0 {
			p.Status = resp.StatusCode
		}
		return Error{Problem: p}
	}

	return decoder.Decode(response)
}

func (c *Client) Get(path string, headers http.Header) (response *http.Response, err error) {
	url := c.URL + UrlPrefixForAPIV1 + path
	return c.HTTP.Get(url, headers)
}

func (c *Client) Post(path string, body []byte, headers http.Header) (response *http.Response, err error) {
	url := c.URL + UrlPrefixForAPIV1 + path
	return c.HTTP.Post(url, body, headers)
}

func (c *Client) load(path string, response interface{}, queries ...Q) (err error) {
	headers := http.Header{}
	headers.Set("Accept", "application/json")

	resp, err := c.Get(path+Queries(queries).toQueryString(), headers)
	if err != nil {
		return
	}
	return c.toResponse(resp, response)
}

func (c *Client) post(path string, body []byte, response interface{}) (err error) {
	headers := http.Header{}
	headers.Set("Content-Type", "application/json")

	resp, err := c.Post(path, body, headers)
	if err != nil {
		return
	}
	return c.toResponse(resp, response)
}

func withID(pattern, id string) string {
	return strings.Replace(pattern, "{id}", id, -1)
}

func (c *Client) LoadNodeInfo() (info node.NodeInfo, err error) {
	err = c.load(UrlNodeInfo, &info)
	return
}

func (c *Client) LoadPoll(id string) (p Poll, err error) {
	err = c.load(withID(UrlPoll, id), &p)
	return
}

func (c *Client) LoadPolls(queries ...Q) (page PollsPage, err error) {
	err = c.load(UrlPolls, &page, queries...)
	return
}

func (c *Client) LoadHolding(id string) (h Holding, err error) {
	err = c.load(withID(UrlHolding, id), &h)
	return
}

func (c *Client) LoadMint(id string) (m Mint, err error) {
	err = c.load(withID(UrlMint, id), &m)
	return
}

func (c *Client) LoadTransaction(hash string) (r Receipt, err error) {
	err = c.load(withID(UrlTransactionByHash, hash), &r)
	return
}

func (c *Client) LoadTransactions(queries ...Q) (page ReceiptsPage, err error) {
	err = c.load(UrlTransactions, &page, queries...)
	return
}

func (c *Client) LoadPoints(wallet string) (p Points, err error) {
	err = c.load(withID(UrlPoints, wallet), &p)
	return
}

// SubmitTransaction executes a signed transaction on the node.
func (c *Client) SubmitTransaction(tx transaction.Transaction) (r Receipt, err error) {
	var body []byte
	if body, err = tx.Serialize(); err != nil {
		return
	}

	err = c.post(UrlTransactions, body, &r)
	return
}

// Exchange trades points of wallet for tokens of the node treasury.
func (c *Client) Exchange(wallet string, points uint64) (e Exchange, err error) {
	var body []byte
	body, err = json.Marshal(map[string]interface{}{"wallet": wallet, "points": points})
	if err != nil {
		return
	}

	err = c.post(UrlExchange, body, &e)
	return
}

// ResetPolls closes every poll owned by the node key.
func (c *Client) ResetPolls() (page ReceiptsPage, err error) {
	err = c.post(UrlResetPolls, []byte("{}"), &page)
	return
}

// Stream calls handler with every line the node sends until ctx is done or
// the stream ends.
func (c *Client) Stream(ctx context.Context, path string, handler func(data []byte) error) (err error) {
	request, err := http.NewRequest("GET", c.URL+UrlPrefixForAPIV1+path, nil)
	if err != nil {
		return
	}
	request = request.WithContext(ctx)
	request.Header.Set("Accept", "text/event-stream")

	resp, err := c.stream.Do(request)
	if err != nil {
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.toResponse(resp, nil)
	}

	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) < 1 {
			continue
		}
		if err = handler(line); err != nil {
			return
		}
	}

	if ctx.Err() != nil {
		return nil
	}
	return scanner.Err()
}

// StreamPoll calls handler with the poll and with every later change of it.
func (c *Client) StreamPoll(ctx context.Context, id string, handler func(Poll)) error {
	return c.Stream(ctx, withID(UrlPollStream, id), func(b []byte) error {
		var p Poll
		if err := json.Unmarshal(b, &p); err != nil {
			return err
		}
		handler(p)
		return nil
	})
}
