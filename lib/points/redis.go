package points

import (
	"fmt"

	"github.com/go-redis/redis"

	"boscoin.io/tokenpoll/lib/errors"
)

const DefaultRedisKeyPrefix = "tokenpoll:points:"

// KEYS[1]: balance key, ARGV[1]: amount, ARGV[2]: initial balance.
// Returns -1 when the balance is short.
var debitScript = redis.NewScript(`
local b = redis.call("GET", KEYS[1])
if not b then b = ARGV[2] end
b = tonumber(b)
local amount = tonumber(ARGV[1])
if b < amount then return -1 end
b = b - amount
redis.call("SET", KEYS[1], string.format("%d", b))
return b
`)

var creditScript = redis.NewScript(`
local b = redis.call("GET", KEYS[1])
if not b then b = ARGV[2] end
b = tonumber(b) + tonumber(ARGV[1])
redis.call("SET", KEYS[1], string.format("%d", b))
return b
`)

// RedisStore keeps balances as plain redis strings. Debit and credit run as
// scripts, so concurrent exchanges of one wallet can not overdraw it.
type RedisStore struct {
	client  redis.UniversalClient
	prefix  string
	initial uint64
}

func NewRedisStore(client redis.UniversalClient, initial uint64) *RedisStore {
	return &RedisStore{
		client:  client,
		prefix:  DefaultRedisKeyPrefix,
		initial: initial,
	}
}

// NewRedisStoreFromAddr connects to the redis server at addr, like
// "localhost:6379".
func NewRedisStoreFromAddr(addr string, initial uint64) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping().Err(); err != nil {
		return nil, storeError(err)
	}

	return NewRedisStore(client, initial), nil
}

func (s *RedisStore) key(wallet string) string {
	return fmt.Sprintf("%s%s", s.prefix, wallet)
}

func (s *RedisStore) Balance(wallet string) (uint64, error) {
	b, err := s.client.Get(s.key(wallet)).Uint64()
	if err == redis.Nil {
		return s.initial, nil
	} else if err != nil {
		return 0, storeError(err)
	}

	return b, nil
}

func (s *RedisStore) Debit(wallet string, amount uint64) (uint64, error) {
	b, err := debitScript.Run(s.client, []string{s.key(wallet)}, amount, s.initial).Int64()
	if err != nil {
		return 0, storeError(err)
	}
	if b < 0 {
		balance, _ := s.Balance(wallet)
		return balance, errors.InsufficientPoints.Clone().SetData("balance", balance).SetData("requested", amount)
	}

	return uint64(b), nil
}

func (s *RedisStore) Credit(wallet string, amount uint64) (uint64, error) {
	b, err := creditScript.Run(s.client, []string{s.key(wallet)}, amount, s.initial).Int64()
	if err != nil {
		return 0, storeError(err)
	}

	return uint64(b), nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func storeError(err error) error {
	return errors.PointsStoreError.Clone().SetData("error", err.Error())
}
