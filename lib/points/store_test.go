package points

import (
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"boscoin.io/tokenpoll/lib/common/keypair"
	"boscoin.io/tokenpoll/lib/errors"
)

func testStore(t *testing.T, s Store) {
	wallet := keypair.Random().Address()

	b, err := s.Balance(wallet)
	require.NoError(t, err)
	require.Equal(t, uint64(1000), b)

	b, err = s.Debit(wallet, 300)
	require.NoError(t, err)
	require.Equal(t, uint64(700), b)

	_, err = s.Debit(wallet, 701)
	require.True(t, errors.InsufficientPoints.Is(err))

	b, err = s.Balance(wallet)
	require.NoError(t, err)
	require.Equal(t, uint64(700), b)

	b, err = s.Credit(wallet, 50)
	require.NoError(t, err)
	require.Equal(t, uint64(750), b)

	// a new wallet starts from the initial balance before the credit
	other := keypair.Random().Address()
	b, err = s.Credit(other, 1)
	require.NoError(t, err)
	require.Equal(t, uint64(1001), b)
}

func TestMemoryStore(t *testing.T) {
	testStore(t, NewMemoryStore(1000))
}

func TestMemoryStoreConcurrentDebit(t *testing.T) {
	s := NewMemoryStore(1000)
	wallet := keypair.Random().Address()

	var wg sync.WaitGroup
	var lock sync.Mutex
	var succeeded int
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Debit(wallet, 100); err == nil {
				lock.Lock()
				succeeded++
				lock.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 10, succeeded)
	b, _ := s.Balance(wallet)
	require.Equal(t, uint64(0), b)
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("TOKENPOLL_TEST_REDIS")
	if len(addr) < 1 {
		t.Skip("TOKENPOLL_TEST_REDIS is not set")
	}

	s, err := NewRedisStoreFromAddr(addr, 1000)
	require.NoError(t, err)
	defer s.Close()

	testStore(t, s)
}
