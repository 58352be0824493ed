package bancache

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeRepo struct {
	mu     sync.Mutex
	banned map[int64]struct{}
	err    error
}

func (f *fakeRepo) BannedChatIDs(_ context.Context) (map[int64]struct{}, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	banned := make(map[int64]struct{}, len(f.banned))
	for id := range f.banned {
		banned[id] = struct{}{}
	}
	return banned, nil
}

func (f *fakeRepo) set(banned map[int64]struct{}, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.banned = banned
	f.err = err
}

func TestBanCache_IsBanned(t *testing.T) {
	repo := &fakeRepo{banned: map[int64]struct{}{42: {}}}
	cache := MustInit(context.Background(), repo)

	assert.True(t, cache.IsBanned(42))
	assert.False(t, cache.IsBanned(1))
}

func TestBanCache_RefreshReplacesWholesale(t *testing.T) {
	repo := &fakeRepo{banned: map[int64]struct{}{42: {}}}
	cache := MustInit(context.Background(), repo)

	// 42 unbanned, 7 banned between refreshes
	repo.set(map[int64]struct{}{7: {}}, nil)
	cache.Refresh(context.Background())

	assert.False(t, cache.IsBanned(42))
	assert.True(t, cache.IsBanned(7))
}

func TestBanCache_FailedRefreshKeepsSnapshot(t *testing.T) {
	repo := &fakeRepo{banned: map[int64]struct{}{42: {}}}
	cache := MustInit(context.Background(), repo)

	repo.set(nil, errors.New("storage unavailable"))
	cache.Refresh(context.Background())

	assert.True(t, cache.IsBanned(42))
}

func TestBanCache_ConcurrentReadsDuringRefresh(t *testing.T) {
	repo := &fakeRepo{banned: map[int64]struct{}{42: {}}}
	cache := MustInit(context.Background(), repo)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				cache.IsBanned(42)
			}
		}()
	}
	for i := 0; i < 100; i++ {
		cache.Refresh(context.Background())
	}
	wg.Wait()

	assert.True(t, cache.IsBanned(42))
}
