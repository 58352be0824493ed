// Package bancache keeps an in-memory snapshot of banned chat ids so every
// inbound update can be gated without a storage round-trip.
package bancache

import (
	"context"
	"log/slog"
	"sync/atomic"
)

type Repository interface {
	BannedChatIDs(ctx context.Context) (map[int64]struct{}, error)
}

// BanCache answers IsBanned in O(1). The snapshot is replaced wholesale on
// Refresh; readers always see either the previous or the new set, never a
// partially updated one.
type BanCache struct {
	repo     Repository
	snapshot atomic.Pointer[map[int64]struct{}]
}

// MustInit loads the initial snapshot and panics if the store is down:
// without a ban list the bot must not start serving.
func MustInit(ctx context.Context, repo Repository) *BanCache {
	c := &BanCache{repo: repo}

	banned, err := repo.BannedChatIDs(ctx)
	if err != nil {
		slog.Error("error while loading initial ban list", slog.String("err", err.Error()))
		panic(err)
	}
	c.snapshot.Store(&banned)

	slog.Info("ban cache initialized", slog.Int("bannedCnt", len(banned)))

	return c
}

func (c *BanCache) IsBanned(chatID int64) bool {
	banned := *c.snapshot.Load()
	_, ok := banned[chatID]
	return ok
}

// Refresh replaces the snapshot from the repository. On failure the
// previous snapshot stays in place: a stale ban list is acceptable, an
// empty one is not.
func (c *BanCache) Refresh(ctx context.Context) {
	banned, err := c.repo.BannedChatIDs(ctx)
	if err != nil {
		slog.Error("ban list refresh failed, keeping previous snapshot", slog.String("err", err.Error()))
		return
	}

	c.snapshot.Store(&banned)
	slog.Debug("ban list refreshed", slog.Int("bannedCnt", len(banned)))
}
