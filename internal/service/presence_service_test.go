package service

import (
	"Chillz/internal/api/dto"
	"Chillz/internal/pkg/consts"
	"Chillz/internal/pkg/live"
	"Chillz/internal/pkg/mongo"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPresenceFixture(ttl time.Duration) (PresenceService, *fakePresenceRepo, *live.MemoryBus) {
	repo := newFakePresenceRepo()
	bus := live.NewMemoryBus()
	return NewPresenceService(repo, bus, ttl), repo, bus
}

func TestSetStateValidation(t *testing.T) {
	svc, _, _ := newPresenceFixture(90 * time.Second)
	ctx := context.Background()

	_, err := svc.SetState(ctx, "u1", &dto.SetPresenceReq{State: "invisible"})
	assert.ErrorIs(t, err, ErrPresenceInvalid)

	badVibe := "raging"
	_, err = svc.SetState(ctx, "u1", &dto.SetPresenceReq{State: consts.PresenceOnline, Vibe: &badVibe})
	assert.ErrorIs(t, err, ErrVibeInvalid)
}

func TestSetStateDefaultsAndRefresh(t *testing.T) {
	svc, repo, _ := newPresenceFixture(90 * time.Second)
	ctx := context.Background()

	res, err := svc.SetState(ctx, "u1", &dto.SetPresenceReq{State: consts.PresenceOnline})
	require.NoError(t, err)
	assert.Equal(t, consts.PresenceOnline, res.State)
	assert.Equal(t, consts.VibeDefault, res.Vibe)

	vibe := "on_fire"
	res, err = svc.SetState(ctx, "u1", &dto.SetPresenceReq{State: consts.PresenceAway, Vibe: &vibe})
	require.NoError(t, err)
	assert.Equal(t, "on_fire", res.Vibe)

	stored, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, consts.PresenceAway, stored.State)
}

func TestGetManyOfflineDefaults(t *testing.T) {
	svc, repo, _ := newPresenceFixture(90 * time.Second)
	ctx := context.Background()

	_, err := svc.SetState(ctx, "u1", &dto.SetPresenceReq{State: consts.PresenceOnline})
	require.NoError(t, err)

	// u2 的心跳早已停止
	require.NoError(t, repo.Upsert(ctx, &mongo.Presence{
		UID:       "u2",
		State:     consts.PresenceOnline,
		Vibe:      "ghost",
		UpdatedAt: time.Now().Add(-10 * time.Minute),
		LastSeen:  time.Now().Add(-10 * time.Minute),
	}))

	res, err := svc.GetMany(ctx, []string{"u1", "u2", "u3"})
	require.NoError(t, err)
	assert.Equal(t, consts.PresenceOnline, res["u1"].State)
	// 过期读作离线，但心情标签保留
	assert.Equal(t, consts.PresenceOffline, res["u2"].State)
	assert.Equal(t, "ghost", res["u2"].Vibe)
	// 没有记录的一律离线
	assert.Equal(t, consts.PresenceOffline, res["u3"].State)
	assert.Equal(t, consts.VibeDefault, res["u3"].Vibe)
}

func TestGetManyBatchLimit(t *testing.T) {
	svc, _, _ := newPresenceFixture(90 * time.Second)

	uids := make([]string, 0, consts.PresenceBatchLimit+1)
	for i := 0; i <= consts.PresenceBatchLimit; i++ {
		uids = append(uids, fmt.Sprintf("u%d", i))
	}

	_, err := svc.GetMany(context.Background(), uids)
	assert.ErrorIs(t, err, ErrTooManyPresenceIDs)

	_, err = svc.Watch(context.Background(), uids)
	assert.ErrorIs(t, err, ErrTooManyPresenceIDs)
}

func TestWatchDeliversStateChanges(t *testing.T) {
	svc, _, _ := newPresenceFixture(90 * time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := svc.Watch(ctx, []string{"u1"})
	require.NoError(t, err)

	// 初始快照：无记录读作离线
	snap := recvSnapshot(t, ch)
	assert.Equal(t, consts.PresenceOffline, snap["u1"].State)

	_, err = svc.SetState(ctx, "u1", &dto.SetPresenceReq{State: consts.PresenceOnline})
	require.NoError(t, err)

	snap = waitForSnapshot(t, ch, func(s map[string]*dto.PresenceDTO) bool {
		return s["u1"].State == consts.PresenceOnline
	})
	assert.Equal(t, consts.VibeDefault, snap["u1"].Vibe)
}

func TestSweepStaleFlipsAndNotifies(t *testing.T) {
	svc, repo, bus := newPresenceFixture(90 * time.Second)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, &mongo.Presence{
		UID:      "u1",
		State:    consts.PresenceOnline,
		Vibe:     consts.VibeDefault,
		LastSeen: time.Now().Add(-5 * time.Minute),
	}))
	require.NoError(t, repo.Upsert(ctx, &mongo.Presence{
		UID:      "u2",
		State:    consts.PresenceOnline,
		Vibe:     consts.VibeDefault,
		LastSeen: time.Now(),
	}))

	listener := bus.Subscribe(ctx, consts.PresenceUserKey+"u1")
	defer func() { _ = listener.Close() }()

	count, err := svc.SweepStale(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	stale, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, consts.PresenceOffline, stale.State)
	fresh, err := repo.Get(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, consts.PresenceOnline, fresh.State)

	select {
	case ev := <-listener.C():
		assert.Equal(t, consts.PresenceUserKey+"u1", ev.Channel)
	case <-time.After(time.Second):
		t.Fatal("expected sweep notification")
	}

	// 再扫一遍没有新的翻转
	count, err = svc.SweepStale(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
