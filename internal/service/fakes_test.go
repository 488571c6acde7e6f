package service

import (
	"Chillz/internal/model"
	"Chillz/internal/pkg/consts"
	"Chillz/internal/pkg/mongo"
	"context"
	"sort"
	"sync"
	"time"
)

// 内存版仓储实现，语义对齐真实实现：
// 确定性 _id、$setOnInsert 合并、状态迁移过滤

type fakeProfileRepo struct {
	mu       sync.Mutex
	profiles map[string]*model.Profile
}

func newFakeProfileRepo(profiles ...*model.Profile) *fakeProfileRepo {
	r := &fakeProfileRepo{profiles: make(map[string]*model.Profile)}
	for _, p := range profiles {
		r.profiles[p.UserID] = p
	}
	return r
}

func (r *fakeProfileRepo) EnsureUser(_ context.Context, _ string) error { return nil }

func (r *fakeProfileRepo) GetByUID(_ context.Context, uid string) (*model.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.profiles[uid], nil
}

func (r *fakeProfileRepo) GetByUsername(_ context.Context, username string) (*model.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.profiles {
		if p.Username == username {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakeProfileRepo) GetByUIDs(_ context.Context, uids []string) ([]*model.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res := make([]*model.Profile, 0)
	for _, uid := range uids {
		if p, ok := r.profiles[uid]; ok {
			res = append(res, p)
		}
	}
	return res, nil
}

func (r *fakeProfileRepo) CreateProfile(_ context.Context, profile *model.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[profile.UserID] = profile
	return nil
}

func (r *fakeProfileRepo) UpdateProfile(_ context.Context, profile *model.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[profile.UserID] = profile
	return nil
}

func (r *fakeProfileRepo) UsernameExists(_ context.Context, username string) (bool, error) {
	p, _ := r.GetByUsername(context.Background(), username)
	return p != nil, nil
}

func (r *fakeProfileRepo) ListDiscoverable(_ context.Context, excludeUID string, limit int) ([]*model.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res := make([]*model.Profile, 0)
	for _, p := range r.profiles {
		if p.Discoverable && p.UserID != excludeUID && len(res) < limit {
			res = append(res, p)
		}
	}
	return res, nil
}

type fakeChatRepo struct {
	mu    sync.Mutex
	chats map[string]*mongo.Chat
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{chats: make(map[string]*mongo.Chat)}
}

func (r *fakeChatRepo) Get(_ context.Context, chatID string) (*mongo.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.chats[chatID]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *fakeChatRepo) Create(_ context.Context, chat *mongo.Chat) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.chats[chat.ID]; ok {
		return nil
	}
	cp := *chat
	r.chats[chat.ID] = &cp
	return nil
}

func (r *fakeChatRepo) Merge(_ context.Context, chat *mongo.Chat) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.chats[chat.ID]
	if !ok {
		cp := *chat
		r.chats[chat.ID] = &cp
		return nil
	}
	existing.MemberMeta = chat.MemberMeta
	existing.LastMessageText = chat.LastMessageText
	existing.LastSenderUID = chat.LastSenderUID
	existing.LastMessageAt = chat.LastMessageAt
	return nil
}

func (r *fakeChatRepo) UpdateSummary(_ context.Context, chatID, lastText, senderUID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.chats[chatID]; ok {
		c.LastMessageText = lastText
		c.LastSenderUID = senderUID
		c.LastMessageAt = at
	}
	return nil
}

func (r *fakeChatRepo) ListByMember(_ context.Context, uid string) ([]*mongo.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res := make([]*mongo.Chat, 0)
	for _, c := range r.chats {
		for _, m := range c.MemberUIDs {
			if m == uid {
				cp := *c
				res = append(res, &cp)
				break
			}
		}
	}
	return res, nil
}

type fakeMessageRepo struct {
	mu   sync.Mutex
	msgs map[string]*mongo.Message
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{msgs: make(map[string]*mongo.Message)}
}

func (r *fakeMessageRepo) Insert(_ context.Context, msg *mongo.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.msgs[msg.ID]; ok {
		// 与真实实现一致：主键冲突视为已写入
		return nil
	}
	cp := *msg
	r.msgs[msg.ID] = &cp
	return nil
}

func (r *fakeMessageRepo) ListByChat(_ context.Context, chatID string) ([]*mongo.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res := make([]*mongo.Message, 0)
	for _, m := range r.msgs {
		if m.ChatID == chatID {
			cp := *m
			res = append(res, &cp)
		}
	}
	sort.Slice(res, func(i, j int) bool {
		if !res[i].CreatedAt.Equal(res[j].CreatedAt) {
			return res[i].CreatedAt.Before(res[j].CreatedAt)
		}
		return res[i].ID < res[j].ID
	})
	return res, nil
}

type fakeVibeCheckRepo struct {
	mu     sync.Mutex
	checks map[string]*mongo.VibeCheck
}

func newFakeVibeCheckRepo() *fakeVibeCheckRepo {
	return &fakeVibeCheckRepo{checks: make(map[string]*mongo.VibeCheck)}
}

func (r *fakeVibeCheckRepo) Get(_ context.Context, checkID string) (*mongo.VibeCheck, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.checks[checkID]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *fakeVibeCheckRepo) Put(_ context.Context, check *mongo.VibeCheck) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *check
	r.checks[check.ID] = &cp
	return nil
}

func (r *fakeVibeCheckRepo) UpdateStatus(_ context.Context, checkID, fromStatus, toStatus string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.checks[checkID]
	if !ok || c.Status != fromStatus {
		return false, nil
	}
	c.Status = toStatus
	return true, nil
}

func (r *fakeVibeCheckRepo) ListPendingInbox(_ context.Context, toUID string) ([]*mongo.VibeCheck, error) {
	return r.listPending(func(c *mongo.VibeCheck) bool { return c.ToUID == toUID })
}

func (r *fakeVibeCheckRepo) ListPendingOutbox(_ context.Context, fromUID string) ([]*mongo.VibeCheck, error) {
	return r.listPending(func(c *mongo.VibeCheck) bool { return c.FromUID == fromUID })
}

func (r *fakeVibeCheckRepo) listPending(match func(*mongo.VibeCheck) bool) ([]*mongo.VibeCheck, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res := make([]*mongo.VibeCheck, 0)
	for _, c := range r.checks {
		if c.Status == consts.VibeCheckPending && match(c) {
			cp := *c
			res = append(res, &cp)
		}
	}
	sort.Slice(res, func(i, j int) bool {
		return res[i].CreatedAt.After(res[j].CreatedAt)
	})
	return res, nil
}

type fakePresenceRepo struct {
	mu      sync.Mutex
	records map[string]*mongo.Presence
}

func newFakePresenceRepo() *fakePresenceRepo {
	return &fakePresenceRepo{records: make(map[string]*mongo.Presence)}
}

func (r *fakePresenceRepo) Upsert(_ context.Context, p *mongo.Presence) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.records[p.UID] = &cp
	return nil
}

func (r *fakePresenceRepo) Get(_ context.Context, uid string) (*mongo.Presence, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.records[uid]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakePresenceRepo) GetMany(_ context.Context, uids []string) ([]*mongo.Presence, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res := make([]*mongo.Presence, 0)
	for _, uid := range uids {
		if p, ok := r.records[uid]; ok {
			cp := *p
			res = append(res, &cp)
		}
	}
	return res, nil
}

func (r *fakePresenceRepo) MarkStaleOffline(_ context.Context, olderThan time.Time) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	swept := make([]string, 0)
	for _, p := range r.records {
		if p.State != consts.PresenceOffline && p.LastSeen.Before(olderThan) {
			p.State = consts.PresenceOffline
			swept = append(swept, p.UID)
		}
	}
	return swept, nil
}

func testProfile(uid, username, displayName string) *model.Profile {
	return &model.Profile{
		UserID:       uid,
		Username:     username,
		DisplayName:  displayName,
		Vibe:         consts.VibeDefault,
		Discoverable: true,
	}
}
