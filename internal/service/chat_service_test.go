package service

import (
	"Chillz/internal/api/dto"
	"Chillz/internal/pkg/consts"
	"Chillz/internal/pkg/live"
	"Chillz/internal/pkg/mongo"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chatFixture struct {
	svc      ChatService
	chats    *fakeChatRepo
	messages *fakeMessageRepo
	profiles *fakeProfileRepo
	bus      *live.MemoryBus
}

func newChatFixture() *chatFixture {
	f := &chatFixture{
		chats:    newFakeChatRepo(),
		messages: newFakeMessageRepo(),
		profiles: newFakeProfileRepo(
			testProfile("u1", "alice_chillz", "Alice"),
			testProfile("u2", "bob_chillz", "Bob"),
		),
		bus: live.NewMemoryBus(),
	}
	f.svc = NewChatService(f.chats, f.messages, f.profiles, f.bus)
	return f
}

func (f *chatFixture) openChat(t *testing.T) *dto.ChatDTO {
	t.Helper()
	chat, err := f.svc.OpenOrCreateDirect(context.Background(), "u1", "bob_chillz")
	require.NoError(t, err)
	return chat
}

func TestOpenOrCreateDirect(t *testing.T) {
	f := newChatFixture()
	ctx := context.Background()

	chat, err := f.svc.OpenOrCreateDirect(ctx, "u1", "bob_chillz")
	require.NoError(t, err)
	assert.Equal(t, "dm_u1_u2", chat.ChatID)
	assert.Equal(t, "u2", chat.PeerUID)
	assert.Equal(t, "Bob", chat.MemberMeta["u2"].DisplayName)
	assert.Empty(t, chat.LastMessageText)

	// 对方发起落到同一个会话
	same, err := f.svc.OpenOrCreateDirect(ctx, "u2", "alice_chillz")
	require.NoError(t, err)
	assert.Equal(t, chat.ChatID, same.ChatID)
	assert.Equal(t, "u1", same.PeerUID)
}

func TestOpenOrCreateDirectValidation(t *testing.T) {
	f := newChatFixture()
	ctx := context.Background()

	_, err := f.svc.OpenOrCreateDirect(ctx, "u1", "alice_chillz")
	assert.ErrorIs(t, err, ErrInvalidTarget)

	_, err = f.svc.OpenOrCreateDirect(ctx, "u1", "who_is_this")
	assert.ErrorIs(t, err, ErrUserNotFound)

	// 发起方自己还没建档
	_, err = f.svc.OpenOrCreateDirect(ctx, "u9", "bob_chillz")
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestOpenOrCreateDirectKeepsExistingSummary(t *testing.T) {
	f := newChatFixture()
	ctx := context.Background()

	chat := f.openChat(t)
	_, err := f.svc.SendMessage(ctx, "u1", &dto.SendMessageReq{ChatID: chat.ChatID, Text: "yo"})
	require.NoError(t, err)

	// 再次打开不会清掉已有摘要
	again, err := f.svc.OpenOrCreateDirect(ctx, "u1", "bob_chillz")
	require.NoError(t, err)
	assert.Equal(t, "yo", again.LastMessageText)
}

func TestSendMessageValidation(t *testing.T) {
	f := newChatFixture()
	ctx := context.Background()
	chat := f.openChat(t)

	_, err := f.svc.SendMessage(ctx, "u1", &dto.SendMessageReq{ChatID: chat.ChatID, Text: "  "})
	assert.ErrorIs(t, err, ErrEmptyText)

	_, err = f.svc.SendMessage(ctx, "u1", &dto.SendMessageReq{ChatID: "dm_x_y", Text: "hi"})
	assert.ErrorIs(t, err, ErrChatNotFound)

	_, err = f.svc.SendMessage(ctx, "u9", &dto.SendMessageReq{ChatID: chat.ChatID, Text: "hi"})
	assert.ErrorIs(t, err, ErrNotParticipant)
}

func TestSendMessageUpdatesSummaryWithTruncation(t *testing.T) {
	f := newChatFixture()
	ctx := context.Background()
	chat := f.openChat(t)

	long := strings.Repeat("很", 300)
	msg, err := f.svc.SendMessage(ctx, "u1", &dto.SendMessageReq{ChatID: chat.ChatID, Text: long})
	require.NoError(t, err)

	// 消息保留全文，摘要按字符截断到 200
	assert.Equal(t, long, msg.Text)
	stored, err := f.chats.Get(ctx, chat.ChatID)
	require.NoError(t, err)
	assert.Equal(t, 200, len([]rune(stored.LastMessageText)))
	assert.Equal(t, strings.Repeat("很", 200), stored.LastMessageText)
	assert.Equal(t, "u1", stored.LastSenderUID)
}

func TestMessagesOrdering(t *testing.T) {
	f := newChatFixture()
	ctx := context.Background()
	chat := f.openChat(t)

	base := time.Now().Add(-time.Minute)
	// 控制时间戳写入，乱序插入后读取仍按时间升序
	for i, spec := range []struct {
		id     string
		offset time.Duration
	}{
		{"m3", 3 * time.Second},
		{"m1", 1 * time.Second},
		{"m2", 2 * time.Second},
	} {
		require.NoError(t, f.messages.Insert(ctx, &mongo.Message{
			ID:        spec.id,
			ChatID:    chat.ChatID,
			SenderUID: "u1",
			Type:      consts.MessageTypeText,
			Text:      spec.id,
			CreatedAt: base.Add(spec.offset),
		}), "insert %d", i)
	}

	msgs, err := f.svc.Messages(ctx, "u2", chat.ChatID)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, "m1", msgs[0].ID)
	assert.Equal(t, "m2", msgs[1].ID)
	assert.Equal(t, "m3", msgs[2].ID)
}

func TestMessagesAuthorization(t *testing.T) {
	f := newChatFixture()
	ctx := context.Background()
	chat := f.openChat(t)

	_, err := f.svc.Messages(ctx, "u9", chat.ChatID)
	assert.ErrorIs(t, err, ErrNotParticipant)

	_, err = f.svc.WatchMessages(ctx, "u9", chat.ChatID)
	assert.ErrorIs(t, err, ErrNotParticipant)

	_, err = f.svc.Messages(ctx, "u1", "dm_a_b")
	assert.ErrorIs(t, err, ErrChatNotFound)
}

func TestListChatsSortedByActivity(t *testing.T) {
	f := newChatFixture()
	ctx := context.Background()

	now := time.Now()
	require.NoError(t, f.chats.Create(ctx, &mongo.Chat{
		ID: "dm_u1_u8", Type: consts.ChatTypeDM,
		MemberUIDs:    []string{"u1", "u8"},
		LastMessageAt: now.Add(-time.Hour),
		CreatedAt:     now.Add(-2 * time.Hour),
	}))
	require.NoError(t, f.chats.Create(ctx, &mongo.Chat{
		ID: "dm_u1_u9", Type: consts.ChatTypeDM,
		MemberUIDs:    []string{"u1", "u9"},
		LastMessageAt: now,
		CreatedAt:     now.Add(-2 * time.Hour),
	}))

	chats, err := f.svc.ListChats(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, chats, 2)
	assert.Equal(t, "dm_u1_u9", chats[0].ChatID)
	assert.Equal(t, "dm_u1_u8", chats[1].ChatID)
}

func TestWatchMessagesDeliversSnapshots(t *testing.T) {
	f := newChatFixture()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	chat := f.openChat(t)

	ch, err := f.svc.WatchMessages(ctx, "u2", chat.ChatID)
	require.NoError(t, err)

	snap := recvSnapshot(t, ch)
	assert.Empty(t, snap)

	_, err = f.svc.SendMessage(ctx, "u1", &dto.SendMessageReq{ChatID: chat.ChatID, Text: "ping"})
	require.NoError(t, err)

	snap = waitForSnapshot(t, ch, func(s []*dto.MessageDTO) bool { return len(s) == 1 })
	assert.Equal(t, "ping", snap[0].Text)
	assert.Equal(t, "u1", snap[0].SenderUID)
}

func TestWatchChatsDeliversSnapshots(t *testing.T) {
	f := newChatFixture()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := f.svc.WatchChats(ctx, "u2")
	require.NoError(t, err)

	snap := recvSnapshot(t, ch)
	assert.Empty(t, snap)

	// u1 发起会话后 u2 的列表被推送更新
	_, err = f.svc.OpenOrCreateDirect(ctx, "u1", "bob_chillz")
	require.NoError(t, err)

	snap = waitForSnapshot(t, ch, func(s []*dto.ChatDTO) bool { return len(s) == 1 })
	assert.Equal(t, "dm_u1_u2", snap[0].ChatID)
	assert.Equal(t, "u1", snap[0].PeerUID)
}
