package service

import (
	"Chillz/internal/api/dto"
	"Chillz/internal/model"
	"Chillz/internal/pkg/consts"
	"Chillz/internal/pkg/live"
	"Chillz/internal/pkg/mongo"
	"Chillz/internal/pkg/util"
	"Chillz/internal/repository"
	"context"
	log "log/slog"
	"sort"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// ChatService 会话与消息服务接口定义
type ChatService interface {
	OpenOrCreateDirect(ctx context.Context, uid string, targetUsername string) (*dto.ChatDTO, error)
	ListChats(ctx context.Context, uid string) ([]*dto.ChatDTO, error)
	WatchChats(ctx context.Context, uid string) (<-chan []*dto.ChatDTO, error)
	SendMessage(ctx context.Context, uid string, req *dto.SendMessageReq) (*dto.MessageDTO, error)
	Messages(ctx context.Context, uid string, chatID string) ([]*dto.MessageDTO, error)
	WatchMessages(ctx context.Context, uid string, chatID string) (<-chan []*dto.MessageDTO, error)
}

type chatServiceImpl struct {
	chatRepo    mongo.ChatRepo
	messageRepo mongo.MessageRepo
	profileRepo repository.ProfileRepo
	bus         live.Bus
}

func NewChatService(chatRepo mongo.ChatRepo, messageRepo mongo.MessageRepo, profileRepo repository.ProfileRepo, bus live.Bus) ChatService {
	return &chatServiceImpl{
		chatRepo:    chatRepo,
		messageRepo: messageRepo,
		profileRepo: profileRepo,
		bus:         bus,
	}
}

// OpenOrCreateDirect 按用户名打开单聊，不存在则创建。
// 会话 ID 由双方 UID 排序拼接，双方各自发起也只会落到同一个文档
func (s *chatServiceImpl) OpenOrCreateDirect(ctx context.Context, uid string, targetUsername string) (*dto.ChatDTO, error) {
	target, err := s.profileRepo.GetByUsername(ctx, util.NormalizeUsername(targetUsername))
	if err != nil {
		return nil, ErrStoreUnavailable
	}
	if target == nil {
		return nil, ErrUserNotFound
	}
	if target.UserID == uid {
		return nil, ErrInvalidTarget
	}

	// 一次查询取双方最新资料作为成员快照
	profiles, err := s.profileRepo.GetByUIDs(ctx, []string{uid, target.UserID})
	if err != nil {
		return nil, ErrStoreUnavailable
	}
	meta := make(map[string]mongo.MemberMeta, len(profiles))
	for _, p := range profiles {
		meta[p.UserID] = profileMeta(p)
	}
	if _, ok := meta[uid]; !ok {
		return nil, ErrProfileNotFound
	}

	chatID := mongo.DMChatID(uid, target.UserID)
	chat := &mongo.Chat{
		ID:         chatID,
		Type:       consts.ChatTypeDM,
		MemberUIDs: []string{uid, target.UserID},
		MemberMeta: meta,
		CreatedAt:  time.Now(),
	}
	if err := s.chatRepo.Create(ctx, chat); err != nil {
		return nil, err
	}

	// 回读落库结果，已存在时拿到的是原文档而不是本次构造的空摘要
	stored, err := s.chatRepo.Get(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, ErrChatNotFound
	}

	s.notifyChatMembers(stored.ID, stored.MemberUIDs)
	return s.toChatDTO(stored, uid), nil
}

// ListChats 获取会话列表，按最近活跃排序。
// 存储层查询不带排序，排序放在服务层完成
func (s *chatServiceImpl) ListChats(ctx context.Context, uid string) ([]*dto.ChatDTO, error) {
	chats, err := s.chatRepo.ListByMember(ctx, uid)
	if err != nil {
		return nil, err
	}
	sort.Slice(chats, func(i, j int) bool {
		return chats[i].LastMessageAt.After(chats[j].LastMessageAt)
	})

	res := make([]*dto.ChatDTO, 0, len(chats))
	for _, c := range chats {
		res = append(res, s.toChatDTO(c, uid))
	}
	return res, nil
}

// WatchChats 会话列表快照流：先推一次全量，之后每次变更重查再推全量
func (s *chatServiceImpl) WatchChats(ctx context.Context, uid string) (<-chan []*dto.ChatDTO, error) {
	listener := s.bus.Subscribe(ctx, consts.IMUserKey+uid)
	out := make(chan []*dto.ChatDTO, 1)

	go func() {
		defer close(out)
		defer func() { _ = listener.Close() }()

		emit := func() {
			chats, err := s.ListChats(ctx, uid)
			if err != nil {
				log.Error("WatchChats 查询快照失败", "uid", uid, "err", err)
				return
			}
			pushLatest(out, chats)
		}

		emit()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-listener.C():
				if !ok {
					return
				}
				emit()
			}
		}
	}()
	return out, nil
}

// SendMessage 发送文本消息并刷新会话摘要
func (s *chatServiceImpl) SendMessage(ctx context.Context, uid string, req *dto.SendMessageReq) (*dto.MessageDTO, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, ErrEmptyText
	}

	chat, err := s.chatRepo.Get(ctx, req.ChatID)
	if err != nil {
		return nil, err
	}
	if chat == nil {
		return nil, ErrChatNotFound
	}
	if !isMember(chat.MemberUIDs, uid) {
		return nil, ErrNotParticipant
	}

	msg := &mongo.Message{
		ID:        uuid.NewString(),
		ChatID:    chat.ID,
		SenderUID: uid,
		Type:      consts.MessageTypeText,
		Text:      text,
		CreatedAt: time.Now(),
	}
	if err := s.messageRepo.Insert(ctx, msg); err != nil {
		return nil, err
	}

	// 摘要是缓存，消息流才是事实来源，摘要写失败不回滚消息
	summary := util.Truncate(text, consts.LastMessageMaxLen)
	if err := s.chatRepo.UpdateSummary(ctx, chat.ID, summary, uid, msg.CreatedAt); err != nil {
		log.Error("更新会话摘要失败", "chat_id", chat.ID, "err", err)
	}

	s.notifyChat(chat.ID)
	s.notifyChatMembers(chat.ID, chat.MemberUIDs)
	return toMessageDTO(msg), nil
}

// Messages 拉取会话全量消息，时间升序
func (s *chatServiceImpl) Messages(ctx context.Context, uid string, chatID string) ([]*dto.MessageDTO, error) {
	chat, err := s.chatRepo.Get(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if chat == nil {
		return nil, ErrChatNotFound
	}
	if !isMember(chat.MemberUIDs, uid) {
		return nil, ErrNotParticipant
	}

	msgs, err := s.messageRepo.ListByChat(ctx, chatID)
	if err != nil {
		return nil, err
	}
	res := make([]*dto.MessageDTO, 0, len(msgs))
	for _, m := range msgs {
		res = append(res, toMessageDTO(m))
	}
	return res, nil
}

// WatchMessages 消息快照流，订阅前校验成员身份
func (s *chatServiceImpl) WatchMessages(ctx context.Context, uid string, chatID string) (<-chan []*dto.MessageDTO, error) {
	chat, err := s.chatRepo.Get(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if chat == nil {
		return nil, ErrChatNotFound
	}
	if !isMember(chat.MemberUIDs, uid) {
		return nil, ErrNotParticipant
	}

	listener := s.bus.Subscribe(ctx, consts.IMChatKey+chatID)
	out := make(chan []*dto.MessageDTO, 1)

	go func() {
		defer close(out)
		defer func() { _ = listener.Close() }()

		emit := func() {
			msgs, err := s.Messages(ctx, uid, chatID)
			if err != nil {
				log.Error("WatchMessages 查询快照失败", "chat_id", chatID, "err", err)
				return
			}
			pushLatest(out, msgs)
		}

		emit()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-listener.C():
				if !ok {
					return
				}
				emit()
			}
		}
	}()
	return out, nil
}

// notifyChat 通知会话频道有新消息
func (s *chatServiceImpl) notifyChat(chatID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	payload, _ := json.Marshal(map[string]string{"type": "CHAT_MESSAGE", "chat_id": chatID})
	if err := s.bus.Publish(ctx, consts.IMChatKey+chatID, payload); err != nil {
		log.Error("发布会话变更通知失败", "chat_id", chatID, "err", err)
	}
}

// notifyChatMembers 通知每个成员的个人频道刷新会话列表
func (s *chatServiceImpl) notifyChatMembers(chatID string, memberUIDs []string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	payload, _ := json.Marshal(map[string]string{"type": "CHAT_UPDATED", "chat_id": chatID})
	for _, uid := range memberUIDs {
		if err := s.bus.Publish(ctx, consts.IMUserKey+uid, payload); err != nil {
			log.Error("发布会话列表通知失败", "uid", uid, "err", err)
		}
	}
}

func (s *chatServiceImpl) toChatDTO(chat *mongo.Chat, myUID string) *dto.ChatDTO {
	meta := make(map[string]dto.MemberMetaDTO, len(chat.MemberMeta))
	for uid, m := range chat.MemberMeta {
		meta[uid] = dto.MemberMetaDTO{
			DisplayName: m.DisplayName,
			Username:    m.Username,
			AvatarURL:   m.AvatarURL,
		}
	}

	d := &dto.ChatDTO{
		ChatID:          chat.ID,
		Type:            chat.Type,
		PeerUID:         mongo.OtherUID(chat.MemberUIDs, myUID),
		MemberMeta:      meta,
		LastMessageText: chat.LastMessageText,
		LastSenderUID:   chat.LastSenderUID,
	}
	if !chat.LastMessageAt.IsZero() {
		at := chat.LastMessageAt
		d.LastMessageAt = &at
	}
	return d
}

func toMessageDTO(m *mongo.Message) *dto.MessageDTO {
	return &dto.MessageDTO{
		ID:        m.ID,
		ChatID:    m.ChatID,
		SenderUID: m.SenderUID,
		Type:      m.Type,
		Text:      m.Text,
		CreatedAt: m.CreatedAt,
	}
}

func profileMeta(p *model.Profile) mongo.MemberMeta {
	return mongo.MemberMeta{
		DisplayName: p.DisplayName,
		Username:    p.Username,
		AvatarURL:   p.AvatarURL,
	}
}

func isMember(memberUIDs []string, uid string) bool {
	for _, u := range memberUIDs {
		if u == uid {
			return true
		}
	}
	return false
}

// pushLatest 向快照通道投递最新值，接收方消费慢时丢弃旧快照
func pushLatest[T any](out chan T, v T) {
	for {
		select {
		case out <- v:
			return
		default:
			select {
			case <-out:
			default:
			}
		}
	}
}
