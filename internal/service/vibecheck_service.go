package service

import (
	"Chillz/internal/api/dto"
	"Chillz/internal/pkg/consts"
	"Chillz/internal/pkg/live"
	"Chillz/internal/pkg/mongo"
	"Chillz/internal/pkg/util"
	"Chillz/internal/repository"
	"context"
	log "log/slog"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// VibeCheckService 连接请求（Vibe Check）服务接口定义
type VibeCheckService interface {
	Send(ctx context.Context, fromUID string, req *dto.SendVibeCheckReq) (*dto.VibeCheckDTO, error)
	Accept(ctx context.Context, callerUID string, checkID string) (*dto.AcceptVibeCheckResult, error)
	Decline(ctx context.Context, callerUID string, checkID string) error
	Inbox(ctx context.Context, uid string) ([]*dto.VibeCheckDTO, error)
	WatchInbox(ctx context.Context, uid string) (<-chan []*dto.VibeCheckDTO, error)
	Outbox(ctx context.Context, uid string) ([]string, error)
}

type vibeCheckServiceImpl struct {
	vibeCheckRepo mongo.VibeCheckRepo
	chatRepo      mongo.ChatRepo
	messageRepo   mongo.MessageRepo
	profileRepo   repository.ProfileRepo
	bus           live.Bus
}

func NewVibeCheckService(vibeCheckRepo mongo.VibeCheckRepo, chatRepo mongo.ChatRepo, messageRepo mongo.MessageRepo, profileRepo repository.ProfileRepo, bus live.Bus) VibeCheckService {
	return &vibeCheckServiceImpl{
		vibeCheckRepo: vibeCheckRepo,
		chatRepo:      chatRepo,
		messageRepo:   messageRepo,
		profileRepo:   profileRepo,
		bus:           bus,
	}
}

// Send 向目标用户发起 Vibe Check。
// 已建立会话的拒绝重发，已有待处理请求的拒绝重复，被拒绝过的允许再试
func (s *vibeCheckServiceImpl) Send(ctx context.Context, fromUID string, req *dto.SendVibeCheckReq) (*dto.VibeCheckDTO, error) {
	toUID := strings.TrimSpace(req.ToUID)
	message := strings.TrimSpace(req.Message)

	if toUID == "" || toUID == fromUID {
		return nil, ErrInvalidTarget
	}
	if message == "" {
		return nil, ErrEmptyMessage
	}

	target, err := s.profileRepo.GetByUID(ctx, toUID)
	if err != nil {
		return nil, ErrStoreUnavailable
	}
	if target == nil {
		return nil, ErrUserNotFound
	}
	me, err := s.profileRepo.GetByUID(ctx, fromUID)
	if err != nil {
		return nil, ErrStoreUnavailable
	}
	if me == nil {
		return nil, ErrProfileNotFound
	}

	// 已经连上了就不用再打招呼
	chat, err := s.chatRepo.Get(ctx, mongo.DMChatID(fromUID, toUID))
	if err != nil {
		return nil, err
	}
	if chat != nil {
		return nil, ErrAlreadyConnected
	}

	checkID := mongo.VibeCheckID(fromUID, toUID)
	existing, err := s.vibeCheckRepo.Get(ctx, checkID)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.Status == consts.VibeCheckPending {
		return nil, ErrAlreadyPending
	}

	check := &mongo.VibeCheck{
		ID:        checkID,
		FromUID:   fromUID,
		ToUID:     toUID,
		Status:    consts.VibeCheckPending,
		Message:   message,
		FromMeta:  profileMeta(me),
		CreatedAt: time.Now(),
	}
	if err := s.vibeCheckRepo.Put(ctx, check); err != nil {
		return nil, err
	}

	s.notifyInbox(toUID)
	s.notifyOutbox(fromUID)
	return toVibeCheckDTO(check), nil
}

// Accept 接受请求：建会话、导入打招呼消息、置状态。
// 三步都是幂等写，中途失败重试不会产生重复数据
func (s *vibeCheckServiceImpl) Accept(ctx context.Context, callerUID string, checkID string) (*dto.AcceptVibeCheckResult, error) {
	check, err := s.vibeCheckRepo.Get(ctx, checkID)
	if err != nil {
		return nil, err
	}
	if check == nil {
		return nil, ErrVibeCheckNotFound
	}
	if check.ToUID != callerUID {
		return nil, UnauthorizedError
	}
	if check.Status == consts.VibeCheckDeclined {
		return nil, ErrVibeCheckResolved
	}

	chatID := mongo.DMChatID(check.FromUID, check.ToUID)

	// 已接受的请求直接返回会话 ID，不再合并会话文档，
	// 避免把摘要倒回打招呼消息
	if check.Status == consts.VibeCheckAccepted {
		return &dto.AcceptVibeCheckResult{
			VibeCheck: *toVibeCheckDTO(check),
			ChatID:    chatID,
		}, nil
	}

	me, err := s.profileRepo.GetByUID(ctx, callerUID)
	if err != nil {
		return nil, ErrStoreUnavailable
	}
	if me == nil {
		return nil, ErrProfileNotFound
	}

	now := time.Now()

	// 发起方的资料用请求里冻结的快照，接受方的现查
	chat := &mongo.Chat{
		ID:         chatID,
		Type:       consts.ChatTypeDM,
		MemberUIDs: []string{check.FromUID, check.ToUID},
		MemberMeta: map[string]mongo.MemberMeta{
			check.FromUID: check.FromMeta,
			check.ToUID:   profileMeta(me),
		},
		LastMessageText: util.Truncate(check.Message, consts.LastMessageMaxLen),
		LastSenderUID:   check.FromUID,
		LastMessageAt:   now,
		CreatedAt:       now,
	}
	if err := s.chatRepo.Merge(ctx, chat); err != nil {
		return nil, err
	}

	// 打招呼内容作为会话首条消息导入，_id 用请求 ID 保证重入去重
	opening := &mongo.Message{
		ID:             check.ID,
		ChatID:         chatID,
		SenderUID:      check.FromUID,
		Type:           consts.MessageTypeText,
		Text:           check.Message,
		ViaVibeCheckID: check.ID,
		CreatedAt:      now,
	}
	if err := s.messageRepo.Insert(ctx, opening); err != nil {
		return nil, err
	}

	if _, err := s.vibeCheckRepo.UpdateStatus(ctx, check.ID, consts.VibeCheckPending, consts.VibeCheckAccepted); err != nil {
		return nil, err
	}
	check.Status = consts.VibeCheckAccepted

	s.notifyInbox(check.ToUID)
	s.notifyOutbox(check.FromUID)
	s.notifyChatMembers(chatID, chat.MemberUIDs)

	return &dto.AcceptVibeCheckResult{
		VibeCheck: *toVibeCheckDTO(check),
		ChatID:    chatID,
	}, nil
}

// Decline 拒绝请求。重复拒绝是空操作，拒绝已接受的请求报错
func (s *vibeCheckServiceImpl) Decline(ctx context.Context, callerUID string, checkID string) error {
	check, err := s.vibeCheckRepo.Get(ctx, checkID)
	if err != nil {
		return err
	}
	if check == nil {
		return ErrVibeCheckNotFound
	}
	if check.ToUID != callerUID {
		return UnauthorizedError
	}
	if check.Status == consts.VibeCheckDeclined {
		return nil
	}
	if check.Status == consts.VibeCheckAccepted {
		return ErrVibeCheckResolved
	}

	if _, err := s.vibeCheckRepo.UpdateStatus(ctx, check.ID, consts.VibeCheckPending, consts.VibeCheckDeclined); err != nil {
		return err
	}

	s.notifyInbox(check.ToUID)
	s.notifyOutbox(check.FromUID)
	return nil
}

// Inbox 获取待处理的收件箱，按发起时间倒序
func (s *vibeCheckServiceImpl) Inbox(ctx context.Context, uid string) ([]*dto.VibeCheckDTO, error) {
	checks, err := s.vibeCheckRepo.ListPendingInbox(ctx, uid)
	if err != nil {
		return nil, err
	}
	res := make([]*dto.VibeCheckDTO, 0, len(checks))
	for _, c := range checks {
		res = append(res, toVibeCheckDTO(c))
	}
	return res, nil
}

// WatchInbox 收件箱快照流
func (s *vibeCheckServiceImpl) WatchInbox(ctx context.Context, uid string) (<-chan []*dto.VibeCheckDTO, error) {
	listener := s.bus.Subscribe(ctx, consts.VibeCheckUserKey+uid)
	out := make(chan []*dto.VibeCheckDTO, 1)

	go func() {
		defer close(out)
		defer func() { _ = listener.Close() }()

		emit := func() {
			checks, err := s.Inbox(ctx, uid)
			if err != nil {
				log.Error("WatchInbox 查询快照失败", "uid", uid, "err", err)
				return
			}
			pushLatest(out, checks)
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

// Outbox 返回当前有待处理请求的目标用户 UID 集合，客户端用来渲染"已发送"
func (s *vibeCheckServiceImpl) Outbox(ctx context.Context, uid string) ([]string, error) {
	checks, err := s.vibeCheckRepo.ListPendingOutbox(ctx, uid)
	if err != nil {
		return nil, err
	}
	toUIDs := make([]string, 0, len(checks))
	for _, c := range checks {
		toUIDs = append(toUIDs, c.ToUID)
	}
	return toUIDs, nil
}

func (s *vibeCheckServiceImpl) notifyInbox(toUID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	payload, _ := json.Marshal(map[string]string{"type": "VIBE_CHECK_INBOX"})
	if err := s.bus.Publish(ctx, consts.VibeCheckUserKey+toUID, payload); err != nil {
		log.Error("发布收件箱通知失败", "uid", toUID, "err", err)
	}
}

func (s *vibeCheckServiceImpl) notifyOutbox(fromUID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	payload, _ := json.Marshal(map[string]string{"type": "VIBE_CHECK_OUTBOX"})
	if err := s.bus.Publish(ctx, consts.VibeCheckSentKey+fromUID, payload); err != nil {
		log.Error("发布发件箱通知失败", "uid", fromUID, "err", err)
	}
}

// notifyChatMembers 接受后把新会话推给双方
func (s *vibeCheckServiceImpl) notifyChatMembers(chatID string, memberUIDs []string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	payload, _ := json.Marshal(map[string]string{"type": "CHAT_UPDATED", "chat_id": chatID})
	for _, uid := range memberUIDs {
		if err := s.bus.Publish(ctx, consts.IMUserKey+uid, payload); err != nil {
			log.Error("发布会话列表通知失败", "uid", uid, "err", err)
		}
	}
}

func toVibeCheckDTO(c *mongo.VibeCheck) *dto.VibeCheckDTO {
	return &dto.VibeCheckDTO{
		ID:      c.ID,
		FromUID: c.FromUID,
		ToUID:   c.ToUID,
		Status:  c.Status,
		Message: c.Message,
		FromMeta: dto.MemberMetaDTO{
			DisplayName: c.FromMeta.DisplayName,
			Username:    c.FromMeta.Username,
			AvatarURL:   c.FromMeta.AvatarURL,
		},
		CreatedAt: c.CreatedAt,
	}
}
