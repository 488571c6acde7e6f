package service

import (
	"Chillz/internal/api/dto"
	"Chillz/internal/pkg/consts"
	"Chillz/internal/pkg/live"
	"Chillz/internal/pkg/mongo"
	"context"
	log "log/slog"
	"time"

	"github.com/goccy/go-json"
)

// PresenceService 在线状态服务接口定义
type PresenceService interface {
	SetState(ctx context.Context, uid string, req *dto.SetPresenceReq) (*dto.PresenceDTO, error)
	GetMany(ctx context.Context, uids []string) (map[string]*dto.PresenceDTO, error)
	Watch(ctx context.Context, uids []string) (<-chan map[string]*dto.PresenceDTO, error)
	SweepStale(ctx context.Context) (int, error)
}

type presenceServiceImpl struct {
	presenceRepo mongo.PresenceRepo
	bus          live.Bus
	ttl          time.Duration
}

func NewPresenceService(presenceRepo mongo.PresenceRepo, bus live.Bus, ttl time.Duration) PresenceService {
	if ttl <= 0 {
		ttl = 90 * time.Second
	}
	return &presenceServiceImpl{
		presenceRepo: presenceRepo,
		bus:          bus,
		ttl:          ttl,
	}
}

// SetState 上报在线状态。客户端每 30 秒重发一次 online 当作心跳
func (s *presenceServiceImpl) SetState(ctx context.Context, uid string, req *dto.SetPresenceReq) (*dto.PresenceDTO, error) {
	state := req.State
	if state != consts.PresenceOnline && state != consts.PresenceAway && state != consts.PresenceOffline {
		return nil, ErrPresenceInvalid
	}

	vibe := consts.VibeDefault
	if req.Vibe != nil && *req.Vibe != "" {
		if _, ok := consts.VibeTags[*req.Vibe]; !ok {
			return nil, ErrVibeInvalid
		}
		vibe = *req.Vibe
	}

	now := time.Now()
	p := &mongo.Presence{
		UID:       uid,
		State:     state,
		Vibe:      vibe,
		UpdatedAt: now,
		LastSeen:  now,
	}
	if err := s.presenceRepo.Upsert(ctx, p); err != nil {
		return nil, err
	}

	s.notify(uid)
	return s.toPresenceDTO(p, now), nil
}

// GetMany 批量查询在线状态。缺失或心跳过期的一律视为离线
func (s *presenceServiceImpl) GetMany(ctx context.Context, uids []string) (map[string]*dto.PresenceDTO, error) {
	if len(uids) > consts.PresenceBatchLimit {
		return nil, ErrTooManyPresenceIDs
	}

	records, err := s.presenceRepo.GetMany(ctx, uids)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	byUID := make(map[string]*mongo.Presence, len(records))
	for _, r := range records {
		byUID[r.UID] = r
	}

	res := make(map[string]*dto.PresenceDTO, len(uids))
	for _, uid := range uids {
		r, ok := byUID[uid]
		if !ok {
			res[uid] = &dto.PresenceDTO{UID: uid, State: consts.PresenceOffline, Vibe: consts.VibeDefault}
			continue
		}
		res[uid] = s.toPresenceDTO(r, now)
	}
	return res, nil
}

// Watch 在线状态快照流，每个目标用户一个频道
func (s *presenceServiceImpl) Watch(ctx context.Context, uids []string) (<-chan map[string]*dto.PresenceDTO, error) {
	if len(uids) > consts.PresenceBatchLimit {
		return nil, ErrTooManyPresenceIDs
	}

	channels := make([]string, 0, len(uids))
	for _, uid := range uids {
		channels = append(channels, consts.PresenceUserKey+uid)
	}
	listener := s.bus.Subscribe(ctx, channels...)
	out := make(chan map[string]*dto.PresenceDTO, 1)

	go func() {
		defer close(out)
		defer func() { _ = listener.Close() }()

		emit := func() {
			snap, err := s.GetMany(ctx, uids)
			if err != nil {
				log.Error("Watch 查询在线状态失败", "err", err)
				return
			}
			pushLatest(out, snap)
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

// SweepStale 把心跳过期但仍标在线的记录翻成离线，由定时任务驱动
func (s *presenceServiceImpl) SweepStale(ctx context.Context) (int, error) {
	uids, err := s.presenceRepo.MarkStaleOffline(ctx, time.Now().Add(-s.ttl))
	if err != nil {
		return 0, err
	}
	for _, uid := range uids {
		s.notify(uid)
	}
	return len(uids), nil
}

func (s *presenceServiceImpl) notify(uid string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	payload, _ := json.Marshal(map[string]string{"type": "PRESENCE", "uid": uid})
	if err := s.bus.Publish(ctx, consts.PresenceUserKey+uid, payload); err != nil {
		log.Error("发布在线状态通知失败", "uid", uid, "err", err)
	}
}

// toPresenceDTO 读取时判定过期，落库数据保持原样
func (s *presenceServiceImpl) toPresenceDTO(p *mongo.Presence, now time.Time) *dto.PresenceDTO {
	state := p.State
	if state != consts.PresenceOffline && now.Sub(p.LastSeen) > s.ttl {
		state = consts.PresenceOffline
	}

	d := &dto.PresenceDTO{
		UID:   p.UID,
		State: state,
		Vibe:  p.Vibe,
	}
	if !p.UpdatedAt.IsZero() {
		at := p.UpdatedAt
		d.UpdatedAt = &at
	}
	if !p.LastSeen.IsZero() {
		seen := p.LastSeen
		d.LastSeen = &seen
	}
	return d
}
