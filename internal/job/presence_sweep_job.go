package job

import (
	"Chillz/internal/pkg/logger"
	"Chillz/internal/service"
	"context"
	log "log/slog"

	"github.com/google/uuid"
)

// PresenceSweepJob 把心跳过期的在线记录翻成离线。
// 客户端异常退出时不会上报 offline，靠这个任务兜底
type PresenceSweepJob struct {
	presenceSvc service.PresenceService
}

func NewPresenceSweepJob(presenceSvc service.PresenceService) *PresenceSweepJob {
	return &PresenceSweepJob{
		presenceSvc: presenceSvc,
	}
}

func (s *PresenceSweepJob) Run() {
	traceID := "job-presence-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)

	count, err := s.presenceSvc.SweepStale(ctx)
	if err != nil {
		log.ErrorContext(ctx, "presence sweep error", "err", err)
		return
	}
	if count > 0 {
		log.InfoContext(ctx, "presence sweep finished", "swept_count", count)
	}
}
