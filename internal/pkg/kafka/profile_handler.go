package kafka

import (
	"Chillz/internal/pkg/es"
	"context"
	"errors"
	log "log/slog"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
)

// ProfileHandler 将资料事件同步进 Elasticsearch
type ProfileHandler struct {
	profileESRepo es.ProfileRepo
}

func NewProfileHandler(profileESRepo es.ProfileRepo) *ProfileHandler {
	return &ProfileHandler{
		profileESRepo: profileESRepo,
	}
}

func (s *ProfileHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("profile consumer setup")
	return nil
}

func (s *ProfileHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("profile consumer cleanup")
	return nil
}

func (s *ProfileHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("process batch error", "err", err)
		return err
	}
	return nil
}

func (s *ProfileHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	var event ProfileEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return err
	}

	switch event.Op {
	case ProfileOpDelete:
		return s.profileESRepo.DeleteProfile(ctx, event.UserID)
	case ProfileOpUpsert:
		if event.Profile == nil {
			return errors.New("profile event payload is empty")
		}
		return s.profileESRepo.IndexProfile(ctx, event.Profile, event.Profile.UpdatedAt.UnixMilli())
	default:
		log.Warn("Unknown profile event op", "op", event.Op)
		return nil
	}
}
