package kafka

import (
	"Chillz/internal/api/config"
	"Chillz/internal/pkg/es"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

// ConsumerManager 管理所有 Kafka 消费者
type ConsumerManager struct {
	profileConsumer sarama.ConsumerGroup
	profileHandler  sarama.ConsumerGroupHandler
}

// NewConsumerManager 构造函数
func NewConsumerManager(cfg *config.Config, profileESRepo es.ProfileRepo) (*ConsumerManager, error) {
	saramaCfg := newSaramaConfig(cfg.Kafka)

	profileConsumer, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.KafkaProfileConsumer.GroupID, saramaCfg)
	if err != nil {
		return nil, err
	}

	return &ConsumerManager{
		profileConsumer: profileConsumer,
		profileHandler:  NewProfileHandler(profileESRepo),
	}, nil
}

// Start 启动所有消费者，阻塞直到 ctx 结束
func (m *ConsumerManager) Start(ctx context.Context, cfg *config.Config) error {
	topic := cfg.KafkaProfileConsumer.Topic
	log.Info("Profile consumer started", "topic", topic)
	for {
		if err := m.profileConsumer.Consume(ctx, []string{topic}, m.profileHandler); err != nil {
			log.Error("Error from consumer", "err", err)
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

// Close 关闭所有消费者
func (m *ConsumerManager) Close() {
	_ = m.profileConsumer.Close()
}
