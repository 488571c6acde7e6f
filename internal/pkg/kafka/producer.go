package kafka

import (
	"Chillz/internal/api/config"
	"Chillz/internal/pkg/es"
	log "log/slog"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
)

// 资料事件操作类型
const (
	ProfileOpUpsert = "upsert"
	ProfileOpDelete = "delete"
)

// ProfileEvent 资料变更事件，由 API 写路径发布，消费侧同步进 ES
type ProfileEvent struct {
	Op      string        `json:"op"`
	UserID  string        `json:"user_id"`
	Profile *es.ProfileES `json:"profile,omitempty"`
}

var producer sarama.SyncProducer

var profileTopic string

// InitProducer 初始化同步生产者
func InitProducer(cfg *config.Config) error {
	p, err := sarama.NewSyncProducer(cfg.Kafka.Brokers, newProducerConfig(cfg.Kafka))
	if err != nil {
		return err
	}
	producer = p
	profileTopic = cfg.Kafka.ProfileTopic
	log.Info("Kafka producer initialized", "topic", profileTopic)
	return nil
}

// PublishProfileEvent 发布资料变更事件。以 user_id 作为分区键，
// 同一用户的事件保持顺序
func PublishProfileEvent(event *ProfileEvent) error {
	if producer == nil {
		return nil
	}
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	_, _, err = producer.SendMessage(&sarama.ProducerMessage{
		Topic: profileTopic,
		Key:   sarama.StringEncoder(event.UserID),
		Value: sarama.ByteEncoder(data),
	})
	return err
}

// CloseProducer 关闭生产者
func CloseProducer() {
	if producer != nil {
		_ = producer.Close()
	}
}
