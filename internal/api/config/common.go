package config

// Config 配置主体
type Config struct {
	Server               ServerConfig          `mapstructure:"server"`
	DB                   DBConfig              `mapstructure:"database"`
	Redis                RedisConfig           `mapstructure:"redis"`
	Mongo                MongoConfig           `mapstructure:"mongo"`
	Elastic              ElasticConfig         `mapstructure:"elastic"`
	Kafka                KafkaConfig           `mapstructure:"kafka"`
	KafkaProfileConsumer KafkaProfileConsumer  `mapstructure:"kafka_profile_consumer"`
	Presence             PresenceConfig        `mapstructure:"presence"`
}

// ServerConfig Server配置
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// DBConfig 数据库配置
type DBConfig struct {
	DSN         string `mapstructure:"dsn"`
	MaxIdle     int    `mapstructure:"max_idle"`
	MaxOpen     int    `mapstructure:"max_open"`
	MaxLifetime int    `mapstructure:"max_lifetime"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

// MongoConfig 文档库配置
type MongoConfig struct {
	URL      string `mapstructure:"url"`
	Database string `mapstructure:"database"`
}

// ElasticConfig Elastic配置
type ElasticConfig struct {
	Address  string         `mapstructure:"address"`
	Username string         `mapstructure:"username"`
	Password string         `mapstructure:"password"`
	Indices  ElasticIndices `mapstructure:"indices"`
}

// ElasticIndices Elastic索引
type ElasticIndices struct {
	ProfileIndex string `mapstructure:"profile_index"`
}

// KafkaConfig Kafka 基础配置
type KafkaConfig struct {
	Brokers      []string            `mapstructure:"brokers"`
	ProfileTopic string              `mapstructure:"profile_topic"`
	Sasl         KafkaSaslConfig     `mapstructure:"sasl"`
	Consumer     KafkaConsumerConfig `mapstructure:"consumer"`
}

type KafkaSaslConfig struct {
	Enable   bool   `mapstructure:"enable"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type KafkaConsumerConfig struct {
	SessionTimeout    int `mapstructure:"session_timeout"`
	HeartbeatInterval int `mapstructure:"heartbeat_interval"`
	RebalanceTimeout  int `mapstructure:"rebalance_timeout"`
	MaxProcessingTime int `mapstructure:"max_processing_time"`
}

// KafkaProfileConsumer 资料同步消费者
type KafkaProfileConsumer struct {
	Topic   string `mapstructure:"topic"`
	GroupID string `mapstructure:"group_id"`
}

// PresenceConfig 在线状态配置
type PresenceConfig struct {
	// TTLSeconds 超过该秒数未收到心跳即视为离线
	TTLSeconds int `mapstructure:"ttl_seconds"`
}
