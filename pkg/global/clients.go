package global

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"klinestore.magictradebot.com/config"
)

var (
	RedisClient *redis.Client
	KafkaWriter *kafka.Writer
)

// InitStreamingClients initializes the Redis or Kafka client selected by
// the config. Call ValidateStreamingConfig first.
func InitStreamingClients(cfg config.StreamingConfig) error {
	if cfg.Provider == "redis" && cfg.Redis.Address != "" {
		RedisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := RedisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("connect to Redis: %w", err)
		}
	}

	if cfg.Provider == "kafka" && len(cfg.Kafka.Brokers) > 0 {
		KafkaWriter = &kafka.Writer{
			Addr:         kafka.TCP(cfg.Kafka.Brokers...),
			Topic:        cfg.Kafka.Topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireAll,
			Async:        false,
		}
	}

	return nil
}

// ShutdownStreamingClients gracefully closes any initialized clients.
func ShutdownStreamingClients() {
	if RedisClient != nil {
		_ = RedisClient.Close()
	}
	if KafkaWriter != nil {
		_ = KafkaWriter.Close()
	}
}

func ValidateStreamingConfig(cfg config.StreamingConfig, log *logrus.Logger) error {
	if !cfg.Enabled {
		log.Info("🔇 Streaming is disabled.")
		return nil
	}

	switch cfg.Provider {
	case "redis":
		if cfg.Redis.Address == "" || cfg.Redis.Stream == "" {
			return fmt.Errorf("redis streaming configuration is incomplete")
		}
	case "kafka":
		if len(cfg.Kafka.Brokers) == 0 || cfg.Kafka.Topic == "" {
			return fmt.Errorf("kafka streaming configuration is incomplete")
		}
	default:
		return fmt.Errorf("unknown streaming provider: %s", cfg.Provider)
	}

	return nil
}
