package migrate

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"klinestore.magictradebot.com/config"
	"klinestore.magictradebot.com/pkg/global"
)

// PushUnitResult publishes one finished unit to the configured stream so
// external dashboards can follow a long migration live.
func PushUnitResult(u UnitResult, cfg config.StreamingConfig, log *logrus.Logger) {
	if !cfg.Enabled {
		log.Debug("⏩ Streaming disabled")
		return
	}

	payload, err := json.Marshal(u)
	if err != nil {
		log.WithError(err).Error("❌ Failed to marshal unit result")
		return
	}

	switch cfg.Provider {
	case "redis":
		entry := map[string]interface{}{
			"table":   u.Table,
			"status":  string(u.Status),
			"payload": payload,
			"ts":      time.Now().UnixMilli(),
		}
		err := global.RedisClient.XAdd(context.Background(), &redis.XAddArgs{
			Stream: cfg.Redis.Stream,
			Values: entry,
		}).Err()
		if err != nil {
			log.WithError(err).WithField("table", u.Table).Error("❌ Redis stream error")
		} else {
			log.WithField("table", u.Table).Debug("📤 Unit result sent to Redis stream")
		}

	case "kafka":
		msg := kafka.Message{
			Key:   []byte(u.Table),
			Value: payload,
		}
		if err := global.KafkaWriter.WriteMessages(context.Background(), msg); err != nil {
			log.WithError(err).Error("❌ Kafka send error")
		} else {
			log.WithField("table", u.Table).Debug("📤 Unit result sent to Kafka")
		}

	default:
		log.Warnf("⚠️ Unknown streaming provider: %s", cfg.Provider)
	}
}
