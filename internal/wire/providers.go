package wire

import (
	"lexia-api/internal/application/conversation"
	"lexia-api/internal/config"
	"lexia-api/internal/infrastructure/messaging"
	"lexia-api/internal/infrastructure/persistence/postgres"
	"lexia-api/internal/infrastructure/persistence/redis"
)

// PostgresOnlyDataLayer is the PostgreSQL-only dependency container used by
// the bootstrap command.
type PostgresOnlyDataLayer struct {
	PgClient    *postgres.Client
	TxManager   *postgres.TxManager
	SessionRepo *postgres.DraftingSessionRepository
	ConvRepo    *postgres.ConversationRepository
	MsgRepo     *postgres.MessageRepository
	CaseRepo    *postgres.CaseRepository
}

// ProvidePostgresClient provides the PostgreSQL client.
func ProvidePostgresClient(cfg *config.Config) (*postgres.Client, func(), error) {
	client, err := postgres.NewClient(&cfg.Database.Postgres)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		client.Close()
	}
	return client, cleanup, nil
}

// ProvideRedisClient provides the Redis client.
func ProvideRedisClient(cfg *config.Config) (*redis.Client, func(), error) {
	client, err := redis.NewClient(&cfg.Cache.Redis)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		client.Close()
	}
	return client, cleanup, nil
}

// ProvideMessagingProducer provides the audit stream producer.
func ProvideMessagingProducer(redisClient *redis.Client, cfg *config.Config) *messaging.Producer {
	maxLen := cfg.Messaging.RedisStream.MaxLen
	if maxLen <= 0 {
		maxLen = 100000
	}
	return messaging.NewProducer(redisClient.Redis(), int64(maxLen))
}

// ProvideDraftingToolSchema provides the declared tool surface for the
// drafting workflow.
func ProvideDraftingToolSchema() *conversation.ToolSchema {
	return conversation.DraftingTools()
}
