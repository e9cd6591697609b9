//go:build wireinject
// +build wireinject

// Package wire provides dependency injection configuration.
package wire

import (
	"context"

	"github.com/google/wire"

	"lexia-api/internal/application/conversation"
	"lexia-api/internal/application/drafting"
	"lexia-api/internal/config"
	"lexia-api/internal/domain/repository"
	domainservice "lexia-api/internal/domain/service"
	"lexia-api/internal/infrastructure/llm"
	"lexia-api/internal/infrastructure/messaging"
	"lexia-api/internal/infrastructure/persistence/postgres"
	"lexia-api/internal/infrastructure/persistence/redis"
	"lexia-api/internal/interfaces/http/handler"
	"lexia-api/internal/interfaces/http/middleware"
	"lexia-api/internal/interfaces/http/router"
)

// InitializeApp wires the whole API gateway.
func InitializeApp(ctx context.Context, cfg *config.Config) (*router.Router, func(), error) {
	wire.Build(
		RepoSet,
		RedisSet,
		MessagingSet,
		AppSet,
		RouterSet,
	)
	return nil, nil, nil
}

// InitializePostgresOnly wires just the PostgreSQL data layer (for bootstrap).
func InitializePostgresOnly(ctx context.Context, cfg *config.Config) (*PostgresOnlyDataLayer, func(), error) {
	wire.Build(
		PostgresSet,
		wire.Struct(new(PostgresOnlyDataLayer), "*"),
	)
	return nil, nil, nil
}

// PostgresSet provides the PostgreSQL client and repositories.
var PostgresSet = wire.NewSet(
	ProvidePostgresClient,
	postgres.NewTxManager,
	postgres.NewDraftingSessionRepository,
	postgres.NewConversationRepository,
	postgres.NewMessageRepository,
	postgres.NewCaseRepository,
)

// RepoSet binds repository interfaces to their PostgreSQL implementations.
var RepoSet = wire.NewSet(
	PostgresSet,
	wire.Bind(new(repository.Transactor), new(*postgres.TxManager)),
	wire.Bind(new(repository.DraftingSessionRepository), new(*postgres.DraftingSessionRepository)),
	wire.Bind(new(repository.ConversationRepository), new(*postgres.ConversationRepository)),
	wire.Bind(new(repository.MessageRepository), new(*postgres.MessageRepository)),
	wire.Bind(new(repository.CaseRepository), new(*postgres.CaseRepository)),
)

// RedisSet provides the Redis client, cache and rate limiter.
var RedisSet = wire.NewSet(
	ProvideRedisClient,
	redis.NewCache,
	redis.NewRateLimiter,
	wire.Bind(new(drafting.Cache), new(*redis.Cache)),
	wire.Bind(new(middleware.RateLimiter), new(*redis.RateLimiter)),
)

// MessagingSet provides the audit stream producer.
var MessagingSet = wire.NewSet(
	ProvideMessagingProducer,
	wire.Bind(new(domainservice.AuditSink), new(*messaging.Producer)),
)

// AppSet builds the application services.
var AppSet = wire.NewSet(
	llm.NewEinoFactory,
	wire.Bind(new(drafting.ChatModelFactory), new(*llm.EinoFactory)),
	drafting.NewPermissionGate,
	wire.Bind(new(conversation.CaseGate), new(*drafting.PermissionGate)),
	drafting.NewService,
	drafting.NewInterviewer,
	ProvideDraftingToolSchema,
	conversation.NewValidator,
	conversation.NewPersister,
	conversation.NewService,
)

// RouterSet assembles the HTTP handlers and router.
var RouterSet = wire.NewSet(
	handler.NewHealthHandler,
	handler.NewDraftingHandler,
	handler.NewConversationHandler,
	router.New,
)
