package postgres

import (
	"context"

	"gorm.io/gorm"

	"lexia-api/internal/domain/repository"
)

// TxManager runs functions inside a database transaction.
type TxManager struct {
	client *Client
}

// NewTxManager creates a transaction manager.
func NewTxManager(client *Client) *TxManager {
	return &TxManager{client: client}
}

// WithTransaction executes fn inside a transaction. If the context already
// carries one, fn joins it instead of opening a nested transaction.
func (m *TxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if tx := txFromContext(ctx); tx != nil {
		return fn(ctx)
	}

	return m.client.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, repository.TxKey{}, tx))
	})
}

// txFromContext returns the ambient transaction, if any.
func txFromContext(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(repository.TxKey{}).(*gorm.DB); ok {
		return tx
	}
	return nil
}

// getDB returns the ambient transaction or the base connection bound to ctx.
// Every repository method goes through it so reads and writes inside a
// WithTransaction block hit the same transaction.
func getDB(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx := txFromContext(ctx); tx != nil {
		return tx
	}
	return db.WithContext(ctx)
}
