package repositories

import (
	"context"

	"gorm.io/gorm"
)

// WithTransaction выполняет fn в транзакции. Если db уже транзакция
// (например, из тестового DBMiddleware), gorm откроет savepoint.
func WithTransaction(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	return db.WithContext(ctx).Transaction(fn)
}
