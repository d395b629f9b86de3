package dbctx

import (
	"context"

	"gorm.io/gorm"
)

// Context carries the request context plus an optional transaction handle.
// Repos fall back to their own *gorm.DB when Tx is nil, so service code can
// run the same repo call inside or outside a transaction.
type Context struct {
	Ctx context.Context
	Tx  *gorm.DB
}
