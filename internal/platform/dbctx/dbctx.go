package dbctx

import (
	"context"

	"gorm.io/gorm"
)

// Context bundles a request context with an optional GORM transaction.
type Context struct {
	Ctx context.Context
	Tx  *gorm.DB
}

// Conn returns the transaction when one is set, otherwise base, bound to the context.
func (c Context) Conn(base *gorm.DB) *gorm.DB {
	conn := c.Tx
	if conn == nil {
		conn = base
	}
	if c.Ctx != nil {
		conn = conn.WithContext(c.Ctx)
	}
	return conn
}
