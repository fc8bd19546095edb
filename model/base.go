// Package model holds the fields every stored record shares.
package model

import "time"

// Base is embedded by every entity. CreatedBy is the owning principal.
type Base struct {
	ID        string    `bun:"id,pk" json:"id"`
	CreatedAt time.Time `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,notnull" json:"updated_at"`
	CreatedBy string    `bun:"created_by,notnull" json:"created_by"`
}

// Meta gives generic code access to the shared fields.
func (b *Base) Meta() *Base { return b }

// Entity is implemented by pointers to structs embedding Base.
type Entity interface {
	Meta() *Base
}
