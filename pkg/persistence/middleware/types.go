// Package middleware provides ports.Store decorators.
package middleware

import "github.com/aretw0/itnav/pkg/ports"

// Middleware allows wrapping a Store to add behavior.
type Middleware func(ports.Store) ports.Store
