// Package service has the logic for interacting with the ctxfree server's
// backend decoupled from the API that exposes it, in the shape of the
// teacher's tunas package.
package service

import "github.com/dekarrin/ctxfree/internal/store"

// Service performs the operations the ctxfree API exposes: parsing and
// normalizing submitted grammars and regular expressions, testing strings
// for membership, and managing the API clients allowed to do so.
type Service struct {
	DB store.Store
}
