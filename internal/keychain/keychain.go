// Package keychain provides secret storage backed by macOS Keychain.
//
// Secrets are stored as generic passwords with:
//   - Service: "com.gatekeep" unless configured otherwise
//   - Account: the secret key (e.g. "chat/database-url")
//   - Label: "gatekeep: <key>" (for Keychain Access.app visibility)
//
// Each store writes items under one access.Policy: every item carries a
// SecAccessControl object built from it, so reads require whatever
// authentication the policy's options name. Items are never synced to iCloud.
package keychain

import (
	"errors"

	"github.com/benaskins/gatekeep/internal/access"
)

// ErrNotFound is returned when a secret does not exist in the store.
var ErrNotFound = errors.New("secret not found")

// ServiceName is the default Keychain service attribute.
const ServiceName = "com.gatekeep"

// Store is the interface for secret storage operations.
type Store interface {
	Set(key, value string) error
	Get(key string) (string, error)
	List() ([]string, error)
	Delete(key string) error
	GetMultiple(keys []string) (map[string]string, error)
}

// PolicyStore is a Store that protects the items it writes with a policy.
// Stores that do not implement it apply no protection.
type PolicyStore interface {
	Store
	Policy() access.Policy
}
