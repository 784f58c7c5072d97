//go:build !darwin

package keychain

import "github.com/benaskins/gatekeep/internal/access"

// NewSystemStore returns a MemoryStore on non-darwin platforms.
// The macOS Keychain is not available outside of macOS; secrets are
// stored in memory only, will not persist across restarts, and the
// policy is not applied.
func NewSystemStore(string, access.Policy, access.Authority) *MemoryStore {
	return NewMemoryStore()
}
