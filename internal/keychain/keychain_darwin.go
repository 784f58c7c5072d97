//go:build darwin

package keychain

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/benaskins/gatekeep/internal/access"
	gokeychain "github.com/keybase/go-keychain"
)

// SystemStore provides CRUD operations for secrets in macOS Keychain.
type SystemStore struct {
	service   string
	policy    access.Policy
	authority access.Authority
}

var _ PolicyStore = (*SystemStore)(nil)

// NewSystemStore creates a Keychain-backed store that protects new items
// with policy. The authority materializes the policy on every write.
func NewSystemStore(service string, policy access.Policy, authority access.Authority) *SystemStore {
	if service == "" {
		service = ServiceName
	}
	return &SystemStore{service: service, policy: policy, authority: authority}
}

// Policy returns the policy new items are written with.
func (s *SystemStore) Policy() access.Policy {
	return s.policy
}

// Set stores a secret in the Keychain. Overwrites if it already exists.
// The access-control object is created before the existing item is touched,
// so a rejected policy leaves the previous value in place.
func (s *SystemStore) Set(key, value string) error {
	handle, err := s.policy.Create(s.authority)
	if err != nil {
		return fmt.Errorf("keychain add %q: %w", key, err)
	}
	defer handle.Release()

	// Update = delete + add
	if err := s.Delete(key); err != nil {
		return err
	}

	slog.Debug("adding keychain item", "key", key, "policy", s.policy.String())
	label := fmt.Sprintf("gatekeep: %s", key)
	if err := addProtectedItem(s.service, key, label, []byte(value), handle.Ref()); err != nil {
		return fmt.Errorf("keychain add %q: %w", key, err)
	}
	return nil
}

// Get retrieves a secret from the Keychain. Items protected by options may
// prompt for authentication.
func (s *SystemStore) Get(key string) (string, error) {
	data, err := gokeychain.GetGenericPassword(s.service, key, "", "")
	if err != nil {
		if errors.Is(err, gokeychain.ErrorItemNotFound) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return "", fmt.Errorf("keychain get %q: %w", key, err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return string(data), nil
}

// List returns all secret keys stored under the service.
func (s *SystemStore) List() ([]string, error) {
	accounts, err := gokeychain.GetGenericPasswordAccounts(s.service)
	if err != nil {
		if errors.Is(err, gokeychain.ErrorItemNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("keychain list: %w", err)
	}
	return accounts, nil
}

// Delete removes a secret from the Keychain.
func (s *SystemStore) Delete(key string) error {
	err := gokeychain.DeleteGenericPasswordItem(s.service, key)
	if err != nil && !errors.Is(err, gokeychain.ErrorItemNotFound) {
		return fmt.Errorf("keychain delete %q: %w", key, err)
	}
	return nil
}

// GetMultiple retrieves several secrets, skipping keys that do not exist.
func (s *SystemStore) GetMultiple(keys []string) (map[string]string, error) {
	result := make(map[string]string, len(keys))
	for _, key := range keys {
		val, err := s.Get(key)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, err
		}
		result[key] = val
	}
	return result, nil
}
