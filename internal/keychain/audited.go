package keychain

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/benaskins/gatekeep/internal/audit"
)

// SecretMetadata records when a secret was written and under which policy.
type SecretMetadata struct {
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at,omitempty"`
	Protection string    `json:"protection"`
	Options    string    `json:"options"`
}

// MetadataStore persists secret metadata to a JSON file.
type MetadataStore struct {
	mu       sync.RWMutex
	path     string
	metadata map[string]*SecretMetadata
}

// NewMetadataStore loads or creates a metadata file.
func NewMetadataStore(path string) (*MetadataStore, error) {
	ms := &MetadataStore{
		path:     path,
		metadata: make(map[string]*SecretMetadata),
	}

	data, err := os.ReadFile(path)
	if err == nil {
		if jsonErr := json.Unmarshal(data, &ms.metadata); jsonErr != nil {
			slog.Warn("corrupt metadata file, starting fresh", "path", path, "error", jsonErr)
		}
	}
	// A missing file is fine; start fresh.

	return ms, nil
}

// Get returns a copy of the metadata for a key, or nil if not tracked.
// Returning a copy keeps callers from mutating the map without the lock.
func (ms *MetadataStore) Get(key string) *SecretMetadata {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	m, ok := ms.metadata[key]
	if !ok {
		return nil
	}
	cp := *m
	return &cp
}

// Set records metadata for a key and persists to disk.
func (ms *MetadataStore) Set(key string, meta *SecretMetadata) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.metadata[key] = meta
	return ms.save()
}

// Delete removes metadata for a key.
func (ms *MetadataStore) Delete(key string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	delete(ms.metadata, key)
	return ms.save()
}

// All returns copies of all metadata entries.
func (ms *MetadataStore) All() map[string]*SecretMetadata {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	result := make(map[string]*SecretMetadata, len(ms.metadata))
	for k, v := range ms.metadata {
		cp := *v
		result[k] = &cp
	}
	return result
}

func (ms *MetadataStore) save() error {
	data, err := json.MarshalIndent(ms.metadata, "", "  ")
	if err != nil {
		return err
	}
	tmpPath := ms.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return err
	}
	return os.Rename(tmpPath, ms.path)
}

// AuditedStore wraps a Store and adds audit logging and metadata tracking.
type AuditedStore struct {
	inner    Store
	audit    *audit.Logger
	metadata *MetadataStore
	actor    string
}

// NewAuditedStore wraps an existing store with audit logging.
func NewAuditedStore(inner Store, auditLog *audit.Logger, metadata *MetadataStore, actor string) *AuditedStore {
	if _, ok := inner.(PolicyStore); !ok {
		slog.Warn("secret store does not apply access-control policies; secrets are unprotected")
	}
	return &AuditedStore{
		inner:    inner,
		audit:    auditLog,
		metadata: metadata,
		actor:    actor,
	}
}

// appliedPolicy describes the protection the inner store gives new items,
// or "none" for both when it applies no policy.
func (s *AuditedStore) appliedPolicy() (protection, options string) {
	ps, ok := s.inner.(PolicyStore)
	if !ok {
		return "none", "none"
	}
	p := ps.Policy()
	return p.Protection().String(), p.Options().String()
}

func (s *AuditedStore) log(action audit.Action, key string, err error) {
	entry := audit.Entry{Action: action, Key: key, Actor: s.actor}
	if action == audit.ActionSecretWrite {
		entry.Protection, entry.Options = s.appliedPolicy()
	}
	if err != nil {
		entry.Error = err.Error()
	}
	// Audit logging is best-effort: a failure to log should not block the operation.
	if logErr := s.audit.Log(entry); logErr != nil {
		slog.Warn("audit log write failed", "action", action, "key", key, "error", logErr)
	}
}

func (s *AuditedStore) Set(key, value string) error {
	if err := s.inner.Set(key, value); err != nil {
		s.log(audit.ActionSecretWrite, key, err)
		return fmt.Errorf("audited store set: %w", err)
	}
	s.log(audit.ActionSecretWrite, key, nil)

	now := time.Now().UTC()
	meta := s.metadata.Get(key)
	if meta == nil {
		meta = &SecretMetadata{CreatedAt: now}
	} else {
		meta.UpdatedAt = now
	}
	meta.Protection, meta.Options = s.appliedPolicy()
	if err := s.metadata.Set(key, meta); err != nil {
		return fmt.Errorf("saving metadata: %w", err)
	}

	return nil
}

func (s *AuditedStore) Get(key string) (string, error) {
	val, err := s.inner.Get(key)
	if err != nil {
		return "", fmt.Errorf("audited store get: %w", err)
	}
	s.log(audit.ActionSecretRead, key, nil)
	return val, nil
}

func (s *AuditedStore) List() ([]string, error) {
	return s.inner.List()
}

func (s *AuditedStore) Delete(key string) error {
	if err := s.inner.Delete(key); err != nil {
		return fmt.Errorf("audited store delete: %w", err)
	}
	s.log(audit.ActionSecretDelete, key, nil)

	if err := s.metadata.Delete(key); err != nil {
		return fmt.Errorf("deleting metadata: %w", err)
	}
	return nil
}

func (s *AuditedStore) GetMultiple(keys []string) (map[string]string, error) {
	result, err := s.inner.GetMultiple(keys)
	if err != nil {
		return nil, fmt.Errorf("audited store get multiple: %w", err)
	}
	for key := range result {
		s.log(audit.ActionSecretRead, key, nil)
	}
	return result, nil
}

// Metadata returns the metadata store for direct access.
func (s *AuditedStore) Metadata() *MetadataStore {
	return s.metadata
}
