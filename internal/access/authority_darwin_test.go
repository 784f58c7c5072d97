//go:build darwin && cgo && integration

package access

import (
	"errors"
	"testing"
)

// Integration tests call the real Security framework.
// Run with: go test -tags integration ./internal/access/

func TestSystemAuthorityDefaultPolicy(t *testing.T) {
	h, err := Default().Create(SystemAuthority())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer h.Release()
	if h.Ref() == 0 {
		t.Error("expected a non-nil reference")
	}
}

func TestSystemAuthorityBiometryPolicy(t *testing.T) {
	h, err := New(WhenPasscodeSetThisDeviceOnly, BiometryAny|DevicePasscode|Or).Create(SystemAuthority())
	if err != nil {
		if !errors.Is(err, ErrCreationFailed) {
			t.Fatalf("expected creation failure, got %v", err)
		}
		t.Logf("rejected: %v", err)
		return
	}
	h.Release()
}

func TestSystemAuthorityUnknownProtection(t *testing.T) {
	h, err := New(Protection(99), 0).Create(SystemAuthority())
	if h != nil {
		h.Release()
		t.Fatal("expected no handle")
	}
	var cf *CreationFailedError
	if !errors.As(err, &cf) {
		t.Fatalf("expected *CreationFailedError, got %v", err)
	}
	if cf.Description != "unknown protection protection(99)" {
		t.Errorf("unexpected description %q", cf.Description)
	}
}
