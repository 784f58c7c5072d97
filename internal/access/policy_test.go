package access

import (
	"errors"
	"sync"
	"testing"
)

// recordingAuthority accepts everything and records what it was asked.
type recordingAuthority struct {
	mu         sync.Mutex
	calls      int
	protection Protection
	options    Options
}

func (a *recordingAuthority) CreateAccessControl(p Protection, o Options) (*Handle, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls++
	a.protection = p
	a.options = o
	return NewHandle(uintptr(a.calls), nil), nil
}

func rejecting(diag error) Authority {
	return AuthorityFunc(func(Protection, Options) (*Handle, error) {
		return nil, diag
	})
}

func TestDefaultPolicy(t *testing.T) {
	var zero Policy
	explicit := New(AfterFirstUnlock, 0)

	if zero != explicit || Default() != explicit {
		t.Fatalf("default policy mismatch: zero=%s default=%s explicit=%s", zero, Default(), explicit)
	}
	if zero.Protection() != AfterFirstUnlock {
		t.Errorf("expected after-first-unlock, got %s", zero.Protection())
	}
	if !zero.Options().IsEmpty() {
		t.Errorf("expected no options, got %s", zero.Options())
	}
}

func TestCreateForwardsVerbatim(t *testing.T) {
	a := &recordingAuthority{}
	opts := Or | And | 1<<40

	h, err := New(WhenPasscodeSetThisDeviceOnly, opts).Create(a)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if h == nil {
		t.Fatal("expected handle")
	}
	if a.calls != 1 {
		t.Errorf("expected 1 call, got %d", a.calls)
	}
	if a.protection != WhenPasscodeSetThisDeviceOnly {
		t.Errorf("protection = %s", a.protection)
	}
	if a.options != opts {
		t.Errorf("options = %s, want %s", a.options, opts)
	}
}

func TestCreateDefaultSucceeds(t *testing.T) {
	a := &recordingAuthority{}
	h, err := Create(AfterFirstUnlock, 0, a)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if h.Ref() != 1 {
		t.Errorf("expected the authority's handle, got ref %d", h.Ref())
	}
}

func TestCreateFailureWithDiagnostic(t *testing.T) {
	diag := errors.New("The operation couldn't be completed. (OSStatus error -25293.)")

	h, err := New(AfterFirstUnlock, BiometryAny|DevicePasscode|Or).Create(rejecting(diag))
	if h != nil {
		t.Error("expected no handle")
	}
	var cf *CreationFailedError
	if !errors.As(err, &cf) {
		t.Fatalf("expected *CreationFailedError, got %T", err)
	}
	if cf.Description != diag.Error() {
		t.Errorf("Description = %q, want %q", cf.Description, diag.Error())
	}
	if !errors.Is(err, ErrCreationFailed) {
		t.Error("expected errors.Is ErrCreationFailed")
	}
}

func TestCreateFailureWithoutDiagnostic(t *testing.T) {
	h, err := Default().Create(rejecting(nil))
	if h != nil {
		t.Error("expected no handle")
	}
	var cf *CreationFailedError
	if !errors.As(err, &cf) {
		t.Fatalf("expected *CreationFailedError, got %T", err)
	}
	if cf.Description != "" {
		t.Errorf("expected empty description, got %q", cf.Description)
	}
	if err.Error() != "access control creation failed" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestCreateHandleWinsOverDiagnostic(t *testing.T) {
	a := AuthorityFunc(func(Protection, Options) (*Handle, error) {
		return NewHandle(7, nil), errors.New("ignored")
	})
	h, err := Default().Create(a)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if h.Ref() != 7 {
		t.Errorf("unexpected ref %d", h.Ref())
	}
}

func TestCreateDoesNotRetry(t *testing.T) {
	calls := 0
	a := AuthorityFunc(func(Protection, Options) (*Handle, error) {
		calls++
		return nil, errors.New("no")
	})
	New(WhenUnlocked, UserPresence).Create(a)
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestHandleReleaseOnce(t *testing.T) {
	released := 0
	h := NewHandle(42, func(ref uintptr) {
		if ref != 42 {
			t.Errorf("released ref %d", ref)
		}
		released++
	})
	h.Release()
	h.Release()
	if released != 1 {
		t.Errorf("expected 1 release, got %d", released)
	}

	NewHandle(1, nil).Release()
}

func TestCreateConcurrent(t *testing.T) {
	a := &recordingAuthority{}
	p := New(WhenUnlockedThisDeviceOnly, UserPresence)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := p.Create(a); err != nil {
				t.Errorf("Create: %v", err)
			}
		}()
	}
	wg.Wait()

	if a.calls != 16 {
		t.Errorf("expected 16 calls, got %d", a.calls)
	}
}

func TestPolicyString(t *testing.T) {
	p := New(WhenUnlocked, BiometryAny|Or|DevicePasscode)
	if got := p.String(); got != "when-unlocked [biometry-any|device-passcode|or]" {
		t.Errorf("unexpected %q", got)
	}
}
