package access

import "sync"

// Authority materializes a policy into a platform access-control object.
//
// CreateAccessControl returns a handle on success. On failure it returns a
// nil handle and, optionally, a diagnostic describing why.
type Authority interface {
	CreateAccessControl(protection Protection, options Options) (*Handle, error)
}

// AuthorityFunc adapts a function to the Authority interface.
type AuthorityFunc func(protection Protection, options Options) (*Handle, error)

func (f AuthorityFunc) CreateAccessControl(protection Protection, options Options) (*Handle, error) {
	return f(protection, options)
}

// Handle is an opaque access-control object produced by an Authority.
// The caller of Policy.Create owns it and must Release it once the
// consuming secret-storage call has taken its own reference.
type Handle struct {
	ref     uintptr
	release func(uintptr)
	once    sync.Once
}

// NewHandle wraps a platform reference. release, if non-nil, is called at
// most once by Release.
func NewHandle(ref uintptr, release func(uintptr)) *Handle {
	return &Handle{ref: ref, release: release}
}

// Ref returns the underlying platform reference for passing to
// secret-storage calls. It is valid until Release.
func (h *Handle) Ref() uintptr {
	return h.ref
}

// Release frees the platform reference. Subsequent calls do nothing.
func (h *Handle) Release() {
	h.once.Do(func() {
		if h.release != nil {
			h.release(h.ref)
		}
	})
}
