package audit

import (
	"log/slog"

	"github.com/benaskins/gatekeep/internal/access"
)

type auditedAuthority struct {
	inner access.Authority
	log   *Logger
	actor string
}

// WrapAuthority returns an authority that records every creation attempt,
// and the authority's diagnostic when it fails, before passing the result
// through unchanged.
func WrapAuthority(inner access.Authority, log *Logger, actor string) access.Authority {
	return &auditedAuthority{inner: inner, log: log, actor: actor}
}

func (a *auditedAuthority) CreateAccessControl(p access.Protection, o access.Options) (*access.Handle, error) {
	h, diag := a.inner.CreateAccessControl(p, o)

	entry := Entry{
		Action:     ActionAccessControlCreate,
		Actor:      a.actor,
		Protection: p.String(),
		Options:    o.String(),
	}
	if h == nil {
		entry.Error = "no handle"
		if diag != nil {
			entry.Error = diag.Error()
		}
	}
	// Audit logging is best-effort: a failure to log should not block the operation.
	if err := a.log.Log(entry); err != nil {
		slog.Warn("audit log write failed", "path", a.log.Path(), "error", err)
	}

	return h, diag
}
