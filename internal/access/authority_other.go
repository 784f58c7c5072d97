//go:build !darwin || !cgo

package access

import (
	"fmt"
	"runtime"
)

type systemAuthority struct{}

// SystemAuthority returns an authority that rejects every policy: the
// Security framework is only reachable from darwin builds with cgo.
func SystemAuthority() Authority {
	return systemAuthority{}
}

func (systemAuthority) CreateAccessControl(Protection, Options) (*Handle, error) {
	return nil, fmt.Errorf("access control is not supported on %s", runtime.GOOS)
}
