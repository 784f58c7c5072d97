//go:build darwin

package audit

import (
	"os"

	"golang.org/x/sys/unix"
)

// parentProcessName returns the executable name of the parent process using
// sysctl. Errors yield an empty name.
func parentProcessName() string {
	kp, err := unix.SysctlKinfoProc("kern.proc.pid", os.Getppid())
	if err != nil {
		return ""
	}
	return unix.ByteSliceToString(kp.Proc.P_comm[:])
}
