//go:build !darwin

package audit

import (
	"fmt"
	"os"
	"strings"
)

// parentProcessName reads the parent's command name from procfs where it
// exists. Errors yield an empty name.
func parentProcessName() string {
	data, err := os.ReadFile(fmt.Sprintf("/proc/%d/comm", os.Getppid()))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
