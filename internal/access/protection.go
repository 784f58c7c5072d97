// Package access models keychain access-control policies.
//
// A Policy pairs a Protection (when an item is decryptable relative to the
// device lock state) with an Options bitmask of authentication constraints,
// conjunctions and modifiers. Policy.Create hands both to an Authority,
// normally the platform's SecAccessControlCreateWithFlags, and returns an
// opaque Handle or a *CreationFailedError.
//
// Flag combinations are not validated here. The authority decides what it
// accepts.
package access

import (
	"fmt"
	"strings"
)

// Protection identifies when a protected item can be decrypted.
// The zero value is AfterFirstUnlock.
type Protection int

const (
	AfterFirstUnlock Protection = iota
	AfterFirstUnlockThisDeviceOnly
	WhenUnlocked
	WhenUnlockedThisDeviceOnly
	WhenPasscodeSetThisDeviceOnly
	Always
	AlwaysThisDeviceOnly
)

var protectionNames = [...]string{
	AfterFirstUnlock:               "after-first-unlock",
	AfterFirstUnlockThisDeviceOnly: "after-first-unlock-this-device-only",
	WhenUnlocked:                   "when-unlocked",
	WhenUnlockedThisDeviceOnly:     "when-unlocked-this-device-only",
	WhenPasscodeSetThisDeviceOnly:  "when-passcode-set-this-device-only",
	Always:                         "always",
	AlwaysThisDeviceOnly:           "always-this-device-only",
}

// Protections returns every protection level in declaration order.
func Protections() []Protection {
	out := make([]Protection, len(protectionNames))
	for i := range protectionNames {
		out[i] = Protection(i)
	}
	return out
}

// Valid reports whether p is one of the declared protection levels.
func (p Protection) Valid() bool {
	return p >= 0 && int(p) < len(protectionNames)
}

func (p Protection) String() string {
	if !p.Valid() {
		return fmt.Sprintf("protection(%d)", int(p))
	}
	return protectionNames[p]
}

// ThisDeviceOnly reports whether items with this protection never migrate
// to another device.
func (p Protection) ThisDeviceOnly() bool {
	return strings.HasSuffix(p.String(), "-this-device-only")
}

// ParseProtection returns the protection level with the given name.
// Names are case-insensitive and accept underscores in place of dashes.
func ParseProtection(name string) (Protection, error) {
	n := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-")
	for i, pn := range protectionNames {
		if pn == n {
			return Protection(i), nil
		}
	}
	return 0, fmt.Errorf("unknown protection %q", name)
}
