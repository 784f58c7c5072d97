package access

import (
	"fmt"
	"math/bits"
	"strings"
)

// Options is a set of access-control flags. Values use the platform's bit
// layout so they can be passed to the authority unchanged.
type Options uint64

// Constraints: which authentication factors satisfy access.
const (
	UserPresence       Options = 1 << 0
	BiometryAny        Options = 1 << 1
	BiometryCurrentSet Options = 1 << 3
	DevicePasscode     Options = 1 << 4
)

// Conjunctions: how multiple constraints combine.
const (
	Or  Options = 1 << 14
	And Options = 1 << 15
)

// Additional modifiers, combinable with anything.
const (
	PrivateKeyUsage     Options = 1 << 30
	ApplicationPassword Options = 1 << 31
)

const (
	constraintMask  = UserPresence | BiometryAny | BiometryCurrentSet | DevicePasscode | platformConstraints
	conjunctionMask = Or | And
	additionalMask  = PrivateKeyUsage | ApplicationPassword
)

type optionName struct {
	flag Options
	name string
}

var baseOptionNames = []optionName{
	{UserPresence, "user-presence"},
	{BiometryAny, "biometry-any"},
	{BiometryCurrentSet, "biometry-current-set"},
	{DevicePasscode, "device-passcode"},
	{Or, "or"},
	{And, "and"},
	{PrivateKeyUsage, "private-key-usage"},
	{ApplicationPassword, "application-password"},
}

// optionNames is ordered by bit value.
var optionNames = func() []optionName {
	names := append([]optionName(nil), baseOptionNames...)
	names = append(names, platformOptionNames...)
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && names[j].flag < names[j-1].flag; j-- {
			names[j], names[j-1] = names[j-1], names[j]
		}
	}
	return names
}()

// Union returns the flags present in o or other.
func (o Options) Union(other Options) Options { return o | other }

// Intersect returns the flags present in both o and other.
func (o Options) Intersect(other Options) Options { return o & other }

// Without returns o with the flags of other cleared.
func (o Options) Without(other Options) Options { return o &^ other }

// Contains reports whether every flag of other is set in o.
func (o Options) Contains(other Options) bool { return o&other == other }

// Overlaps reports whether o and other share at least one flag.
func (o Options) Overlaps(other Options) bool { return o&other != 0 }

func (o Options) IsEmpty() bool { return o == 0 }

// Count returns the number of bits set.
func (o Options) Count() int { return bits.OnesCount64(uint64(o)) }

// Constraints returns only the authentication-factor flags of o.
func (o Options) Constraints() Options { return o & constraintMask }

// Conjunctions returns only the Or/And flags of o.
func (o Options) Conjunctions() Options { return o & conjunctionMask }

// Additional returns only the modifier flags of o.
func (o Options) Additional() Options { return o & additionalMask }

// Flags returns the named flags set in o, lowest bit first.
// Bits without a name on this platform are omitted.
func (o Options) Flags() []Options {
	var out []Options
	for _, n := range optionNames {
		if o&n.flag != 0 {
			out = append(out, n.flag)
		}
	}
	return out
}

// String joins flag names with "|". Unnamed bits are rendered in hex.
func (o Options) String() string {
	if o == 0 {
		return "none"
	}
	var parts []string
	rest := o
	for _, n := range optionNames {
		if o&n.flag != 0 {
			parts = append(parts, n.name)
			rest &^= n.flag
		}
	}
	if rest != 0 {
		parts = append(parts, fmt.Sprintf("%#x", uint64(rest)))
	}
	return strings.Join(parts, "|")
}

// Group returns the group a single flag belongs to: "constraint",
// "conjunction" or "additional". Anything else is "unknown".
func (o Options) Group() string {
	switch {
	case o.Count() != 1:
		return "unknown"
	case o&constraintMask != 0:
		return "constraint"
	case o&conjunctionMask != 0:
		return "conjunction"
	case o&additionalMask != 0:
		return "additional"
	}
	return "unknown"
}

// KnownOptions returns every flag that has a name on this platform, lowest
// bit first.
func KnownOptions() []Options {
	out := make([]Options, len(optionNames))
	for i, n := range optionNames {
		out[i] = n.flag
	}
	return out
}

// ParseOptions unions the named flags. Each argument may itself be a list
// separated by commas or "|". "none" and empty entries contribute nothing.
func ParseOptions(names ...string) (Options, error) {
	var o Options
	for _, arg := range names {
		for _, field := range strings.FieldsFunc(arg, func(r rune) bool { return r == ',' || r == '|' }) {
			n := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(field)), "_", "-")
			if n == "" || n == "none" {
				continue
			}
			flag, ok := lookupOption(n)
			if !ok {
				return 0, fmt.Errorf("unknown option %q", field)
			}
			o |= flag
		}
	}
	return o, nil
}

func lookupOption(name string) (Options, bool) {
	for _, n := range optionNames {
		if n.name == name {
			return n.flag, true
		}
	}
	return 0, false
}
