package access

import (
	"strings"
	"testing"
)

func TestOptionBitsAreDisjoint(t *testing.T) {
	var seen Options
	for _, o := range KnownOptions() {
		if o.Count() != 1 {
			t.Errorf("%s has %d bits set, want 1", o, o.Count())
		}
		if seen.Overlaps(o) {
			t.Errorf("%s overlaps an earlier flag", o)
		}
		seen = seen.Union(o)
	}
}

func TestOptionBitValues(t *testing.T) {
	want := map[Options]uint64{
		UserPresence:        1 << 0,
		BiometryAny:         1 << 1,
		BiometryCurrentSet:  1 << 3,
		DevicePasscode:      1 << 4,
		Or:                  1 << 14,
		And:                 1 << 15,
		PrivateKeyUsage:     1 << 30,
		ApplicationPassword: 1 << 31,
	}
	for o, bit := range want {
		if uint64(o) != bit {
			t.Errorf("%s = %#x, want %#x", o, uint64(o), bit)
		}
	}
}

func TestUnionKeepsAllBits(t *testing.T) {
	o := BiometryAny | DevicePasscode | Or
	if o.Count() != 3 {
		t.Fatalf("expected 3 bits, got %d", o.Count())
	}
	for _, f := range []Options{BiometryAny, DevicePasscode, Or} {
		if !o.Contains(f) {
			t.Errorf("expected %s in %s", f, o)
		}
	}
	if o.Contains(And) {
		t.Error("unexpected and flag")
	}
}

func TestUnionIsIdempotent(t *testing.T) {
	o := BiometryCurrentSet.Union(BiometryCurrentSet)
	if o != BiometryCurrentSet {
		t.Errorf("expected %s, got %s", BiometryCurrentSet, o)
	}
	o = (UserPresence | PrivateKeyUsage).Union(UserPresence)
	if o != UserPresence|PrivateKeyUsage {
		t.Errorf("expected user-presence|private-key-usage, got %s", o)
	}
}

func TestSetOperations(t *testing.T) {
	o := BiometryAny | DevicePasscode | And | ApplicationPassword

	if got := o.Intersect(DevicePasscode | UserPresence); got != DevicePasscode {
		t.Errorf("Intersect = %s, want device-passcode", got)
	}
	if got := o.Without(And); got.Contains(And) || got.Count() != 3 {
		t.Errorf("Without(and) = %s", got)
	}
	if !o.Overlaps(UserPresence | And) {
		t.Error("expected overlap on and")
	}
	if o.Contains(UserPresence | And) {
		t.Error("Contains should require every bit")
	}
	if !Options(0).IsEmpty() || o.IsEmpty() {
		t.Error("IsEmpty mismatch")
	}
}

func TestGroups(t *testing.T) {
	o := UserPresence | BiometryAny | Or | PrivateKeyUsage

	if got := o.Constraints(); got != UserPresence|BiometryAny {
		t.Errorf("Constraints = %s", got)
	}
	if got := o.Conjunctions(); got != Or {
		t.Errorf("Conjunctions = %s", got)
	}
	if got := o.Additional(); got != PrivateKeyUsage {
		t.Errorf("Additional = %s", got)
	}

	cases := map[Options]string{
		DevicePasscode:      "constraint",
		And:                 "conjunction",
		ApplicationPassword: "additional",
		Or | And:            "unknown",
		0:                   "unknown",
	}
	for o, want := range cases {
		if got := o.Group(); got != want {
			t.Errorf("%s.Group() = %q, want %q", o, got, want)
		}
	}
}

func TestCombinationsAreNotValidated(t *testing.T) {
	// Conjunctions without constraints, and both conjunctions at once, are
	// representable; only the authority may reject them.
	o := Or | And
	if o.Count() != 2 || o.Constraints() != 0 {
		t.Errorf("unexpected %s", o)
	}
}

func TestOptionsString(t *testing.T) {
	if got := Options(0).String(); got != "none" {
		t.Errorf("expected none, got %q", got)
	}
	if got := (Or | BiometryAny | DevicePasscode).String(); got != "biometry-any|device-passcode|or" {
		t.Errorf("unexpected %q", got)
	}
	if got := (UserPresence | 1<<40).String(); got != "user-presence|0x10000000000" {
		t.Errorf("unexpected %q", got)
	}
}

func TestFlagsInBitOrder(t *testing.T) {
	flags := (ApplicationPassword | UserPresence | Or).Flags()
	want := []Options{UserPresence, Or, ApplicationPassword}
	if len(flags) != len(want) {
		t.Fatalf("expected %d flags, got %d", len(want), len(flags))
	}
	for i := range want {
		if flags[i] != want[i] {
			t.Errorf("flags[%d] = %s, want %s", i, flags[i], want[i])
		}
	}
}

func TestParseOptions(t *testing.T) {
	o, err := ParseOptions("biometry-any,device-passcode", "OR")
	if err != nil {
		t.Fatalf("ParseOptions: %v", err)
	}
	if o != BiometryAny|DevicePasscode|Or {
		t.Errorf("unexpected %s", o)
	}

	o, err = ParseOptions("private_key_usage|application-password")
	if err != nil {
		t.Fatalf("ParseOptions: %v", err)
	}
	if o != PrivateKeyUsage|ApplicationPassword {
		t.Errorf("unexpected %s", o)
	}

	o, err = ParseOptions("none", "")
	if err != nil || o != 0 {
		t.Errorf("expected empty options, got %s (%v)", o, err)
	}
}

func TestParseOptionsUnknown(t *testing.T) {
	_, err := ParseOptions("biometry-any", "retina")
	if err == nil {
		t.Fatal("expected error for unknown option")
	}
	if !strings.Contains(err.Error(), "retina") {
		t.Errorf("error should name the option: %v", err)
	}
}

func TestParseOptionsRoundTripsString(t *testing.T) {
	for _, o := range KnownOptions() {
		got, err := ParseOptions(o.String())
		if err != nil {
			t.Fatalf("ParseOptions(%q): %v", o.String(), err)
		}
		if got != o {
			t.Errorf("ParseOptions(%q) = %s", o.String(), got)
		}
	}
}
