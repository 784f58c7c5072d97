//go:build darwin && cgo

package access

/*
#cgo LDFLAGS: -framework CoreFoundation -framework Security
#pragma clang diagnostic ignored "-Wdeprecated-declarations"
#include <stdlib.h>
#include <CoreFoundation/CoreFoundation.h>
#include <Security/Security.h>

// Order matches the Protection constants.
static CFTypeRef gk_protection(int level) {
	switch (level) {
	case 0: return kSecAttrAccessibleAfterFirstUnlock;
	case 1: return kSecAttrAccessibleAfterFirstUnlockThisDeviceOnly;
	case 2: return kSecAttrAccessibleWhenUnlocked;
	case 3: return kSecAttrAccessibleWhenUnlockedThisDeviceOnly;
	case 4: return kSecAttrAccessibleWhenPasscodeSetThisDeviceOnly;
	case 5: return kSecAttrAccessibleAlways;
	case 6: return kSecAttrAccessibleAlwaysThisDeviceOnly;
	}
	return NULL;
}

static char *gk_copy_description(CFErrorRef err) {
	CFStringRef desc = CFErrorCopyDescription(err);
	if (desc == NULL) {
		return NULL;
	}
	CFIndex size = CFStringGetMaximumSizeForEncoding(CFStringGetLength(desc), kCFStringEncodingUTF8) + 1;
	char *buf = malloc(size);
	if (buf != NULL && !CFStringGetCString(desc, buf, size, kCFStringEncodingUTF8)) {
		free(buf);
		buf = NULL;
	}
	CFRelease(desc);
	return buf;
}

static CFTypeRef gk_create_access_control(int level, unsigned long long flags, int *has_diag, char **diag) {
	CFErrorRef err = NULL;
	SecAccessControlRef ac = SecAccessControlCreateWithFlags(
		kCFAllocatorDefault, gk_protection(level), (SecAccessControlCreateFlags)flags, &err);
	if (ac == NULL && err != NULL) {
		*has_diag = 1;
		*diag = gk_copy_description(err);
	}
	if (err != NULL) {
		CFRelease(err);
	}
	return (CFTypeRef)ac;
}
*/
import "C"

import (
	"errors"
	"fmt"
	"unsafe"
)

type systemAuthority struct{}

// SystemAuthority returns the authority backed by the Security framework.
func SystemAuthority() Authority {
	return systemAuthority{}
}

func (systemAuthority) CreateAccessControl(protection Protection, options Options) (*Handle, error) {
	if !protection.Valid() {
		return nil, fmt.Errorf("unknown protection %s", protection)
	}
	var hasDiag C.int
	var diag *C.char
	ref := C.gk_create_access_control(C.int(protection), C.ulonglong(options), &hasDiag, &diag)
	if ref != 0 {
		return NewHandle(uintptr(ref), releaseRef), nil
	}
	if hasDiag == 0 {
		return nil, nil
	}
	var text string
	if diag != nil {
		text = C.GoString(diag)
		C.free(unsafe.Pointer(diag))
	}
	return nil, errors.New(text)
}

func releaseRef(ref uintptr) {
	C.CFRelease(C.CFTypeRef(ref))
}
