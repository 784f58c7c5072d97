//go:build darwin

package keychain

/*
#cgo LDFLAGS: -framework CoreFoundation -framework Security
#include <stdlib.h>
#include <CoreFoundation/CoreFoundation.h>
#include <Security/Security.h>

static OSStatus gk_add_protected(const char *service, const char *account, const char *label,
		const void *data, long length, CFTypeRef access) {
	CFMutableDictionaryRef query = CFDictionaryCreateMutable(kCFAllocatorDefault, 0,
		&kCFTypeDictionaryKeyCallBacks, &kCFTypeDictionaryValueCallBacks);
	CFStringRef svc = CFStringCreateWithCString(kCFAllocatorDefault, service, kCFStringEncodingUTF8);
	CFStringRef acct = CFStringCreateWithCString(kCFAllocatorDefault, account, kCFStringEncodingUTF8);
	CFStringRef lbl = CFStringCreateWithCString(kCFAllocatorDefault, label, kCFStringEncodingUTF8);
	CFDataRef value = CFDataCreate(kCFAllocatorDefault, (const UInt8 *)data, (CFIndex)length);

	CFDictionarySetValue(query, kSecClass, kSecClassGenericPassword);
	CFDictionarySetValue(query, kSecAttrService, svc);
	CFDictionarySetValue(query, kSecAttrAccount, acct);
	CFDictionarySetValue(query, kSecAttrLabel, lbl);
	CFDictionarySetValue(query, kSecValueData, value);
	CFDictionarySetValue(query, kSecAttrSynchronizable, kCFBooleanFalse);
	CFDictionarySetValue(query, kSecAttrAccessControl, access);

	OSStatus status = SecItemAdd(query, NULL);

	CFRelease(value);
	CFRelease(lbl);
	CFRelease(acct);
	CFRelease(svc);
	CFRelease(query);
	return status;
}
*/
import "C"

import (
	"unsafe"

	gokeychain "github.com/keybase/go-keychain"
)

// addProtectedItem adds a generic password carrying the access-control
// object ref. The item takes its own reference; the caller keeps ownership
// of ref.
func addProtectedItem(service, account, label string, data []byte, ref uintptr) error {
	cService := C.CString(service)
	defer C.free(unsafe.Pointer(cService))
	cAccount := C.CString(account)
	defer C.free(unsafe.Pointer(cAccount))
	cLabel := C.CString(label)
	defer C.free(unsafe.Pointer(cLabel))

	cData := C.CBytes(data)
	defer C.free(cData)

	status := C.gk_add_protected(cService, cAccount, cLabel, cData, C.long(len(data)), C.CFTypeRef(ref))
	if status != 0 {
		return gokeychain.Error(status)
	}
	return nil
}
