package access

import "fmt"

// Policy is an immutable (Protection, Options) pair. The zero value is the
// default policy: AfterFirstUnlock with no options.
type Policy struct {
	protection Protection
	options    Options
}

// New returns a policy with the given protection and options.
func New(protection Protection, options Options) Policy {
	return Policy{protection: protection, options: options}
}

// Default returns the zero policy.
func Default() Policy {
	return Policy{}
}

func (p Policy) Protection() Protection { return p.protection }

func (p Policy) Options() Options { return p.options }

func (p Policy) String() string {
	return fmt.Sprintf("%s [%s]", p.protection, p.options)
}

// Create asks the authority for a handle. The options are forwarded
// verbatim; nothing is validated or retried here.
//
// A returned handle always means success. Otherwise the result is a
// *CreationFailedError whose Description is the diagnostic's text, or
// empty when the authority gave no diagnostic.
func (p Policy) Create(authority Authority) (*Handle, error) {
	h, diag := authority.CreateAccessControl(p.protection, p.options)
	if h != nil {
		return h, nil
	}
	var desc string
	if diag != nil {
		desc = diag.Error()
	}
	return nil, &CreationFailedError{Description: desc}
}

// Create is shorthand for New(protection, options).Create(authority).
func Create(protection Protection, options Options, authority Authority) (*Handle, error) {
	return New(protection, options).Create(authority)
}
