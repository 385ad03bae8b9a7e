package assert

import "github.com/oomph-ac/groundcheck/oerror"

// IsTrue panics with a formatted OomphError if ok is false.
func IsTrue(ok bool, message string, args ...any) {
	if !ok {
		panic(oerror.New(message, args...))
	}
}
