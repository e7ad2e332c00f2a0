//go:build !unix

package main

// exclusiveOpenGuard is a no-op outside unix: TIOCEXCL and O_EXCL-on-tty
// semantics have no portable equivalent.
func exclusiveOpenGuard(name string) error { return nil }
