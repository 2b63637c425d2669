package encryption

import "errors"

var (
	// ErrFormat is returned when a sealed blob is truncated, misaligned or carries invalid padding.
	ErrFormat = errors.New("malformed sealed data")
	// ErrAuthentication is returned when the authentication tag does not match.
	// A wrong passphrase and tampered data are reported the same way.
	ErrAuthentication = errors.New("authentication failed")
)
