// Package common provides shared constants, types, and utilities
// used across the AdGuard VPN desktop controller.
package common

import "errors"

// Sentinel errors for controller operations.
// These can be checked with errors.Is() for proper error handling.
var (
	// CLI errors.
	ErrCLIFailed      = errors.New("adguardvpn-cli command failed")
	ErrCLINotFound    = errors.New("adguardvpn-cli executable not found")
	ErrUnexpectedData = errors.New("unexpected adguardvpn-cli output")

	// Location and exclusion errors.
	ErrLocationNotFound     = errors.New("location not found")
	ErrInvalidExclusionMode = errors.New("invalid exclusion mode")
	ErrEmptyExclusion       = errors.New("exclusion cannot be empty")

	// Credential errors.
	ErrCredentialsNotFound = errors.New("credentials not found")
	ErrCredentialStorage   = errors.New("failed to store credentials")
	ErrEncryption          = errors.New("encryption error")
	ErrDecryption          = errors.New("decryption error")

	// Configuration errors.
	ErrConfigLoad = errors.New("failed to load configuration")
	ErrConfigSave = errors.New("failed to save configuration")

	// Storage errors.
	ErrStorageClosed = errors.New("storage is closed")
)

// WrapError wraps an error with additional context.
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return &wrappedError{
		msg: message,
		err: err,
	}
}

type wrappedError struct {
	msg string
	err error
}

func (e *wrappedError) Error() string {
	return e.msg + ": " + e.err.Error()
}

func (e *wrappedError) Unwrap() error {
	return e.err
}
