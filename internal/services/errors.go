package services

import (
	"errors"
	"fmt"
)

// ValidationError is a client input that breaks a feedback rule. Message is safe to show to users.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// UploadError wraps any failure of the remote image upload.
type UploadError struct {
	Err error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("image upload failed: %v", e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// StoreError wraps a failed Record Store call.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("feedback store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

var (
	ErrMissingKey       = errors.New("missing admin key")
	ErrUnauthorized     = errors.New("invalid admin key")
	ErrUploadsDisabled  = errors.New("image uploads are not configured")
)
