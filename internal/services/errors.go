package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrConnectivity = errors.New("connectivity error")
	ErrTransfer     = errors.New("transfer error")
	ErrParse        = errors.New("parse error")
	ErrValidation   = errors.New("validation error")
	ErrCancelled    = errors.New("cancelled")
)

// Wrap builds an error message that includes component context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrTransfer
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsValidation reports whether an error stems from rejected input rather than
// a backend or transport problem.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsUserCancelled reports whether an error represents an explicit user abort.
// Cancellation is not a failure: callers clear error state instead of
// surfacing it.
func IsUserCancelled(err error) bool {
	return errors.Is(err, ErrCancelled)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
