package validation

import (
	"fmt"

	dErrors "proxyauth/pkg/domain-errors"
)

// HTTP body limits
const (
	// MaxBodySize is the maximum allowed request body size (64 KB).
	// Sufficient for JSON APIs while preventing memory exhaustion attacks.
	MaxBodySize = 64 * 1024
)

// Slice and map element count limits
const (
	// MaxExtraKeys is the maximum number of passthrough config keys per request.
	MaxExtraKeys = 50

	// MaxActionParams is the maximum number of parameters per triggered action.
	MaxActionParams = 50
)

// String element length limits
const (
	// MaxEmbedTypeLength is the maximum length of an embed type key.
	MaxEmbedTypeLength = 100

	// MaxElementIDLength is the maximum length of a mount element id or selector.
	MaxElementIDLength = 256

	// MaxVariantLength is the maximum length of a surface variant class.
	MaxVariantLength = 64

	// MaxActionNameLength is the maximum length of an action name.
	MaxActionNameLength = 100
)

// CheckMapCount validates that a map does not exceed the maximum entry count.
func CheckMapCount[V any](fieldName string, m map[string]V, max int) error {
	if len(m) > max {
		return dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("too many %s: max %d allowed", fieldName, max))
	}
	return nil
}

// CheckStringLength validates that a string does not exceed the maximum length.
func CheckStringLength(fieldName, value string, max int) error {
	if len(value) > max {
		return dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("%s exceeds max length of %d", fieldName, max))
	}
	return nil
}
