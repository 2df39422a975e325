package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateQuantity validates an interactive print quantity against the
// inclusive bounds [min, max]. Out-of-range quantities are rejected, never
// clamped, so a caller bug surfaces instead of silently printing a different
// number of labels.
func ValidateQuantity(quantity, min, max int) error {
	if quantity < min {
		return New(ErrCodeValidation, "quantity %d below minimum %d", quantity, min)
	}
	if quantity > max {
		return New(ErrCodeValidation, "quantity %d exceeds maximum %d", quantity, max)
	}
	return nil
}

// ValidateBatchBounds validates an offline batch against the hard token and
// page ceilings. Both are checked before any rendering work begins.
func ValidateBatchBounds(tokens, pages, maxTokens, maxPages int) error {
	if tokens > maxTokens {
		return New(ErrCodeValidation, "batch of %d tokens exceeds limit %d", tokens, maxTokens)
	}
	if pages > maxPages {
		return New(ErrCodeValidation, "batch would produce %d pages, limit is %d", pages, maxPages)
	}
	return nil
}

// namespaceRegex matches identifier namespaces safe to splice into SVG
// id attributes and url(#...) references.
var namespaceRegex = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)

// ValidateNamespace validates a prefix used to namespace SVG identifiers.
func ValidateNamespace(ns string) error {
	if ns == "" {
		return New(ErrCodeInvalidInput, "identifier namespace cannot be empty")
	}
	if len(ns) > 64 {
		return New(ErrCodeInvalidInput, "identifier namespace too long (max 64 characters)")
	}
	if !namespaceRegex.MatchString(ns) {
		return New(ErrCodeInvalidInput, "invalid identifier namespace: %q", ns)
	}
	return nil
}

// ValidateBaseURL validates the base URL used to build token scan targets.
// It ensures the URL has a safe scheme (http or https) and no trailing junk
// that would corrupt the {baseURL}/qr/{token} scheme.
func ValidateBaseURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "base URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "base URL must use http or https scheme")
	}

	for _, r := range rawURL {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "base URL contains invalid characters")
		}
	}
	return nil
}

// ValidateEntityKey validates an (entityType, entityID) lookup key.
func ValidateEntityKey(entityType, entityID string) error {
	if entityType == "" {
		return New(ErrCodeInvalidInput, "entity type cannot be empty")
	}
	if entityID == "" {
		return New(ErrCodeInvalidInput, "entity id cannot be empty")
	}
	for _, s := range []string{entityType, entityID} {
		for _, r := range s {
			if unicode.IsControl(r) {
				return New(ErrCodeInvalidInput, "entity key contains invalid control characters")
			}
		}
	}
	return nil
}
