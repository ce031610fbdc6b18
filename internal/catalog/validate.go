package catalog

import (
	"fmt"
	"strings"
)

// ValidISBN reports whether s is a non-empty run of ASCII digits. Real ISBN
// checksums are not verified; the key is only a catalog identifier.
func ValidISBN(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// DigitsOnly reports whether s contains nothing but ASCII digits. Unlike
// ValidISBN it accepts the empty string, which is what an input field
// holds before the user types anything.
func DigitsOnly(s string) bool {
	return s == "" || ValidISBN(s)
}

func requireText(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s is required", ErrInvalidInput, field)
	}
	return nil
}

func requireISBN(isbn string) error {
	if isbn == "" {
		return fmt.Errorf("%w: isbn is required", ErrInvalidInput)
	}
	if !ValidISBN(isbn) {
		return fmt.Errorf("%w: isbn must contain digits only, got %q", ErrInvalidInput, isbn)
	}
	return nil
}

func validateDetails(title, author, isbn string) error {
	if err := requireText("title", title); err != nil {
		return err
	}
	if err := requireText("author", author); err != nil {
		return err
	}
	return requireISBN(isbn)
}
