package easy

import (
	"fmt"
	"strings"
)

// ApplyBasicAuth sets the credentials sent in a basic Authorization header
// by every subsequent execution of h.
//
// A username containing a colon cannot be represented in basic auth and is
// rejected, as are credentials containing control characters.
func ApplyBasicAuth(h *Handle, username, password string) error {
	if strings.Contains(username, ":") {
		return fmt.Errorf("%w: username contains a colon", ErrInvalidCredentials)
	}

	if hasControlChar(username) || hasControlChar(password) {
		return fmt.Errorf("%w: control character", ErrInvalidCredentials)
	}

	h.username = username
	h.password = password
	h.basicAuth = true
	return nil
}

func hasControlChar(s string) bool {
	return strings.ContainsFunc(s, func(r rune) bool {
		return r < 0x20 || r == 0x7f
	})
}
