// Package transport classifies failures of outbound provider calls into
// domain error kinds.
package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/recall/internal/core/domain"
)

// maxBodyInError bounds how much of a provider response is echoed in errors.
const maxBodyInError = 512

// CallError wraps a network-level failure of a provider call.
// Timeouts, cancellations and connection failures are transient.
func CallError(provider string, err error) error {
	if err == nil {
		return nil
	}
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%s: %w: timed out: %w", provider, domain.ErrTransient, err)
	case errors.As(err, &netErr) && netErr.Timeout():
		return fmt.Errorf("%s: %w: timed out: %w", provider, domain.ErrTransient, err)
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("%s: request cancelled: %w", provider, err)
	default:
		return fmt.Errorf("%s: %w: %w", provider, domain.ErrTransient, err)
	}
}

// StatusError converts a non-success provider response into an error.
// 429 maps to domain.ErrRateLimited, 401 and 403 to domain.ErrConfiguration
// and every other status to domain.ErrTransient. The caller's input has
// already been validated, so a provider 4xx is never a validation error.
func StatusError(provider string, status int, body []byte) error {
	msg := truncateRunes(strings.TrimSpace(string(body)), maxBodyInError)

	var kind error
	switch status {
	case http.StatusTooManyRequests:
		kind = domain.ErrRateLimited
	case http.StatusUnauthorized, http.StatusForbidden:
		kind = domain.ErrConfiguration
	default:
		kind = domain.ErrTransient
	}

	if msg == "" {
		return fmt.Errorf("%s: %w (status %d)", provider, kind, status)
	}
	return fmt.Errorf("%s: %w (status %d): %s", provider, kind, status, msg)
}

// truncateRunes cuts s to at most n bytes on a rune boundary.
func truncateRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
