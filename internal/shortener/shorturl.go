package shortener

import (
	"regexp"
	"time"
)

// Code represents a short URL code.
type Code string

// aliasPattern is the accepted shape of caller-chosen codes.
var aliasPattern = regexp.MustCompile(`^[a-zA-Z0-9]{1,15}$`)

// ValidAlias reports whether s can be used as a custom code.
func ValidAlias(s string) bool {
	return aliasPattern.MatchString(s)
}

// ShortURL is a registry record mapping a code to its destination.
// Everything except Hits is fixed once the record is inserted.
type ShortURL struct {
	Code        Code
	Destination string
	CreatedAt   time.Time
	ExpiresAt   time.Time
	Hits        int64
}

// Expired reports whether the record is past its expiry at now.
// A record is still active at exactly ExpiresAt.
func (s *ShortURL) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// ShortLink is the result of a successful shorten call.
type ShortLink struct {
	ShortURL

	// Link is the public short URL, <base>/<code>.
	Link string
}
