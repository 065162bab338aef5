package shortener

import (
	"math"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// DefaultDuration is how long a link stays active when no usable duration is given.
const DefaultDuration = 30 * time.Minute

// maxMinutes keeps now + minutes within time.Duration range.
const maxMinutes = int64(math.MaxInt64 / int64(time.Minute))

var validate = validator.New()

// ValidateDestination checks that raw is an absolute URL with a scheme and a host.
func ValidateDestination(raw string) error {
	if err := validate.Var(raw, "required,url"); err != nil {
		return ErrInvalidURL
	}

	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ErrInvalidURL
	}

	return nil
}

// ParseDurationMinutes reads the leading integer of raw, ignoring leading
// whitespace and anything after the digits ("15min" is 15). Anything that
// does not yield a positive number of minutes falls back to the default of
// 30, as do values too large to represent.
func ParseDurationMinutes(raw string) time.Duration {
	s := strings.TrimLeft(raw, " \t\n\r\v\f")

	negative := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		negative = s[0] == '-'
		s = s[1:]
	}

	var minutes int64

	digits := 0

	for ; digits < len(s) && s[digits] >= '0' && s[digits] <= '9'; digits++ {
		minutes = minutes*10 + int64(s[digits]-'0')
		if minutes > maxMinutes {
			return DefaultDuration
		}
	}

	if digits == 0 || negative || minutes <= 0 {
		return DefaultDuration
	}

	return time.Duration(minutes) * time.Minute
}
