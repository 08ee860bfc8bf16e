package util

import (
	"net/url"
	"regexp"
	"strings"
	"time"
)

var (
	RgxEmail = regexp.MustCompile("^[a-zA-Z0-9.!#$%&'*+/=?^_`{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$")
)

func NotBlank(value string) bool {
	return strings.TrimSpace(value) != ""
}

func IsEmail(value string) bool {
	if len(value) > 254 {
		return false
	}

	return RgxEmail.MatchString(value)
}

func IsURL(value string) bool {
	u, err := url.ParseRequestURI(value)
	if err != nil {
		return false
	}

	return u.Scheme != "" && u.Host != ""
}

func formatTime(format string, t time.Time) string {
	return t.Format(format)
}

// NameFromEmail derives a default display name from the local part of an
// email address, the same fallback the sign-up flow applies when no name is
// provided.
func NameFromEmail(email string) string {
	at := strings.Index(email, "@")
	if at <= 0 {
		return email
	}
	return email[:at]
}

// IntPtr returns a pointer to the given integer.
func IntPtr(i int) *int {
	return &i
}

// StrPtr returns a pointer to the given string.
func StrPtr(s string) *string {
	return &s
}
