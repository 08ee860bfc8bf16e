package util

import (
	"net/http"
	"testing"
	"time"

	"github.com/comuna-app/comuna_api/util/values"
)

func TestNotBlank(t *testing.T) {
	testCases := []struct {
		name           string
		value          string
		expectedResult bool
	}{
		{"Empty", "", false},
		{"Spaces Only", "   ", false},
		{"Tabs And Newlines", "\t\n", false},
		{"Plain Text", "hello", true},
		{"Padded Text", "  hello  ", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if result := NotBlank(tc.value); result != tc.expectedResult {
				t.Errorf("NotBlank(%q) = %v; want %v", tc.value, result, tc.expectedResult)
			}
		})
	}
}

func TestIsEmail(t *testing.T) {
	testCases := []struct {
		name           string
		value          string
		expectedResult bool
	}{
		{"Simple", "ana@example.com", true},
		{"Subdomain", "ana@mail.example.com", true},
		{"Plus Tag", "ana+chat@example.com", true},
		{"Missing At", "ana.example.com", false},
		{"Missing Domain", "ana@", false},
		{"Empty", "", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if result := IsEmail(tc.value); result != tc.expectedResult {
				t.Errorf("IsEmail(%q) = %v; want %v", tc.value, result, tc.expectedResult)
			}
		})
	}
}

func TestIsURL(t *testing.T) {
	testCases := []struct {
		name           string
		value          string
		expectedResult bool
	}{
		{"HTTPS", "https://res.cloudinary.com/demo/image/upload/avatar.png", true},
		{"HTTP", "http://example.com", true},
		{"No Scheme", "example.com/avatar.png", false},
		{"Empty", "", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if result := IsURL(tc.value); result != tc.expectedResult {
				t.Errorf("IsURL(%q) = %v; want %v", tc.value, result, tc.expectedResult)
			}
		})
	}
}

func TestNameFromEmail(t *testing.T) {
	testCases := []struct {
		name           string
		email          string
		expectedResult string
	}{
		{"Simple", "ana@example.com", "ana"},
		{"Dotted Local Part", "ana.silva@example.com", "ana.silva"},
		{"No At Sign", "ana", "ana"},
		{"Leading At Sign", "@example.com", "@example.com"},
		{"Empty", "", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if result := NameFromEmail(tc.email); result != tc.expectedResult {
				t.Errorf("NameFromEmail(%q) = %q; want %q", tc.email, result, tc.expectedResult)
			}
		})
	}
}

func TestStatusCode(t *testing.T) {
	testCases := []struct {
		name           string
		status         string
		expectedResult int
	}{
		{"Success", values.Success, http.StatusOK},
		{"Created", values.Created, http.StatusCreated},
		{"Error", values.Error, http.StatusInternalServerError},
		{"Bad Request Body", values.BadRequestBody, http.StatusBadRequest},
		{"Unprocessable", values.Unprocessable, http.StatusUnprocessableEntity},
		{"Not Allowed", values.NotAllowed, http.StatusForbidden},
		{"Conflict", values.Conflict, http.StatusConflict},
		{"Not Found", values.NotFound, http.StatusNotFound},
		{"Not Authorised", values.NotAuthorised, http.StatusUnauthorized},
		{"Token Expired", values.TokenExpired, http.StatusUnauthorized},
		{"Unknown Status", "something-else", http.StatusOK},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if result := StatusCode(tc.status); result != tc.expectedResult {
				t.Errorf("StatusCode(%q) = %d; want %d", tc.status, result, tc.expectedResult)
			}
		})
	}
}

func TestFormatTime(t *testing.T) {
	testTime := time.Date(2025, 4, 5, 14, 30, 45, 0, time.UTC)

	testCases := []struct {
		name           string
		format         string
		expectedResult string
	}{
		{"RFC3339", time.RFC3339, "2025-04-05T14:30:45Z"},
		{"Simple Date", "2006-01-02", "2025-04-05"},
		{"Date and Time", "2006-01-02 15:04:05", "2025-04-05 14:30:45"},
		{"Kitchen Time", time.Kitchen, "2:30PM"},
		{"Empty Format", "", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := formatTime(tc.format, testTime)

			if result != tc.expectedResult {
				t.Errorf("formatTime(%q, %v) = %q; want %q",
					tc.format, testTime, result, tc.expectedResult)
			}
		})
	}
}
