package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		name      string
		header    string
		wantToken string
		wantOK    bool
	}{
		{name: "missing header", header: "", wantToken: "", wantOK: false},
		{name: "bearer token", header: "Bearer abc.def.ghi", wantToken: "abc.def.ghi", wantOK: true},
		{name: "lowercase scheme", header: "bearer abc.def.ghi", wantToken: "", wantOK: false},
		{name: "different scheme", header: "Basic dXNlcjpwYXNz", wantToken: "", wantOK: false},
		{name: "scheme without token", header: "Bearer ", wantToken: "", wantOK: false},
		{name: "scheme without space", header: "Bearerabc", wantToken: "", wantOK: false},
		{name: "token with inner spaces kept verbatim", header: "Bearer a b", wantToken: "a b", wantOK: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}

			token, ok := ExtractBearerToken(req)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.wantToken, token)
		})
	}

	t.Run("header name is case-insensitive", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("authorization", "Bearer abc")

		token, ok := ExtractBearerToken(req)
		assert.True(t, ok)
		assert.Equal(t, "abc", token)
	})
}
