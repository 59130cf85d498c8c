package otp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/medicore/hms-api/pkg/errors"
)

func TestNormalizePhone(t *testing.T) {
	c := NewClient(Config{CountryPrefix: "+91"}, nil)

	assert.Equal(t, "+919876543210", c.NormalizePhone("9876543210"))
	assert.Equal(t, "+919876543210", c.NormalizePhone(" 9876543210 "))
	assert.Equal(t, "+14155550123", c.NormalizePhone("+14155550123"))
}

func TestSend(t *testing.T) {
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/send-otp", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(map[string]interface{}{"success": true})
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, CountryPrefix: "+91"}, nil)
	err := c.Send(context.Background(), "9876543210")

	require.NoError(t, err)
	assert.Equal(t, "+919876543210", gotBody["phone"])
}

func TestVerifyRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/verify-otp", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "error": "invalid otp"})
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL}, nil)
	err := c.Verify(context.Background(), "9876543210", "000000")

	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation))
}

func TestGatewayDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "error": "upstream unavailable"})
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL}, nil)
	err := c.Verify(context.Background(), "9876543210", "123456")

	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeRemoteCall))
}
