package robinhood

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_Login(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth2/token/", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "trader", r.PostForm.Get("username"))
		assert.Equal(t, "password", r.PostForm.Get("grant_type"))
		assert.Equal(t, clientID, r.PostForm.Get("client_id"))
		assert.NotEmpty(t, r.PostForm.Get("device_token"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"at-1","refresh_token":"rt-1"}`))
	})
	mux.HandleFunc("/accounts/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer at-1", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[{"url":"https://api.robinhood.com/accounts/XYZ/","account_number":"XYZ"}]}`))
	})

	s := newTestSession(t, mux)
	require.NoError(t, s.Login(context.Background(), Credentials{Username: "trader", Password: "hunter2"}))

	// The bearer token must ride along on subsequent calls.
	account, err := s.Equity().Account(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "XYZ", account.AccountNumber)
}

func TestSession_LoginMFAChallenge(t *testing.T) {
	var sawCode string
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth2/token/", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		sawCode = r.PostForm.Get("mfa_code")

		w.Header().Set("Content-Type", "application/json")
		if sawCode == "" {
			w.Write([]byte(`{"mfa_required":true}`))
			return
		}
		w.Write([]byte(`{"access_token":"at-2","refresh_token":"rt-2"}`))
	})

	s := newTestSession(t, mux)
	creds := Credentials{Username: "trader", Password: "hunter2"}

	err := s.Login(context.Background(), creds)
	require.ErrorIs(t, err, ErrMFARequired)

	creds.MFACode = "123456"
	require.NoError(t, s.Login(context.Background(), creds))
	assert.Equal(t, "123456", sawCode)
}

func TestSession_LoginRejected(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth2/token/", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"invalid credentials"}`, http.StatusUnauthorized)
	})

	s := newTestSession(t, mux)
	err := s.Login(context.Background(), Credentials{Username: "trader", Password: "wrong"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestSession_Logout(t *testing.T) {
	var revoked string
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth2/token/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"at-3","refresh_token":"rt-3"}`))
	})
	mux.HandleFunc("/oauth2/revoke_token/", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		revoked = r.PostForm.Get("token")
		w.WriteHeader(http.StatusOK)
	})

	s := newTestSession(t, mux)
	require.NoError(t, s.Login(context.Background(), Credentials{Username: "trader", Password: "hunter2"}))
	require.NoError(t, s.Logout(context.Background()))
	assert.Equal(t, "rt-3", revoked)
}

func TestSession_LogoutRejected(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth2/revoke_token/", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"token already revoked"}`, http.StatusBadRequest)
	})

	s := newTestSession(t, mux)
	err := s.Logout(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
}
