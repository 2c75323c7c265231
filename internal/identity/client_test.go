package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/z12guilherme/gestao-atipicos/pkg/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(config.IdentityConfig{URL: srv.URL, ServiceKey: "service-key", Timeout: time.Second})
}

func TestClientCreateUser(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/admin/users", r.URL.Path)
		assert.Equal(t, "Bearer service-key", r.Header.Get("Authorization"))
		assert.Equal(t, "service-key", r.Header.Get("apikey"))

		var payload map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "ana@escola.com", payload["email"])
		assert.Equal(t, true, payload["email_confirm"])

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(Identity{ID: "uuid-1", Email: "ana@escola.com"})
	})

	identity, err := client.CreateUser(context.Background(), "ana@escola.com", "secreta1")
	require.NoError(t, err)
	assert.Equal(t, "uuid-1", identity.ID)
	assert.Equal(t, "ana@escola.com", identity.Email)
}

func TestClientCreateUserProviderRejection(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]string{"msg": "User already registered"})
	})

	_, err := client.CreateUser(context.Background(), "taken@escola.com", "secreta1")
	require.Error(t, err)

	perr, ok := err.(*ProviderError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnprocessableEntity, perr.Status)
	assert.Equal(t, "User already registered", perr.Message)
}

func TestClientCreateUserMissingID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"email": "ana@escola.com"})
	})

	_, err := client.CreateUser(context.Background(), "ana@escola.com", "secreta1")
	assert.Error(t, err)
}

func TestClientDeleteUser(t *testing.T) {
	var requested string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requested = r.Method + " " + r.URL.Path
		w.WriteHeader(http.StatusOK)
	})

	require.NoError(t, client.DeleteUser(context.Background(), "uuid-1"))
	assert.Equal(t, "DELETE /admin/users/uuid-1", requested)
}

func TestClientDeleteUserNotFoundIsNoOp(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	assert.NoError(t, client.DeleteUser(context.Background(), "gone"))
}

func TestClientDeleteUserServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	err := client.DeleteUser(context.Background(), "uuid-1")
	require.Error(t, err)
	perr, ok := err.(*ProviderError)
	require.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, perr.Status)
}
