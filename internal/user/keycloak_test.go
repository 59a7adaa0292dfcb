package user_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yonggyo1125/delivery-6h/internal/config"
	"github.com/yonggyo1125/delivery-6h/internal/user"
)

// fakeKeycloak records the admin REST calls a client makes so tests can
// assert on the whole flow, not just the final result.
type fakeKeycloak struct {
	mu        sync.Mutex
	userID    uuid.UUID
	passwords []string
	granted   []string
	removed   int
	conflict  bool
	roles     []map[string]string
}

func newFakeKeycloak(t *testing.T) *fakeKeycloak {
	t.Helper()
	userID, err := uuid.NewV4()
	require.NoError(t, err)
	return &fakeKeycloak{userID: userID}
}

func (f *fakeKeycloak) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		switch {
		case r.URL.Path == "/realms/master/protocol/openid-connect/token":
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "admin-cli", r.PostForm.Get("client_id"))
			writeJSON(w, http.StatusOK, map[string]any{"access_token": "admin-token", "token_type": "Bearer"})

		case r.URL.Path == "/admin/realms/delivery/users" && r.Method == http.MethodPost:
			if f.conflict {
				w.WriteHeader(http.StatusConflict)
				return
			}
			assert.Equal(t, "Bearer admin-token", r.Header.Get("Authorization"))
			w.Header().Set("Location", "/admin/realms/delivery/users/"+f.userID.String())
			w.WriteHeader(http.StatusCreated)

		case r.URL.Path == fmt.Sprintf("/admin/realms/delivery/users/%s/reset-password", f.userID):
			var cred struct {
				Type      string `json:"type"`
				Value     string `json:"value"`
				Temporary bool   `json:"temporary"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&cred))
			assert.Equal(t, "password", cred.Type)
			assert.False(t, cred.Temporary)
			f.passwords = append(f.passwords, cred.Value)
			w.WriteHeader(http.StatusNoContent)

		case r.URL.Path == fmt.Sprintf("/admin/realms/delivery/users/%s/role-mappings/realm", f.userID):
			switch r.Method {
			case http.MethodGet:
				writeJSON(w, http.StatusOK, f.roles)
			case http.MethodDelete:
				f.removed++
				w.WriteHeader(http.StatusNoContent)
			case http.MethodPost:
				var roles []map[string]string
				require.NoError(t, json.NewDecoder(r.Body).Decode(&roles))
				for _, role := range roles {
					f.granted = append(f.granted, role["name"])
				}
				w.WriteHeader(http.StatusNoContent)
			}

		case strings.HasPrefix(r.URL.Path, "/admin/realms/delivery/roles/"):
			name := strings.TrimPrefix(r.URL.Path, "/admin/realms/delivery/roles/")
			writeJSON(w, http.StatusOK, map[string]string{"id": "role-" + name, "name": name})

		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func newTestClient(serverURL string) *user.KeycloakClient {
	return user.NewKeycloakClient(config.KeycloakConfig{
		ServerURL:    serverURL,
		Realm:        "delivery",
		ClientID:     "delivery-app",
		ClientSecret: "secret",
		AdminUser:    "admin",
		AdminPass:    "admin",
	})
}

func TestKeycloakClient_GenerateToken(t *testing.T) {
	t.Run("returns_tokens", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/realms/delivery/protocol/openid-connect/token", r.URL.Path)
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "password", r.PostForm.Get("grant_type"))
			assert.Equal(t, "delivery-app", r.PostForm.Get("client_id"))
			assert.Equal(t, "kim", r.PostForm.Get("username"))

			writeJSON(w, http.StatusOK, map[string]any{
				"access_token":  "access",
				"refresh_token": "refresh",
				"expires_in":    300,
				"token_type":    "Bearer",
			})
		}))
		defer server.Close()

		token, err := newTestClient(server.URL).GenerateToken(context.Background(), "kim", "secret-pass")

		require.NoError(t, err)
		assert.Equal(t, "access", token.AccessToken)
		assert.Equal(t, "refresh", token.RefreshToken)
		assert.Equal(t, 300, token.ExpiresIn)
	})

	t.Run("wrong_password_is_invalid_credentials", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid_grant"})
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).GenerateToken(context.Background(), "kim", "wrong")

		assert.ErrorIs(t, err, user.ErrInvalidCredentials)
	})
}

func TestKeycloakClient_Register(t *testing.T) {
	input := user.RegisterInput{
		Username:  "kim",
		Password:  "secret-pass",
		Email:     "kim@example.com",
		FirstName: "Minsu",
		LastName:  "Kim",
		Mobile:    "010-1234-5678",
	}

	t.Run("creates_user_with_password_and_default_role", func(t *testing.T) {
		fake := newFakeKeycloak(t)
		server := httptest.NewServer(fake.handler(t))
		defer server.Close()

		id, err := newTestClient(server.URL).Register(context.Background(), input)

		require.NoError(t, err)
		assert.Equal(t, fake.userID, id)
		assert.Equal(t, []string{"secret-pass"}, fake.passwords)
		assert.Equal(t, []string{"USER"}, fake.granted)
	})

	t.Run("duplicate_username", func(t *testing.T) {
		fake := newFakeKeycloak(t)
		fake.conflict = true
		server := httptest.NewServer(fake.handler(t))
		defer server.Close()

		_, err := newTestClient(server.URL).Register(context.Background(), input)

		assert.ErrorIs(t, err, user.ErrUserDuplicated)
	})
}

func TestKeycloakClient_UpdateRoles(t *testing.T) {
	fake := newFakeKeycloak(t)
	fake.roles = []map[string]string{{"id": "role-USER", "name": "USER"}}
	server := httptest.NewServer(fake.handler(t))
	defer server.Close()

	err := newTestClient(server.URL).UpdateRoles(context.Background(), fake.userID, []string{"OWNER"})

	require.NoError(t, err)
	assert.Equal(t, 1, fake.removed, "existing realm roles are cleared first")
	assert.Equal(t, []string{"OWNER"}, fake.granted)
}

func TestKeycloakClient_UpdatePassword(t *testing.T) {
	fake := newFakeKeycloak(t)
	server := httptest.NewServer(fake.handler(t))
	defer server.Close()

	err := newTestClient(server.URL).UpdatePassword(context.Background(), fake.userID, "new-pass")

	require.NoError(t, err)
	assert.Equal(t, []string{"new-pass"}, fake.passwords)
}
