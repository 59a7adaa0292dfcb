package user

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/gofrs/uuid"
	"github.com/yonggyo1125/delivery-6h/internal/config"
)

// KeycloakClient talks to the identity provider over its REST API. Admin
// operations authenticate with the admin account against the master realm;
// the platform itself never stores credentials.
type KeycloakClient struct {
	cfg        config.KeycloakConfig
	httpClient *http.Client
}

func NewKeycloakClient(cfg config.KeycloakConfig) *KeycloakClient {
	return &KeycloakClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type userRepresentation struct {
	ID            string              `json:"id,omitempty"`
	Username      string              `json:"username,omitempty"`
	Email         string              `json:"email,omitempty"`
	FirstName     string              `json:"firstName,omitempty"`
	LastName      string              `json:"lastName,omitempty"`
	Enabled       bool                `json:"enabled"`
	EmailVerified bool                `json:"emailVerified"`
	Attributes    map[string][]string `json:"attributes,omitempty"`
}

type credentialRepresentation struct {
	Type      string `json:"type"`
	Value     string `json:"value"`
	Temporary bool   `json:"temporary"`
}

type roleRepresentation struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// GenerateToken exchanges a username and password for tokens using the
// resource-owner password grant.
func (c *KeycloakClient) GenerateToken(ctx context.Context, username, password string) (*TokenInfo, error) {
	form := url.Values{}
	form.Set("grant_type", "password")
	form.Set("client_id", c.cfg.ClientID)
	form.Set("client_secret", c.cfg.ClientSecret)
	form.Set("username", username)
	form.Set("password", password)
	form.Set("scope", "openid profile email")

	endpoint := fmt.Sprintf("%s/realms/%s/protocol/openid-connect/token", c.cfg.ServerURL, c.cfg.Realm)
	return c.requestToken(ctx, endpoint, form)
}

// Register creates the user, sets a permanent password and grants the USER
// realm role, mirroring the provider's three-step admin flow.
func (c *KeycloakClient) Register(ctx context.Context, input RegisterInput) (uuid.UUID, error) {
	token, err := c.adminToken(ctx)
	if err != nil {
		return uuid.Nil, err
	}

	rep := userRepresentation{
		Username:      input.Username,
		Email:         input.Email,
		FirstName:     input.FirstName,
		LastName:      input.LastName,
		Enabled:       true,
		EmailVerified: true,
	}
	if input.Mobile != "" {
		rep.Attributes = map[string][]string{"mobile": {input.Mobile}}
	}

	endpoint := fmt.Sprintf("%s/admin/realms/%s/users", c.cfg.ServerURL, c.cfg.Realm)
	resp, err := c.doJSON(ctx, http.MethodPost, endpoint, token, rep)
	if err != nil {
		return uuid.Nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusCreated:
	case http.StatusConflict:
		return uuid.Nil, ErrUserDuplicated
	default:
		return uuid.Nil, fmt.Errorf("keycloak: user creation returned status %d", resp.StatusCode)
	}

	userID, err := createdID(resp)
	if err != nil {
		return uuid.Nil, err
	}

	if err := c.resetPassword(ctx, token, userID, input.Password); err != nil {
		return uuid.Nil, err
	}

	if err := c.grantRoles(ctx, token, userID, []string{"USER"}); err != nil {
		return uuid.Nil, err
	}

	return userID, nil
}

// Update merges the non-empty input fields into the stored profile.
func (c *KeycloakClient) Update(ctx context.Context, userID uuid.UUID, input UpdateInput) error {
	token, err := c.adminToken(ctx)
	if err != nil {
		return err
	}

	rep, err := c.getUser(ctx, token, userID)
	if err != nil {
		return err
	}

	if input.FirstName != "" {
		rep.FirstName = input.FirstName
	}
	if input.LastName != "" {
		rep.LastName = input.LastName
	}
	if input.Email != "" {
		rep.Email = input.Email
	}
	if input.Mobile != "" {
		if rep.Attributes == nil {
			rep.Attributes = map[string][]string{}
		}
		rep.Attributes["mobile"] = []string{input.Mobile}
	}

	endpoint := fmt.Sprintf("%s/admin/realms/%s/users/%s", c.cfg.ServerURL, c.cfg.Realm, userID)
	resp, err := c.doJSON(ctx, http.MethodPut, endpoint, token, rep)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("keycloak: user update returned status %d", resp.StatusCode)
	}
	return nil
}

// UpdatePassword replaces the stored credential with a permanent password.
func (c *KeycloakClient) UpdatePassword(ctx context.Context, userID uuid.UUID, newPassword string) error {
	token, err := c.adminToken(ctx)
	if err != nil {
		return err
	}
	return c.resetPassword(ctx, token, userID, newPassword)
}

// UpdateRoles removes the user's current realm roles and grants the given
// set instead.
func (c *KeycloakClient) UpdateRoles(ctx context.Context, userID uuid.UUID, roleNames []string) error {
	token, err := c.adminToken(ctx)
	if err != nil {
		return err
	}

	endpoint := fmt.Sprintf("%s/admin/realms/%s/users/%s/role-mappings/realm", c.cfg.ServerURL, c.cfg.Realm, userID)

	var current []roleRepresentation
	if err := c.getJSON(ctx, endpoint, token, &current); err != nil {
		return err
	}

	if len(current) > 0 {
		resp, err := c.doJSON(ctx, http.MethodDelete, endpoint, token, current)
		if err != nil {
			return err
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusNoContent {
			return fmt.Errorf("keycloak: role removal returned status %d", resp.StatusCode)
		}
	}

	return c.grantRoles(ctx, token, userID, roleNames)
}

func (c *KeycloakClient) adminToken(ctx context.Context) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "password")
	form.Set("client_id", "admin-cli")
	form.Set("username", c.cfg.AdminUser)
	form.Set("password", c.cfg.AdminPass)

	endpoint := fmt.Sprintf("%s/realms/master/protocol/openid-connect/token", c.cfg.ServerURL)
	token, err := c.requestToken(ctx, endpoint, form)
	if err != nil {
		return "", fmt.Errorf("keycloak: admin authentication failed: %w", err)
	}
	return token.AccessToken, nil
}

func (c *KeycloakClient) requestToken(ctx context.Context, endpoint string, form url.Values) (*TokenInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("keycloak: failed to build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("keycloak: token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusBadRequest {
		return nil, ErrInvalidCredentials
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("keycloak: token endpoint returned status %d", resp.StatusCode)
	}

	var token TokenInfo
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return nil, fmt.Errorf("keycloak: failed to decode token response: %w", err)
	}
	return &token, nil
}

func (c *KeycloakClient) resetPassword(ctx context.Context, token string, userID uuid.UUID, password string) error {
	cred := credentialRepresentation{
		Type:      "password",
		Value:     password,
		Temporary: false,
	}

	endpoint := fmt.Sprintf("%s/admin/realms/%s/users/%s/reset-password", c.cfg.ServerURL, c.cfg.Realm, userID)
	resp, err := c.doJSON(ctx, http.MethodPut, endpoint, token, cred)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("keycloak: password reset returned status %d", resp.StatusCode)
	}
	return nil
}

func (c *KeycloakClient) grantRoles(ctx context.Context, token string, userID uuid.UUID, roleNames []string) error {
	roles := make([]roleRepresentation, 0, len(roleNames))
	for _, name := range roleNames {
		endpoint := fmt.Sprintf("%s/admin/realms/%s/roles/%s", c.cfg.ServerURL, c.cfg.Realm, url.PathEscape(name))
		var role roleRepresentation
		if err := c.getJSON(ctx, endpoint, token, &role); err != nil {
			return fmt.Errorf("keycloak: failed to look up role %q: %w", name, err)
		}
		roles = append(roles, role)
	}

	endpoint := fmt.Sprintf("%s/admin/realms/%s/users/%s/role-mappings/realm", c.cfg.ServerURL, c.cfg.Realm, userID)
	resp, err := c.doJSON(ctx, http.MethodPost, endpoint, token, roles)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("keycloak: role grant returned status %d", resp.StatusCode)
	}
	return nil
}

func (c *KeycloakClient) getUser(ctx context.Context, token string, userID uuid.UUID) (*userRepresentation, error) {
	endpoint := fmt.Sprintf("%s/admin/realms/%s/users/%s", c.cfg.ServerURL, c.cfg.Realm, userID)

	var rep userRepresentation
	if err := c.getJSON(ctx, endpoint, token, &rep); err != nil {
		return nil, err
	}
	return &rep, nil
}

func (c *KeycloakClient) doJSON(ctx context.Context, method, endpoint, token string, body any) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("keycloak: failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("keycloak: failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("keycloak: request failed: %w", err)
	}
	return resp, nil
}

func (c *KeycloakClient) getJSON(ctx context.Context, endpoint, token string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("keycloak: failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("keycloak: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrUserNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("keycloak: request returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("keycloak: failed to decode response: %w", err)
	}
	return nil
}

// createdID extracts the new resource id from the Location header of a 201
// response.
func createdID(resp *http.Response) (uuid.UUID, error) {
	io.Copy(io.Discard, resp.Body)

	location := resp.Header.Get("Location")
	if location == "" {
		return uuid.Nil, fmt.Errorf("keycloak: creation response missing Location header")
	}

	id, err := uuid.FromString(path.Base(location))
	if err != nil {
		return uuid.Nil, fmt.Errorf("keycloak: invalid created user id in %q: %w", location, err)
	}
	return id, nil
}
