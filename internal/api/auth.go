package api

import (
	"context"
	"encoding/base64"
	"strings"

	"github.com/tidwall/gjson"
)

// AuthHeader carries the JWT on every authenticated request.
const AuthHeader = "X-Authorization"

// Login exchanges credentials for a JWT pair.
func (s AuthService) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	return login(ctx, s, username, password)
}

func login(ctx context.Context, r Invoker, username, password string) (*LoginResponse, error) {
	if strings.TrimSpace(username) == "" {
		return nil, &AuthError{Reason: "username is required"}
	}
	var out LoginResponse
	body := LoginRequest{Username: username, Password: password}
	if err := invokeInto(ctx, r, "login", Call{Body: body}, &out); err != nil {
		return nil, err
	}
	if out.Token == "" {
		return nil, &AuthError{Reason: "server returned no token"}
	}
	return &out, nil
}

// Refresh trades a refresh token for a new JWT pair.
func (s AuthService) Refresh(ctx context.Context, refreshToken string) (*LoginResponse, error) {
	var out LoginResponse
	body := map[string]string{"refreshToken": refreshToken}
	if err := invokeInto(ctx, s, "refreshToken", Call{Body: body}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CurrentUser returns the user the token belongs to.
func (s AuthService) CurrentUser(ctx context.Context) (*User, error) {
	var out User
	if err := invokeInto(ctx, s, "getUser", Call{}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout invalidates the current session on the server.
func (s AuthService) Logout(ctx context.Context) error {
	return invokeInto(ctx, s, "logout", Call{}, nil)
}

// TokenUserID returns the userId claim of a ThingsBoard JWT, or "" when
// token is not a decodable JWT. The signature is not checked.
func TokenUserID(token string) string {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return ""
	}
	payload, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(parts[1], "="))
	if err != nil {
		return ""
	}
	return gjson.GetBytes(payload, "userId").String()
}
