package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/httech/voltgo/internal/pkg/metrics"
)

// ErrNoToken is returned when a login succeeds but carries no token
var ErrNoToken = errors.New("login response did not include a token")

// Login exchanges a username and password for a bearer token.
// The returned token is not installed on the client; callers build a session from it.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	req := LoginRequest{
		Username: username,
		Password: password,
	}
	if err := schema.Struct(req); err != nil {
		return nil, fmt.Errorf("username and password are required: %w", err)
	}

	u, err := parseEndpoint(c.authURL + "/users")
	if err != nil {
		metrics.RecordFetch("login", metrics.OutcomeInvalidURL, 0)
		return nil, err
	}

	body, err := c.do(ctx, http.MethodPost, u, "login", "", req)
	if err != nil {
		return nil, err
	}

	resp, err := decodeLogin(body)
	decoded("login", err)
	if err != nil {
		return nil, err
	}

	c.log.With("username", username).Info("Login succeeded")
	return resp, nil
}

func decodeLogin(body []byte) (*LoginResponse, error) {
	var resp LoginResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &DecodeError{Index: -1, Err: err}
	}
	if strings.TrimSpace(resp.Token) == "" {
		return nil, &DecodeError{Index: -1, Field: "token", Err: ErrNoToken}
	}
	return &resp, nil
}
