package api

import (
	"context"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/mlx-qa/mlx-e2e/internal/models"
)

const (
	verificationTokenPath = "/emp/verification_token"
	restrictionsPath      = "/emp/restrictions"

	DefaultEmpUsername = "admin"
)

// EmpApi provides a client to the EMP back-office endpoints, protected by basic auth.
type EmpApi struct {
	requester
	username string
	password string
}

func DefaultEmpApi(baseURL, username, password string, log *zap.SugaredLogger) *EmpApi {
	return NewEmpApi(baseURL, username, password, nil, log)
}

func NewEmpApi(baseURL, username, password string, httpClient *http.Client, log *zap.SugaredLogger) *EmpApi {
	if username == "" {
		username = DefaultEmpUsername
	}
	return &EmpApi{
		requester: newRequester("EMP-API", baseURL, httpClient, log),
		username:  username,
		password:  password,
	}
}

// GetEmailToken retrieves the verification token sent to email.
func (e *EmpApi) GetEmailToken(ctx context.Context, email string) (*Result, error) {
	query := url.Values{}
	query.Set("email", email)
	return e.request(ctx, http.MethodGet, e.baseURL+verificationTokenPath, nil,
		withQuery(query), withBasicAuth(e.username, e.password))
}

// SetRestrictions assigns a plan to a workspace.
func (e *EmpApi) SetRestrictions(ctx context.Context, restrictions models.RestrictionsRequest) (*Result, error) {
	return e.request(ctx, http.MethodPost, e.baseURL+restrictionsPath, restrictions,
		withBasicAuth(e.username, e.password))
}
