package api

import (
	"context"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/mlx-qa/mlx-e2e/internal/models"
)

const (
	signupPath         = "/user/signup"
	signinPath         = "/user/signin"
	refreshTokenPath   = "/user/refresh_token"
	verifyEmailPath    = "/user/verify_email"
	workspacesPath     = "/user/workspaces"
	foldersPath        = "/workspace/folders"
	createProfilePath  = "/profile/create"
	removeProfilesPath = "/profile/remove"
)

// MlxApi provides a client to interact with the MLX account service.
type MlxApi struct {
	requester
}

// DefaultMlxApi creates an MlxApi client with a default HTTP client that skips TLS verification.
func DefaultMlxApi(baseURL string, log *zap.SugaredLogger) *MlxApi {
	return NewMlxApi(baseURL, nil, log)
}

// NewMlxApi creates an MlxApi client with a custom HTTP client, useful for test customization.
func NewMlxApi(baseURL string, httpClient *http.Client, log *zap.SugaredLogger) *MlxApi {
	return &MlxApi{requester: newRequester("MLX-API", baseURL, httpClient, log)}
}

// SignUp creates a new account.
func (m *MlxApi) SignUp(ctx context.Context, email, password string) (*Result, error) {
	body := models.SignupRequest{Creds: models.UserCreds{Email: email, Password: password}}
	return m.request(ctx, http.MethodPost, m.baseURL+signupPath, body)
}

// SignIn authenticates and returns the token and refresh token.
func (m *MlxApi) SignIn(ctx context.Context, email, password string) (*Result, error) {
	body := models.UserCreds{Email: email, Password: password}
	return m.request(ctx, http.MethodPost, m.baseURL+signinPath, body)
}

// RefreshToken trades a refresh token for a new token pair.
func (m *MlxApi) RefreshToken(ctx context.Context, email, workspaceID, refreshToken string) (*Result, error) {
	body := models.RefreshTokenRequest{
		Email:        email,
		RefreshToken: refreshToken,
		WorkspaceID:  workspaceID,
	}
	return m.request(ctx, http.MethodPost, m.baseURL+refreshTokenPath, body)
}

// VerifyEmail confirms the account email with the token issued by EMP.
func (m *MlxApi) VerifyEmail(ctx context.Context, email, emailToken, jwt string) (*Result, error) {
	query := url.Values{}
	query.Set("email", email)
	query.Set("token", emailToken)
	return m.request(ctx, http.MethodGet, m.baseURL+verifyEmailPath, nil, withQuery(query), withBearer(jwt))
}

// GetWorkspaces lists the workspaces available to the token's user.
func (m *MlxApi) GetWorkspaces(ctx context.Context, token string) (*Result, error) {
	return m.request(ctx, http.MethodGet, m.baseURL+workspacesPath, nil, withBearer(token))
}

// GetFolders lists the folders of the token's workspace.
func (m *MlxApi) GetFolders(ctx context.Context, token string) (*Result, error) {
	return m.request(ctx, http.MethodGet, m.baseURL+foldersPath, nil, withBearer(token))
}

func (m *MlxApi) CreateProfile(ctx context.Context, token string, profile models.CreateProfileRequest) (*Result, error) {
	return m.request(ctx, http.MethodPost, m.baseURL+createProfilePath, profile, withBearer(token))
}

func (m *MlxApi) DeleteProfiles(ctx context.Context, token string, ids []string, permanently bool) (*Result, error) {
	body := models.RemoveProfilesRequest{IDs: ids, Permanently: permanently}
	return m.request(ctx, http.MethodPost, m.baseURL+removeProfilesPath, body, withBearer(token))
}
