package api

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/mlx-qa/mlx-e2e/internal/models"
)

const cookieImportPath = "/cookie_import"

// LauncherApi provides a client to the browser launcher.
// Stopping a profile is only exposed by the v1 API, hence the second base URL.
type LauncherApi struct {
	requester
	v1BaseURL string
}

func DefaultLauncherApi(baseURL, v1BaseURL string, log *zap.SugaredLogger) *LauncherApi {
	return NewLauncherApi(baseURL, v1BaseURL, nil, log)
}

func NewLauncherApi(baseURL, v1BaseURL string, httpClient *http.Client, log *zap.SugaredLogger) *LauncherApi {
	if v1BaseURL == "" {
		v1BaseURL = baseURL
	}
	return &LauncherApi{
		requester: newRequester("Launcher-API", baseURL, httpClient, log),
		v1BaseURL: v1BaseURL,
	}
}

// StartProfile launches the profile in the given folder.
func (l *LauncherApi) StartProfile(ctx context.Context, token, folderID, profileID string) (*Result, error) {
	u := fmt.Sprintf("%s/profile/f/%s/p/%s/start", l.baseURL, folderID, profileID)
	return l.request(ctx, http.MethodGet, u, nil, withBearer(token))
}

// StopProfile stops a running profile.
func (l *LauncherApi) StopProfile(ctx context.Context, token, profileID string) (*Result, error) {
	u := fmt.Sprintf("%s/profile/stop/p/%s", l.v1BaseURL, profileID)
	return l.request(ctx, http.MethodGet, u, nil, withBearer(token))
}

func (l *LauncherApi) ImportCookies(ctx context.Context, token string, body models.CookieImportRequest) (*Result, error) {
	return l.request(ctx, http.MethodPost, l.baseURL+cookieImportPath, body, withBearer(token))
}
