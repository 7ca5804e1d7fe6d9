package token

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mlx-qa/mlx-e2e/internal/models"
	"github.com/mlx-qa/mlx-e2e/pkg/api"
	"github.com/mlx-qa/mlx-e2e/pkg/credentials"
)

// Refresher is the part of the account API the manager needs.
type Refresher interface {
	RefreshToken(ctx context.Context, email, workspaceID, refreshToken string) (*api.Result, error)
}

type Manager struct {
	store     credentials.Store
	refresher Refresher
	now       func() time.Time
	log       *zap.SugaredLogger
}

type Option func(m *Manager)

// WithClock replaces time.Now when checking expiry.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

func WithLogger(log *zap.SugaredLogger) Option {
	return func(m *Manager) {
		m.log = log
	}
}

func NewManager(store credentials.Store, refresher Refresher, opts ...Option) *Manager {
	m := &Manager{
		store:     store,
		refresher: refresher,
		now:       time.Now,
		log:       zap.NewNop().Sugar(),
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// EnsureValidToken returns cred's token when it has not expired yet.
// Otherwise it refreshes it with cred's email, workspace id and refresh token,
// persists the new pair and returns the new token.
func (m *Manager) EnsureValidToken(ctx context.Context, cred models.RoleCredential) (string, error) {
	m.log.Info("Decoding the token to verify exp_time")
	claims, err := Decode(cred.Token)
	if err != nil {
		m.log.Errorw("failed to decode token", "email", cred.Email, "error", err)
		return "", err
	}

	if claims.Valid(m.now()) {
		m.log.Infow("Returning the token, because it is still valid", "role", claims.Role, "exp", claims.ExpiresAt)
		return cred.Token, nil
	}

	m.log.Infof("Token is expired. Fetching a new %s token.", claims.Role)
	res, err := m.refresher.RefreshToken(ctx, cred.Email, cred.WorkspaceID, cred.RefreshToken)
	if err != nil {
		m.log.Errorw("failed to refresh token", "role", claims.Role, "error", err)
		return "", err
	}

	parsed, err := models.Parse[models.SigninResponse](res.Body)
	if err != nil {
		m.log.Errorw("Validation error occurred", "role", claims.Role, "status", res.StatusCode, "error", err)
		return "", err
	}

	m.log.Infof("Updating the %s token in the user data file.", claims.Role)
	if err := m.Persist(parsed.Data.Token, parsed.Data.RefreshToken, ""); err != nil {
		return "", err
	}

	return parsed.Data.Token, nil
}

// EnsureRoleToken is EnsureValidToken for the credential stored under role.
func (m *Manager) EnsureRoleToken(ctx context.Context, role models.Role) (string, error) {
	cred, err := m.store.Get(role)
	if err != nil {
		return "", err
	}
	return m.EnsureValidToken(ctx, *cred)
}

// Persist writes token, refresh token and the workspace id carried by token into
// the record of the role token was issued for. folderID is written when non-empty.
func (m *Manager) Persist(token, refreshToken, folderID string) error {
	return m.write(token, func(cred *models.RoleCredential, claims *models.TokenClaims) {
		cred.WorkspaceID = claims.WorkspaceID
		cred.Token = token
		cred.RefreshToken = refreshToken
		if folderID != "" {
			cred.FolderID = folderID
		}
	})
}

// RecordSignIn persists a fresh sign-in, including the email it was made with.
func (m *Manager) RecordSignIn(email, token, refreshToken, folderID string) error {
	return m.write(token, func(cred *models.RoleCredential, claims *models.TokenClaims) {
		cred.Email = email
		cred.WorkspaceID = claims.WorkspaceID
		cred.Token = token
		cred.RefreshToken = refreshToken
		if folderID != "" {
			cred.FolderID = folderID
		}
	})
}

func (m *Manager) write(token string, apply func(cred *models.RoleCredential, claims *models.TokenClaims)) error {
	claims, err := Decode(token)
	if err != nil {
		return err
	}

	err = m.store.Update(claims.Role, func(cred *models.RoleCredential) error {
		apply(cred, claims)
		return nil
	})
	if err != nil {
		m.log.Errorw("failed to update credential document", "role", claims.Role, "error", err)
		return fmt.Errorf("failed to persist %s token: %w", claims.Role, err)
	}

	return nil
}
