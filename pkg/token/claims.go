package token

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mlx-qa/mlx-e2e/internal/models"
	srvErrors "github.com/mlx-qa/mlx-e2e/pkg/errors"
)

// Claims is the payload of a token issued by the account service.
type Claims struct {
	WorkspaceID   string `json:"workspaceID"`
	WorkspaceRole string `json:"workspaceRole"`
	jwt.RegisteredClaims
}

// Decode extracts role, workspace id and expiry from raw without verifying its signature.
func Decode(raw string) (*models.TokenClaims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return nil, srvErrors.NewTokenDecodeError(err)
	}

	if claims.ExpiresAt == nil {
		return nil, srvErrors.NewTokenDecodeError(errors.New("token has no exp claim"))
	}

	role, err := models.ParseRole(claims.WorkspaceRole)
	if err != nil {
		return nil, srvErrors.NewTokenDecodeError(err)
	}

	return &models.TokenClaims{
		Role:        role,
		WorkspaceID: claims.WorkspaceID,
		ExpiresAt:   claims.ExpiresAt.Time,
	}, nil
}
