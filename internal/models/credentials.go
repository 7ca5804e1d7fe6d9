package models

import (
	"sort"

	srvErrors "github.com/mlx-qa/mlx-e2e/pkg/errors"
)

type Role string

const (
	RoleOwner    Role = "owner"
	RoleManager  Role = "manager"
	RoleUser     Role = "user"
	RoleLauncher Role = "launcher"
)

// Roles lists every role a credential document may hold.
var Roles = []Role{RoleOwner, RoleManager, RoleUser, RoleLauncher}

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleOwner, RoleManager, RoleUser, RoleLauncher:
		return Role(s), nil
	default:
		return "", srvErrors.NewUnknownRoleError(s)
	}
}

// RoleCredential is the persisted login state of one role.
type RoleCredential struct {
	Email        string `json:"email" validate:"required"`
	Password     string `json:"password" validate:"required"`
	WorkspaceID  string `json:"workspace_id,omitempty"`
	FolderID     string `json:"folder_id,omitempty"`
	Token        string `json:"token,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// CredentialDocument maps a role to its credential. It is the only persisted artifact.
type CredentialDocument map[Role]RoleCredential

// Validate checks that every key is a known role and every credential carries an email and a password.
func (d CredentialDocument) Validate() error {
	for role, cred := range d {
		if _, err := ParseRole(string(role)); err != nil {
			return srvErrors.NewValidationError("CredentialDocument", err)
		}
		if err := validate.Struct(cred); err != nil {
			return srvErrors.NewValidationError("CredentialDocument."+string(role), err)
		}
	}
	return nil
}

// Roles returns the roles present in the document in a stable order.
func (d CredentialDocument) Roles() []Role {
	roles := make([]Role, 0, len(d))
	for r := range d {
		roles = append(roles, r)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i] < roles[j] })
	return roles
}
