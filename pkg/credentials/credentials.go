package credentials

import (
	"errors"

	"github.com/mlx-qa/mlx-e2e/internal/models"
)

// ErrNotFound is returned when the credential document does not exist.
var ErrNotFound = errors.New("credential document not found")

// Store defines the interface for credential document storage.
type Store interface {
	// Load reads the whole document.
	// Returns ErrNotFound if no document is stored.
	Load() (models.CredentialDocument, error)

	// Save replaces the whole document.
	Save(doc models.CredentialDocument) error

	// Get returns the credential of a single role.
	Get(role models.Role) (*models.RoleCredential, error)

	// Update loads the document, applies fn to the role's credential and
	// saves the whole document back as a single operation.
	Update(role models.Role, fn func(cred *models.RoleCredential) error) error
}
