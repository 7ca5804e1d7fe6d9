package credentials

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/natefinch/atomic"

	"github.com/mlx-qa/mlx-e2e/internal/models"
	srvErrors "github.com/mlx-qa/mlx-e2e/pkg/errors"
)

// DiskStore implements Store by persisting the credential document to a JSON file.
// Writes go to a temporary file in the same folder which then replaces the document,
// so a crash mid-write never leaves a truncated file behind.
type DiskStore struct {
	path string
	mu   sync.RWMutex
}

func NewDiskStore(path string) *DiskStore {
	return &DiskStore{path: path}
}

func (s *DiskStore) Path() string {
	return s.path
}

func (s *DiskStore) Load() (models.CredentialDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.load()
}

func (s *DiskStore) Save(doc models.CredentialDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.save(doc)
}

func (s *DiskStore) Get(role models.Role) (*models.RoleCredential, error) {
	doc, err := s.Load()
	if err != nil {
		return nil, err
	}

	cred, ok := doc[role]
	if !ok {
		return nil, srvErrors.NewCredentialNotFoundError(string(role))
	}

	return &cred, nil
}

func (s *DiskStore) Update(role models.Role, fn func(cred *models.RoleCredential) error) error {
	if _, err := models.ParseRole(string(role)); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}

	cred, ok := doc[role]
	if !ok {
		return srvErrors.NewCredentialNotFoundError(string(role))
	}

	if err := fn(&cred); err != nil {
		return err
	}
	doc[role] = cred

	return s.save(doc)
}

func (s *DiskStore) load() (models.CredentialDocument, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	doc := models.CredentialDocument{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, srvErrors.NewValidationError("CredentialDocument", err)
	}

	if err := doc.Validate(); err != nil {
		return nil, err
	}

	return doc, nil
}

func (s *DiskStore) save(doc models.CredentialDocument) error {
	if err := doc.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return err
	}

	if err := atomic.WriteFile(s.path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write credential document %s: %w", s.path, err)
	}

	return nil
}
