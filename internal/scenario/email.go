package scenario

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/natefinch/atomic"

	srvErrors "github.com/mlx-qa/mlx-e2e/pkg/errors"
)

// EmailSequence derives unique sign-up emails from an integer counter file.
// A missing counter file counts as 0.
type EmailSequence struct {
	path   string
	prefix string
	domain string

	mu      sync.Mutex
	next    int
	pending bool
}

func NewEmailSequence(path, prefix, domain string) *EmailSequence {
	return &EmailSequence{path: path, prefix: prefix, domain: domain}
}

// Next returns <prefix><n><domain>. The first call since NewEmailSequence or the
// last Commit uses the stored counter plus one; later calls keep counting from there.
// The counter file is left untouched until Commit.
func (s *EmailSequence) Next() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.pending {
		current, err := s.read()
		if err != nil {
			return "", err
		}
		s.next = current
		s.pending = true
	}

	s.next++
	return fmt.Sprintf("%s%d%s", s.prefix, s.next, s.domain), nil
}

// Commit writes the counter handed out by the last Next.
func (s *EmailSequence) Commit() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.next == 0 {
		return errors.New("commit called before next")
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory for %s: %w", s.path, err)
		}
	}
	if err := atomic.WriteFile(s.path, strings.NewReader(strconv.Itoa(s.next))); err != nil {
		return fmt.Errorf("failed to write email counter: %w", err)
	}
	s.pending = false
	return nil
}

func (s *EmailSequence) read() (int, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read email counter: %w", err)
	}

	n, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, srvErrors.NewValidationError("email counter", err)
	}
	return n, nil
}
