package services

import (
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mlx-qa/mlx-e2e/internal/models"
	srvErrors "github.com/mlx-qa/mlx-e2e/pkg/errors"
	"github.com/mlx-qa/mlx-e2e/pkg/token"
)

const DefaultFolderName = "Default folder"

type account struct {
	email       string
	password    string
	verified    bool
	workspaceID string
	role        models.Role
	emailToken  string
}

type workspace struct {
	id           string
	name         string
	folders      []models.Folder
	restrictions *models.Restrictions
}

type profile struct {
	id          string
	workspaceID string
	folderID    string
	name        string
	running     bool
	cookies     string
}

// Session is the authenticated caller of a sandbox request.
type Session struct {
	Email       string
	WorkspaceID string
	Role        models.Role
}

// Sandbox emulates the account, back-office and launcher services in memory.
type Sandbox struct {
	mu            sync.Mutex
	accounts      map[string]*account
	refreshTokens map[string]string // refresh token -> email
	workspaces    map[string]*workspace
	profiles      map[string]*profile

	signingKey []byte
	ttl        time.Duration
	now        func() time.Time
	log        *zap.SugaredLogger
}

type SandboxOption func(s *Sandbox)

// WithSandboxClock replaces time.Now when issuing tokens.
func WithSandboxClock(now func() time.Time) SandboxOption {
	return func(s *Sandbox) {
		s.now = now
	}
}

func WithSandboxLogger(log *zap.SugaredLogger) SandboxOption {
	return func(s *Sandbox) {
		s.log = log
	}
}

func NewSandbox(signingKey string, ttl time.Duration, opts ...SandboxOption) *Sandbox {
	s := &Sandbox{
		accounts:      make(map[string]*account),
		refreshTokens: make(map[string]string),
		workspaces:    make(map[string]*workspace),
		profiles:      make(map[string]*profile),
		signingKey:    []byte(signingKey),
		ttl:           ttl,
		now:           time.Now,
		log:           zap.NewNop().Sugar(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// SignUp creates an unverified owner account with its workspace and default folder.
func (s *Sandbox) SignUp(email, password string) error {
	if email == "" || password == "" {
		return srvErrors.NewValidationError("UserCreds", errors.New("email and password are required"))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, found := s.accounts[email]; found {
		return srvErrors.NewAccountExistsError(email)
	}

	ws := &workspace{
		id:   uuid.NewString(),
		name: email,
		folders: []models.Folder{
			{FolderID: uuid.NewString(), Name: DefaultFolderName},
		},
	}
	s.workspaces[ws.id] = ws
	s.accounts[email] = &account{
		email:       email,
		password:    password,
		workspaceID: ws.id,
		role:        models.RoleOwner,
		emailToken:  uuid.NewString(),
	}

	s.log.Infow("account created", "email", email, "workspace_id", ws.id)
	return nil
}

// EmailToken returns the verification token issued to email at sign-up.
func (s *Sandbox) EmailToken(email string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, found := s.accounts[email]
	if !found {
		return "", srvErrors.NewResourceNotFoundError("account " + email)
	}
	return acc.emailToken, nil
}

// SignIn issues a token pair for valid credentials.
func (s *Sandbox) SignIn(email, password string) (string, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, found := s.accounts[email]
	if !found || acc.password != password {
		return "", "", srvErrors.NewInvalidCredentialsError()
	}
	return s.issue(acc)
}

// Refresh trades a refresh token for a new pair. The old refresh token is revoked.
func (s *Sandbox) Refresh(email, workspaceID, refreshToken string) (string, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	owner, found := s.refreshTokens[refreshToken]
	if !found || owner != email {
		return "", "", srvErrors.NewAuthenticationError("invalid refresh token")
	}

	acc := s.accounts[email]
	if workspaceID != "" && workspaceID != acc.workspaceID {
		return "", "", srvErrors.NewForbiddenError("workspace " + workspaceID + " does not belong to " + email)
	}

	delete(s.refreshTokens, refreshToken)
	return s.issue(acc)
}

// Authenticate verifies a bearer token issued by this sandbox.
func (s *Sandbox) Authenticate(raw string) (*Session, error) {
	claims := &token.Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return s.signingKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, srvErrors.NewInvalidTokenError(err)
	}

	role, err := models.ParseRole(claims.WorkspaceRole)
	if err != nil {
		return nil, srvErrors.NewInvalidTokenError(err)
	}

	return &Session{Email: claims.Subject, WorkspaceID: claims.WorkspaceID, Role: role}, nil
}

// VerifyEmail marks the account verified when emailToken matches the one issued at sign-up.
func (s *Sandbox) VerifyEmail(session *Session, email, emailToken string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if session.Email != email {
		return srvErrors.NewForbiddenError("token does not belong to " + email)
	}

	acc, found := s.accounts[email]
	if !found {
		return srvErrors.NewResourceNotFoundError("account " + email)
	}
	if emailToken == "" || acc.emailToken != emailToken {
		return srvErrors.NewValidationError("EmailToken", errors.New("invalid email token"))
	}

	acc.verified = true
	return nil
}

func (s *Sandbox) Workspaces(session *Session) []models.Workspace {
	s.mu.Lock()
	defer s.mu.Unlock()

	ws, found := s.workspaces[session.WorkspaceID]
	if !found {
		return []models.Workspace{}
	}
	return []models.Workspace{{WorkspaceID: ws.id, Name: ws.name, Role: string(session.Role)}}
}

func (s *Sandbox) Folders(session *Session) ([]models.Folder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ws, found := s.workspaces[session.WorkspaceID]
	if !found {
		return nil, srvErrors.NewResourceNotFoundError("workspace " + session.WorkspaceID)
	}
	return append([]models.Folder(nil), ws.folders...), nil
}

// SetRestrictions assigns a plan to a workspace.
func (s *Sandbox) SetRestrictions(req models.RestrictionsRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ws, found := s.workspaces[req.WorkspaceID]
	if !found {
		return srvErrors.NewResourceNotFoundError("workspace " + req.WorkspaceID)
	}
	restrictions := req.Restrictions
	ws.restrictions = &restrictions
	return nil
}

// Restrictions returns the plan of a workspace, or nil when none was assigned.
func (s *Sandbox) Restrictions(workspaceID string) *models.Restrictions {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ws, found := s.workspaces[workspaceID]; found {
		return ws.restrictions
	}
	return nil
}

// CreateProfiles creates req.Times profiles in the caller's folder.
// The account must be verified and its workspace must carry a plan.
func (s *Sandbox) CreateProfiles(session *Session, req models.CreateProfileRequest) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if acc, found := s.accounts[session.Email]; !found || !acc.verified {
		return nil, srvErrors.NewForbiddenError("email is not verified")
	}

	ws, found := s.workspaces[session.WorkspaceID]
	if !found {
		return nil, srvErrors.NewResourceNotFoundError("workspace " + session.WorkspaceID)
	}
	if ws.restrictions == nil {
		return nil, srvErrors.NewForbiddenError("workspace has no plan")
	}
	if !hasFolder(ws, req.FolderID) {
		return nil, srvErrors.NewResourceNotFoundError("folder " + req.FolderID)
	}
	if limit := ws.restrictions.CloudProfilesCount; limit > 0 && s.countProfiles(ws.id)+req.Times > limit {
		return nil, srvErrors.NewForbiddenError("cloud profile limit reached")
	}

	ids := make([]string, 0, req.Times)
	for i := 0; i < req.Times; i++ {
		p := &profile{
			id:          uuid.NewString(),
			workspaceID: ws.id,
			folderID:    req.FolderID,
			name:        req.Name,
		}
		s.profiles[p.id] = p
		ids = append(ids, p.id)
	}

	s.log.Infow("profiles created", "workspace_id", ws.id, "ids", ids)
	return ids, nil
}

// RemoveProfiles deletes the caller's profiles. Unknown ids fail the whole call.
func (s *Sandbox) RemoveProfiles(session *Session, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range ids {
		if _, err := s.ownedProfile(session, id); err != nil {
			return err
		}
	}
	for _, id := range ids {
		delete(s.profiles, id)
	}
	return nil
}

// StartProfile marks a profile of folderID as running.
func (s *Sandbox) StartProfile(session *Session, folderID, profileID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.ownedProfile(session, profileID)
	if err != nil {
		return err
	}
	if p.folderID != folderID {
		return srvErrors.NewResourceNotFoundError("profile " + profileID + " in folder " + folderID)
	}
	if p.running {
		return srvErrors.NewConflictError("running profile", profileID)
	}
	p.running = true
	return nil
}

// StopProfile stops a running profile.
func (s *Sandbox) StopProfile(session *Session, profileID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.ownedProfile(session, profileID)
	if err != nil {
		return err
	}
	if !p.running {
		return srvErrors.NewResourceNotFoundError("running profile " + profileID)
	}
	p.running = false
	return nil
}

// IsRunning reports whether a profile is running.
func (s *Sandbox) IsRunning(profileID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, found := s.profiles[profileID]
	return found && p.running
}

// ImportCookies stores cookies on a profile.
func (s *Sandbox) ImportCookies(session *Session, req models.CookieImportRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.ownedProfile(session, req.ProfileID)
	if err != nil {
		return err
	}
	if p.folderID != req.FolderID {
		return srvErrors.NewResourceNotFoundError("profile " + req.ProfileID + " in folder " + req.FolderID)
	}
	p.cookies = req.Cookies
	return nil
}

// issue must be called with s.mu held.
func (s *Sandbox) issue(acc *account) (string, string, error) {
	now := s.now()
	claims := token.Claims{
		WorkspaceID:   acc.workspaceID,
		WorkspaceRole: string(acc.role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   acc.email,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
	if err != nil {
		return "", "", err
	}

	refresh := uuid.NewString()
	s.refreshTokens[refresh] = acc.email
	return signed, refresh, nil
}

func (s *Sandbox) ownedProfile(session *Session, id string) (*profile, error) {
	p, found := s.profiles[id]
	if !found || p.workspaceID != session.WorkspaceID {
		return nil, srvErrors.NewResourceNotFoundError("profile " + id)
	}
	return p, nil
}

func (s *Sandbox) countProfiles(workspaceID string) int {
	n := 0
	for _, p := range s.profiles {
		if p.workspaceID == workspaceID {
			n++
		}
	}
	return n
}

func hasFolder(ws *workspace, folderID string) bool {
	for _, f := range ws.folders {
		if f.FolderID == folderID {
			return true
		}
	}
	return false
}
