package scenario

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/mlx-qa/mlx-e2e/internal/config"
	"github.com/mlx-qa/mlx-e2e/internal/models"
	"github.com/mlx-qa/mlx-e2e/pkg/api"
	srvErrors "github.com/mlx-qa/mlx-e2e/pkg/errors"
)

const (
	StepSignUp          = "sign_up"
	StepGetEmailToken   = "get_email_token"
	StepSignInToVerify  = "sign_in_to_verify"
	StepVerifyEmail     = "verify_email"
	StepSignIn          = "sign_in"
	StepGetWorkspaceID  = "get_workspace_id"
	StepSetRestrictions = "set_restrictions"
	StepGetFolderID     = "get_folder_id"
	StepPersistOwner    = "persist_owner"
	StepCreateProfile   = "create_profile"
	StepLaunchProfile   = "launch_profile"
	StepStopProfile     = "stop_profile"
	StepDeleteProfile   = "delete_profile"
)

const (
	signupMessage   = "Successful signup"
	verifiedMessage = "Email successfully verified"
)

// Persister records a fresh sign-in in the credential document.
type Persister interface {
	RecordSignIn(email, token, refreshToken, folderID string) error
}

// state carries each step's output to the following steps.
type state struct {
	email       string
	password    string
	emailToken  string
	verifyToken string
	token       string
	refresh     string
	workspaceID string
	folderID    string
	profileIDs  []string
}

type step struct {
	name string
	run  func(ctx context.Context, st *state) error
}

// SignUpFlow signs up a new owner and walks it through the whole account and profile lifecycle.
type SignUpFlow struct {
	mlx       *api.MlxApi
	emp       *api.EmpApi
	launcher  *api.LauncherApi
	cfg       config.Signup
	persister Persister
	sleep     func(ctx context.Context, d time.Duration) error
	log       *zap.SugaredLogger
}

type FlowOption func(f *SignUpFlow)

// WithPersister records the owner sign-in when the flow is configured to persist it.
func WithPersister(p Persister) FlowOption {
	return func(f *SignUpFlow) {
		f.persister = p
	}
}

func WithFlowLogger(log *zap.SugaredLogger) FlowOption {
	return func(f *SignUpFlow) {
		f.log = log
	}
}

// WithSleep replaces the wait between launching and stopping the profile.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) FlowOption {
	return func(f *SignUpFlow) {
		f.sleep = sleep
	}
}

func NewSignUpFlow(mlx *api.MlxApi, emp *api.EmpApi, launcher *api.LauncherApi, cfg config.Signup, opts ...FlowOption) *SignUpFlow {
	f := &SignUpFlow{
		mlx:      mlx,
		emp:      emp,
		launcher: launcher,
		cfg:      cfg,
		sleep:    sleepContext,
		log:      zap.NewNop().Sugar(),
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

// Run executes the steps in order and stops at the first failure.
// Created profiles are deleted afterwards unless KeepProfile is set, even when a later step failed.
func (f *SignUpFlow) Run(ctx context.Context, email, password string) *Report {
	st := &state{email: email, password: password}
	report := &Report{Email: email}

	f.log.Infow("Attempting sign-up", "email", email)
	for _, s := range f.steps() {
		if err := f.exec(ctx, report, st, s); err != nil {
			report.Err = err
			break
		}
	}

	report.ProfileIDs = st.profileIDs
	if len(st.profileIDs) > 0 && !f.cfg.KeepProfile {
		// teardown does not inherit a cancelled run context
		teardown := step{name: StepDeleteProfile, run: f.deleteProfiles}
		if err := f.exec(context.WithoutCancel(ctx), report, st, teardown); err != nil && report.Err == nil {
			report.Err = err
		}
	}

	return report
}

func (f *SignUpFlow) steps() []step {
	steps := []step{
		{StepSignUp, f.signUp},
		{StepGetEmailToken, f.getEmailToken},
		{StepSignInToVerify, f.signInToVerify},
		{StepVerifyEmail, f.verifyEmail},
		{StepSignIn, f.signIn},
		{StepGetWorkspaceID, f.getWorkspaceID},
		{StepSetRestrictions, f.setRestrictions},
		{StepGetFolderID, f.getFolderID},
	}
	if f.cfg.PersistOwner && f.persister != nil {
		steps = append(steps, step{StepPersistOwner, f.persistOwner})
	}
	return append(steps,
		step{StepCreateProfile, f.createProfile},
		step{StepLaunchProfile, f.launchProfile},
		step{StepStopProfile, f.stopProfile},
	)
}

func (f *SignUpFlow) exec(ctx context.Context, report *Report, st *state, s step) error {
	f.log.Infof("Executing %s", s.name)
	start := time.Now()

	err := s.run(ctx, st)
	if err != nil {
		f.log.Errorw("Validation or Assertion error occurred", "step", s.name, "error", err)
	}

	report.Steps = append(report.Steps, StepResult{Name: s.name, Duration: time.Since(start), Err: err})
	f.log.Infof("Finishing %s", s.name)
	return err
}

func (f *SignUpFlow) signUp(ctx context.Context, st *state) error {
	res, err := f.mlx.SignUp(ctx, st.email, st.password)
	if err != nil {
		return err
	}
	parsed, err := models.Parse[models.Response](res.Body)
	if err != nil {
		return err
	}
	if parsed.Status.HTTPCode != http.StatusCreated {
		return srvErrors.NewAssertionError(StepSignUp, "Failed at sign up step: status %d (%s)", parsed.Status.HTTPCode, parsed.Status.Message)
	}
	if parsed.Status.Message != signupMessage {
		return srvErrors.NewAssertionError(StepSignUp, "unexpected message %q", parsed.Status.Message)
	}
	return nil
}

func (f *SignUpFlow) getEmailToken(ctx context.Context, st *state) error {
	res, err := f.emp.GetEmailToken(ctx, st.email)
	if err != nil {
		return err
	}
	parsed, err := models.Parse[models.TokenResponse](res.Body)
	if err != nil {
		return err
	}
	if parsed.Data.Token == "" {
		return srvErrors.NewAssertionError(StepGetEmailToken, "No token returned")
	}
	st.emailToken = parsed.Data.Token
	return nil
}

func (f *SignUpFlow) signInToVerify(ctx context.Context, st *state) error {
	data, err := f.signInOnce(ctx, st)
	if err != nil {
		return err
	}
	st.verifyToken = data.Token
	return nil
}

func (f *SignUpFlow) verifyEmail(ctx context.Context, st *state) error {
	res, err := f.mlx.VerifyEmail(ctx, st.email, st.emailToken, st.verifyToken)
	if err != nil {
		return err
	}
	parsed, err := models.Parse[models.Response](res.Body)
	if err != nil {
		return err
	}
	if parsed.Status.HTTPCode != http.StatusOK {
		return srvErrors.NewAssertionError(StepVerifyEmail, "Failed at email verification step: status %d (%s)", parsed.Status.HTTPCode, parsed.Status.Message)
	}
	if parsed.Status.Message != verifiedMessage {
		return srvErrors.NewAssertionError(StepVerifyEmail, "unexpected message %q", parsed.Status.Message)
	}
	return nil
}

func (f *SignUpFlow) signIn(ctx context.Context, st *state) error {
	data, err := f.signInOnce(ctx, st)
	if err != nil {
		return err
	}
	st.token = data.Token
	st.refresh = data.RefreshToken
	return nil
}

// signInOnce relies on SigninResponse's schema: token and refresh token are required.
func (f *SignUpFlow) signInOnce(ctx context.Context, st *state) (*models.SigninData, error) {
	f.log.Infow("Signing in", "email", st.email)
	res, err := f.mlx.SignIn(ctx, st.email, st.password)
	if err != nil {
		return nil, err
	}
	parsed, err := models.Parse[models.SigninResponse](res.Body)
	if err != nil {
		return nil, err
	}
	return &parsed.Data, nil
}

func (f *SignUpFlow) getWorkspaceID(ctx context.Context, st *state) error {
	res, err := f.mlx.GetWorkspaces(ctx, st.token)
	if err != nil {
		return err
	}
	parsed, err := models.Parse[models.UserWorkspaceArrayResponse](res.Body)
	if err != nil {
		return err
	}
	st.workspaceID = parsed.Data.Workspaces[0].WorkspaceID
	f.log.Infow("Workspace ID", "workspace_id", st.workspaceID)
	return nil
}

func (f *SignUpFlow) setRestrictions(ctx context.Context, st *state) error {
	res, err := f.emp.SetRestrictions(ctx, models.TeamMonthlyPlan(st.workspaceID))
	if err != nil {
		return err
	}
	parsed, err := models.Parse[models.Response](res.Body)
	if err != nil {
		return err
	}
	if parsed.Status.HTTPCode != http.StatusOK {
		return srvErrors.NewAssertionError(StepSetRestrictions, "Failed at setting restrictions: status %d (%s)", parsed.Status.HTTPCode, parsed.Status.Message)
	}
	return nil
}

func (f *SignUpFlow) getFolderID(ctx context.Context, st *state) error {
	res, err := f.mlx.GetFolders(ctx, st.token)
	if err != nil {
		return err
	}
	parsed, err := models.Parse[models.UserFolderArrayResponse](res.Body)
	if err != nil {
		return err
	}
	id, found := parsed.FolderByName(f.cfg.FolderName)
	if !found || id == "" {
		return srvErrors.NewAssertionError(StepGetFolderID, "Folder ID not correct: no folder named %q", f.cfg.FolderName)
	}
	st.folderID = id
	f.log.Infow("Folder ID", "folder_id", id)
	return nil
}

func (f *SignUpFlow) persistOwner(ctx context.Context, st *state) error {
	return f.persister.RecordSignIn(st.email, st.token, st.refresh, st.folderID)
}

func (f *SignUpFlow) createProfile(ctx context.Context, st *state) error {
	body := models.GenericProfile(st.folderID)
	if err := body.Validate(); err != nil {
		return srvErrors.NewValidationError("CreateProfileRequest", err)
	}

	res, err := f.mlx.CreateProfile(ctx, st.token, body)
	if err != nil {
		return err
	}
	parsed, err := models.Parse[models.ArrayOfIDsResponse](res.Body)
	if err != nil {
		return err
	}
	if len(parsed.Data.IDs) < 1 {
		return srvErrors.NewAssertionError(StepCreateProfile, "Wrong number of profiles created: status %d (%s)", parsed.Status.HTTPCode, parsed.Status.Message)
	}
	st.profileIDs = parsed.Data.IDs
	f.log.Infow("Profiles created", "ids", st.profileIDs)
	return nil
}

func (f *SignUpFlow) launchProfile(ctx context.Context, st *state) error {
	res, err := f.launcher.StartProfile(ctx, st.token, st.folderID, st.profileIDs[0])
	if err != nil {
		return err
	}
	return expectLauncherOK(StepLaunchProfile, "Failed to launch profile", res)
}

func (f *SignUpFlow) stopProfile(ctx context.Context, st *state) error {
	if err := f.sleep(ctx, f.cfg.StopDelay); err != nil {
		return err
	}
	res, err := f.launcher.StopProfile(ctx, st.token, st.profileIDs[0])
	if err != nil {
		return err
	}
	return expectLauncherOK(StepStopProfile, "Failed to stop profile", res)
}

func (f *SignUpFlow) deleteProfiles(ctx context.Context, st *state) error {
	res, err := f.mlx.DeleteProfiles(ctx, st.token, st.profileIDs, true)
	if err != nil {
		return err
	}
	parsed, err := models.Parse[models.Response](res.Body)
	if err != nil {
		return err
	}
	if parsed.Status.HTTPCode != http.StatusOK {
		return srvErrors.NewAssertionError(StepDeleteProfile, "Failed to remove profiles %v: status %d (%s)", st.profileIDs, parsed.Status.HTTPCode, parsed.Status.Message)
	}
	f.log.Infow("Removing profile", "ids", st.profileIDs)
	return nil
}

func expectLauncherOK(name, msg string, res *api.Result) error {
	parsed, err := models.Parse[models.LauncherResponse](res.Body)
	if err != nil {
		return err
	}
	if parsed.Status.HTTPCode != http.StatusOK {
		return srvErrors.NewAssertionError(name, "%s: status %d (%s)", msg, parsed.Status.HTTPCode, parsed.Status.Message)
	}
	return nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
