package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mlx-qa/mlx-e2e/internal/config"
	"github.com/mlx-qa/mlx-e2e/internal/models"
	"github.com/mlx-qa/mlx-e2e/internal/scenario"
	"github.com/mlx-qa/mlx-e2e/pkg/api"
	"github.com/mlx-qa/mlx-e2e/pkg/credentials"
	srvErrors "github.com/mlx-qa/mlx-e2e/pkg/errors"
	"github.com/mlx-qa/mlx-e2e/pkg/token"
)

type runOptions struct {
	password string
	sandbox  bool
}

func NewRunCommand(cfg *config.Configuration) *cobra.Command {
	opts := &runOptions{}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the sign-up flow against the configured environment",
		Long: `Signs up a fresh owner account, verifies its email through EMP, assigns a plan,
then creates, launches, stops and deletes a browser profile.

The signup email is <email-prefix><n><email-domain>, where n is one more than the
counter stored in the email index file. The counter is written back when the run ends.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			if opts.sandbox {
				stop, err := startLocalSandbox(cfg)
				if err != nil {
					return err
				}
				defer stop()
				if opts.password == "" {
					opts.password = "sandbox-password"
				}
			}

			if err := config.Resolve(cfg); err != nil {
				return err
			}
			if err := validateConfiguration(cfg); err != nil {
				return err
			}

			return run(ctx, cmd.OutOrStdout(), cfg, opts)
		},
	}

	registerCommonFlags(runCmd, cfg)
	registerServiceFlags(runCmd, cfg)
	registerSandboxFlags(runCmd, cfg)

	runCmd.Flags().StringVar(&cfg.Paths.EmailIndex, "email-index", cfg.Paths.EmailIndex, "Path to the signup email counter file")
	runCmd.Flags().StringVar(&cfg.Emp.Username, "emp-username", cfg.Emp.Username, "EMP basic auth user")
	runCmd.Flags().StringVar(&cfg.Emp.Password, "emp-password", cfg.Emp.Password, "EMP basic auth password (defaults to the variable named after the environment)")
	runCmd.Flags().StringVar(&cfg.Signup.EmailPrefix, "email-prefix", cfg.Signup.EmailPrefix, "Local part prefix of the signup email")
	runCmd.Flags().StringVar(&cfg.Signup.EmailDomain, "email-domain", cfg.Signup.EmailDomain, "Domain of the signup email, starting with @")
	runCmd.Flags().StringVar(&cfg.Signup.FolderName, "folder-name", cfg.Signup.FolderName, "Folder the profile is created in")
	runCmd.Flags().BoolVar(&cfg.Signup.KeepProfile, "keep-profile", cfg.Signup.KeepProfile, "Do not delete the created profile")
	runCmd.Flags().BoolVar(&cfg.Signup.PersistOwner, "persist-owner", cfg.Signup.PersistOwner, "Store the new owner's tokens in the credential document")
	runCmd.Flags().DurationVar(&cfg.Signup.StopDelay, "stop-delay", cfg.Signup.StopDelay, "Wait between launching and stopping the profile")
	runCmd.Flags().StringVar(&opts.password, "password", "", "Password of the new account (defaults to the stored owner's password)")
	runCmd.Flags().BoolVar(&opts.sandbox, "sandbox", false, "Run against an in-process sandbox instead of the configured services")

	return runCmd
}

func run(ctx context.Context, out io.Writer, cfg *config.Configuration, opts *runOptions) error {
	log := zap.S().Named("run")
	store := credentials.NewDiskStore(cfg.Paths.UserData)

	password, err := ownerPassword(store, opts.password)
	if err != nil {
		return err
	}

	emails := scenario.NewEmailSequence(cfg.Paths.EmailIndex, cfg.Signup.EmailPrefix, cfg.Signup.EmailDomain)
	email, err := emails.Next()
	if err != nil {
		return err
	}
	defer func() {
		if err := emails.Commit(); err != nil {
			log.Errorw("failed to write email index", "path", cfg.Paths.EmailIndex, "error", err)
		}
	}()

	mlx := api.DefaultMlxApi(cfg.Services.MlxURL, log)
	emp := api.DefaultEmpApi(cfg.Services.EmpURL, cfg.Emp.Username, cfg.Emp.Password, log)
	launcher := api.DefaultLauncherApi(cfg.Services.LauncherURL, cfg.Services.LauncherV1URL, log)

	flowOpts := []scenario.FlowOption{scenario.WithFlowLogger(log)}
	if cfg.Signup.PersistOwner {
		flowOpts = append(flowOpts, scenario.WithPersister(token.NewManager(store, mlx, token.WithLogger(log))))
	}

	log.Infow("starting sign-up flow", "env", cfg.Env, "email", email)
	report := scenario.NewSignUpFlow(mlx, emp, launcher, cfg.Signup, flowOpts...).Run(ctx, email, password)

	printReport(out, report)
	return report.Err
}

// ownerPassword returns password, or the stored owner's password when empty.
func ownerPassword(store credentials.Store, password string) (string, error) {
	if password != "" {
		return password, nil
	}

	owner, err := store.Get(models.RoleOwner)
	if err != nil {
		if errors.Is(err, credentials.ErrNotFound) || srvErrors.IsResourceNotFoundError(err) {
			return "", srvErrors.NewConfigurationError("no password given and no owner stored in the credential document")
		}
		return "", err
	}
	return owner.Password, nil
}

func printReport(out io.Writer, report *scenario.Report) {
	pass := color.New(color.FgGreen).SprintFunc()
	fail := color.New(color.FgRed).SprintFunc()

	fmt.Fprintf(out, "Sign-up flow for %s\n", report.Email)
	for _, s := range report.Steps {
		if s.Err != nil {
			fmt.Fprintf(out, "  %s %-22s %8s  %v\n", fail("FAIL"), s.Name, s.Duration.Round(time.Millisecond), s.Err)
			continue
		}
		fmt.Fprintf(out, "  %s %-22s %8s\n", pass("PASS"), s.Name, s.Duration.Round(time.Millisecond))
	}

	if report.Failed() {
		fmt.Fprintf(out, "%s at %s after %s\n", fail("FAILED"), report.FailedStep(), report.Duration().Round(time.Millisecond))
		return
	}
	fmt.Fprintf(out, "%s in %s\n", pass("PASSED"), report.Duration().Round(time.Millisecond))
}

// startLocalSandbox serves a sandbox on a free loopback port and points the
// service URLs of cfg at it.
func startLocalSandbox(cfg *config.Configuration) (func(), error) {
	if cfg.Emp.Password == "" {
		cfg.Emp.Password = uuid.NewString()
	}

	srv, err := newSandboxServer(cfg)
	if err != nil {
		return nil, err
	}

	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("failed to listen for the sandbox: %w", err)
	}

	go func() {
		if err := srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.S().Errorw("sandbox server stopped", "error", err)
		}
	}()

	base := fmt.Sprintf("%s://%s", srv.Scheme(), l.Addr().String())
	cfg.Services.MlxURL = base
	cfg.Services.EmpURL = base
	cfg.Services.LauncherURL = base + "/api/v2"
	cfg.Services.LauncherV1URL = base + "/api/v1"
	zap.S().Infow("sandbox started", "url", base)

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Stop(ctx)
	}, nil
}

func validateConfiguration(cfg *config.Configuration) error {
	if cfg.Signup.EmailPrefix == "" {
		return srvErrors.NewConfigurationError("email-prefix cannot be empty")
	}
	if cfg.Signup.StopDelay < 0 {
		return srvErrors.NewConfigurationError("invalid stop-delay: %s", cfg.Signup.StopDelay)
	}
	if cfg.Emp.Username == "" {
		return srvErrors.NewConfigurationError("emp-username cannot be empty")
	}
	if cfg.Emp.Password == "" {
		return srvErrors.NewConfigurationError("emp password is not set: pass --emp-password or export %s", cfg.Env)
	}
	return nil
}
