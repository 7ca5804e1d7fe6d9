package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mlx-qa/mlx-e2e/internal/config"
	"github.com/mlx-qa/mlx-e2e/internal/models"
	"github.com/mlx-qa/mlx-e2e/pkg/api"
	"github.com/mlx-qa/mlx-e2e/pkg/credentials"
	srvErrors "github.com/mlx-qa/mlx-e2e/pkg/errors"
	"github.com/mlx-qa/mlx-e2e/pkg/scheduler"
	"github.com/mlx-qa/mlx-e2e/pkg/token"
)

func NewRefreshCommand(cfg *config.Configuration) *cobra.Command {
	var (
		roles   []string
		workers int
	)

	refreshCmd := &cobra.Command{
		Use:   "refresh",
		Short: "Refresh expired tokens in the credential document",
		Long: `Checks the stored token of each role and refreshes the expired ones through the
account API. Refreshed tokens are written back to the credential document.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Resolve(cfg); err != nil {
				return err
			}

			parsed := make([]models.Role, 0, len(roles))
			for _, r := range roles {
				role, err := models.ParseRole(r)
				if err != nil {
					return err
				}
				parsed = append(parsed, role)
			}

			log := zap.S().Named("refresh")
			store := credentials.NewDiskStore(cfg.Paths.UserData)
			manager := token.NewManager(store, api.DefaultMlxApi(cfg.Services.MlxURL, log), token.WithLogger(log))

			return refresh(cmd.Context(), cmd.OutOrStdout(), store, manager, parsed, workers)
		},
	}

	registerCommonFlags(refreshCmd, cfg)
	registerServiceFlags(refreshCmd, cfg)
	refreshCmd.Flags().StringVar(&cfg.Paths.EmailIndex, "email-index", cfg.Paths.EmailIndex, "Path to the signup email counter file")
	refreshCmd.Flags().StringSliceVar(&roles, "role", nil, "Roles to refresh (default: every stored role)")
	refreshCmd.Flags().IntVar(&workers, "workers", 2, "Number of roles refreshed concurrently")

	return refreshCmd
}

// refresh ensures a valid token for every role in roles, or for every stored role when roles is empty.
// Roles are refreshed concurrently by workers; results are printed in role order.
func refresh(ctx context.Context, out io.Writer, store credentials.Store, manager *token.Manager, roles []models.Role, workers int) error {
	doc, err := store.Load()
	if err != nil {
		return err
	}
	if len(roles) == 0 {
		roles = doc.Roles()
	}

	for _, role := range roles {
		if _, ok := doc[role]; !ok {
			return srvErrors.NewCredentialNotFoundError(string(role))
		}
	}

	sched := scheduler.NewScheduler[string](workers)
	defer sched.Close()
	// cancelling ctx cancels every queued and running refresh
	stop := context.AfterFunc(ctx, sched.Close)
	defer stop()

	futures := make([]*scheduler.Future[string], 0, len(roles))
	for _, role := range roles {
		cred := doc[role]
		futures = append(futures, sched.AddWork(func(workCtx context.Context) (string, error) {
			return manager.EnsureValidToken(workCtx, cred)
		}))
	}

	valid := color.New(color.FgGreen).SprintFunc()
	refreshed := color.New(color.FgYellow).SprintFunc()

	var errs []error
	for i, role := range roles {
		result := futures[i].Wait()
		if result.Err != nil {
			fmt.Fprintf(out, "%-8s %s\n", role, color.RedString("failed"))
			errs = append(errs, fmt.Errorf("failed to ensure %s token: %w", role, result.Err))
			continue
		}

		if result.Data == doc[role].Token {
			fmt.Fprintf(out, "%-8s %s\n", role, valid("valid"))
			continue
		}
		fmt.Fprintf(out, "%-8s %s\n", role, refreshed("refreshed"))
	}

	return errors.Join(errs...)
}
