package cmd

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/mlx-qa/mlx-e2e/internal/config"
	"github.com/mlx-qa/mlx-e2e/internal/models"
	"github.com/mlx-qa/mlx-e2e/pkg/credentials"
	"github.com/mlx-qa/mlx-e2e/pkg/token"
)

func NewDecodeCommand(cfg *config.Configuration) *cobra.Command {
	var role string

	decodeCmd := &cobra.Command{
		Use:   "decode [token]",
		Short: "Print the role, workspace and expiry carried by a token",
		Long: `Decodes a token without verifying its signature. The token is read from the
argument, or from the credential document when --role is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := decodeInput(cfg, args, role)
			if err != nil {
				return err
			}

			claims, err := token.Decode(raw)
			if err != nil {
				return err
			}

			printClaims(cmd.OutOrStdout(), claims, time.Now())
			return nil
		},
	}

	decodeCmd.Flags().StringVar(&cfg.Paths.UserData, "user-data", config.DefaultUserDataPath, "Path to the credential document")
	decodeCmd.Flags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn or error")
	decodeCmd.Flags().StringVar(&cfg.LogFile, "log-file", "", "Log file, written alongside stderr")
	decodeCmd.Flags().StringVar(&role, "role", "", "Decode the stored token of this role")

	return decodeCmd
}

func decodeInput(cfg *config.Configuration, args []string, role string) (string, error) {
	switch {
	case len(args) == 1 && role != "":
		return "", errors.New("pass either a token or --role, not both")
	case len(args) == 1:
		return args[0], nil
	case role == "":
		return "", errors.New("a token or --role is required")
	}

	r, err := models.ParseRole(role)
	if err != nil {
		return "", err
	}

	cred, err := credentials.NewDiskStore(cfg.Paths.UserData).Get(r)
	if err != nil {
		return "", err
	}
	return cred.Token, nil
}

func printClaims(out io.Writer, claims *models.TokenClaims, now time.Time) {
	fmt.Fprintf(out, "role:         %s\n", claims.Role)
	fmt.Fprintf(out, "workspace_id: %s\n", claims.WorkspaceID)
	fmt.Fprintf(out, "expires_at:   %s\n", claims.ExpiresAt.Format(time.RFC3339))

	if claims.Valid(now) {
		fmt.Fprintf(out, "valid:        true (%s left)\n", claims.ExpiresAt.Sub(now).Round(time.Second))
		return
	}
	fmt.Fprintf(out, "valid:        false\n")
}
