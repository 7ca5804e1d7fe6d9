package main

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/mlx-qa/mlx-e2e/internal/models"
	"github.com/mlx-qa/mlx-e2e/internal/scenario"
	"github.com/mlx-qa/mlx-e2e/pkg/api"
	"github.com/mlx-qa/mlx-e2e/pkg/credentials"
	"github.com/mlx-qa/mlx-e2e/pkg/token"
)

var _ = Describe("Credential lifecycle", Ordered, func() {
	var (
		tmpDir  string
		store   *credentials.DiskStore
		mlx     *api.MlxApi
		email   string
		initial models.RoleCredential
	)

	BeforeAll(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "e2e-credentials-*")
		Expect(err).ToNot(HaveOccurred())

		email, err = nextEmail()
		Expect(err).ToNot(HaveOccurred())

		store = credentials.NewDiskStore(filepath.Join(tmpDir, "user_data.json"))
		Expect(store.Save(models.CredentialDocument{
			models.RoleOwner: {Email: email, Password: cfg.Password},
		})).To(Succeed())

		mlx = api.DefaultMlxApi(cfg.Services.MlxURL, zap.S().Named("e2e"))
	})

	AfterAll(func() {
		os.RemoveAll(tmpDir)
	})

	It("should persist the owner after a full sign-up flow", func(ctx SpecContext) {
		log := zap.S().Named("e2e")
		signup := cfg.Signup
		signup.PersistOwner = true
		signup.KeepProfile = false

		flow := scenario.NewSignUpFlow(
			mlx,
			api.DefaultEmpApi(cfg.Services.EmpURL, cfg.Emp.Username, cfg.Emp.Password, log),
			api.DefaultLauncherApi(cfg.Services.LauncherURL, cfg.Services.LauncherV1URL, log),
			signup,
			scenario.WithPersister(token.NewManager(store, mlx, token.WithLogger(log))),
			scenario.WithFlowLogger(log),
		)

		report := flow.Run(ctx, email, cfg.Password)
		Expect(report.Err).ToNot(HaveOccurred(), "failed at %s", report.FailedStep())

		owner, err := store.Get(models.RoleOwner)
		Expect(err).ToNot(HaveOccurred())
		Expect(owner.Token).ToNot(BeEmpty())
		Expect(owner.RefreshToken).ToNot(BeEmpty())
		Expect(owner.WorkspaceID).ToNot(BeEmpty())
		Expect(owner.FolderID).ToNot(BeEmpty())
		initial = *owner
	})

	It("should return the stored token while it is valid", func(ctx SpecContext) {
		manager := token.NewManager(store, mlx)

		tok, err := manager.EnsureRoleToken(ctx, models.RoleOwner)
		Expect(err).ToNot(HaveOccurred())
		Expect(tok).To(Equal(initial.Token))
	})

	// Given the stored owner token
	// When the clock is past its expiry
	// Then the token is refreshed and the new pair replaces the stored one
	It("should refresh and persist an expired token", func(ctx SpecContext) {
		claims, err := token.Decode(initial.Token)
		Expect(err).ToNot(HaveOccurred())
		manager := token.NewManager(store, mlx, token.WithClock(func() time.Time {
			return claims.ExpiresAt.Add(time.Second)
		}))

		tok, err := manager.EnsureRoleToken(ctx, models.RoleOwner)
		Expect(err).ToNot(HaveOccurred())
		Expect(tok).ToNot(BeEmpty())

		owner, err := store.Get(models.RoleOwner)
		Expect(err).ToNot(HaveOccurred())
		Expect(owner.Token).To(Equal(tok))
		Expect(owner.RefreshToken).ToNot(Equal(initial.RefreshToken))
		Expect(owner.WorkspaceID).To(Equal(initial.WorkspaceID))
		Expect(owner.FolderID).To(Equal(initial.FolderID))
		Expect(owner.Email).To(Equal(email))
	})
})
