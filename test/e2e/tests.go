package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/mlx-qa/mlx-e2e/internal/models"
	"github.com/mlx-qa/mlx-e2e/pkg/api"
)

var _ = Describe("Sign-up flow", Ordered, func() {
	var (
		proxyServer *httptest.Server
		obs         *Observer

		mlx      *api.MlxApi
		emp      *api.EmpApi
		launcher *api.LauncherApi

		email       string
		emailToken  string
		verifyToken string
		token       string
		workspaceID string
		folderID    string
		profileIDs  []string
	)

	BeforeAll(func() {
		target, err := url.Parse(cfg.Services.MlxURL)
		Expect(err).ToNot(HaveOccurred(), "failed to parse account API url")

		obs = NewObserver()
		proxyServer = httptest.NewServer(NewProxy(target, obs).Handler())
		GinkgoWriter.Printf("Proxy to %s started on %s\n", target, proxyServer.URL)

		log := zap.S().Named("e2e")
		mlx = api.DefaultMlxApi(proxyServer.URL, log)
		emp = api.DefaultEmpApi(cfg.Services.EmpURL, cfg.Emp.Username, cfg.Emp.Password, log)
		launcher = api.DefaultLauncherApi(cfg.Services.LauncherURL, cfg.Services.LauncherV1URL, log)

		email, err = nextEmail()
		Expect(err).ToNot(HaveOccurred())
		GinkgoWriter.Printf("Signing up %s\n", email)
	})

	AfterAll(func() {
		if len(profileIDs) > 0 && !cfg.Signup.KeepProfile {
			res, err := mlx.DeleteProfiles(context.Background(), token, profileIDs, true)
			Expect(err).ToNot(HaveOccurred())
			parsed, err := models.Parse[models.Response](res.Body)
			Expect(err).ToNot(HaveOccurred())
			Expect(parsed.Status.HTTPCode).To(Equal(http.StatusOK), "failed to remove profiles %v", profileIDs)
		} else if cfg.Signup.KeepProfile {
			GinkgoWriter.Printf("Keeping profiles %v (--keep-profile flag set)\n", profileIDs)
		}

		proxyServer.Close()
	})

	It("should sign up a new owner", func(ctx SpecContext) {
		res, err := mlx.SignUp(ctx, email, cfg.Password)
		Expect(err).ToNot(HaveOccurred())

		parsed, err := models.Parse[models.Response](res.Body)
		Expect(err).ToNot(HaveOccurred())
		Expect(parsed.Status.HTTPCode).To(Equal(http.StatusCreated), "Failed at sign up step")
		Expect(parsed.Status.Message).To(Equal("Successful signup"))
	})

	It("should return the email token from EMP", func(ctx SpecContext) {
		res, err := emp.GetEmailToken(ctx, email)
		Expect(err).ToNot(HaveOccurred())

		parsed, err := models.Parse[models.TokenResponse](res.Body)
		Expect(err).ToNot(HaveOccurred())
		Expect(parsed.Data.Token).ToNot(BeEmpty(), "No token returned")
		emailToken = parsed.Data.Token
	})

	It("should sign in before the email is verified", func(ctx SpecContext) {
		res, err := mlx.SignIn(ctx, email, cfg.Password)
		Expect(err).ToNot(HaveOccurred())

		parsed, err := models.Parse[models.SigninResponse](res.Body)
		Expect(err).ToNot(HaveOccurred())
		verifyToken = parsed.Data.Token
	})

	It("should verify the email with the EMP token", func(ctx SpecContext) {
		res, err := mlx.VerifyEmail(ctx, email, emailToken, verifyToken)
		Expect(err).ToNot(HaveOccurred())

		parsed, err := models.Parse[models.Response](res.Body)
		Expect(err).ToNot(HaveOccurred())
		Expect(parsed.Status.HTTPCode).To(Equal(http.StatusOK), "Failed at email verification step")
		Expect(parsed.Status.Message).To(Equal("Email successfully verified"))

		// the call is recorded before its response is delivered
		verifications := obs.Find(http.MethodGet, "/user/verify_email")
		Expect(verifications).To(HaveLen(1))
		Expect(verifications[0].Bearer).To(Equal(verifyToken))
		Expect(verifications[0].Query.Get("token")).To(Equal(emailToken))
		Expect(verifications[0].Query.Get("email")).To(Equal(email))
		Expect(verifications[0].Status.HTTPCode).To(Equal(http.StatusOK))
	})

	It("should sign in as the verified owner", func(ctx SpecContext) {
		res, err := mlx.SignIn(ctx, email, cfg.Password)
		Expect(err).ToNot(HaveOccurred())

		parsed, err := models.Parse[models.SigninResponse](res.Body)
		Expect(err).ToNot(HaveOccurred())
		token = parsed.Data.Token

		signins := obs.Find(http.MethodPost, "/user/signin")
		Expect(signins).To(HaveLen(2))
		Expect(signins[1].Bearer).To(BeEmpty())
		Expect(string(signins[1].Body)).To(ContainSubstring(email))
	})

	It("should list the owner's workspace", func(ctx SpecContext) {
		res, err := mlx.GetWorkspaces(ctx, token)
		Expect(err).ToNot(HaveOccurred())

		parsed, err := models.Parse[models.UserWorkspaceArrayResponse](res.Body)
		Expect(err).ToNot(HaveOccurred())
		workspaceID = parsed.Data.Workspaces[0].WorkspaceID
		Expect(workspaceID).ToNot(BeEmpty())
	})

	It("should assign the team plan through EMP", func(ctx SpecContext) {
		res, err := emp.SetRestrictions(ctx, models.TeamMonthlyPlan(workspaceID))
		Expect(err).ToNot(HaveOccurred())

		parsed, err := models.Parse[models.Response](res.Body)
		Expect(err).ToNot(HaveOccurred())
		Expect(parsed.Status.HTTPCode).To(Equal(http.StatusOK), "Failed at setting restrictions")
	})

	It("should find the default folder", func(ctx SpecContext) {
		res, err := mlx.GetFolders(ctx, token)
		Expect(err).ToNot(HaveOccurred())

		parsed, err := models.Parse[models.UserFolderArrayResponse](res.Body)
		Expect(err).ToNot(HaveOccurred())

		var found bool
		folderID, found = parsed.FolderByName(cfg.Signup.FolderName)
		Expect(found).To(BeTrue(), "Folder ID not correct")
		Expect(folderID).ToNot(BeEmpty())
	})

	It("should create a profile", func(ctx SpecContext) {
		res, err := mlx.CreateProfile(ctx, token, models.GenericProfile(folderID))
		Expect(err).ToNot(HaveOccurred())

		parsed, err := models.Parse[models.ArrayOfIDsResponse](res.Body)
		Expect(err).ToNot(HaveOccurred())
		Expect(len(parsed.Data.IDs)).To(BeNumerically(">=", 1), "Wrong number of profiles created")
		profileIDs = parsed.Data.IDs
	})

	It("should launch the profile", func(ctx SpecContext) {
		res, err := launcher.StartProfile(ctx, token, folderID, profileIDs[0])
		Expect(err).ToNot(HaveOccurred())

		parsed, err := models.Parse[models.LauncherResponse](res.Body)
		Expect(err).ToNot(HaveOccurred())
		Expect(parsed.Status.HTTPCode).To(Equal(http.StatusOK), "Failed to launch profile")
	})

	It("should stop the profile", func(ctx SpecContext) {
		time.Sleep(cfg.Signup.StopDelay)

		res, err := launcher.StopProfile(ctx, token, profileIDs[0])
		Expect(err).ToNot(HaveOccurred())

		parsed, err := models.Parse[models.LauncherResponse](res.Body)
		Expect(err).ToNot(HaveOccurred())
		Expect(parsed.Status.HTTPCode).To(Equal(http.StatusOK), "Failed to stop profile")
	})
})
