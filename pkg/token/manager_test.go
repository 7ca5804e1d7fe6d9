package token_test

import (
	"context"
	"errors"
	"net/http"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/mlx-qa/mlx-e2e/internal/models"
	"github.com/mlx-qa/mlx-e2e/pkg/api"
	srvErrors "github.com/mlx-qa/mlx-e2e/pkg/errors"
	"github.com/mlx-qa/mlx-e2e/pkg/token"
)

var _ = Describe("Manager", func() {
	var (
		ctx       context.Context
		now       time.Time
		refresher *FakeRefresher
		store     *SpyStore
		manager   *token.Manager
	)

	BeforeEach(func() {
		ctx = context.Background()
		now = time.Now().Truncate(time.Second)
		refresher = &FakeRefresher{}
		store = &SpyStore{Doc: models.CredentialDocument{
			models.RoleOwner:   {Email: "owner@example.com", Password: "p", WorkspaceID: "ws-old", RefreshToken: "rt-old"},
			models.RoleManager: {Email: "manager@example.com", Password: "p", WorkspaceID: "ws-m", RefreshToken: "rt-m"},
		}}
		manager = token.NewManager(store, refresher, token.WithClock(func() time.Time { return now }))
	})

	Describe("EnsureValidToken", func() {
		Context("token still valid", func() {
			// Given a token expiring in the future
			// When we ensure it is valid
			// Then the same token is returned and no refresh call is made
			It("should return the same token without any network call", func() {
				// Arrange
				held := newToken(models.RoleOwner, "ws-old", now.Add(10*time.Minute))
				cred := store.Doc[models.RoleOwner]
				cred.Token = held

				// Act
				got, err := manager.EnsureValidToken(ctx, cred)

				// Assert
				Expect(err).NotTo(HaveOccurred())
				Expect(got).To(Equal(held))
				Expect(refresher.CallCount).To(Equal(0))
				Expect(store.UpdateCount).To(Equal(0))
			})
		})

		Context("token expired", func() {
			var (
				cred  models.RoleCredential
				fresh string
			)

			BeforeEach(func() {
				cred = store.Doc[models.RoleOwner]
				cred.Token = newToken(models.RoleOwner, "ws-old", now.Add(-time.Minute))
				fresh = newToken(models.RoleOwner, "ws-new", now.Add(30*time.Minute))
				refresher.Result = &api.Result{StatusCode: http.StatusOK, Body: signinBody(fresh, "rt-new")}
			})

			// Given an expired token
			// When we ensure it is valid
			// Then refresh is called exactly once and exactly one record is persisted
			It("should refresh once and persist once", func() {
				// Act
				got, err := manager.EnsureValidToken(ctx, cred)

				// Assert
				Expect(err).NotTo(HaveOccurred())
				Expect(got).To(Equal(fresh))
				Expect(refresher.CallCount).To(Equal(1))
				Expect(store.UpdateCount).To(Equal(1))
			})

			It("should send the role's email, workspace id and refresh token", func() {
				_, err := manager.EnsureValidToken(ctx, cred)
				Expect(err).NotTo(HaveOccurred())

				Expect(refresher.LastEmail).To(Equal("owner@example.com"))
				Expect(refresher.LastWID).To(Equal("ws-old"))
				Expect(refresher.LastRT).To(Equal("rt-old"))
			})

			It("should update token, refresh token and workspace id together", func() {
				_, err := manager.EnsureValidToken(ctx, cred)
				Expect(err).NotTo(HaveOccurred())

				owner := store.Doc[models.RoleOwner]
				Expect(owner.Token).To(Equal(fresh))
				Expect(owner.RefreshToken).To(Equal("rt-new"))
				Expect(owner.WorkspaceID).To(Equal("ws-new"))
				Expect(store.Doc[models.RoleManager].Token).To(BeEmpty())
			})

			It("should yield a strictly later expiry", func() {
				before, err := token.Decode(cred.Token)
				Expect(err).NotTo(HaveOccurred())

				got, err := manager.EnsureValidToken(ctx, cred)
				Expect(err).NotTo(HaveOccurred())

				after, err := token.Decode(got)
				Expect(err).NotTo(HaveOccurred())
				Expect(after.ExpiresAt).To(BeTemporally(">", before.ExpiresAt))
			})

			It("should persist into the role of the new token", func() {
				fresh = newToken(models.RoleManager, "ws-m2", now.Add(30*time.Minute))
				refresher.Result = &api.Result{StatusCode: http.StatusOK, Body: signinBody(fresh, "rt-m2")}

				_, err := manager.EnsureValidToken(ctx, cred)
				Expect(err).NotTo(HaveOccurred())
				Expect(store.Doc[models.RoleManager].Token).To(Equal(fresh))
				Expect(store.Doc[models.RoleOwner].Token).To(BeEmpty())
			})

			It("should propagate schema mismatches as ValidationError", func() {
				refresher.Result = &api.Result{
					StatusCode: http.StatusUnauthorized,
					Body:       []byte(`{"status": {"http_code": 401, "message": "invalid refresh token"}, "data": {}}`),
				}

				_, err := manager.EnsureValidToken(ctx, cred)
				Expect(srvErrors.IsValidationError(err)).To(BeTrue())
				Expect(store.UpdateCount).To(Equal(0))
			})

			It("should propagate transport errors unchanged", func() {
				transportErr := srvErrors.NewTransportError(http.MethodPost, "http://mlx/user/refresh_token", errors.New("connection refused"))
				refresher.Result = nil
				refresher.Err = transportErr

				_, err := manager.EnsureValidToken(ctx, cred)
				Expect(err).To(MatchError(transportErr))
				Expect(store.UpdateCount).To(Equal(0))
			})

			It("should return store errors", func() {
				store.UpdateError = errors.New("disk full")

				_, err := manager.EnsureValidToken(ctx, cred)
				Expect(err).To(MatchError(ContainSubstring("disk full")))
			})
		})

		It("should fail on a malformed token", func() {
			cred := store.Doc[models.RoleOwner]
			cred.Token = "garbage"

			_, err := manager.EnsureValidToken(ctx, cred)
			Expect(srvErrors.IsTokenDecodeError(err)).To(BeTrue())
			Expect(refresher.CallCount).To(Equal(0))
		})
	})

	Describe("EnsureRoleToken", func() {
		It("should use the credential stored for the role", func() {
			held := newToken(models.RoleManager, "ws-m", now.Add(time.Hour))
			m := store.Doc[models.RoleManager]
			m.Token = held
			store.Doc[models.RoleManager] = m

			got, err := manager.EnsureRoleToken(ctx, models.RoleManager)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(held))
		})
	})

	Describe("Persist", func() {
		It("should write the folder id when given", func() {
			tk := newToken(models.RoleOwner, "ws-9", now.Add(time.Hour))

			Expect(manager.Persist(tk, "rt-9", "folder-9")).To(Succeed())

			owner := store.Doc[models.RoleOwner]
			Expect(owner.FolderID).To(Equal("folder-9"))
			Expect(owner.WorkspaceID).To(Equal("ws-9"))
			Expect(owner.Email).To(Equal("owner@example.com"))
		})

		It("should keep the folder id when empty", func() {
			o := store.Doc[models.RoleOwner]
			o.FolderID = "keep-me"
			store.Doc[models.RoleOwner] = o
			tk := newToken(models.RoleOwner, "ws-9", now.Add(time.Hour))

			Expect(manager.Persist(tk, "rt-9", "")).To(Succeed())
			Expect(store.Doc[models.RoleOwner].FolderID).To(Equal("keep-me"))
		})
	})

	Describe("RecordSignIn", func() {
		It("should replace the role's email", func() {
			tk := newToken(models.RoleOwner, "ws-new", now.Add(time.Hour))

			Expect(manager.RecordSignIn("fresh@example.com", tk, "rt", "f-1")).To(Succeed())

			owner := store.Doc[models.RoleOwner]
			Expect(owner.Email).To(Equal("fresh@example.com"))
			Expect(owner.Password).To(Equal("p"))
			Expect(owner.Token).To(Equal(tk))
		})
	})
})
