package handlers_test

import (
	"fmt"
	"net/http"
	"net/url"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/mlx-qa/mlx-e2e/internal/models"
)

var _ = Describe("EMP and Launcher Handlers", func() {
	const (
		email    = "owner@example.com"
		password = "secret"
	)

	var (
		tr          *testRouter
		tk          string
		workspaceID string
		folderID    string
	)

	BeforeEach(func() {
		tr = newTestRouter()

		w, _ := tr.do(http.MethodPost, "/user/signup", models.SignupRequest{Creds: models.UserCreds{Email: email, Password: password}})
		Expect(w.Code).To(Equal(http.StatusCreated))

		_, env := tr.do(http.MethodPost, "/user/signin", models.UserCreds{Email: email, Password: password})
		tk = env.Data["token"].(string)

		w, _ = tr.do(http.MethodGet, "/user/workspaces", nil, bearer(tk))
		workspaces, err := models.Parse[models.UserWorkspaceArrayResponse](w.Body.Bytes())
		Expect(err).NotTo(HaveOccurred())
		workspaceID = workspaces.Data.Workspaces[0].WorkspaceID

		w, _ = tr.do(http.MethodGet, "/workspace/folders", nil, bearer(tk))
		folders, err := models.Parse[models.UserFolderArrayResponse](w.Body.Bytes())
		Expect(err).NotTo(HaveOccurred())
		folderID, _ = folders.FolderByName("Default folder")
	})

	Describe("EMP", func() {
		It("should require basic auth", func() {
			w, _ := tr.do(http.MethodGet, "/emp/verification_token?email="+url.QueryEscape(email), nil)
			Expect(w.Code).To(Equal(http.StatusUnauthorized))

			w, _ = tr.do(http.MethodGet, "/emp/verification_token?email="+url.QueryEscape(email), nil, basic(empUser, "wrong"))
			Expect(w.Code).To(Equal(http.StatusUnauthorized))
		})

		It("should return the email verification token", func() {
			w, _ := tr.do(http.MethodGet, "/emp/verification_token?email="+url.QueryEscape(email), nil, basic(empUser, empPassword))
			Expect(w.Code).To(Equal(http.StatusOK))

			parsed, err := models.Parse[models.TokenResponse](w.Body.Bytes())
			Expect(err).NotTo(HaveOccurred())
			Expect(parsed.Data.Token).NotTo(BeEmpty())
		})

		It("should answer 404 for unknown accounts", func() {
			w, _ := tr.do(http.MethodGet, "/emp/verification_token?email=nobody%40example.com", nil, basic(empUser, empPassword))
			Expect(w.Code).To(Equal(http.StatusNotFound))
		})

		It("should assign the plan", func() {
			w, env := tr.do(http.MethodPost, "/emp/restrictions", models.TeamMonthlyPlan(workspaceID), basic(empUser, empPassword))
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(env.Status.HTTPCode).To(Equal(200))
			Expect(tr.sandbox.Restrictions(workspaceID)).NotTo(BeNil())
		})
	})

	Describe("Launcher", func() {
		var profileID string

		BeforeEach(func() {
			emailToken, err := tr.sandbox.EmailToken(email)
			Expect(err).NotTo(HaveOccurred())
			query := url.Values{"email": {email}, "token": {emailToken}}
			w, _ := tr.do(http.MethodGet, "/user/verify_email?"+query.Encode(), nil, bearer(tk))
			Expect(w.Code).To(Equal(http.StatusOK))

			w, _ = tr.do(http.MethodPost, "/emp/restrictions", models.TeamMonthlyPlan(workspaceID), basic(empUser, empPassword))
			Expect(w.Code).To(Equal(http.StatusOK))

			w, _ = tr.do(http.MethodPost, "/profile/create", models.GenericProfile(folderID), bearer(tk))
			Expect(w.Code).To(Equal(http.StatusCreated))
			ids, err := models.Parse[models.ArrayOfIDsResponse](w.Body.Bytes())
			Expect(err).NotTo(HaveOccurred())
			Expect(ids.Data.IDs).To(HaveLen(1))
			profileID = ids.Data.IDs[0]
		})

		// Given a created profile
		// When it is started on v2 and stopped on v1
		// Then both calls answer 200
		It("should start and stop the profile", func() {
			w, env := tr.do(http.MethodGet, fmt.Sprintf("/api/v2/profile/f/%s/p/%s/start", folderID, profileID), nil, bearer(tk))
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(env.Status.HTTPCode).To(Equal(200))
			Expect(tr.sandbox.IsRunning(profileID)).To(BeTrue())

			w, env = tr.do(http.MethodGet, fmt.Sprintf("/api/v1/profile/stop/p/%s", profileID), nil, bearer(tk))
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(env.Status.HTTPCode).To(Equal(200))
			Expect(tr.sandbox.IsRunning(profileID)).To(BeFalse())
		})

		It("should answer 404 when stopping a profile that is not running", func() {
			w, _ := tr.do(http.MethodGet, fmt.Sprintf("/api/v1/profile/stop/p/%s", profileID), nil, bearer(tk))
			Expect(w.Code).To(Equal(http.StatusNotFound))
		})

		It("should import cookies", func() {
			body := models.CookieImportRequest{ProfileID: profileID, FolderID: folderID, Cookies: "[]"}
			w, _ := tr.do(http.MethodPost, "/api/v2/cookie_import", body, bearer(tk))
			Expect(w.Code).To(Equal(http.StatusOK))
		})

		It("should remove the profile", func() {
			w, _ := tr.do(http.MethodPost, "/profile/remove", models.RemoveProfilesRequest{IDs: []string{profileID}, Permanently: true}, bearer(tk))
			Expect(w.Code).To(Equal(http.StatusOK))

			w, _ = tr.do(http.MethodGet, fmt.Sprintf("/api/v2/profile/f/%s/p/%s/start", folderID, profileID), nil, bearer(tk))
			Expect(w.Code).To(Equal(http.StatusNotFound))
		})
	})
})
