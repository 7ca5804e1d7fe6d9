package credentials_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/mlx-qa/mlx-e2e/internal/models"
	"github.com/mlx-qa/mlx-e2e/pkg/credentials"
	srvErrors "github.com/mlx-qa/mlx-e2e/pkg/errors"
)

var _ = Describe("DiskStore", func() {
	var (
		tmpDir string
		path   string
		store  *credentials.DiskStore
		doc    models.CredentialDocument
	)

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "credentials-test-*")
		Expect(err).NotTo(HaveOccurred())
		path = filepath.Join(tmpDir, "user_data.json")
		store = credentials.NewDiskStore(path)

		doc = models.CredentialDocument{
			models.RoleOwner: {
				Email:        "owner@example.com",
				Password:     "owner-pass",
				WorkspaceID:  "ws-1",
				FolderID:     "folder-1",
				Token:        "token-owner",
				RefreshToken: "refresh-owner",
			},
			models.RoleManager:  {Email: "manager@example.com", Password: "manager-pass"},
			models.RoleUser:     {Email: "user@example.com", Password: "user-pass"},
			models.RoleLauncher: {Email: "launcher@example.com", Password: "launcher-pass", Token: "token-launcher"},
		}
	})

	AfterEach(func() {
		if tmpDir != "" {
			os.RemoveAll(tmpDir)
		}
	})

	Describe("Save and Load", func() {
		// Given a document with all four roles
		// When we save it and load it back
		// Then the loaded mapping equals the saved one
		It("should round-trip the whole document", func() {
			err := store.Save(doc)
			Expect(err).NotTo(HaveOccurred())

			loaded, err := store.Load()
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded).To(Equal(doc))
		})

		It("should overwrite the existing document", func() {
			Expect(store.Save(doc)).To(Succeed())

			replacement := models.CredentialDocument{
				models.RoleOwner: {Email: "other@example.com", Password: "other"},
			}
			Expect(store.Save(replacement)).To(Succeed())

			loaded, err := store.Load()
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded).To(Equal(replacement))
		})

		It("should write role names as top-level keys", func() {
			Expect(store.Save(doc)).To(Succeed())

			data, err := os.ReadFile(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(ContainSubstring(`"owner": {`))
			Expect(string(data)).To(ContainSubstring(`"refresh_token": "refresh-owner"`))
		})

		It("should not leave temporary files behind", func() {
			Expect(store.Save(doc)).To(Succeed())
			Expect(store.Save(doc)).To(Succeed())

			entries, err := os.ReadDir(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(HaveLen(1))
		})

		It("should refuse to save a credential without password", func() {
			doc[models.RoleUser] = models.RoleCredential{Email: "user@example.com"}

			err := store.Save(doc)
			Expect(srvErrors.IsValidationError(err)).To(BeTrue())
		})
	})

	Describe("Load", func() {
		It("should return ErrNotFound when no document exists", func() {
			_, err := store.Load()
			Expect(err).To(MatchError(credentials.ErrNotFound))
		})

		It("should return a ValidationError for malformed JSON", func() {
			Expect(os.WriteFile(path, []byte(`{"owner": [}`), 0600)).To(Succeed())

			_, err := store.Load()
			Expect(srvErrors.IsValidationError(err)).To(BeTrue())
		})

		It("should reject unknown roles", func() {
			Expect(os.WriteFile(path, []byte(`{"admin": {"email": "a", "password": "b"}}`), 0600)).To(Succeed())

			_, err := store.Load()
			Expect(srvErrors.IsValidationError(err)).To(BeTrue())
		})

		It("should accept null optional fields", func() {
			content := `{"owner": {"email": "o@example.com", "password": "p", "token": null, "folder_id": null}}`
			Expect(os.WriteFile(path, []byte(content), 0600)).To(Succeed())

			loaded, err := store.Load()
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded[models.RoleOwner].Token).To(BeEmpty())
		})
	})

	Describe("Get", func() {
		BeforeEach(func() {
			Expect(store.Save(doc)).To(Succeed())
		})

		It("should return the credential of a role", func() {
			cred, err := store.Get(models.RoleLauncher)
			Expect(err).NotTo(HaveOccurred())
			Expect(cred.Token).To(Equal("token-launcher"))
		})

		It("should return ResourceNotFoundError for a missing role", func() {
			delete(doc, models.RoleUser)
			Expect(store.Save(doc)).To(Succeed())

			_, err := store.Get(models.RoleUser)
			Expect(srvErrors.IsResourceNotFoundError(err)).To(BeTrue())
		})
	})

	Describe("Update", func() {
		BeforeEach(func() {
			Expect(store.Save(doc)).To(Succeed())
		})

		// Given a stored document
		// When we update the manager's tokens
		// Then only the manager's record changes
		It("should rewrite a single role and keep the others", func() {
			err := store.Update(models.RoleManager, func(c *models.RoleCredential) error {
				c.Token = "new-token"
				c.RefreshToken = "new-refresh"
				c.WorkspaceID = "ws-2"
				return nil
			})
			Expect(err).NotTo(HaveOccurred())

			loaded, err := store.Load()
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded[models.RoleManager].Token).To(Equal("new-token"))
			Expect(loaded[models.RoleManager].RefreshToken).To(Equal("new-refresh"))
			Expect(loaded[models.RoleManager].WorkspaceID).To(Equal("ws-2"))
			Expect(loaded[models.RoleManager].Email).To(Equal("manager@example.com"))
			Expect(loaded[models.RoleOwner]).To(Equal(doc[models.RoleOwner]))
		})

		It("should leave the file untouched when fn fails", func() {
			before, err := os.ReadFile(path)
			Expect(err).NotTo(HaveOccurred())

			err = store.Update(models.RoleOwner, func(c *models.RoleCredential) error {
				c.Token = "discarded"
				return srvErrors.NewConfigurationError("boom")
			})
			Expect(srvErrors.IsConfigurationError(err)).To(BeTrue())

			after, err := os.ReadFile(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(after).To(Equal(before))
		})

		It("should reject unknown roles", func() {
			err := store.Update(models.Role("admin"), func(c *models.RoleCredential) error { return nil })
			Expect(srvErrors.IsUnknownRoleError(err)).To(BeTrue())
		})
	})

	Describe("File permissions", func() {
		It("should create file with restrictive permissions", func() {
			Expect(store.Save(doc)).To(Succeed())

			info, err := os.Stat(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(info.Mode().Perm()).To(Equal(os.FileMode(0600)))
		})
	})

	Describe("Data folder creation", func() {
		It("should create nested directories if they don't exist", func() {
			nested := filepath.Join(tmpDir, "nested", "data", "user_data.json")
			nestedStore := credentials.NewDiskStore(nested)

			Expect(nestedStore.Save(doc)).To(Succeed())

			_, err := os.Stat(nested)
			Expect(err).NotTo(HaveOccurred())
		})
	})
})
