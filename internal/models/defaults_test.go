package models_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/mlx-qa/mlx-e2e/internal/models"
)

var _ = Describe("Defaults", func() {
	Context("GenericProfile", func() {
		It("should build a valid mimic profile for the folder", func() {
			p := models.GenericProfile("folder-1")

			Expect(p.Validate()).To(Succeed())
			Expect(p.FolderID).To(Equal("folder-1"))
			Expect(p.BrowserType).To(Equal("mimic"))
			Expect(p.OSType).To(Equal("windows"))
			Expect(p.Times).To(Equal(1))
			Expect(p.Name).To(HavePrefix("e2e-"))
		})

		It("should generate a different name each time", func() {
			Expect(models.GenericProfile("f").Name).NotTo(Equal(models.GenericProfile("f").Name))
		})

		It("should fail validation without a folder", func() {
			Expect(models.GenericProfile("").Validate()).NotTo(Succeed())
		})
	})

	Context("TeamMonthlyPlan", func() {
		It("should target the workspace", func() {
			plan := models.TeamMonthlyPlan("ws-1")

			Expect(plan.WorkspaceID).To(Equal("ws-1"))
			Expect(plan.Restrictions.PlanName).To(Equal("Team Monthly"))
			Expect(plan.Restrictions.AllowedBrowserTypes).To(ConsistOf("mimic", "stealthfox", "android"))
			Expect(plan.Restrictions.Ratelimit).To(HaveLen(1))
		})
	})

	Context("TokenClaims", func() {
		It("should be valid strictly before expiry", func() {
			now := time.Now()
			claims := models.TokenClaims{ExpiresAt: now}

			Expect(claims.Valid(now.Add(-time.Second))).To(BeTrue())
			Expect(claims.Valid(now)).To(BeFalse())
		})
	})
})
