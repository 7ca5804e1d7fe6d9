package token_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/mlx-qa/mlx-e2e/internal/models"
	srvErrors "github.com/mlx-qa/mlx-e2e/pkg/errors"
	"github.com/mlx-qa/mlx-e2e/pkg/token"
)

var _ = Describe("Decode", func() {
	DescribeTable("should yield role, workspace id and expiry for every role",
		func(role models.Role) {
			exp := time.Now().Add(time.Hour).Truncate(time.Second)
			raw := newToken(role, "ws-"+string(role), exp)

			claims, err := token.Decode(raw)
			Expect(err).NotTo(HaveOccurred())
			Expect(claims.Role).To(Equal(role))
			Expect(claims.WorkspaceID).To(Equal("ws-" + string(role)))
			Expect(claims.ExpiresAt).To(BeTemporally("==", exp))
		},
		Entry("owner", models.RoleOwner),
		Entry("manager", models.RoleManager),
		Entry("user", models.RoleUser),
		Entry("launcher", models.RoleLauncher),
	)

	It("should not verify the signature", func() {
		raw := newToken(models.RoleOwner, "ws-1", time.Now().Add(time.Hour))
		tampered := raw[:len(raw)-4] + "AAAA"

		claims, err := token.Decode(tampered)
		Expect(err).NotTo(HaveOccurred())
		Expect(claims.Role).To(Equal(models.RoleOwner))
	})

	It("should decode expired tokens", func() {
		raw := newToken(models.RoleUser, "ws-1", time.Now().Add(-time.Hour))

		claims, err := token.Decode(raw)
		Expect(err).NotTo(HaveOccurred())
		Expect(claims.Valid(time.Now())).To(BeFalse())
	})

	DescribeTable("should return a TokenDecodeError",
		func(raw string) {
			_, err := token.Decode(raw)
			Expect(err).To(HaveOccurred())
			Expect(srvErrors.IsTokenDecodeError(err)).To(BeTrue())
		},
		Entry("for an empty token", ""),
		Entry("for garbage", "not.a.jwt"),
		Entry("for a token with an unknown role", newToken(models.Role("admin"), "ws", time.Now().Add(time.Hour))),
		// {"alg":"HS256"}.{"workspaceRole":"owner"}
		Entry("for a token without exp", "eyJhbGciOiJIUzI1NiJ9.eyJ3b3Jrc3BhY2VSb2xlIjoib3duZXIifQ.c2ln"),
	)
})
