package certificates_test

import (
	"crypto/x509"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/mlx-qa/mlx-e2e/pkg/certificates"
)

var _ = Describe("Certification Provider", func() {
	Context("self signed certificate", func() {
		It("generates successfully", func() {
			cert, key, err := certificates.GenerateSelfSignedCertificate(time.Now().Add(10 * time.Second))
			Expect(err).To(BeNil())
			Expect(key).ToNot(BeNil())

			Expect(cert.Issuer.Organization).Should(ContainElement("MLX QA"))
			Expect(cert.Subject.OrganizationalUnit).Should(ContainElement("Launcher Sandbox"))
		})

		// Given a certificate with a future expiry
		// When we check the certificate validity
		// Then NotBefore should be before NotAfter
		It("has correct validity period", func() {
			expiry := time.Now().Add(24 * time.Hour)
			cert, _, err := certificates.GenerateSelfSignedCertificate(expiry)
			Expect(err).To(BeNil())

			Expect(cert.NotBefore).To(BeTemporally("<", cert.NotAfter))
			Expect(cert.NotAfter).To(BeTemporally("~", expiry, time.Second))
		})

		It("is valid for localhost", func() {
			cert, _, err := certificates.GenerateSelfSignedCertificate(time.Now().Add(time.Hour))
			Expect(err).To(BeNil())

			Expect(cert.VerifyHostname("localhost")).To(Succeed())
			Expect(cert.VerifyHostname("127.0.0.1")).To(Succeed())
			Expect(cert.ExtKeyUsage).To(ContainElement(x509.ExtKeyUsageServerAuth))
		})

		It("generates a 2048-bit RSA key", func() {
			_, key, err := certificates.GenerateSelfSignedCertificate(time.Now().Add(time.Hour))
			Expect(err).To(BeNil())

			Expect(key.N.BitLen()).To(Equal(2048))
		})
	})

	Context("TLS configuration", func() {
		It("carries one certificate and requires TLS 1.2", func() {
			cfg, err := certificates.TLSConfig(time.Now().Add(time.Hour))
			Expect(err).To(BeNil())

			Expect(cfg.Certificates).To(HaveLen(1))
			Expect(cfg.MinVersion).To(BeNumerically(">=", uint16(0x0303)))
		})
	})
})
