package main_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestMembershipBackend(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "MembershipBackend Suite")
}

var _ = Describe("OpenAPI document", func() {
	It("should parse and validate api/openapi.yml", func() {
		doc, err := loadOpenAPIDoc("api/openapi.yml")
		Expect(err).NotTo(HaveOccurred())
		Expect(doc.Validate(loaderContext())).To(Succeed())

		Expect(doc.Paths.Find("/verify-payment")).NotTo(BeNil())
		Expect(doc.Paths.Find("/create-order")).NotTo(BeNil())
		Expect(doc.Paths.Find("/membership-amount")).NotTo(BeNil())
	})
})
