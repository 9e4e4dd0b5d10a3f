package reimbursement_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"hsaledger/internal/reimbursement"
)

var _ = Describe("ParseRange", func() {
	It("should expand a year to that calendar year", func() {
		rng, err := reimbursement.ParseRange("", "", "2024")

		Expect(err).ToNot(HaveOccurred())
		Expect(*rng.From).To(Equal(time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)))
		Expect(*rng.To).To(Equal(time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC)))
	})

	It("should let explicit bounds win over the year shorthand", func() {
		rng, err := reimbursement.ParseRange("2024-03-01", "", "2020")

		Expect(err).ToNot(HaveOccurred())
		Expect(rng.From.Format("2006-01-02")).To(Equal("2024-03-01"))
		Expect(rng.To).To(BeNil())
	})

	It("should reject malformed bounds", func() {
		_, err := reimbursement.ParseRange("03/01/2024", "", "")
		Expect(err).To(HaveOccurred())

		_, err = reimbursement.ParseRange("", "not-a-date", "")
		Expect(err).To(HaveOccurred())

		_, err = reimbursement.ParseRange("", "", "24")
		Expect(err).To(HaveOccurred())
	})

	It("should reject an inverted range", func() {
		_, err := reimbursement.ParseRange("2024-06-30", "2024-01-01", "")

		Expect(err).To(HaveOccurred())
	})

	It("should return the unbounded range when nothing is given", func() {
		rng, err := reimbursement.ParseRange("", "", "")

		Expect(err).ToNot(HaveOccurred())
		Expect(rng.From).To(BeNil())
		Expect(rng.To).To(BeNil())
	})
})

var _ = Describe("DateRange Contains", func() {
	It("should include both inclusive ends", func() {
		rng, err := reimbursement.ParseRange("2024-01-01", "2024-12-31", "")
		Expect(err).ToNot(HaveOccurred())

		Expect(rng.Contains(time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC))).To(BeTrue())
		Expect(rng.Contains(time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC))).To(BeTrue())
		Expect(rng.Contains(time.Date(2023, time.December, 31, 0, 0, 0, 0, time.UTC))).To(BeFalse())
		Expect(rng.Contains(time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC))).To(BeFalse())
	})
})
