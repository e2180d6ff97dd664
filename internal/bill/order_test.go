package bill

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("CompareDatesDescending", func() {
	It("should put the more recent date first", func() {
		Expect(CompareDatesDescending("2004-04-04", "2003-03-03")).To(Equal(-1))
	})

	It("should put the earlier date last", func() {
		Expect(CompareDatesDescending("2001-01-01", "2002-02-02")).To(Equal(1))
	})

	It("should treat equal dates as equal", func() {
		Expect(CompareDatesDescending("2002-02-02", "2002-02-02")).To(Equal(0))
	})
})

var _ = Describe("SortByDateDescending", func() {
	var bills []*Bill

	JustBeforeEach(func() {
		SortByDateDescending(bills)
	})

	When("bills are in arbitrary order", func() {
		BeforeEach(func() {
			bills = []*Bill{
				{ID: "a", Date: "2004-04-04"},
				{ID: "b", Date: "2001-01-01"},
				{ID: "c", Date: "2003-03-03"},
				{ID: "d", Date: "2002-02-02"},
			}
		})

		It("should order them from most recent to earliest", func() {
			for i := 0; i < len(bills)-1; i++ {
				Expect(bills[i].Date >= bills[i+1].Date).To(BeTrue())
			}
			Expect(bills[0].ID).To(Equal("a"))
			Expect(bills[3].ID).To(Equal("b"))
		})
	})

	When("bills share a date", func() {
		BeforeEach(func() {
			bills = []*Bill{
				{ID: "first", Date: "2002-02-02"},
				{ID: "newer", Date: "2003-03-03"},
				{ID: "second", Date: "2002-02-02"},
			}
		})

		It("should keep their relative order", func() {
			Expect(bills[0].ID).To(Equal("newer"))
			Expect(bills[1].ID).To(Equal("first"))
			Expect(bills[2].ID).To(Equal("second"))
		})
	})

	When("there is a single bill", func() {
		BeforeEach(func() {
			bills = []*Bill{{ID: "only", Date: "2002-02-02"}}
		})

		It("should leave it in place", func() {
			Expect(bills).To(HaveLen(1))
			Expect(bills[0].ID).To(Equal("only"))
		})
	})

	When("there are no bills", func() {
		BeforeEach(func() {
			bills = nil
		})

		It("should leave the slice empty", func() {
			Expect(bills).To(BeEmpty())
		})
	})
})
