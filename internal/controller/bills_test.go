package controller

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/zombor/billed/internal/bill"
	"github.com/zombor/billed/internal/store"
)

var _ = Describe("BillsController", func() {
	var (
		st         *mockStore
		nav        *navRecorder
		controller *BillsController
		ctx        context.Context
	)

	BeforeEach(func() {
		st = newMockStore()
		st.bills = fixtureBills()
		nav = &navRecorder{}
		controller = NewBillsController(st, nav.navigate)
		ctx = context.Background()
	})

	Describe("OnActivate", func() {
		var page Page

		JustBeforeEach(func() {
			page = controller.OnActivate(ctx)
		})

		When("the store returns bills", func() {
			It("should call the store once", func() {
				Expect(st.listCalls).To(Equal(1))
			})

			It("should return every bill", func() {
				Expect(page.Err).To(BeEmpty())
				names := make([]string, 0, len(page.Bills))
				for _, b := range page.Bills {
					names = append(names, b.Name)
				}
				Expect(names).To(ConsistOf("test1", "test2", "test3", "encore"))
			})

			It("should order them from most recent to earliest", func() {
				for i := 0; i < len(page.Bills)-1; i++ {
					Expect(bill.CompareDatesDescending(page.Bills[i].Date, page.Bills[i+1].Date)).To(BeNumerically("<=", 0))
				}
				Expect(page.Bills[0].Date).To(Equal("2004-04-04"))
			})
		})

		When("the store fails with Erreur 404", func() {
			BeforeEach(func() {
				st.listErr = errors.New("Erreur 404")
			})

			It("should carry the message instead of bills", func() {
				Expect(page.Err).To(Equal("Erreur 404"))
				Expect(page.Bills).To(BeNil())
			})

			It("should not retry", func() {
				Expect(st.listCalls).To(Equal(1))
			})
		})

		When("there is no store", func() {
			BeforeEach(func() {
				controller = NewBillsController(nil, nav.navigate)
			})

			It("should return an empty list", func() {
				Expect(page.Err).To(BeEmpty())
				Expect(page.Bills).To(BeEmpty())
			})
		})
	})

	Describe("OnReceiptActionClicked", func() {
		It("should preview the receipt url and name", func() {
			first := fixtureBills()[0]
			preview := controller.OnReceiptActionClicked(first)
			Expect(preview.URL).To(MatchRegexp(`.*c1640e12-a24b-4b11-ae52-529112e9602a$`))
			Expect(preview.FileName).To(Equal("preview-facture-free-201801-pdf-1.jpg"))
		})

		It("should not call the store", func() {
			controller.OnReceiptActionClicked(fixtureBills()[0])
			Expect(st.listCalls).To(BeZero())
		})
	})

	Describe("OnNewBillClicked", func() {
		It("should navigate to the new bill page", func() {
			controller.OnNewBillClicked()
			Expect(nav.paths).To(Equal([]string{RouteNewBill}))
		})
	})

	Describe("Find", func() {
		It("should return the matching bill", func() {
			b, err := controller.Find(ctx, "UIUZtnPQvnbFnB0ozvJh")
			Expect(err).NotTo(HaveOccurred())
			Expect(b.Name).To(Equal("test3"))
		})

		It("should return ErrNotFound for an unknown id", func() {
			_, err := controller.Find(ctx, "missing")
			Expect(err).To(MatchError(store.ErrNotFound))
		})

		It("should wrap store failures", func() {
			st.listErr = errors.New("Erreur 500")
			_, err := controller.Find(ctx, "missing")
			Expect(err).To(MatchError(st.listErr))
		})
	})
})
