package bill

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("IsAcceptedExtension", func() {
	DescribeTable("accepted image types",
		func(fileName string) {
			Expect(IsAcceptedExtension(fileName)).To(BeTrue())
		},
		Entry("jpg", "test.jpg"),
		Entry("jpeg", "test.jpeg"),
		Entry("png", "test.png"),
		Entry("upper case", "SCAN.JPG"),
		Entry("mixed case", "photo.PnG"),
		Entry("several dots", "preview-facture-free-201801.pdf.jpg"),
	)

	DescribeTable("rejected names",
		func(fileName string) {
			Expect(IsAcceptedExtension(fileName)).To(BeFalse())
		},
		Entry("pdf", "test.pdf"),
		Entry("gif", "test.gif"),
		Entry("no extension", "receipt"),
		Entry("empty", ""),
		Entry("trailing dot", "receipt."),
		Entry("image extension before the last dot", "test.jpg.pdf"),
		Entry("extension as a prefix", "test.jpgx"),
	)
})
