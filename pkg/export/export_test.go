package export

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Export", func() {
	It("carries the document bytes unchanged", func() {
		a := Export("print('hi')\n", "python")
		Expect(a.Bytes).To(Equal([]byte("print('hi')\n")))
	})

	It("serves artifacts as plain text", func() {
		a := Export("body { margin: 0; }", "css")
		Expect(a.MIMEType).To(Equal("text/plain; charset=utf-8"))
	})

	It("names the file by language extension", func() {
		a := Export("const x = 1;", "javascript")
		Expect(a.Filename).To(MatchRegexp(`^codestream-[0-9a-f]{8}\.js$`))
	})

	It("falls back to txt for unmapped languages", func() {
		a := Export("BEGIN", "cobol")
		Expect(a.Filename).To(HaveSuffix(".txt"))
	})

	It("generates distinct filenames per call", func() {
		a := Export("x", "sql")
		b := Export("x", "sql")
		Expect(a.Filename).NotTo(Equal(b.Filename))
	})

	DescribeTable("extension mapping",
		func(language, ext string) {
			Expect(Extension(language)).To(Equal(ext))
		},
		Entry("javascript", "javascript", "js"),
		Entry("typescript", "typescript", "ts"),
		Entry("tsx", "tsx", "tsx"),
		Entry("python", "python", "py"),
		Entry("rust", "rust", "rs"),
		Entry("markdown", "markdown", "md"),
		Entry("unknown", "brainfuck", "txt"),
	)
})
