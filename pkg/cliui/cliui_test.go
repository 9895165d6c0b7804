package cliui

import (
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Mark", func() {
	It("returns the success mark for a nil error", func() {
		Expect(Mark(nil)).To(Equal(SuccessMark))
	})

	It("returns the fail mark for a non-nil error", func() {
		Expect(Mark(errors.New("boom"))).To(Equal(FailMark))
	})
})

var _ = Describe("FormatDuration", func() {
	It("formats sub-second durations in milliseconds", func() {
		Expect(FormatDuration(12 * time.Millisecond)).To(Equal("12ms"))
	})

	It("formats second-scale durations with one decimal", func() {
		Expect(FormatDuration(3200 * time.Millisecond)).To(Equal("3.2s"))
	})
})

var _ = Describe("RenderMarkdown", func() {
	It("renders markdown content", func() {
		rendered, err := RenderMarkdown("# Title\n\n- item\n")
		Expect(err).NotTo(HaveOccurred())
		Expect(rendered).To(ContainSubstring("Title"))
		Expect(rendered).To(ContainSubstring("item"))
	})

	It("keeps plain text content intact", func() {
		rendered, err := RenderMarkdown("just text")
		Expect(err).NotTo(HaveOccurred())
		Expect(rendered).To(ContainSubstring("just text"))
	})
})
