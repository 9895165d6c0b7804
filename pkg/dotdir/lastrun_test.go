package dotdir_test

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/codestream/pkg/dotdir"
)

var _ = Describe("dotdir.Manager last run", func() {
	var tmpDir string
	var m *dotdir.Manager

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "dotdir-test-*")
		Expect(err).NotTo(HaveOccurred())
		m = dotdir.NewManager()
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	Describe("LoadLastRun", func() {
		It("returns nil when no record exists", func() {
			run, err := m.LoadLastRun(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(run).To(BeNil())
		})

		It("loads a valid record", func() {
			data := `{"prompt":"write fizzbuzz","kind":"code","language":"python","content":"def fizzbuzz(): pass"}`
			err := os.WriteFile(filepath.Join(tmpDir, "lastrun.json"), []byte(data), 0o600)
			Expect(err).NotTo(HaveOccurred())

			run, err := m.LoadLastRun(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(run).NotTo(BeNil())
			Expect(run.Prompt).To(Equal("write fizzbuzz"))
			Expect(run.Kind).To(Equal("code"))
			Expect(run.Language).To(Equal("python"))
			Expect(run.Content).To(Equal("def fizzbuzz(): pass"))
		})

		It("returns error for invalid JSON", func() {
			err := os.WriteFile(filepath.Join(tmpDir, "lastrun.json"), []byte("not json"), 0o600)
			Expect(err).NotTo(HaveOccurred())

			run, err := m.LoadLastRun(tmpDir)
			Expect(err).To(HaveOccurred())
			Expect(run).To(BeNil())
		})
	})

	Describe("SaveLastRun", func() {
		It("persists the record to disk", func() {
			run := &dotdir.LastRun{
				Prompt:    "explain goroutines",
				Kind:      "text",
				Language:  "markdown",
				Content:   "## Goroutines\nA goroutine is a lightweight thread.",
				CreatedAt: time.Now().UTC().Truncate(time.Second),
			}

			Expect(m.SaveLastRun(run, tmpDir)).To(Succeed())

			loaded, err := m.LoadLastRun(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded).To(Equal(run))
		})

		It("returns error for nil record", func() {
			Expect(m.SaveLastRun(nil, tmpDir)).To(HaveOccurred())
		})

		It("overwrites an existing record", func() {
			first := &dotdir.LastRun{Prompt: "first", Content: "a"}
			second := &dotdir.LastRun{Prompt: "second", Content: "b"}

			Expect(m.SaveLastRun(first, tmpDir)).To(Succeed())
			Expect(m.SaveLastRun(second, tmpDir)).To(Succeed())

			loaded, err := m.LoadLastRun(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.Prompt).To(Equal("second"))
		})
	})

	Describe("ClearLastRun", func() {
		It("removes the record file", func() {
			run := &dotdir.LastRun{Prompt: "to-clear"}
			Expect(m.SaveLastRun(run, tmpDir)).To(Succeed())

			Expect(m.ClearLastRun(tmpDir)).To(Succeed())

			loaded, err := m.LoadLastRun(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded).To(BeNil())
		})

		It("succeeds when no record exists", func() {
			Expect(m.ClearLastRun(tmpDir)).To(Succeed())
		})
	})
})
