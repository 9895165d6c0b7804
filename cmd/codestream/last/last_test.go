package lastcmder_test

import (
	"bytes"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	lastcmder "github.com/papercomputeco/codestream/cmd/codestream/last"
	"github.com/papercomputeco/codestream/pkg/dotdir"
)

var _ = Describe("NewLastCmd", func() {
	It("creates a command with the correct use string", func() {
		cmd := lastcmder.NewLastCmd()
		Expect(cmd.Use).To(Equal("last"))
	})

	It("has --export and --clear flags", func() {
		cmd := lastcmder.NewLastCmd()
		Expect(cmd.Flags().Lookup("export")).NotTo(BeNil())
		Expect(cmd.Flags().Lookup("clear")).NotTo(BeNil())
	})
})

var _ = Describe("Last command execution", func() {
	var (
		tmpDir  string
		origDir string
	)

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "codestream-last-test-*")
		Expect(err).NotTo(HaveOccurred())

		origDir, err = os.Getwd()
		Expect(err).NotTo(HaveOccurred())

		err = os.MkdirAll(filepath.Join(tmpDir, ".codestream"), 0o755)
		Expect(err).NotTo(HaveOccurred())

		err = os.Chdir(tmpDir)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		err := os.Chdir(origDir)
		Expect(err).NotTo(HaveOccurred())
		os.RemoveAll(tmpDir)
	})

	saveRun := func() {
		err := dotdir.NewManager().SaveLastRun(&dotdir.LastRun{
			Prompt:    "fizzbuzz in python",
			Kind:      "code",
			Language:  "python",
			Content:   "def fizzbuzz(n): ...",
			CreatedAt: time.Now().UTC(),
		}, "")
		Expect(err).NotTo(HaveOccurred())
	}

	It("prints the recorded generation", func() {
		saveRun()

		var out bytes.Buffer
		cmd := lastcmder.NewLastCmd()
		cmd.SetOut(&out)
		cmd.SetArgs([]string{})
		err := cmd.Execute()
		Expect(err).NotTo(HaveOccurred())

		Expect(out.String()).To(ContainSubstring("fizzbuzz in python"))
		Expect(out.String()).To(ContainSubstring("code/python"))
		Expect(out.String()).To(ContainSubstring("def fizzbuzz(n): ..."))
	})

	It("reports when nothing has been recorded", func() {
		var out bytes.Buffer
		cmd := lastcmder.NewLastCmd()
		cmd.SetOut(&out)
		cmd.SetArgs([]string{})
		err := cmd.Execute()
		Expect(err).NotTo(HaveOccurred())

		Expect(out.String()).To(ContainSubstring("no generation recorded"))
	})

	It("re-exports the recorded output with --export", func() {
		saveRun()

		cmd := lastcmder.NewLastCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetArgs([]string{"--export"})
		err := cmd.Execute()
		Expect(err).NotTo(HaveOccurred())

		matches, err := filepath.Glob(filepath.Join(tmpDir, "codestream-*.py"))
		Expect(err).NotTo(HaveOccurred())
		Expect(matches).To(HaveLen(1))

		data, err := os.ReadFile(matches[0])
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(Equal("def fizzbuzz(n): ..."))
	})

	It("forgets the record with --clear", func() {
		saveRun()

		cmd := lastcmder.NewLastCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetArgs([]string{"--clear"})
		err := cmd.Execute()
		Expect(err).NotTo(HaveOccurred())

		run, err := dotdir.NewManager().LoadLastRun("")
		Expect(err).NotTo(HaveOccurred())
		Expect(run).To(BeNil())
	})

	It("clearing twice is not an error", func() {
		cmd := lastcmder.NewLastCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetArgs([]string{"--clear"})
		Expect(cmd.Execute()).NotTo(HaveOccurred())

		again := lastcmder.NewLastCmd()
		again.SetOut(&bytes.Buffer{})
		again.SetArgs([]string{"--clear"})
		Expect(again.Execute()).NotTo(HaveOccurred())
	})
})
