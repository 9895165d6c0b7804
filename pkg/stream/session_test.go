package stream_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/codestream/pkg/classify"
	"github.com/papercomputeco/codestream/pkg/stream"
)

// sseHandler writes the given SSE payload lines and optionally the [DONE]
// sentinel, flushing after every frame.
func sseHandler(payloads []string, done bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)

		for _, p := range payloads {
			fmt.Fprintf(w, "data: %s\n\n", p)
			flusher.Flush()
		}

		if done {
			fmt.Fprint(w, "data: [DONE]\n\n")
			flusher.Flush()
		}
	}
}

func deltaFrame(content string) string {
	return fmt.Sprintf(`{"choices":[{"delta":{"content":%q}}]}`, content)
}

var _ = Describe("Session", func() {
	Describe("Run", func() {
		It("accumulates deltas in order and completes on [DONE]", func() {
			srv := httptest.NewServer(sseHandler([]string{
				deltaFrame("const a = 1;\n"),
				deltaFrame("let b = 2;\n"),
				deltaFrame("function add() { return a + b; }"),
			}, true))
			defer srv.Close()

			client := stream.NewClient(srv.URL, nil)
			session := client.NewSession("write some javascript")

			var tokens []string
			session.OnToken(func(token string) {
				tokens = append(tokens, token)
			})

			Expect(session.Run(context.Background())).To(Succeed())

			Expect(session.State()).To(Equal(stream.StateCompleted))
			Expect(session.Output()).To(Equal("const a = 1;\nlet b = 2;\nfunction add() { return a + b; }"))
			Expect(tokens).To(Equal([]string{
				"const a = 1;\n",
				"let b = 2;\n",
				"function add() { return a + b; }",
			}))
		})

		It("classifies the final output exactly once on completion", func() {
			srv := httptest.NewServer(sseHandler([]string{
				deltaFrame("import os\n"),
				deltaFrame("def main():\n    pass"),
			}, true))
			defer srv.Close()

			client := stream.NewClient(srv.URL, nil)
			session := client.NewSession("write fizzbuzz in python")

			Expect(session.Run(context.Background())).To(Succeed())

			result := session.Classification()
			Expect(result).NotTo(BeNil())
			Expect(result.Kind).To(Equal(classify.KindCode))
			Expect(result.Language).To(Equal("python"))
		})

		It("treats EOF without [DONE] as clean completion", func() {
			srv := httptest.NewServer(sseHandler([]string{deltaFrame("hello")}, false))
			defer srv.Close()

			client := stream.NewClient(srv.URL, nil)
			session := client.NewSession("say hello")

			Expect(session.Run(context.Background())).To(Succeed())
			Expect(session.State()).To(Equal(stream.StateCompleted))
			Expect(session.Output()).To(Equal("hello"))
		})

		It("drops malformed and contentless frames without ending the stream", func() {
			srv := httptest.NewServer(sseHandler([]string{
				deltaFrame("keep "),
				`{"not valid json`,
				`{"choices":[]}`,
				`{"choices":[{"delta":{"role":"assistant"}}]}`,
				deltaFrame("going"),
			}, true))
			defer srv.Close()

			client := stream.NewClient(srv.URL, nil)
			session := client.NewSession("resilience check")

			Expect(session.Run(context.Background())).To(Succeed())
			Expect(session.State()).To(Equal(stream.StateCompleted))
			Expect(session.Output()).To(Equal("keep going"))
		})

		It("fails on an error frame and keeps partial output", func() {
			srv := httptest.NewServer(sseHandler([]string{
				deltaFrame("partial"),
				`{"error":{"message":"rate limited"}}`,
			}, false))
			defer srv.Close()

			client := stream.NewClient(srv.URL, nil)
			session := client.NewSession("doomed prompt")

			err := session.Run(context.Background())
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("rate limited"))

			Expect(session.State()).To(Equal(stream.StateFailed))
			Expect(session.Output()).To(Equal("partial"))
			Expect(session.Classification()).To(BeNil())
			Expect(session.Err()).To(MatchError(err))
		})

		It("fails on a non-200 response", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
				fmt.Fprint(w, `{"error":"upstream unavailable"}`)
			}))
			defer srv.Close()

			client := stream.NewClient(srv.URL, nil)
			session := client.NewSession("anything")

			err := session.Run(context.Background())
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("502"))
			Expect(err.Error()).To(ContainSubstring("upstream unavailable"))
			Expect(session.State()).To(Equal(stream.StateFailed))
		})

		It("rejects an empty prompt before any network call", func() {
			var requests atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				requests.Add(1)
			}))
			defer srv.Close()

			client := stream.NewClient(srv.URL, nil)
			session := client.NewSession("   \n\t ")

			err := session.Run(context.Background())
			Expect(err).To(MatchError(stream.ErrEmptyPrompt))
			Expect(session.State()).To(Equal(stream.StateFailed))
			Expect(requests.Load()).To(BeZero())
		})

		It("refuses to run twice", func() {
			srv := httptest.NewServer(sseHandler(nil, true))
			defer srv.Close()

			client := stream.NewClient(srv.URL, nil)
			session := client.NewSession("once only")

			Expect(session.Run(context.Background())).To(Succeed())
			Expect(session.Run(context.Background())).To(MatchError(stream.ErrNotIdle))
		})
	})

	Describe("Cancel", func() {
		It("moves a running session to cancelled and keeps partial output", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "text/event-stream")
				flusher := w.(http.Flusher)

				fmt.Fprintf(w, "data: %s\n\n", deltaFrame("const x = 1;\n"))
				fmt.Fprintf(w, "data: %s\n\n", deltaFrame("let y = 2;\nfunction f() {}"))
				flusher.Flush()

				// Hold the stream open until the client tears it down.
				<-r.Context().Done()
			}))
			defer srv.Close()

			client := stream.NewClient(srv.URL, nil)
			session := client.NewSession("never-ending stream")

			tokens := 0
			session.OnToken(func(string) {
				tokens++
				if tokens == 2 {
					session.Cancel()
				}
			})

			Expect(session.Run(context.Background())).To(Succeed())

			Expect(session.State()).To(Equal(stream.StateCancelled))
			Expect(session.Output()).To(Equal("const x = 1;\nlet y = 2;\nfunction f() {}"))
			Expect(session.Err()).NotTo(HaveOccurred())

			// Cancelled sessions still classify whatever arrived.
			result := session.Classification()
			Expect(result).NotTo(BeNil())
			Expect(result.Language).To(Equal("javascript"))
		})

		It("pre-empts a session cancelled before Run", func() {
			var requests atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				requests.Add(1)
			}))
			defer srv.Close()

			client := stream.NewClient(srv.URL, nil)
			session := client.NewSession("cancelled early")

			session.Cancel()
			Expect(session.Run(context.Background())).To(Succeed())

			Expect(session.State()).To(Equal(stream.StateCancelled))
			Expect(requests.Load()).To(BeZero())
		})

		It("is idempotent after a terminal state", func() {
			srv := httptest.NewServer(sseHandler([]string{deltaFrame("done")}, true))
			defer srv.Close()

			client := stream.NewClient(srv.URL, nil)
			session := client.NewSession("finish then cancel")

			Expect(session.Run(context.Background())).To(Succeed())
			Expect(session.State()).To(Equal(stream.StateCompleted))

			session.Cancel()
			session.Cancel()

			Expect(session.State()).To(Equal(stream.StateCompleted))
			Expect(session.Output()).To(Equal("done"))
		})
	})

	Describe("State", func() {
		It("marks terminal states", func() {
			Expect(stream.StateIdle.Terminal()).To(BeFalse())
			Expect(stream.StateRunning.Terminal()).To(BeFalse())
			Expect(stream.StateCompleted.Terminal()).To(BeTrue())
			Expect(stream.StateFailed.Terminal()).To(BeTrue())
			Expect(stream.StateCancelled.Terminal()).To(BeTrue())
		})
	})
})
