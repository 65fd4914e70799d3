package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"sync/atomic"

	"github.com/spf13/cobra"
	lambdakernel "github.com/vilterp/lambdakernel/pkg"
	clog "github.com/vilterp/lambdakernel/pkg/log"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	url       string
	workers   int
	requests  int
	batchSize int
	maxN      int
	fuel      int
)

var rootCmd = &cobra.Command{
	Use:   "lambdakernel-workload",
	Short: "Send Church arithmetic equivalence checks to a server",
	Long: `Each request asks whether m+n or m*n computed on Church numerals is
equivalent to the numeral for the answer, or for the answer plus one.`,
	Args: cobra.NoArgs,
	RunE: runWorkload,
}

func init() {
	rootCmd.Flags().StringVar(&url, "url", "ws://localhost:9000/ws", "url of server to connect to")
	rootCmd.Flags().IntVar(&workers, "workers", 4, "concurrent connections")
	rootCmd.Flags().IntVar(&requests, "requests", 1000, "verifications per worker")
	rootCmd.Flags().IntVar(&batchSize, "batch", 1, "verifications per request")
	rootCmd.Flags().IntVar(&maxN, "max-n", 10, "largest numeral operand")
	rootCmd.Flags().IntVar(&fuel, "fuel", 10000, "fuel per verification")
}

const (
	plusSrc  = `(\m n s z. m s (n s z))`
	timesSrc = `(\m n s. m (n s))`
)

func church(n int) string {
	return fmt.Sprintf(`(\s z. %sz%s)`, strings.Repeat("s (", n), strings.Repeat(")", n))
}

// randomCheck returns a verification request and the verdict it should get.
func randomCheck(r *rand.Rand) (*lambdakernel.Request, string) {
	m, n := r.Intn(maxN+1), r.Intn(maxN+1)
	op, answer := plusSrc, m+n
	if r.Intn(2) == 0 {
		op, answer = timesSrc, m*n
	}
	expected := "equivalent"
	if r.Intn(4) == 0 {
		answer++
		expected = "not_equivalent"
	}
	f := fuel
	return &lambdakernel.Request{
		Op:   lambdakernel.OpVerify,
		A:    lambdakernel.Src(fmt.Sprintf("%s %s %s", op, church(m), church(n))),
		B:    lambdakernel.Src(church(answer)),
		Fuel: &f,
	}, expected
}

func runWorkload(cmd *cobra.Command, args []string) error {
	logger, err := clog.NewLogger(false)
	if err != nil {
		return err
	}
	clog.SetLogger(logger)

	var done, mismatches int64
	g, ctx := errgroup.WithContext(context.Background())
	for w := 0; w < workers; w++ {
		seed := int64(w)
		g.Go(func() error {
			client, err := lambdakernel.NewClient(url)
			if err != nil {
				return err
			}
			defer client.Close()
			r := rand.New(rand.NewSource(seed))

			for sent := 0; sent < requests; sent += batchSize {
				var batch []*lambdakernel.Request
				var expected []string
				for i := 0; i < batchSize; i++ {
					req, verdict := randomCheck(r)
					batch = append(batch, req)
					expected = append(expected, verdict)
				}

				responses, err := client.Batch(ctx, batch)
				if err != nil {
					return err
				}
				for idx, resp := range responses {
					if resp.Error != "" {
						return fmt.Errorf("request failed: %s", resp.Error)
					}
					if resp.Verify.Verdict != expected[idx] {
						atomic.AddInt64(&mismatches, 1)
						clog.L().Warn("unexpected verdict",
							zap.String("expected", expected[idx]),
							zap.String("got", resp.Verify.Verdict),
							zap.String("proof", resp.Verify.ProofID))
					}
				}
				if total := atomic.AddInt64(&done, int64(len(responses))); total%500 < int64(len(responses)) {
					clog.L().Info("progress", zap.Int64("verifications", total))
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	clog.L().Info("done",
		zap.Int64("verifications", atomic.LoadInt64(&done)),
		zap.Int64("unexpected", atomic.LoadInt64(&mismatches)))
	if mismatches > 0 {
		return fmt.Errorf("%d unexpected verdicts", mismatches)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
