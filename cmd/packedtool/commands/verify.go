package commands

import (
	"fmt"
	"time"

	"github.com/balzaczyy/gopacked/core/util/packed"
	"github.com/spf13/cobra"
)

var workers int

func init() {
	verifyCmd.Flags().IntVar(&workers, "workers", 4, "number of goroutines comparing values")
	verifyCmd.Flags().BoolVar(&useMmap, "mmap", false, "read the file through a memory-mapped directory")
	rootCmd.AddCommand(verifyCmd)
}

var verifyCmd = &cobra.Command{
	Use:     "verify FILE",
	Short:   "Check that random access and sequential decoding of a packed stream agree",
	Example: "packedtool verify /tmp/values.pck --workers 8",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if workers < 1 {
			return fmt.Errorf("--workers must be >= 1 (got %v)", workers)
		}
		return Verify(cmd, args[0], useMmap, workers)
	},
}

/*
Decodes path twice, once through a Reader and once through a
ReaderIterator, then compares the two concurrently.
*/
func Verify(cmd *cobra.Command, path string, mmap bool, workers int) error {
	start := time.Now()
	h, r, err := loadStream(path, mmap)
	if err != nil {
		return err
	}
	expected := make([]int64, 0, h.ValueCount)
	if _, err = iterateStream(path, mmap, func(i int, v int64) error {
		expected = append(expected, v)
		return nil
	}); err != nil {
		return err
	}
	if len(expected) != r.Size() {
		return fmt.Errorf("%v: iterator returned %v values, reader has %v", path, len(expected), r.Size())
	}
	err = packed.VerifyConcurrent(cmd.Context(), r, workers, func(i int, v int64) error {
		if v != expected[i] {
			return fmt.Errorf("%v: value %v differs: reader=%v iterator=%v", path, i, v, expected[i])
		}
		return nil
	})
	if err != nil {
		return err
	}
	log.Infof("Verified %v in %v", path, time.Since(start))
	fmt.Fprintf(cmd.OutOrStdout(), "ok: %v values, %v bits per value (%T)\n", r.Size(), r.BitsPerValue(), r)
	return nil
}
