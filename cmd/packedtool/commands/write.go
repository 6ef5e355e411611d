package commands

import (
	"fmt"
	"math/rand"

	"github.com/balzaczyy/gopacked/core/codec"
	"github.com/balzaczyy/gopacked/core/store"
	"github.com/balzaczyy/gopacked/core/util"
	"github.com/balzaczyy/gopacked/core/util/packed"
	"github.com/spf13/cobra"
)

var (
	bitsPerValue int
	valueCount   int
	outFile      string
	pattern      string
	seed         int64
	overhead     float32
)

func init() {
	writeCmd.Flags().IntVar(&bitsPerValue, "bits", 8, "bits per value, 1-64")
	writeCmd.Flags().IntVar(&valueCount, "count", 1000, "number of values")
	writeCmd.Flags().StringVar(&outFile, "out", "", "file to write")
	writeCmd.Flags().StringVar(&pattern, "pattern", "mod", "values to write: mod or random")
	writeCmd.Flags().Int64Var(&seed, "seed", 0, "seed of the random pattern")
	writeCmd.Flags().Float32Var(&overhead, "overhead", packed.PackedInts.COMPACT, "acceptable overhead ratio")
	must(writeCmd.MarkFlagRequired("out"))
	rootCmd.AddCommand(writeCmd)
}

var writeCmd = &cobra.Command{
	Use:     "write",
	Short:   "Write a packed stream with header and checksum footer",
	Example: "packedtool write --bits 5 --count 100 --out /tmp/values.pck --pattern random --seed 42",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if bitsPerValue < 1 || bitsPerValue > 64 {
			return fmt.Errorf("--bits must be in [1,64] (got %v)", bitsPerValue)
		}
		if valueCount < 0 {
			return fmt.Errorf("--count must be >= 0 (got %v)", valueCount)
		}
		gen, err := valueGenerator(pattern, bitsPerValue, seed)
		if err != nil {
			return err
		}
		dir, name, err := openDirectory(outFile, false)
		if err != nil {
			return err
		}
		defer dir.Close()
		if err = WritePacked(dir, name, valueCount, bitsPerValue, overhead, gen); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %v values of %v bits to %v\n", valueCount, bitsPerValue, outFile)
		return nil
	},
}

// Returns the value at index i of the named pattern.
func valueGenerator(pattern string, bitsPerValue int, seed int64) (func(i int) int64, error) {
	maxValue := packed.MaxValue(bitsPerValue)
	switch pattern {
	case "mod":
		return func(i int) int64 { return int64(i) & maxValue }, nil
	case "random":
		r := rand.New(rand.NewSource(seed))
		if bitsPerValue == 64 {
			return func(int) int64 { return int64(r.Uint64()) }, nil
		}
		return func(int) int64 { return r.Int63() & maxValue }, nil
	}
	return nil, fmt.Errorf("unknown --pattern %q, expected mod or random", pattern)
}

/*
Writes valueCount values produced by gen to file name of dir, followed
by a codec footer.
*/
func WritePacked(dir store.Directory, name string, valueCount, bitsPerValue int,
	acceptableOverheadRatio float32, gen func(i int) int64) (err error) {
	out, err := dir.CreateOutput(name, store.IO_CONTEXT_DEFAULT)
	if err != nil {
		return err
	}
	defer func() {
		err = util.CloseWhileHandlingError(err, out)
	}()
	w, err := packed.GetWriter(out, valueCount, bitsPerValue, acceptableOverheadRatio)
	if err != nil {
		return err
	}
	log.Debugf("Writing %v values, %v bits per value on disk", valueCount, w.BitsPerValue())
	for i := 0; i < valueCount; i++ {
		if err = w.Add(gen(i)); err != nil {
			return err
		}
	}
	if err = w.Finish(); err != nil {
		return err
	}
	return codec.WriteFooter(out)
}
