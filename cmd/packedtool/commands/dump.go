package commands

import (
	"fmt"

	"github.com/c2h5oh/datasize"
	"github.com/spf13/cobra"
)

var (
	limit   int
	useMmap bool
	iterate bool
)

func init() {
	dumpCmd.Flags().IntVar(&limit, "limit", 20, "number of values to print, -1 prints all")
	dumpCmd.Flags().BoolVar(&useMmap, "mmap", false, "read the file through a memory-mapped directory")
	dumpCmd.Flags().BoolVar(&iterate, "iterate", false, "decode sequentially instead of loading a reader")
	rootCmd.AddCommand(dumpCmd)
}

var dumpCmd = &cobra.Command{
	Use:     "dump FILE",
	Short:   "Print the header and values of a packed stream",
	Example: "packedtool dump /tmp/values.pck --limit 10 --mmap",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		printValue := func(i int, v int64) error {
			if limit < 0 || i < limit {
				fmt.Fprintf(out, "%v\t%v\n", i, v)
			}
			return nil
		}

		if iterate {
			h, err := iterateStream(args[0], useMmap, printValue)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%v\n", h)
			return nil
		}

		h, r, err := loadStream(args[0], useMmap)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%v\n", h)
		fmt.Fprintf(out, "impl: %T\n", r)
		fmt.Fprintf(out, "ram: %v\n", datasize.ByteSize(r.RamBytesUsed()).HumanReadable())
		for i := 0; i < r.Size(); i++ {
			if limit >= 0 && i >= limit {
				break
			}
			printValue(i, r.Get(i))
		}
		return nil
	},
}
