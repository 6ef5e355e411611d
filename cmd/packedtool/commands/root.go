package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/balzaczyy/gopacked/core/store"
	"github.com/c2h5oh/datasize"
	"github.com/op/go-logging"
	"github.com/spf13/cobra"
)

var log = logging.MustGetLogger("packedtool")

var (
	verbose bool
	memFlag string // memory budget for decoded streams, e.g. "64MB"
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print debug logs")
	rootCmd.PersistentFlags().StringVar(&memFlag, "mem", "1GB", "memory budget of a decoded stream")
}

var rootCmd = &cobra.Command{
	Use:   "packedtool",
	Short: "packedtool writes, dumps and verifies packed integer streams",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := logging.INFO
		if verbose {
			level = logging.DEBUG
		}
		logging.SetLevel(level, "")
		_, err := memBudget()
		return err
	},
	SilenceUsage: true,
}

func Execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

func memBudget() (datasize.ByteSize, error) {
	budget, err := datasize.ParseString(memFlag)
	if err != nil {
		return 0, fmt.Errorf("invalid --mem %q: %w", memFlag, err)
	}
	return budget, nil
}

func checkBudget(name string, ramBytesUsed int64) error {
	budget, err := memBudget()
	if err != nil {
		return err
	}
	if used := datasize.ByteSize(ramBytesUsed); used > budget {
		return fmt.Errorf("%v needs %v, over the --mem budget of %v",
			name, used.HumanReadable(), budget.HumanReadable())
	}
	return nil
}

// Opens the directory holding path; mmap selects an MMapDirectory.
func openDirectory(path string, mmap bool) (store.Directory, string, error) {
	dir, name := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	if mmap {
		d, err := store.NewMMapDirectory(dir)
		return d, name, err
	}
	d, err := store.OpenFSDirectory(dir)
	return d, name, err
}
