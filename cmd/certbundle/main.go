// Command certbundle is the producer/validator CLI for the
// certificate-bundle optimization, grounded on the teacher's cmd/cmd.go
// command-tree assembly and tools/sec's per-tool cobra.Command pattern.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const banner = `
  ____          _   ____                  _ _
 / ___|___ _ __| |_| __ ) _   _ _ __   __| | | ___
| |   / _ \ '__| __|  _ \| | | | '_ \ / _  | |/ _ \
| |__|  __/ |  | |_| |_) | |_| | | | | (_| | |  __/
 \____\___|_|   \__|____/ \__,_|_| |_|\__,_|_|\___|

Certificate Bundle Optimization for NDN
`

var rootCmd = &cobra.Command{
	Use:   "certbundle",
	Short: "Certificate bundle producer and validator",
	Long:  banner[1:],
}

func init() {
	cobra.EnableCommandSorting = false
	rootCmd.AddGroup(&cobra.Group{ID: "sec", Title: "Bundle Commands"})
	rootCmd.AddCommand(cmdProduce())
	rootCmd.AddCommand(cmdValidate())
	rootCmd.AddCommand(cmdKeygen())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
