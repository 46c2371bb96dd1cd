package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"qsrescue/internal/util"
)

var inspectLength int

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Hex-dump the head of a segment file",
	Long: `Inspect prints a hex dump of the start of a segment file, useful for
eyeballing the segment header and the first entries before committing to an
extraction strategy.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}
		fmt.Printf("%s: %d bytes\n\n", args[0], len(data))
		fmt.Print(util.HexDump(data, 0, inspectLength))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().IntVar(&inspectLength, "length", 256, "bytes to dump")
}
