package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var rmCmd = &cobra.Command{
	Use:   "rm [files...]",
	Short: "Delete stored files",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runRm,
}

func init() {
	rootCmd.AddCommand(rmCmd)
}

func runRm(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	result, err := newTransport(cfg).Delete(cmd.Context(), args)
	if err != nil {
		return err
	}

	failed := 0
	for _, name := range args {
		removed, ok := result[name]
		switch {
		case !ok:
			fmt.Printf("%s: skipped\n", name)
		case removed:
			fmt.Printf("%s: deleted\n", name)
		default:
			failed++
			fmt.Printf("%s: not deleted\n", name)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files not deleted", failed, len(args))
	}
	return nil
}
