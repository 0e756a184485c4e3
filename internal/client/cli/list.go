package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/avolkov/filedrop/internal/pagex"
)

var (
	listLimit  int
	listOffset int
	listSort   int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored files",
	Long: `List files stored on the server, one page at a time.
Sort codes: 1/2 mtime asc/desc, 3/4 size asc/desc, 5/6 name asc/desc.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().IntVarP(&listLimit, "limit", "l", 20, "files per page")
	listCmd.Flags().IntVarP(&listOffset, "offset", "o", 0, "listing offset")
	listCmd.Flags().IntVar(&listSort, "sort", 0, "sort code (server default when 0)")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	res, err := newTransport(cfg).List(cmd.Context(), listLimit, listOffset, listSort)
	if err != nil {
		return err
	}

	for _, f := range res.Files {
		line := fmt.Sprintf("%-40s %10d  %s", f.Name, f.Size, time.Unix(f.Time, 0).Format("2006-01-02 15:04"))
		if f.Width > 0 {
			line += fmt.Sprintf("  %dx%d", f.Width, f.Height)
		}
		fmt.Println(line)
	}

	if listLimit > 0 && res.Total > len(res.Files) {
		current := listOffset/listLimit + 1
		page := pagex.Window(res.Total, listLimit, current, 1)
		fmt.Printf("page %d of %d (%d files, pages %d-%d nearby)\n",
			page.CurrentPage, page.LastPage, page.Total, page.FirstAdjacentPage, page.LastAdjacentPage)
	} else {
		fmt.Printf("%d files\n", res.Total)
	}

	return nil
}
