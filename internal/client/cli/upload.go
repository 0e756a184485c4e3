package cli

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/avolkov/filedrop/internal/client/models"
	"github.com/avolkov/filedrop/internal/client/scheduler"
)

var (
	uploadSingle    bool
	uploadLimit     int
	uploadLimitSize int64
	uploadParallel  int
	uploadProgress  bool
)

var uploadCmd = &cobra.Command{
	Use:   "upload [files...]",
	Short: "Upload files to the server",
	Long: `Upload one or more files. The selection is grouped into batches by the
configured policy (single, fixed count, or size cap) and batches are sent
concurrently up to the parallel upload limit.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runUpload,
}

func init() {
	uploadCmd.Flags().BoolVar(&uploadSingle, "single", false, "one batch per file")
	uploadCmd.Flags().IntVar(&uploadLimit, "limit", 0, "maximum files per batch")
	uploadCmd.Flags().Int64Var(&uploadLimitSize, "limit-size", 0, "maximum batch payload size in bytes")
	uploadCmd.Flags().IntVarP(&uploadParallel, "parallel", "p", 0, "maximum concurrent batch uploads")
	uploadCmd.Flags().BoolVar(&uploadProgress, "progress", false, "print per-batch transfer progress")
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	if cmd.Flags().Changed("single") {
		cfg.Single = uploadSingle
	}
	if cmd.Flags().Changed("limit") {
		cfg.Limit = uploadLimit
	}
	if cmd.Flags().Changed("limit-size") {
		cfg.LimitSize = uploadLimitSize
	}
	if cmd.Flags().Changed("parallel") {
		cfg.ParallelUploads = uploadParallel
	}

	files, err := selectFiles(args)
	if err != nil {
		return err
	}

	sched, err := scheduler.New(scheduler.Options{
		Single:          cfg.Single,
		Limit:           cfg.Limit,
		LimitSize:       cfg.LimitSize,
		ParallelUploads: cfg.ParallelUploads,
		MinFileSize:     cfg.MinFileSize,
		MaxFileSize:     cfg.MaxFileSize,
		AcceptFileTypes: cfg.AcceptFileTypes,
	}, newTransport(cfg), newLogger())
	if err != nil {
		return err
	}

	batches := sched.Add(files)

	for i, b := range batches {
		if uploadProgress {
			n := i + 1
			b.OnProgress(func(p scheduler.Progress) {
				fmt.Printf("batch %d: %d/%d bytes\n", n, p.Loaded, p.Total)
			})
		}
		b.Send(cmd.Context())
	}

	failed := 0
	for _, b := range batches {
		b.Wait()

		if err := b.Err(); err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "batch %s failed: %v\n", b.ID, err)
			continue
		}

		for _, r := range b.Results() {
			if r.Error != "" {
				fmt.Printf("%s: %s\n", r.Name, r.Error)
				continue
			}
			fmt.Printf("%s -> %s (%d bytes)\n", r.Name, r.URL, r.Size)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d batches failed", failed, len(batches))
	}
	return nil
}

// selectFiles stats each path and builds the pending selection. A missing
// path fails the whole command before anything is sent.
func selectFiles(paths []string) ([]models.PendingFile, error) {
	out := make([]models.PendingFile, 0, len(paths))

	for _, p := range paths {
		fi, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", p, err)
		}
		if fi.IsDir() {
			return nil, fmt.Errorf("%s is a directory", p)
		}

		out = append(out, models.PendingFile{
			Name: filepath.Base(p),
			Path: p,
			Size: fi.Size(),
			Type: mime.TypeByExtension(filepath.Ext(p)),
		})
	}

	return out, nil
}
