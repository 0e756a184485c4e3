package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/avolkov/filedrop/internal/client/transport"
)

var (
	cropX      int
	cropY      int
	cropWidth  int
	cropHeight int
	cropRotate int
	cropFlipH  bool
	cropFlipV  bool
)

var cropCmd = &cobra.Command{
	Use:   "crop [file]",
	Short: "Crop a stored image on the server",
	Long: `Apply a server-side crop to a stored image. Flips and rotation happen
before the crop rectangle is applied; the server regenerates every image
derivative from the result.`,
	Args: cobra.ExactArgs(1),
	RunE: runCrop,
}

func init() {
	cropCmd.Flags().IntVarP(&cropX, "x", "x", 0, "crop rectangle left edge")
	cropCmd.Flags().IntVarP(&cropY, "y", "y", 0, "crop rectangle top edge")
	cropCmd.Flags().IntVarP(&cropWidth, "width", "w", 0, "crop rectangle width")
	cropCmd.Flags().IntVar(&cropHeight, "height", 0, "crop rectangle height")
	cropCmd.Flags().IntVarP(&cropRotate, "rotate", "r", 0, "rotation in degrees")
	cropCmd.Flags().BoolVar(&cropFlipH, "flip-h", false, "flip horizontally first")
	cropCmd.Flags().BoolVar(&cropFlipV, "flip-v", false, "flip vertically first")
	_ = cropCmd.MarkFlagRequired("width")
	_ = cropCmd.MarkFlagRequired("height")
	rootCmd.AddCommand(cropCmd)
}

func runCrop(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	p := transport.CropParams{
		X:      cropX,
		Y:      cropY,
		Width:  cropWidth,
		Height: cropHeight,
		Rotate: cropRotate,
	}
	if cropFlipH {
		p.ScaleX = -1
	}
	if cropFlipV {
		p.ScaleY = -1
	}

	res, err := newTransport(cfg).Crop(cmd.Context(), args[0], p)
	if err != nil {
		return err
	}

	fmt.Printf("%s: %dx%d -> %s\n", res.Name, res.Width, res.Height, res.URL)
	return nil
}
