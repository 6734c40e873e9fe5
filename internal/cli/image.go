package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/klutchshots/klutch/internal/logger"
	"github.com/klutchshots/klutch/pkg/errors"
	"github.com/klutchshots/klutch/pkg/fsutil"
)

// NewImageCmd creates the image command.
func NewImageCmd() *cobra.Command {
	var (
		noCache bool
		output  string
	)

	cmd := &cobra.Command{
		Use:   "image URL",
		Short: "Fetch an image",
		Long:  "Fetch an image through the image cache and print its format and size",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImage(cmd, args[0], !noCache, output)
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Skip the cache lookup; the fetched image still refreshes the cache")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the image bytes to FILE")

	return cmd
}

func runImage(cmd *cobra.Command, url string, useCache bool, output string) error {
	svc, err := loadServices()
	if err != nil {
		return err
	}

	img, err := svc.fetch.FetchImage(cmd.Context(), url, useCache)
	if errors.Is(err, errors.ErrImageDecode) {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no image")
		return nil
	}
	if err != nil {
		return describeFetchError(err)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %dx%d (%d bytes)\n", img.Format, img.Width, img.Height, len(img.Data))

	if output != "" {
		if err := fsutil.WriteFileAtomic(output, img.Data, fsutil.FileModeDefault); err != nil {
			return fmt.Errorf("failed to write image: %w", err)
		}
		logger.Success("Image saved", logger.Fields{"path": output})
	}
	return nil
}
