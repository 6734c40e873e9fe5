package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/klutchshots/klutch/internal/logger"
	"github.com/klutchshots/klutch/pkg/errors"
	"github.com/klutchshots/klutch/pkg/orchestrator"
)

// NewDownloadCmd creates the download command.
func NewDownloadCmd() *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "download URL|VIDEO_ID",
		Short: "Download a video",
		Long: `Download a video by media URL or by its ID in the listing.
Press Ctrl-C to cancel; a cancelled download leaves no partial file behind.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDownload(cmd, args[0], quiet)
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Do not draw a progress bar")

	return cmd
}

func runDownload(cmd *cobra.Command, target string, quiet bool) error {
	svc, err := loadServices()
	if err != nil {
		return err
	}

	bar := &progressBar{out: cmd.ErrOrStderr(), width: ProgressBarWidth}
	svc.orch.Hooks = orchestrator.Hooks{OnEvent: func(e orchestrator.Event) {
		switch e.Phase {
		case orchestrator.PhaseResolving:
			logger.Debug("Resolving video", logger.Fields{"id": e.ID})
		case orchestrator.PhaseDownloading:
			if e.Msg != "" {
				logger.Info("Downloading", logger.Fields{"url": e.Msg})
			} else if !quiet {
				bar.draw(e.Fraction)
			}
		}
	}}

	path, err := svc.orch.Download(cmd.Context(), target)
	if !quiet {
		bar.finish()
	}
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, orchestrator.ErrDownloadCancelled):
		logger.Info("Download cancelled", logger.Fields{"target": target})
		return nil
	case err != nil:
		return describeFetchError(err)
	}

	logger.Success("Download completed", logger.Fields{"path": path})
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}

// progressBar redraws a single terminal line.
type progressBar struct {
	out   io.Writer
	width int
	drawn bool
}

func (b *progressBar) draw(fraction float64) {
	fraction = max(0, min(fraction, 1))
	filled := int(fraction * float64(b.width))
	_, _ = fmt.Fprintf(b.out, "\r[%s%s] %s%%",
		strings.Repeat("=", filled), strings.Repeat(" ", b.width-filled),
		humanize.FtoaWithDigits(fraction*100, 1))
	b.drawn = true
}

func (b *progressBar) finish() {
	if b.drawn {
		_, _ = fmt.Fprintln(b.out)
	}
}
