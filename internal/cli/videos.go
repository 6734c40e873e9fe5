package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/klutchshots/klutch/internal/logger"
	"github.com/klutchshots/klutch/pkg/errors"
	"github.com/klutchshots/klutch/pkg/model"
	"github.com/klutchshots/klutch/pkg/orchestrator"
)

// NewVideosCmd creates the videos command.
func NewVideosCmd() *cobra.Command {
	var (
		asJSON   bool
		prefetch bool
	)

	cmd := &cobra.Command{
		Use:   "videos",
		Short: "List available videos",
		Long:  "Fetch the video listing and print it as a table or JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runVideos(cmd, asJSON, prefetch)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the listing as JSON")
	cmd.Flags().BoolVar(&prefetch, "prefetch", false, "Warm the image cache with every thumbnail")

	return cmd
}

func runVideos(cmd *cobra.Command, asJSON, prefetch bool) error {
	svc, err := loadServices()
	if err != nil {
		return err
	}

	videos, err := svc.repo.FetchAll(cmd.Context())
	if err != nil {
		return describeFetchError(err)
	}

	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(videos); err != nil {
			return fmt.Errorf("failed to encode listing: %w", err)
		}
	} else {
		printVideos(cmd, videos)
	}

	if prefetch {
		return runPrefetch(cmd, svc.orch, videos, svc.cfg.Settings.MaxConcurrent)
	}
	return nil
}

func printVideos(cmd *cobra.Command, videos []model.Video) {
	if len(videos) == 0 {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No videos available.")
		return
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, TabWidth, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tTITLE\tAUTHOR\tDURATION\tVIEWS\tLIVE")
	for _, v := range videos {
		live := ""
		if v.IsLive {
			live = "yes"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			v.ID, truncate(v.Title, MaxTitleLength), v.Author, v.Duration, v.Views, live)
	}
	_ = w.Flush()
}

func runPrefetch(cmd *cobra.Command, orch *orchestrator.Orchestrator, videos []model.Video, concurrency int) error {
	orch.Hooks = orchestrator.Hooks{OnEvent: func(e orchestrator.Event) {
		switch e.Phase {
		case orchestrator.PhaseError:
			logger.Debug("Thumbnail unavailable", logger.Fields{"id": e.ID, "error": e.Msg})
		case orchestrator.PhaseDone:
			logger.Success("Prefetch finished", logger.Fields{"thumbnails": e.Msg})
		}
	}}

	res, err := orch.PrefetchThumbnails(cmd.Context(), videos, orchestrator.Options{Concurrency: concurrency})
	if err != nil {
		return err
	}
	if len(res.Failed) > 0 {
		logger.Warn("Some thumbnails could not be cached", logger.Fields{"failed": len(res.Failed), "total": res.Total})
	}
	return nil
}

// describeFetchError adds a user-facing hint for the error category.
func describeFetchError(err error) error {
	switch errors.Classify(err) {
	case errors.CategoryConnectivity:
		return fmt.Errorf("could not reach the server, check your connection: %w", err)
	case errors.CategoryServer:
		return fmt.Errorf("the server had a problem, try again later: %w", err)
	case errors.CategoryData:
		return fmt.Errorf("the server sent malformed data: %w", err)
	case errors.CategoryNotFound:
		return fmt.Errorf("the requested content does not exist: %w", err)
	default:
		return err
	}
}
