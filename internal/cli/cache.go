package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/klutchshots/klutch/internal/logger"
	"github.com/klutchshots/klutch/pkg/cache"
)

// NewCacheCmd creates the cache command with subcommands
func NewCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the image cache",
		Long:  "Clean, show information about, export and import the image cache",
	}

	cmd.AddCommand(
		newCacheCleanCmd(),
		newCacheInfoCmd(),
		newCacheDirCmd(),
		newCacheExportCmd(),
		newCacheImportCmd(),
	)

	return cmd
}

func newCacheCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Clean the image cache",
		Long:  "Remove every cached image to free up disk space",
		Args:  cobra.NoArgs,
		RunE:  runCacheClean,
	}
}

func newCacheInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show cache information",
		Long:  "Display the size and entry count of the image cache",
		Args:  cobra.NoArgs,
		RunE:  runCacheInfo,
	}
}

func newCacheDirCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dir",
		Short: "Show cache directory path",
		Long:  "Display the path to the cache directory",
		Args:  cobra.NoArgs,
		RunE:  runCacheDir,
	}
}

func newCacheExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export FILE",
		Short: "Export the cache to a tar.gz archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			op, err := cacheOperation()
			if err != nil {
				return err
			}
			msg, err := op.Export(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			logger.Success(msg)
			return nil
		},
	}
}

func newCacheImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Import cache entries from a tar.gz archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			op, err := cacheOperation()
			if err != nil {
				return err
			}
			msg, err := op.Import(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			logger.Success(msg)
			return nil
		},
	}
}

func cacheOperation() (*cache.CacheOperation, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return cache.NewCacheOperation(cache.NewFileStore(cfg.GetCacheDir())), nil
}

func runCacheClean(*cobra.Command, []string) error {
	op, err := cacheOperation()
	if err != nil {
		return err
	}

	msg, err := op.Clean()
	if err != nil {
		return err
	}
	logger.Success(msg)
	return nil
}

func runCacheInfo(cmd *cobra.Command, _ []string) error {
	op, err := cacheOperation()
	if err != nil {
		return err
	}

	info, err := op.GetInfo()
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), info)
	return nil
}

func runCacheDir(cmd *cobra.Command, _ []string) error {
	op, err := cacheOperation()
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), op.GetDirectory())
	return nil
}
