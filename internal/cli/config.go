package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/klutchshots/klutch/internal/logger"
	"github.com/klutchshots/klutch/pkg/config"
	"github.com/klutchshots/klutch/pkg/errors"
)

// Number of arguments expected by the set command.
const setCommandArgs = 2

// NewConfigCmd creates the config command with subcommands.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long: `View and modify klutch settings.

Settings live in a YAML file (see "klutch config path") and can be overridden
with KLUTCH_* environment variables such as KLUTCH_BASE_URL or KLUTCH_CACHE_DIR.

Keys: ` + strings.Join(config.Keys(), ", "),
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show the effective settings",
			Long:  "Display every setting after defaults and environment overrides are applied",
			Args:  cobra.NoArgs,
			RunE:  runConfigShow,
		},
		&cobra.Command{
			Use:   "get KEY",
			Short: "Print one setting",
			Long:  "Print a single setting, e.g. \"klutch config get inactivity_timeout\"",
			Args:  cobra.ExactArgs(1),
			RunE:  runConfigGet,
		},
		&cobra.Command{
			Use:   "set KEY VALUE",
			Short: "Change one setting",
			Long: `Change a setting and save the config file. Durations use Go syntax
("30s", "2m"); the result is validated before it is written, e.g.
"klutch config set max_concurrent 8" or "klutch config set base_url https://example.com/feed".`,
			Args: cobra.ExactArgs(setCommandArgs),
			RunE: runConfigSet,
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the config file location",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, _ []string) {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), getConfigPath())
			},
		},
		newConfigInitCmd(),
	)

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Long:  "Write the default settings (listing source, cache and download directories, timeouts) to the config file",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runConfigInit(force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration file")

	return cmd
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, TabWidth, ' ', 0)
	_, _ = fmt.Fprintln(w, "SETTING\tVALUE")
	settings := cfg.ToMap()
	for _, key := range config.Keys() {
		value := settings[key]
		if value == "" {
			value = "-"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\n", key, value)
	}
	_, _ = fmt.Fprintf(w, "\nlisting\t%s\n", cfg.ListingURL())
	return w.Flush()
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	value, err := cfg.GetValue(args[0])
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), value)
	return nil
}

func runConfigSet(_ *cobra.Command, args []string) error {
	key, value := args[0], args[1]
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if err := cfg.SetValue(key, value); err != nil {
		return err
	}
	// Reject values that would make the next command fail to load.
	if err := cfg.Validate(); err != nil {
		return err
	}

	configPath := getConfigPath()
	if err := cfg.SaveConfig(configPath); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	logger.Success("Configuration updated", logger.Fields{"key": key, "value": value, "path": configPath})
	return nil
}

func runConfigInit(force bool) error {
	configPath := getConfigPath()

	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("%s: %w", configPath, errors.ErrConfigFileExists)
	}

	if err := config.DefaultConfig().SaveConfig(configPath); err != nil {
		return fmt.Errorf("failed to save default configuration: %w", err)
	}

	logger.Success("Configuration file created", logger.Fields{"path": configPath})
	return nil
}
