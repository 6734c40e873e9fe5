package cli

// Default values for CLI flags and formatted output.
const (
	// MaxTitleLength is the maximum length of a video title in the listing table.
	MaxTitleLength = 48
	// TabWidth is the width of tabs in formatted output.
	TabWidth = 2
	// ProgressBarWidth is the number of cells in the download progress bar.
	ProgressBarWidth = 30
)
