package constants

import "time"

// Header lines painted at the top of every frame
var HeaderLines = [...]string{
	"*******************************",
	"* Displaying a marquee console! *",
	"*******************************",
}

// Footer labels
const (
	// PromptLabel precedes the input buffer on the prompt row
	PromptLabel = "Input Command for MARQUEE_CONSOLE: "

	// HistoryLabel precedes every history entry
	HistoryLabel = "Command processed in MARQUEE CONSOLE: "

	// FooterGap is the number of blank rows between the marquee region and the prompt row
	FooterGap = 1
)

// Control commands recognized at submit time
const (
	CommandExit         = "exit"
	CommandClearHistory = "clear-history"
)

// Shutdown message printed after the terminal is restored
const ExitMessage = "Marquee stopped. Exiting the program."

// Startup defaults
const (
	DefaultText = "Hello World in Marquee!"

	// DefaultHeight is the vertical bounce region in rows
	DefaultHeight = 20

	// MinHeight keeps the vertical bounce law inside [0, height-1]
	MinHeight = 2

	// DefaultFrameDelayMs is the sleep between frames
	DefaultFrameDelayMs = 50
	DefaultFrameDelay   = DefaultFrameDelayMs * time.Millisecond

	// FallbackWidth replaces a terminal width that is zero or cannot be queried
	FallbackWidth = 80

	// FallbackRows sizes the canvas when the terminal height cannot be queried
	FallbackRows = 30

	// HistoryLimit is the number of submitted commands kept
	HistoryLimit = 5
)

// PromptRow returns the row of the input prompt for a bounce region of the given height
func PromptRow(height int) int {
	return len(HeaderLines) + height + FooterGap
}
