package helpers

import (
	"os"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
)

// PlainStyle renders markdown without colors or escape sequences.
const PlainStyle = "notty"

// DetectGlamourStyle picks "dark" or "light" from the terminal background.
// GLAMOUR_STYLE wins when set to anything but "auto". Terminals that do not
// answer within timeout get "dark".
func DetectGlamourStyle(timeout time.Duration) string {
	style := os.Getenv("GLAMOUR_STYLE")
	if style != "" && style != "auto" {
		return style
	}

	ch := make(chan string, 1)
	go func() {
		out := termenv.NewOutput(os.Stdout)
		if out.HasDarkBackground() {
			ch <- "dark"
			return
		}
		ch <- "light"
	}()

	select {
	case s := <-ch:
		return s
	case <-time.After(timeout):
		return "dark"
	}
}

// RenderMarkdown renders content with the named glamour style, wrapped at
// width (80 when width is not positive).
func RenderMarkdown(content, style string, width int) (string, error) {
	if width <= 0 {
		width = 80
	}
	if style == "" {
		style = PlainStyle
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	return renderer.Render(content)
}
