package output

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// stackPalette cycles through per-commit colors when printing a stack.
var stackPalette = []string{
	"#4CCBF1", // light blue
	"#4DCA7D", // green
	"#F5C800", // yellow
	"#F89048", // orange
	"#F46251", // red
	"#EB82BC", // pink
	"#9F83E4", // purple
	"#5084F3", // blue
}

// Colors renders ANSI-styled strings when stdout is a terminal and plain
// text otherwise.
type Colors struct {
	profile termenv.Profile
}

// NewColors detects the terminal color profile.
func NewColors() *Colors {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return &Colors{profile: termenv.Ascii}
	}
	return &Colors{profile: termenv.ColorProfile()}
}

// Rev styles a commit's title with its stack color.
func (c *Colors) Rev(rev int, text string) string {
	color := stackPalette[rev%len(stackPalette)]
	return termenv.String(text).Foreground(c.profile.Color(color)).String()
}

// Dim styles secondary text.
func (c *Colors) Dim(text string) string {
	return termenv.String(text).Faint().String()
}

// Bold styles emphasized text.
func (c *Colors) Bold(text string) string {
	return termenv.String(text).Bold().String()
}
