package ui

import (
	"strings"

	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
)

// MarkdownRenderMargin is the left margin of rendered reference text.
const MarkdownRenderMargin = 2

const defaultCodeTheme = "monokai"

var markdownCodeTheme = defaultCodeTheme

// ConfigureMarkdownCodeTheme picks the chroma theme for fenced code blocks.
// Names are matched case-insensitively; unknown names keep the default.
func ConfigureMarkdownCodeTheme(name string) {
	name = strings.ToLower(strings.TrimSpace(name))
	if _, ok := styles.Registry[name]; !ok {
		name = defaultCodeTheme
	}
	themeMu.Lock()
	markdownCodeTheme = name
	themeMu.Unlock()
}

// RenderMarkdown renders reference text (keyboard help, command docs) for
// the terminal, wrapped at width columns.
func RenderMarkdown(content string, width int) (string, error) {
	if width <= 0 {
		width = DefaultTermWidth
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(markdownStyle()),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}

	rendered, err := r.Render(content)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(rendered, "\n") + "\n", nil
}

// markdownStyle covers the blocks quicksearch emits: headings, paragraphs,
// tables of key bindings and inline code. Everything else renders plain.
func markdownStyle() ansi.StyleConfig {
	muted := ptr(mutedColor)
	keyColor := ptr("203")
	var heading *string
	if color, ok := AccentColor(); ok {
		heading = ptr(color)
		keyColor = heading
	}

	themeMu.RLock()
	theme := markdownCodeTheme
	themeMu.RUnlock()

	underlined := func(prefix string) ansi.StyleBlock {
		return ansi.StyleBlock{StylePrimitive: ansi.StylePrimitive{Prefix: prefix, Underline: ptr(true)}}
	}

	return ansi.StyleConfig{
		Document: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{BlockPrefix: "\n", BlockSuffix: "\n"},
			Margin:         ptr(uint(MarkdownRenderMargin)),
		},
		Heading: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{BlockSuffix: "\n", Color: heading, Bold: ptr(true)},
		},
		H1:          underlined(""),
		H2:          underlined(""),
		H3:          ansi.StyleBlock{StylePrimitive: ansi.StylePrimitive{Prefix: "› "}},
		List:        ansi.StyleList{LevelIndent: 2},
		Item:        ansi.StylePrimitive{BlockPrefix: "• "},
		Enumeration: ansi.StylePrimitive{BlockPrefix: ". "},
		Emph:        ansi.StylePrimitive{Italic: ptr(true)},
		Strong:      ansi.StylePrimitive{Bold: ptr(true)},
		Link:        ansi.StylePrimitive{Color: muted, Underline: ptr(true)},
		LinkText:    ansi.StylePrimitive{Bold: ptr(true)},
		Code: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{Prefix: " ", Suffix: " ", Color: keyColor},
		},
		CodeBlock: ansi.StyleCodeBlock{
			StyleBlock: ansi.StyleBlock{
				StylePrimitive: ansi.StylePrimitive{Color: muted},
				Margin:         ptr(uint(MarkdownRenderMargin)),
			},
			Theme: theme,
		},
		Table: ansi.StyleTable{
			CenterSeparator: ptr("┼"),
			ColumnSeparator: ptr("│"),
			RowSeparator:    ptr("─"),
		},
	}
}

func ptr[T any](v T) *T { return &v }
