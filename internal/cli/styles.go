package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/amterp/color"

	"github.com/jsonhl/jsonhl"
)

var attributes = map[string]color.Attribute{
	"reset":     color.Reset,
	"bold":      color.Bold,
	"faint":     color.Faint,
	"italic":    color.Italic,
	"underline": color.Underline,

	"fgblack":   color.FgBlack,
	"fgred":     color.FgRed,
	"fggreen":   color.FgGreen,
	"fgyellow":  color.FgYellow,
	"fgblue":    color.FgBlue,
	"fgmagenta": color.FgMagenta,
	"fgcyan":    color.FgCyan,
	"fgwhite":   color.FgWhite,

	"fghiblack":   color.FgHiBlack,
	"fghired":     color.FgHiRed,
	"fghigreen":   color.FgHiGreen,
	"fghiyellow":  color.FgHiYellow,
	"fghiblue":    color.FgHiBlue,
	"fghimagenta": color.FgHiMagenta,
	"fghicyan":    color.FgHiCyan,
	"fghiwhite":   color.FgHiWhite,

	"bgblack":   color.BgBlack,
	"bgred":     color.BgRed,
	"bggreen":   color.BgGreen,
	"bgyellow":  color.BgYellow,
	"bgblue":    color.BgBlue,
	"bgmagenta": color.BgMagenta,
	"bgcyan":    color.BgCyan,
	"bgwhite":   color.BgWhite,
}

// parseStyle turns a comma separated attribute list such as "fgblue,bold"
// into a color. An empty list yields an uncolored style.
func parseStyle(spec string) (*color.Color, error) {
	var attrs []color.Attribute
	for _, name := range strings.Split(spec, ",") {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		a, ok := attributes[name]
		if !ok {
			return nil, fmt.Errorf("unknown style attribute %q", name)
		}
		attrs = append(attrs, a)
	}
	return color.New(attrs...), nil
}

// newFormatter builds a Formatter from per-category style specs keyed by
// category name. Categories without a spec keep the package defaults.
func newFormatter(styles map[string]string) (*jsonhl.Formatter, error) {
	f := &jsonhl.Formatter{}
	for name, spec := range styles {
		c, err := parseStyle(spec)
		if err != nil {
			return nil, fmt.Errorf("style %q: %w", name, err)
		}
		name = strings.ToLower(name)
		if name == "punctuation" {
			f.CommaColor, f.ColonColor, f.ObjectColor, f.ArrayColor = c, c, c, c
			continue
		}
		i := slices.IndexFunc(jsonhl.Categories(), func(cat jsonhl.Category) bool {
			return cat.String() == name
		})
		if i < 0 {
			return nil, fmt.Errorf("unknown style %q", name)
		}
		setCategoryStyle(f, jsonhl.Categories()[i], c)
	}
	return f, nil
}

func setCategoryStyle(f *jsonhl.Formatter, cat jsonhl.Category, c *color.Color) {
	switch cat {
	case jsonhl.CategoryKey:
		f.KeyColor, f.KeyQuoteColor = c, c
	case jsonhl.CategoryString:
		f.StringColor, f.StringQuoteColor = c, c
	case jsonhl.CategoryNumber:
		f.NumberColor = c
	case jsonhl.CategoryBoolean:
		f.BooleanColor = c
	case jsonhl.CategoryNull:
		f.NullColor = c
	}
}
