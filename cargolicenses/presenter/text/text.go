package text

import (
	"fmt"
	"io"
	"strings"

	"github.com/gookit/color"

	"github.com/khulnasoft/cargo-licenses/cargolicenses"
)

// Mode selects the shape of the report.
type Mode int

const (
	// GroupByLicense prints one entry per license listing every dependency using it.
	GroupByLicense Mode = iota
	// OnePerLine prints one line per dependency in lockfile order.
	OnePerLine
)

var (
	emphasis = color.Style{color.Green, color.Bold}
	marker   = color.Style{color.Green}
)

// authorSeparator joins author lists in both modes.
const authorSeparator = ", "

// Display controls the optional parts of the report.
type Display struct {
	Authors bool
	Color   bool
}

// paint wraps s in the ANSI codes of style when color is enabled. Removing the codes restores s.
func (d Display) paint(style color.Style, s string) string {
	if !d.Color {
		return s
	}
	return fmt.Sprintf(color.FullColorTpl, style.Code(), s)
}

type Presenter struct {
	deps    []cargolicenses.Dependency
	mode    Mode
	display Display
}

func NewPresenter(deps []cargolicenses.Dependency, mode Mode, display Display) *Presenter {
	return &Presenter{
		deps:    deps,
		mode:    mode,
		display: display,
	}
}

func (p *Presenter) Present(w io.Writer) error {
	if p.mode == OnePerLine {
		return p.presentLines(w)
	}
	return p.presentGroups(w)
}

func (p *Presenter) presentGroups(w io.Writer) error {
	for _, group := range cargolicenses.GroupByLicense(p.deps) {
		license := p.display.paint(emphasis, group.License)
		names := strings.Join(group.Names(), ", ")

		var err error
		if p.display.Authors {
			_, err = fmt.Fprintf(w, "%s (%d)\n%s\n%s %s\n",
				license,
				len(group.Dependencies),
				names,
				p.display.paint(marker, "by"),
				strings.Join(group.Authors(), authorSeparator))
		} else {
			_, err = fmt.Fprintf(w, "%s (%d): %s\n", license, len(group.Dependencies), names)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (p *Presenter) presentLines(w io.Writer) error {
	for _, dep := range p.deps {
		name := p.display.paint(emphasis, dep.Name)

		var err error
		if p.display.Authors {
			authors, _ := dep.GetAuthors()
			_, err = fmt.Fprintf(w, "%s: %s, \"%s\", %s, %s \"%s\"\n",
				name,
				dep.Version,
				dep.LicenseOrDefault(),
				dep.Source,
				p.display.paint(marker, "by"),
				strings.Join(authors, authorSeparator))
		} else {
			_, err = fmt.Fprintf(w, "%s: %s, \"%s\", %s\n", name, dep.Version, dep.LicenseOrDefault(), dep.Source)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
