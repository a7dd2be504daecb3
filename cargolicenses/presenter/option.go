package presenter

import "strings"

const (
	UnknownPresenter Option = iota
	TextPresenter
	CSVPresenter
	JSONPresenter
	YAMLPresenter
	MarkdownPresenter
	HTMLPresenter
	SPDXPresenter
	TemplatePresenter
)

var optionStr = []string{
	"UnknownPresenter",
	"text",
	"csv",
	"json",
	"yaml",
	"markdown",
	"html",
	"spdx",
	"template",
}

var Options = []Option{
	TextPresenter,
	CSVPresenter,
	JSONPresenter,
	YAMLPresenter,
	MarkdownPresenter,
	HTMLPresenter,
	SPDXPresenter,
	TemplatePresenter,
}

type Option int

func ParseOption(userStr string) Option {
	userStr = strings.TrimSpace(userStr)
	switch strings.ToLower(userStr) {
	case "yml":
		return YAMLPresenter
	case "md":
		return MarkdownPresenter
	}
	for _, o := range Options {
		if strings.EqualFold(userStr, o.String()) {
			return o
		}
	}
	return UnknownPresenter
}

func (o Option) String() string {
	if int(o) >= len(optionStr) || o < 0 {
		return optionStr[0]
	}

	return optionStr[o]
}

// Names lists the user facing names of all presenters.
func Names() []string {
	names := make([]string, len(Options))
	for i, o := range Options {
		names[i] = o.String()
	}
	return names
}
