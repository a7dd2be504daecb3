package cmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/cobra"

	"github.com/khulnasoft/cargo-licenses/cargolicenses"
	"github.com/khulnasoft/cargo-licenses/cargolicenses/presenter"
	"github.com/khulnasoft/cargo-licenses/internal/config"
)

type stubFinder struct {
	deps []cargolicenses.Dependency
	err  error
	path *string
}

func (s stubFinder) Find(context.Context) ([]cargolicenses.Dependency, error) {
	return s.deps, s.err
}

func useFinder(t *testing.T, finder stubFinder) {
	t.Helper()
	original := newFinder
	newFinder = func(path string) cargolicenses.Finder {
		if finder.path != nil {
			*finder.path = path
		}
		return finder
	}
	t.Cleanup(func() { newFinder = original })
}

func useConfig(t *testing.T, cfg config.Application) *config.Application {
	t.Helper()
	if cfg.PresenterOpt == presenter.UnknownPresenter {
		cfg.PresenterOpt = presenter.TextPresenter
	}
	if cfg.ConfidenceThreshold == 0 {
		cfg.ConfidenceThreshold = 0.9
	}
	original := appConfig
	appConfig = &cfg
	t.Cleanup(func() { appConfig = original })
	return appConfig
}

func testCommand() (*cobra.Command, *bytes.Buffer) {
	var buf bytes.Buffer
	c := &cobra.Command{}
	c.SetOut(&buf)
	return c, &buf
}

func sampleDependencies() []cargolicenses.Dependency {
	return []cargolicenses.Dependency{
		{Name: "foo", Version: "1.0", License: "MIT", Source: "registry", Authors: []string{"A"}},
		{Name: "bar", Version: "2.0", Source: "registry"},
	}
}
