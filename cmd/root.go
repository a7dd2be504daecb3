package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gookit/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/khulnasoft/cargo-licenses/cargolicenses"
	"github.com/khulnasoft/cargo-licenses/cargolicenses/presenter"
	"github.com/khulnasoft/cargo-licenses/cargolicenses/presenter/text"
)

var rootCmd = &cobra.Command{
	Use:   "cargo-licenses [path]",
	Short: "See the licenses of the dependencies of a Rust project",
	Long: `Read the Cargo.lock of a Rust project and report the license of every locked dependency.

By default dependencies are bundled by license. Path defaults to the current directory;
the Cargo.lock of an enclosing workspace is used when the path is a workspace member.`,
	Example: `  # licenses bundled by license type, with authors
  cargo-licenses -a

  # one dependency per line, without color
  cargo-licenses -d -m ./my-crate

  # machine readable output
  cargo-licenses --format json`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		err := doReportCmd(cmd, args)
		if err != nil {
			exitWithError(err)
		}
	},
}

// Execute runs the root cobra command and exits on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&cliOpts.ConfigPath, "config", "c", "", "application config file")
	flags.CountVarP(&cliOpts.Verbosity, "verbose", "v", "increase verbosity (-v = info, -vv = debug)")

	flags.BoolP("authors", "a", false, "Display crate authors")
	flags.BoolP("do-not-bundle", "d", false, "Output one license per line.")
	flags.BoolP("without-color", "m", false, "Output without color.")
	flags.StringP("format", "o", presenter.TextPresenter.String(), fmt.Sprintf("Output format: %s", strings.Join(presenter.Names(), ", ")))
	flags.String("template-file", "", "Path to Go template file (used only if --format=template)")
	flags.String("cargo-home", "", "Cargo home holding the downloaded sources (default $CARGO_HOME or ~/.cargo)")
	flags.String("license-db", "", "License database archive used to classify license files")
	flags.Float64("confidence-threshold", 0.9, "Minimum confidence when classifying license files")
	flags.String("search-ceiling", "", "Last directory searched for Cargo.lock (default: the filesystem root)")

	bindFlags(flags, "authors", "do-not-bundle", "without-color", "format", "template-file", "cargo-home", "license-db", "confidence-threshold", "search-ceiling")
}

func bindFlags(flags *pflag.FlagSet, names ...string) {
	for _, name := range names {
		if err := viper.BindPFlag(name, flags.Lookup(name)); err != nil {
			fmt.Printf("unable to bind flag %q: %+v\n", name, err)
			os.Exit(1)
		}
	}
}

func doReportCmd(cmd *cobra.Command, args []string) error {
	deps, err := newFinder(projectPath(args)).Find(context.Background())
	if err != nil {
		return err
	}
	return present(cmd.OutOrStdout(), deps)
}

// present writes deps in the configured format.
func present(w io.Writer, deps []cargolicenses.Dependency) error {
	mode := text.GroupByLicense
	if appConfig.DoNotBundle {
		mode = text.OnePerLine
	}
	pres := presenter.GetPresenter(appConfig.PresenterOpt, deps, presenter.Config{
		Display: text.Display{
			Authors: appConfig.Authors,
			Color:   !appConfig.WithoutColor,
		},
		Mode:         mode,
		TemplatePath: appConfig.TemplateFile,
	})
	if pres == nil {
		return fmt.Errorf("invalid presenter for option: %v", appConfig.PresenterOpt)
	}
	return pres.Present(w)
}

// exitWithError reports err and exits with status 1. A missing lockfile is reported on stdout.
func exitWithError(err error) {
	if errors.Is(err, cargolicenses.ErrLockfileNotFound) {
		fmt.Println(lockfileNotFoundMessage(err))
	} else {
		fmt.Fprintln(os.Stderr, color.Style{color.Red, color.Bold}.Sprint(err.Error()))
	}
	os.Exit(1)
}

func lockfileNotFoundMessage(err error) string {
	return fmt.Sprintf("Cargo.lock file not found. Try building the project first.\n%s", err)
}
