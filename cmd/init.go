package cmd

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/gookit/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/khulnasoft/cargo-licenses/internal/config"
)

var appConfig *config.Application
var cliOpts = config.CliOnlyOptions{}

func init() {
	cobra.OnInitialize(
		initAppConfig,
		initLogging,
	)
}

func initAppConfig() {
	cfg, err := config.LoadConfig(viper.GetViper(), cliOpts)
	if err != nil {
		fmt.Fprintln(os.Stderr, color.Style{color.Red, color.Bold}.Sprintf("failed to load application config: %+v", err))
		os.Exit(1)
	}
	appConfig = cfg
}

// initLogging routes glog to stderr; -v raises its verbosity.
func initLogging() {
	// glog refuses to log cleanly until the go flag set has been parsed
	_ = flag.CommandLine.Parse([]string{})
	_ = flag.Set("logtostderr", "true")
	_ = flag.Set("v", strconv.Itoa(appConfig.Verbosity))
}
