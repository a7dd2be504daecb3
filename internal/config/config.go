package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/khulnasoft/cargo-licenses/cargolicenses/cargo"
	"github.com/khulnasoft/cargo-licenses/cargolicenses/presenter"
)

const (
	ApplicationName = "cargo-licenses"
	envPrefix       = "CARGO_LICENSES"

	defaultConfidenceThreshold = 0.9
)

var ErrApplicationConfigNotFound = errors.New("application config not found")

// CliOnlyOptions are options that can only be given on the command line.
type CliOnlyOptions struct {
	ConfigPath string
	Verbosity  int
}

// Application is the resolved configuration of a run.
type Application struct {
	ConfigPath          string           `mapstructure:"-"`
	Format              string           `mapstructure:"format"`
	PresenterOpt        presenter.Option `mapstructure:"-"`
	TemplateFile        string           `mapstructure:"template-file"`
	Authors             bool             `mapstructure:"authors"`
	DoNotBundle         bool             `mapstructure:"do-not-bundle"`
	WithoutColor        bool             `mapstructure:"without-color"`
	CargoHome           string           `mapstructure:"cargo-home"`
	LicenseDB           string           `mapstructure:"license-db"`
	SearchCeiling       string           `mapstructure:"search-ceiling"`
	ConfidenceThreshold float64          `mapstructure:"confidence-threshold"`
	Permit              []string         `mapstructure:"permit"`
	Forbid              []string         `mapstructure:"forbid"`
	IgnorePkg           []string         `mapstructure:"ignore-packages"`
	Verbosity           int              `mapstructure:"-"`
}

// LoadConfig reads the optional config file, environment and bound flags held by v.
func LoadConfig(v *viper.Viper, cliOpts CliOnlyOptions) (*Application, error) {
	bindEnv(v)

	if err := readConfig(v, cliOpts.ConfigPath); err != nil && !errors.Is(err, ErrApplicationConfigNotFound) {
		return nil, err
	}

	config := &Application{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to parse config: %w", err)
	}
	config.ConfigPath = v.ConfigFileUsed()
	config.Verbosity = cliOpts.Verbosity

	if err := config.build(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return config, nil
}

// LoadConfigFromFile reads the application config from path only.
func LoadConfigFromFile(v *viper.Viper, path string) (*Application, error) {
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("unable to read application config=%q : %w", path, err)
	}

	config := &Application{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to parse config=%q: %w", path, err)
	}
	config.ConfigPath = path

	if err := config.build(); err != nil {
		return nil, fmt.Errorf("invalid config=%q: %w", path, err)
	}
	return config, nil
}

// build validates the raw values and fills in the derived ones.
func (cfg *Application) build() error {
	cfg.PresenterOpt = presenter.ParseOption(cfg.Format)
	if cfg.PresenterOpt == presenter.UnknownPresenter {
		return fmt.Errorf("bad --format value %q, expected one of: %s", cfg.Format, strings.Join(presenter.Names(), ", "))
	}
	if cfg.PresenterOpt == presenter.TemplatePresenter && cfg.TemplateFile == "" {
		return fmt.Errorf("--template-file must be provided when --format=template")
	}

	if len(cfg.Permit) > 0 && len(cfg.Forbid) > 0 {
		return fmt.Errorf("permit and forbid rules are mutually exclusive")
	}

	switch {
	case cfg.ConfidenceThreshold == 0:
		cfg.ConfidenceThreshold = defaultConfidenceThreshold
	case cfg.ConfidenceThreshold < 0 || cfg.ConfidenceThreshold > 1:
		return fmt.Errorf("confidence-threshold must be within (0, 1], got %v", cfg.ConfidenceThreshold)
	}

	var err error
	if cfg.CargoHome == "" {
		cfg.CargoHome, err = cargo.DefaultCargoHome()
	} else {
		cfg.CargoHome, err = homedir.Expand(cfg.CargoHome)
	}
	if err != nil {
		return fmt.Errorf("unable to resolve cargo home: %w", err)
	}

	for _, path := range []*string{&cfg.TemplateFile, &cfg.LicenseDB, &cfg.SearchCeiling} {
		if *path == "" {
			continue
		}
		if *path, err = homedir.Expand(*path); err != nil {
			return err
		}
	}
	return nil
}

func bindEnv(v *viper.Viper) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	// cargo's own variable
	_ = v.BindEnv("cargo-home", "CARGO_HOME")
}

// readConfig finds the config file: the explicit path, then ./.cargo-licenses.yaml,
// ~/.cargo-licenses.yaml and finally <XDG_CONFIG_HOME>/cargo-licenses/config.yaml.
func readConfig(v *viper.Viper, configPath string) error {
	v.SetConfigType("yaml")

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("unable to read application config=%q : %w", configPath, err)
		}
		return nil
	}

	candidates := []string{"." + ApplicationName + ".yaml"}
	if home, err := homedir.Dir(); err == nil {
		candidates = append(candidates, filepath.Join(home, "."+ApplicationName+".yaml"))
	}
	candidates = append(candidates, filepath.Join(xdg.ConfigHome, ApplicationName, "config.yaml"))

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err != nil {
			continue
		}
		v.SetConfigFile(candidate)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("unable to read application config=%q : %w", candidate, err)
		}
		return nil
	}
	return ErrApplicationConfigNotFound
}
