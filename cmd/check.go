package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/gookit/color"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"github.com/khulnasoft/cargo-licenses/cargolicenses"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check [path]",
	Short: "ensure only select licenses are used",
	Long: `Ensure the locked dependencies only use permitted licenses (--permit) or no forbidden ones (--forbid).

License expressions such as "MIT OR Apache-2.0" pass when any alternative passes.
Dependencies without a license are matched as "N/A".`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		err := doCheckCmd(cmd, args)
		if err != nil {
			exitWithError(err)
		}
		color.Style{color.Green, color.Bold}.Println("Passed!")
	},
}

func init() {
	flags := checkCmd.Flags()
	flags.StringSlice("permit", nil, "Licenses that are allowed (all others fail the check)")
	flags.StringSlice("forbid", nil, "Licenses that fail the check")
	flags.StringSlice("ignore-packages", nil, "Packages that are not checked")
	bindFlags(flags, "permit", "forbid", "ignore-packages")
	rootCmd.AddCommand(checkCmd)
}

// doCheckCmd runs the license check logic for the check command.
// Offending dependencies are printed in the configured format before the violations are returned.
func doCheckCmd(cmd *cobra.Command, args []string) error {
	var rules *cargolicenses.Rules
	var err error
	switch {
	case len(appConfig.Permit) > 0:
		rules, err = cargolicenses.NewRules(cargolicenses.AllowAction, appConfig.Permit, appConfig.IgnorePkg...)
		fmt.Fprintf(os.Stderr, "Allow Rules: %+v\n", appConfig.Permit)
	case len(appConfig.Forbid) > 0:
		rules, err = cargolicenses.NewRules(cargolicenses.DenyAction, appConfig.Forbid, appConfig.IgnorePkg...)
		fmt.Fprintf(os.Stderr, "Deny Rules: %+v\n", appConfig.Forbid)
	default:
		return fmt.Errorf("no rules configured")
	}
	if err != nil {
		return fmt.Errorf("could not parse rules: %+v", err)
	}

	deps, err := newFinder(projectPath(args)).Find(context.Background())
	if err != nil {
		return err
	}

	violationErr := rules.Evaluate(deps)
	if violationErr == nil {
		return nil
	}

	var offending []cargolicenses.Dependency
	var merr *multierror.Error
	if errors.As(violationErr, &merr) {
		for _, e := range merr.Errors {
			var v cargolicenses.Violation
			if errors.As(e, &v) {
				offending = append(offending, v.Dependency)
			}
		}
	}
	if err := present(cmd.OutOrStdout(), offending); err != nil {
		return err
	}
	return fmt.Errorf("%d of %d dependencies violate the rules (%v): %w",
		len(offending), len(deps), dependencyNames(offending), violationErr)
}
