package cmd

import "github.com/khulnasoft/cargo-licenses/cargolicenses"

// newFinder creates the dependency source for a project directory.
var newFinder = func(path string) cargolicenses.Finder {
	return dependencyFinder(path)
}

func dependencyFinder(path string) *cargolicenses.DependencyFinder {
	finder := cargolicenses.NewDependencyFinder(path, appConfig.CargoHome, appConfig.ConfidenceThreshold, appConfig.LicenseDB)
	finder.SearchCeiling = appConfig.SearchCeiling
	return finder
}

// projectPath determines the target path from arguments or defaults to current directory.
func projectPath(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}

// dependencyNames extracts the names of deps.
func dependencyNames(deps []cargolicenses.Dependency) []string {
	names := make([]string, len(deps))
	for i, d := range deps {
		names[i] = d.Name
	}
	return names
}
