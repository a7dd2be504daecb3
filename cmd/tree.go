package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/khulnasoft/cargo-licenses/cargolicenses/cargo"
)

var treeFormatFlag string
var treePackagesFlag []string

// treeCmd represents the tree command
var treeCmd = &cobra.Command{
	Use:   "tree [path]",
	Short: "Display dependency tree with licenses",
	Long:  `Display dependency tree with licenses. Path defaults to current directory.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return doTreeCmd(cmd.OutOrStdout(), projectPath(args))
	},
}

func doTreeCmd(w io.Writer, path string) error {
	finder := dependencyFinder(path)
	lock, err := finder.Lockfile()
	if err != nil {
		return fmt.Errorf("failed to build dependency tree for %s: %w", path, err)
	}
	deps, err := finder.Find(context.Background())
	if err != nil {
		return fmt.Errorf("failed to build dependency tree for %s: %w", path, err)
	}
	licenses := make(map[string]string, len(deps))
	for _, d := range deps {
		licenses[d.Name+" "+d.Version+" "+d.Source] = d.LicenseOrDefault()
	}

	treeNodes, err := cargo.BuildDependencyTree(lock, func(p cargo.Package) string {
		return licenses[p.Name+" "+p.Version+" "+p.Source]
	}, treePackagesFlag...)
	if err != nil {
		return fmt.Errorf("failed to build dependency tree for %s: %w", path, err)
	}

	switch treeFormatFlag {
	case "json":
		jsonData, err := json.MarshalIndent(treeNodes, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal tree to JSON: %w", err)
		}
		fmt.Fprintln(w, string(jsonData))
	case "ascii":
		fmt.Fprint(w, formatTreeASCII(treeNodes))
	case "dot":
		fmt.Fprint(w, formatTreeDOT(treeNodes))
	default:
		return fmt.Errorf("unsupported tree format: %s. Supported formats are: ascii, json, dot", treeFormatFlag)
	}
	return nil
}

func formatTreeASCII(roots []*cargo.DependencyNode) string {
	var builder strings.Builder
	// nodes shared by several parents are expanded the first time only
	visited := make(map[*cargo.DependencyNode]bool)

	for _, root := range roots {
		buildASCIILevel(&builder, root, "", "", visited)
	}
	return builder.String()
}

// prefix is written before the node itself; childPrefix before the lines of its dependencies.
func buildASCIILevel(builder *strings.Builder, node *cargo.DependencyNode, prefix, childPrefix string, visited map[*cargo.DependencyNode]bool) {
	label := fmt.Sprintf("%s v%s", node.Name, node.Version)
	if node.License != "" {
		label += fmt.Sprintf(" (License: %s)", node.License)
	}

	switch {
	case node.Cycle:
		builder.WriteString(fmt.Sprintf("%s%s (cycle)\n", prefix, label))
		return
	case visited[node] && len(node.Dependencies) > 0:
		builder.WriteString(fmt.Sprintf("%s%s (*)\n", prefix, label))
		return
	}
	visited[node] = true
	builder.WriteString(fmt.Sprintf("%s%s\n", prefix, label))

	for i, dep := range node.Dependencies {
		if i == len(node.Dependencies)-1 {
			buildASCIILevel(builder, dep, childPrefix+"└── ", childPrefix+"    ", visited)
		} else {
			buildASCIILevel(builder, dep, childPrefix+"├── ", childPrefix+"│   ", visited)
		}
	}
}

func formatTreeDOT(roots []*cargo.DependencyNode) string {
	var builder strings.Builder
	builder.WriteString("digraph dependencies {\n")
	visited := make(map[*cargo.DependencyNode]bool)

	var walk func(node *cargo.DependencyNode)
	walk = func(node *cargo.DependencyNode) {
		if visited[node] || node.Cycle {
			return
		}
		visited[node] = true
		label := node.Name + " " + node.Version
		if node.License != "" {
			label += "\n" + node.License
		}
		builder.WriteString(fmt.Sprintf("  %s [label=%s];\n", dotID(node), strconv.Quote(label)))
		for _, dep := range node.Dependencies {
			builder.WriteString(fmt.Sprintf("  %s -> %s;\n", dotID(node), dotID(dep)))
			walk(dep)
		}
	}
	for _, root := range roots {
		walk(root)
	}
	builder.WriteString("}\n")
	return builder.String()
}

func dotID(node *cargo.DependencyNode) string {
	return strconv.Quote(node.Name + "@" + node.Version)
}

func init() {
	treeCmd.Flags().StringVar(&treeFormatFlag, "format", "ascii", "Output format: ascii, json, dot")
	treeCmd.Flags().StringSliceVarP(&treePackagesFlag, "package", "p", nil, "Packages to use as tree roots (default: workspace members)")
	rootCmd.AddCommand(treeCmd)
}
