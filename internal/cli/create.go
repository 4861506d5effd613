package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/stackup-dev/stackup/internal/install"
	"github.com/stackup-dev/stackup/internal/manifest"
	"github.com/stackup-dev/stackup/internal/merge"
	"github.com/stackup-dev/stackup/internal/registry"
	"github.com/stackup-dev/stackup/internal/scaffold"
)

var (
	createTemplates      []string
	createStrategy       string
	createLanguage       string
	createName           string
	createPackageManager string
	createInstall        bool
	createAllowInvalid   bool
	createJSON           bool
)

var createCmd = &cobra.Command{
	Use:   "create <dir>",
	Short: "Scaffold a new project from templates",
	Long: `Create a project in <dir> from one or more templates, applied in the order
given. The directory must not exist or must contain only hidden entries. If any
step fails, everything created so far is removed.`,
	Example: `  stackup create my-api -t node/express -t node/vitest
  stackup create my-api -t node/express --strategy strict --package-manager pnpm --install`,
	Args: cobra.ExactArgs(1),
	RunE: runCreate,
}

func init() {
	f := createCmd.Flags()
	f.StringArrayVarP(&createTemplates, "template", "t", nil, "Template to apply as sdk/template (repeatable, in order)")
	f.StringVar(&createStrategy, "strategy", "", "Version conflict strategy: highest, first-selected or strict")
	f.StringVar(&createLanguage, "language", "", "Project language: typescript or javascript")
	f.StringVar(&createName, "name", "", "Project name (default: directory name)")
	f.StringVar(&createPackageManager, "package-manager", "", "Package manager: npm, pnpm, yarn or bun")
	f.BoolVar(&createInstall, "install", false, "Install dependencies after scaffolding")
	f.BoolVar(&createAllowInvalid, "allow-invalid", false, "Allow templates that failed validation")
	f.BoolVar(&createJSON, "json", false, "Print the result as JSON")
	_ = createCmd.MarkFlagRequired("template")
	rootCmd.AddCommand(createCmd)
}

func runCreate(cmd *cobra.Command, args []string) error {
	strategy, err := merge.ParseStrategy(current.settings.MergeStrategy)
	if err != nil {
		return err
	}
	lang, err := scaffold.ParseLanguage(current.settings.Language)
	if err != nil {
		return err
	}
	pm, err := install.ParsePackageManager(current.settings.PackageManager)
	if err != nil {
		return err
	}

	reg := current.newRegistry(false)
	selected, err := selectTemplates(cmd, reg, createTemplates, createAllowInvalid)
	if err != nil {
		return err
	}

	runner := install.NewRunner(pm, current.logger)
	runner.Stdout = cmd.ErrOrStderr()
	runner.Stderr = cmd.ErrOrStderr()
	orch := scaffold.New(
		scaffold.WithLogger(current.logger),
		scaffold.WithInstaller(runner),
	)

	res, err := orch.Scaffold(cmd.Context(), scaffold.Options{
		ProjectPath:    args[0],
		ProjectName:    createName,
		Templates:      selected,
		Strategy:       strategy,
		Language:       lang,
		PackageManager: pm,
		Install:        createInstall,
	})
	if createJSON && res != nil {
		if encErr := encode(cmd.OutOrStdout(), outputJSON, res); encErr != nil {
			return encErr
		}
	}
	if err != nil {
		return fmt.Errorf("creating project: %w", err)
	}
	if !createJSON {
		printResult(cmd.OutOrStdout(), res, pm)
	}
	return nil
}

// selectTemplates resolves the selectors in order and enforces validity.
func selectTemplates(cmd *cobra.Command, reg *registry.Registry, ids []string, allowInvalid bool) ([]*manifest.TemplateManifest, error) {
	seen := make(map[string]bool)
	var selected []*manifest.TemplateManifest
	var invalid []string
	for _, id := range ids {
		if seen[id] {
			return nil, fmt.Errorf("template %s selected more than once", id)
		}
		seen[id] = true

		t, err := reg.Template(cmd.Context(), id)
		if err != nil {
			return nil, err
		}
		if !t.Result.Valid {
			if !allowInvalid {
				invalid = append(invalid, describeInvalid(t))
				continue
			}
			current.logger.Warn("using invalid template", "template", id, "errors", len(t.Result.Errors))
		}
		if t.Manifest.DecodeErr != nil {
			return nil, fmt.Errorf("template %s cannot be used: %w", id, t.Manifest.DecodeErr)
		}
		selected = append(selected, t.Manifest)
	}
	if len(invalid) > 0 {
		return nil, fmt.Errorf("invalid templates selected (use --allow-invalid to proceed):\n%s", strings.Join(invalid, "\n"))
	}
	return selected, nil
}

func describeInvalid(t registry.Template) string {
	var b strings.Builder
	b.WriteString("  ")
	b.WriteString(t.ID())
	for _, ve := range t.Result.Errors {
		b.WriteString("\n    ")
		b.WriteString(ve.String())
	}
	return b.String()
}

func printResult(w io.Writer, res *scaffold.Result, pm install.PackageManager) {
	fmt.Fprintf(w, "Created %s from %d template(s), %d file(s).\n", res.ProjectPath, res.TemplatesProcessed, len(res.GeneratedFiles))

	if res.Dependencies != nil {
		for _, c := range res.Dependencies.Conflicts {
			fmt.Fprintf(w, "  conflict: %s (%s) %s -> %s\n", c.Package, c.Namespace, strings.Join(c.RequestedVersions, ", "), c.ResolvedVersion)
		}
	}
	for _, c := range res.Collisions {
		fmt.Fprintf(w, "  collision: %s (%s replaced %s)\n", c.Destination, c.Winner, c.Previous)
	}
	for _, p := range res.Preserved {
		fmt.Fprintf(w, "  kept existing: %s\n", p)
	}
	for _, warn := range res.Warnings {
		fmt.Fprintf(w, "  warning: %s\n", warn)
	}
	for _, e := range res.Errors {
		fmt.Fprintf(w, "  error: %s\n", e)
	}

	fmt.Fprintf(w, "\nNext steps:\n  cd %s\n", res.ProjectPath)
	if !createInstall || len(res.Errors) > 0 || len(res.Warnings) > 0 {
		fmt.Fprintf(w, "  %s install\n", pm)
	}
	fmt.Fprintf(w, "  %s\n", pm.RunCommand("dev"))
}
