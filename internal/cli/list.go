package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/stackup-dev/stackup/internal/registry"
)

var (
	listHidden bool
	listValid  bool
	listJSON   bool
	listOutput string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available templates",
	Long:  `List the templates under the template root with their validation status.`,
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().BoolVar(&listHidden, "hidden", false, "Include templates marked visible=false")
	listCmd.Flags().BoolVar(&listValid, "valid", false, "Only show templates that passed validation")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().StringVarP(&listOutput, "output", "o", outputTable, "Output format: table, json or yaml")
	rootCmd.AddCommand(listCmd)
}

// listEntry represents a template for display.
type listEntry struct {
	ID          string                     `json:"id" yaml:"id"`
	Name        string                     `json:"name" yaml:"name"`
	Description string                     `json:"description" yaml:"description"`
	Tags        []string                   `json:"tags,omitempty" yaml:"tags,omitempty"`
	Hidden      bool                       `json:"hidden" yaml:"hidden"`
	Valid       bool                       `json:"valid" yaml:"valid"`
	Packages    int                        `json:"packages" yaml:"packages"`
	Errors      []registry.ValidationError `json:"errors,omitempty" yaml:"errors,omitempty"`
}

func newListEntry(t registry.Template) listEntry {
	cfg := t.Manifest.Config
	return listEntry{
		ID:          t.ID(),
		Name:        cfg.Name,
		Description: cfg.Description,
		Tags:        cfg.Tags,
		Hidden:      t.Manifest.DecodeErr == nil && !cfg.IsVisible(),
		Valid:       t.Result.Valid,
		Packages:    len(cfg.Packages) + len(cfg.DevPackages),
		Errors:      t.Result.Errors,
	}
}

func runList(cmd *cobra.Command, args []string) error {
	format, err := resolveOutput(listOutput, listJSON)
	if err != nil {
		return err
	}

	reg := current.newRegistry(false)
	templates, err := reg.ListTemplates(cmd.Context(), registry.ListOptions{
		ShowHidden: listHidden,
		OnlyValid:  listValid,
	})
	if err != nil {
		return fmt.Errorf("listing templates: %w", err)
	}

	entries := make([]listEntry, 0, len(templates))
	for _, t := range templates {
		entries = append(entries, newListEntry(t))
	}

	out := cmd.OutOrStdout()
	if format != outputTable {
		return encode(out, format, entries)
	}

	if len(entries) == 0 {
		fmt.Fprintf(out, "No templates found in %s.\n", reg.Root())
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TEMPLATE\tNAME\tSTATUS\tPACKAGES\tDESCRIPTION")
	for _, e := range entries {
		status := "ok"
		if !e.Valid {
			status = fmt.Sprintf("invalid (%d)", len(e.Errors))
		}
		name := e.Name
		if e.Hidden {
			name += " [hidden]"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", e.ID, name, status, e.Packages, firstLine(e.Description))
	}
	return w.Flush()
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
