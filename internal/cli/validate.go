package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/stackup-dev/stackup/internal/registry"
)

var (
	validateReport  string
	validateOffline bool
	validateJSON    bool
)

// errInvalidTemplates makes the command exit non-zero after printing.
var errInvalidTemplates = errors.New("one or more templates are invalid")

var validateCmd = &cobra.Command{
	Use:   "validate [sdk/template...]",
	Short: "Validate template manifests",
	Long: `Validate every template (hidden ones included): manifest schema, referenced
files, and existence of every declared package in the package registry.`,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVar(&validateReport, "report", "", "Write a JSON validation report to this file")
	validateCmd.Flags().BoolVar(&validateOffline, "offline", false, "Skip package registry checks")
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	reg := current.newRegistry(validateOffline)
	epoch, err := reg.ValidateAll(cmd.Context())
	if err != nil {
		return fmt.Errorf("validating templates: %w", err)
	}

	results := epoch.Results
	if len(args) > 0 {
		results, err = selectResults(epoch, args)
		if err != nil {
			return err
		}
	}

	if validateReport != "" {
		if err := registry.WriteReport(validateReport, registry.NewReport(reg.Root(), epoch)); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	invalid := 0
	for _, res := range results {
		if !res.Valid {
			invalid++
		}
	}

	if validateJSON {
		if err := encode(out, outputJSON, results); err != nil {
			return err
		}
	} else {
		for _, res := range results {
			if res.Valid {
				fmt.Fprintf(out, "ok    %s\n", res.ID())
				continue
			}
			fmt.Fprintf(out, "FAIL  %s\n", res.ID())
			for _, ve := range res.Errors {
				fmt.Fprintf(out, "      %s\n", ve)
			}
		}
		fmt.Fprintf(out, "\n%d template(s) checked, %d invalid.\n", len(results), invalid)
		if validateReport != "" {
			fmt.Fprintf(out, "Report written to %s\n", validateReport)
		}
	}

	if invalid > 0 {
		return errInvalidTemplates
	}
	return nil
}

// selectResults returns the results for ids, in the order given.
func selectResults(e *registry.Epoch, ids []string) ([]*registry.ValidationResult, error) {
	byID := make(map[string]*registry.ValidationResult, len(e.Results))
	for _, res := range e.Results {
		byID[res.ID()] = res
	}
	out := make([]*registry.ValidationResult, 0, len(ids))
	for _, id := range ids {
		res, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", registry.ErrTemplateNotFound, id)
		}
		out = append(out, res)
	}
	return out, nil
}
