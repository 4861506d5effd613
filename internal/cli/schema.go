package cli

import (
	"github.com/spf13/cobra"
	"github.com/stackup-dev/stackup/internal/branding"
	"github.com/stackup-dev/stackup/internal/manifest"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON Schema for " + branding.ManifestFile(),
	Long: `Print the JSON Schema that every template manifest is validated against.
Editors can use it to check manifests while they are written.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, err := cmd.OutOrStdout().Write(manifest.SchemaBytes())
		return err
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}
