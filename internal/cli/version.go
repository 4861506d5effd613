package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/stackup-dev/stackup/internal/branding"
)

var (
	versionShort  bool
	versionJSON   bool
	versionOutput string
)

type buildInfo struct {
	Version string `json:"version" yaml:"version"`
	Commit  string `json:"commit" yaml:"commit"`
	Date    string `json:"date" yaml:"date"`
}

func init() {
	f := versionCmd.Flags()
	f.BoolVar(&versionShort, "short", false, "print the version number only")
	f.BoolVar(&versionJSON, "json", false, "shorthand for --output json")
	f.StringVarP(&versionOutput, "output", "o", outputTable, "output format: table, json or yaml")
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show build information",
	Args:  cobra.NoArgs,
	RunE:  runVersion,
}

func runVersion(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	if versionShort {
		_, err := fmt.Fprintln(out, buildVersion)
		return err
	}

	format, err := resolveOutput(versionOutput, versionJSON)
	if err != nil {
		return err
	}
	info := buildInfo{Version: buildVersion, Commit: buildCommit, Date: buildDate}
	if format != outputTable {
		return encode(out, format, info)
	}
	_, err = fmt.Fprintf(out, "%s %s\n  commit: %s\n  built:  %s\n",
		branding.CLIName(), info.Version, info.Commit, info.Date)
	return err
}
