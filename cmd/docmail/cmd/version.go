package cmd

import (
	"fmt"

	"github.com/coreos/go-semver/semver"
	"github.com/spf13/cobra"
)

// Version is the release of docmail. Builds may replace it with
// -ldflags "-X github.com/zostay/docmail/cmd/docmail/cmd.Version=...".
var Version = "0.1.0"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Prints the docmail version",
		Args:  cobra.NoArgs,
		// the configuration is not needed
		PersistentPreRun: func(*cobra.Command, []string) {},
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, err := semver.NewVersion(Version)
			if err != nil {
				return fmt.Errorf("bad version %q: %w", Version, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "docmail v%s\n", v)
			return nil
		},
	}
}
