// Package cli implements the coloredin command line tool. Catalog commands run
// the palette engine in-process; no server is needed.
package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/coloredin/coloredin-server/internal/palette"
)

// NewRootCmd builds the command tree. version is reported by "version".
func NewRootCmd(version string) *cobra.Command {
	catalog := palette.NewCatalog()

	rootCmd := &cobra.Command{
		Use:   "coloredin",
		Short: "Browse the Colored In palette catalog",
		Long: `Command line access to the Colored In palette engine.

Every catalog palette is derived from its index, so the output here matches
what the server returns for the same index.

Examples:
  # Show a single palette
  coloredin palette show 42

  # Page through the Pro catalog
  coloredin palette page --plan pro --page 2

  # Search the whole catalog
  coloredin search ocean --all`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		PaletteCmd(catalog),
		SearchCmd(catalog),
		RandomCmd(catalog),
		ColorsCmd(catalog),
		TokenCmd(),
		VersionCmd(version),
	)

	return rootCmd
}

// VersionCmd returns the version command.
func VersionCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "coloredin %s\n", version)
			return err
		},
	}
}

// writePalettes prints palettes as an aligned table.
func writePalettes(out io.Writer, palettes []palette.Palette) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSCHEME\tCOLORS\tTAGS\tFREE")
	for _, p := range palettes {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			p.ID,
			p.Name,
			p.Scheme,
			strings.Join(p.Colors, " "),
			strings.Join(p.Tags, ","),
			yesNo(p.IsFree),
		)
	}
	return w.Flush()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
