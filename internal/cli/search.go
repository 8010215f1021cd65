package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/coloredin/coloredin-server/internal/palette"
	"github.com/coloredin/coloredin-server/internal/plan"
)

// SearchCmd returns the catalog search command.
func SearchCmd(catalog *palette.Catalog) *cobra.Command {
	var (
		planName string
		all      bool
		limit    int
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search catalog palettes by name or tag",
		Long: `Search catalog palettes by name or tag.

Names match on a case-insensitive substring, tags on equality. By default the
search covers the catalog visible to --plan; --all scans every palette.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			if strings.TrimSpace(query) == "" {
				return errors.New("query must not be blank")
			}

			ceiling, scope := plan.Parse(planName).Ceiling(), palette.ScopePlan
			if all {
				ceiling, scope = palette.CatalogSize, palette.ScopeAll
			}

			var results []palette.Palette
			for p := range catalog.Scan(query, ceiling, scope) {
				results = append(results, p)
				if limit > 0 && len(results) >= limit {
					break
				}
			}

			if err := writePalettes(cmd.OutOrStdout(), results); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "\n%d result(s)\n", len(results))
			return err
		},
	}

	cmd.Flags().StringVar(&planName, "plan", string(plan.Free), "Plan whose catalog to search")
	cmd.Flags().BoolVar(&all, "all", false, "Search the whole catalog")
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum results, 0 for no limit")
	cmd.MarkFlagsMutuallyExclusive("plan", "all")

	return cmd
}

// RandomCmd returns the command printing a random free palette.
func RandomCmd(catalog *palette.Catalog) *cobra.Command {
	return &cobra.Command{
		Use:   "random",
		Short: "Print the colors of a random free palette",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeColors(cmd, catalog.RandomPalette())
		},
	}
}

// ColorsCmd returns the command printing freshly generated colors.
func ColorsCmd(catalog *palette.Catalog) *cobra.Command {
	return &cobra.Command{
		Use:   "colors",
		Short: "Generate five colors from a random seed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeColors(cmd, catalog.RandomColors(palette.ColorsPerPalette))
		},
	}
}

func writeColors(cmd *cobra.Command, colors []string) error {
	_, err := fmt.Fprintln(cmd.OutOrStdout(), strings.Join(colors, " "))
	return err
}
