package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/coloredin/coloredin-server/internal/palette"
	"github.com/coloredin/coloredin-server/internal/plan"
)

// PaletteCmd returns the palette command group.
func PaletteCmd(catalog *palette.Catalog) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "palette",
		Short: "Inspect catalog palettes",
	}
	cmd.AddCommand(paletteShowCmd(catalog), palettePageCmd(catalog))
	return cmd
}

func paletteShowCmd(catalog *palette.Catalog) *cobra.Command {
	return &cobra.Command{
		Use:   "show <index>",
		Short: "Show the palette at a 0-based catalog index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid index %q: %w", args[0], err)
			}

			p, ok := catalog.PaletteByIndex(index)
			if !ok {
				return fmt.Errorf("index %d is outside the catalog [0, %d)", index, palette.CatalogSize)
			}
			return writePalettes(cmd.OutOrStdout(), []palette.Palette{p})
		},
	}
}

func palettePageCmd(catalog *palette.Catalog) *cobra.Command {
	var (
		planName string
		page     int
		pageSize int
	)

	cmd := &cobra.Command{
		Use:   "page",
		Short: "List one page of the catalog visible to a plan",
		Long: `List one page of the catalog visible to a plan.

Unknown plans see the free tier. Pages are 0-based.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if page < 0 {
				return fmt.Errorf("page must not be negative, got %d", page)
			}
			if pageSize <= 0 {
				return fmt.Errorf("page size must be positive, got %d", pageSize)
			}

			result := catalog.PalettesByPlan(planName, page, pageSize)
			if err := writePalettes(cmd.OutOrStdout(), result.Palettes); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "\nPlan: %s  Page: %d  Total: %d  More: %s\n",
				plan.Parse(planName), page, result.Total, yesNo(result.HasMore))
			return err
		},
	}

	cmd.Flags().StringVar(&planName, "plan", string(plan.Free), "Plan whose catalog to page (free, pro, ultra, individual)")
	cmd.Flags().IntVar(&page, "page", 0, "0-based page number")
	cmd.Flags().IntVar(&pageSize, "page-size", palette.DefaultPageSize, "Palettes per page")

	return cmd
}
