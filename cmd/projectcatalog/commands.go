package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"ProjectCatalog/internal/app"
	"ProjectCatalog/internal/config"
	"ProjectCatalog/internal/domain"
)

func newRootCmd(cfg config.Config, logger *slog.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:   "projectcatalog",
		Short: "Import, search and export the consulting project archive",
		Long: `projectcatalog cleans CSV exports of the project archive into structured records
and serves them for search, faceted filtering and export.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&cfg.Storage.Path, "db", cfg.Storage.Path, "SQLite database path")

	open := func(cmd *cobra.Command) (*app.Application, error) {
		return app.New(cmd.Context(), cfg, logger)
	}

	root.AddCommand(
		newImportCmd(open),
		newListCmd(open),
		newFacetsCmd(open),
		newExportCmd(open, cfg.Export.FileName),
		newServeCmd(open, cfg.Import.WatchPath),
	)
	return root
}

type opener func(cmd *cobra.Command) (*app.Application, error)

func newImportCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv|->",
		Short: "Replace the catalog with a cleaned CSV export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			in := io.Reader(cmd.InOrStdin())
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("open %s: %w", args[0], err)
				}
				defer f.Close()
				in = f
			}

			res, err := a.Import(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d projects (batch %s)\n", len(res.Projects), res.Batch)
			if !res.Persisted {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning: projects were not saved to storage")
			}
			return nil
		},
	}
}

type queryFlags struct {
	search        string
	categories    []string
	subcategories []string
	from, to      int
	sortKey       string
	direction     string
}

func (q *queryFlags) bind(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&q.search, "search", "s", "", "case-insensitive text search")
	f.StringSliceVar(&q.categories, "category", nil, "category filter (repeatable)")
	f.StringSliceVar(&q.subcategories, "subcategory", nil, "subcategory filter (repeatable)")
	f.IntVar(&q.from, "from", 0, "earliest project year")
	f.IntVar(&q.to, "to", 0, "latest project year")
	f.StringVar(&q.sortKey, "sort", string(domain.SortByYear), "sort key: name, year or client")
	f.StringVar(&q.direction, "dir", string(domain.Descending), "sort direction: asc or desc")
}

func (q *queryFlags) resolve() (domain.Filter, domain.SortConfig, error) {
	filter := domain.Filter{
		Search:        q.search,
		Categories:    q.categories,
		Subcategories: q.subcategories,
	}
	if q.from != 0 || q.to != 0 {
		years := domain.YearRange{From: q.from, To: q.to}
		if years.To == 0 {
			years.To = 9999
		}
		filter.Years = &years
	}

	key, ok := domain.ParseSortKey(q.sortKey)
	if !ok {
		return filter, domain.SortConfig{}, fmt.Errorf("unknown sort key %q", q.sortKey)
	}
	dir := domain.SortDirection(q.direction)
	if dir != domain.Ascending && dir != domain.Descending {
		return filter, domain.SortConfig{}, fmt.Errorf("unknown sort direction %q", q.direction)
	}
	return filter, domain.SortConfig{Key: key, Direction: dir}, nil
}

func newListCmd(open opener) *cobra.Command {
	var (
		q      queryFlags
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Search and filter the catalog",
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter, order, err := q.resolve()
			if err != nil {
				return err
			}
			a, err := open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			projects := a.Projects(filter, order)
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(projects)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "YEAR\tTITLE\tCLIENT\tCATEGORIES")
			for _, p := range projects {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.Year, p.Name, p.Client, strings.Join(p.Categories, ", "))
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d verified records\n", len(projects))
			return nil
		},
	}
	q.bind(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

func newFacetsCmd(open opener) *cobra.Command {
	var categories []string
	cmd := &cobra.Command{
		Use:   "facets",
		Short: "Show categories, subcategories, client types and year bounds",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(a.Facets(categories))
		},
	}
	cmd.Flags().StringSliceVar(&categories, "category", nil, "limit subcategories to these categories")
	return cmd
}

func newExportCmd(open opener, defaultName string) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the catalog as indented JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if out == "-" {
				return a.Export(cmd.OutOrStdout())
			}
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}
			if err := a.Export(f); err != nil {
				_ = f.Close()
				return err
			}
			return f.Close()
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", defaultName, "output file, or - for stdout")
	return cmd
}

func newServeCmd(open opener, defaultWatch string) *cobra.Command {
	var watch string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP viewer API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()
			return a.Serve(cmd.Context(), watch)
		},
	}
	cmd.Flags().StringVar(&watch, "watch", defaultWatch, "CSV file to re-import whenever it changes")
	return cmd
}
