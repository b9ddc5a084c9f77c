package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/MrSnakeDoc/lombahub/internal/domain"
	"github.com/MrSnakeDoc/lombahub/internal/index"
	"github.com/MrSnakeDoc/lombahub/internal/sources/catalogfile"
	"github.com/MrSnakeDoc/lombahub/internal/version"
)

const (
	catalogFlag       = "catalog"
	queryFlag         = "query"
	categoryFlag      = "category"
	levelFlag         = "level"
	formatFlag        = "format"
	participationFlag = "participation"
	statusFlag        = "status"
	sortFlag          = "sort"
	limitFlag         = "limit"
	outputFlag        = "output"

	outputTable = "table"
	outputYAML  = "yaml"
)

// searchRow is the printable form of a competition.
type searchRow struct {
	ID       string   `yaml:"id"`
	Title    string   `yaml:"title"`
	Category string   `yaml:"category"`
	Levels   []string `yaml:"levels"`
	Deadline string   `yaml:"deadline"`
	Status   string   `yaml:"status"`
	Format   string   `yaml:"format"`
}

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:    "lombactl",
		Usage:   "Inspect and query a LombaHub catalog file",
		Version: version.String(),
		Writer:  out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    catalogFlag,
				Aliases: []string{"c"},
				Usage:   "Path to the catalog YAML file",
				Value:   "./data/catalog.yaml",
				EnvVars: []string{"LOMBAHUB_CATALOG_FILE"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "validate",
				Usage:  "Load the catalog and report skipped records and status drift",
				Action: validateAction,
			},
			{
				Name:  "search",
				Usage: "Run a query against the catalog",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: queryFlag, Aliases: []string{"q"}, Usage: "Free-text search"},
					&cli.StringSliceFlag{Name: categoryFlag, Usage: "Category facet (repeatable)"},
					&cli.StringSliceFlag{Name: levelFlag, Usage: "Level facet (repeatable): sma, mahasiswa, umum, profesional"},
					&cli.StringFlag{Name: formatFlag, Value: domain.All, Usage: "online, offline, hybrid or all"},
					&cli.StringFlag{Name: participationFlag, Value: domain.All, Usage: "individual, team or all"},
					&cli.StringFlag{Name: statusFlag, Value: domain.All, Usage: "open, closing-soon, closed or all"},
					&cli.StringFlag{Name: sortFlag, Value: string(domain.DefaultSort), Usage: "deadline or name"},
					&cli.IntFlag{Name: limitFlag, Aliases: []string{"n"}, Usage: "Maximum rows to print (0 = all)"},
					&cli.StringFlag{Name: outputFlag, Aliases: []string{"o"}, Value: outputTable, Usage: "table or yaml"},
				},
				Action: searchAction,
			},
			{
				Name:   "categories",
				Usage:  "Count competitions per category",
				Action: categoriesAction,
			},
		},
	}
}

func loadCatalog(path string) (catalogfile.Result, error) {
	file, err := catalogfile.NewLoader(path).Load()
	if err != nil {
		return catalogfile.Result{}, err
	}
	return catalogfile.NewMapper().Map(file)
}

func validateAction(cCtx *cli.Context) error {
	out := cCtx.App.Writer
	res, err := loadCatalog(cCtx.String(catalogFlag))

	for _, s := range res.Skipped {
		fmt.Fprintf(out, "skipped #%d (%s): %s\n", s.Position, s.ID, s.Reason)
	}
	if err != nil {
		if errors.Is(err, catalogfile.ErrEmptyCatalog) {
			return cli.Exit(err.Error(), 2)
		}
		return cli.Exit(err.Error(), 1)
	}

	stale := catalogfile.CountStale(res.Competitions, time.Now())
	fmt.Fprintf(out, "competitions: %d\nskipped: %d\nstatus drift: %d\n", len(res.Competitions), len(res.Skipped), stale)
	return nil
}

func searchAction(cCtx *cli.Context) error {
	res, err := loadCatalog(cCtx.String(catalogFlag))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	filters := domain.DefaultFilters()
	filters.Categories = cCtx.StringSlice(categoryFlag)
	for _, l := range cCtx.StringSlice(levelFlag) {
		filters.Levels = append(filters.Levels, domain.Level(strings.ToLower(l)))
	}
	filters.Format = domain.Format(strings.ToLower(cCtx.String(formatFlag)))
	filters.ParticipationType = domain.ParticipationType(strings.ToLower(cCtx.String(participationFlag)))
	filters.Status = domain.Status(strings.ToLower(cCtx.String(statusFlag)))
	filters = filters.Normalize()
	if err := filters.Validate(); err != nil {
		return cli.Exit(err.Error(), 1)
	}

	sortBy, err := domain.ParseSortOption(cCtx.String(sortFlag))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	results := domain.Compute(res.Competitions, cCtx.String(queryFlag), filters, sortBy)
	if n := cCtx.Int(limitFlag); n > 0 && n < len(results) {
		results = results[:n]
	}

	rows := make([]searchRow, 0, len(results))
	for _, c := range results {
		levels := make([]string, 0, len(c.Levels))
		for _, l := range c.Levels {
			levels = append(levels, string(l))
		}
		rows = append(rows, searchRow{
			ID:       c.ID,
			Title:    c.Title,
			Category: c.Category,
			Levels:   levels,
			Deadline: c.Deadline.Format(domain.DateLayout),
			Status:   string(c.Status),
			Format:   string(c.Format),
		})
	}

	switch cCtx.String(outputFlag) {
	case outputYAML:
		enc := yaml.NewEncoder(cCtx.App.Writer)
		enc.SetIndent(2)
		if err := enc.Encode(rows); err != nil {
			return fmt.Errorf("encoding to YAML failed: %w", err)
		}
		return enc.Close()
	case outputTable:
		tw := tabwriter.NewWriter(cCtx.App.Writer, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tDEADLINE\tSTATUS\tCATEGORY\tTITLE")
		for _, r := range rows {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.ID, r.Deadline, r.Status, r.Category, r.Title)
		}
		return tw.Flush()
	default:
		return cli.Exit(fmt.Sprintf("unknown output %q (want table or yaml)", cCtx.String(outputFlag)), 1)
	}
}

func categoriesAction(cCtx *cli.Context) error {
	res, err := loadCatalog(cCtx.String(catalogFlag))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	idx := index.NewCatalogIndex()
	idx.Update(res.Competitions)

	tw := tabwriter.NewWriter(cCtx.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CATEGORY\tCOUNT")
	for _, c := range idx.CategoryStats() {
		fmt.Fprintf(tw, "%s\t%d\n", c.Name, c.Count)
	}
	return tw.Flush()
}
