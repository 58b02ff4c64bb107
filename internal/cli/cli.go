package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/LeoCastillo21/Proyecto/internal/chart"
	"github.com/LeoCastillo21/Proyecto/internal/config"
	"github.com/LeoCastillo21/Proyecto/internal/export"
	"github.com/LeoCastillo21/Proyecto/internal/league"
	"github.com/LeoCastillo21/Proyecto/internal/logger"
	"github.com/LeoCastillo21/Proyecto/internal/scraper"
	"github.com/LeoCastillo21/Proyecto/internal/stats"
	"github.com/LeoCastillo21/Proyecto/internal/tui"
	"github.com/spf13/cobra"
	"gonum.org/v1/plot/vg"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

// app holds what every command needs once flags and config are resolved
type app struct {
	configPath string
	inputPath  string
	verbose    bool

	cfg      *config.Config
	registry *league.Registry
	scraper  *scraper.Scraper
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "league-stats",
		Short: "Browse football league statistics scraped from sport.es",
		Long: `A CLI tool to browse football league statistics tables (top scorers,
assists, cards...) scraped from sport.es, search them by player name,
chart a category and export the results.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Config file (yaml, toml or json)")
	cmd.PersistentFlags().StringVar(&a.inputPath, "input", "", "Read a saved page (.html) or an export (.json) instead of fetching")
	cmd.PersistentFlags().BoolVar(&a.verbose, "verbose", false, "Enable verbose logging")

	cmd.AddCommand(
		a.newLeaguesCmd(),
		a.newShowCmd(),
		a.newCategoriesCmd(),
		a.newChartCmd(),
		a.newExportCmd(),
		a.newTUICmd(),
	)

	return cmd
}

// setup loads config and wires logging, the league registry and the scraper
func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	a.cfg = cfg

	level, err := logger.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return err
	}
	if a.verbose {
		level = logger.LevelDebug
	}
	logger.SetDefault(logger.New(level, logger.Format(strings.ToLower(cfg.Logging.Format)), cmd.ErrOrStderr()))

	registry := league.Default()
	for slug, url := range cfg.Leagues {
		if err := registry.Override(slug, url); err != nil {
			return fmt.Errorf("league override: %w", err)
		}
	}
	if cfg.Scraper.BaseURL != "" {
		registry, err = registry.WithBaseURL(cfg.Scraper.BaseURL)
		if err != nil {
			return fmt.Errorf("scraper.base_url: %w", err)
		}
	}
	a.registry = registry

	a.scraper = scraper.New(
		scraper.WithTimeout(cfg.Scraper.Timeout),
		scraper.WithUserAgent(cfg.Scraper.UserAgent),
		scraper.WithRetries(cfg.Scraper.Retries, cfg.Scraper.RetryDelay),
	)

	logger.Debug("Configured", logger.Fields{
		"config":  a.configPath,
		"timeout": cfg.Scraper.Timeout.String(),
		"retries": cfg.Scraper.Retries,
	})

	return nil
}

// loadPage fetches the league page, or reads it from --input
func (a *app) loadPage(ctx context.Context, key string) (*stats.Page, error) {
	l, err := a.registry.Lookup(key)
	if err != nil {
		return nil, err
	}

	var page *stats.Page
	switch {
	case a.inputPath == "":
		logger.Debug("Fetching page", logger.Fields{"league": l.Slug, "url": l.URL})
		page, err = a.scraper.FetchPage(ctx, l)
	case strings.EqualFold(filepath.Ext(a.inputPath), ".json"):
		page, err = export.ReadJSON(a.inputPath)
	default:
		page, err = scraper.LoadPage(a.inputPath, l)
	}
	if err != nil {
		return nil, fmt.Errorf("loading %s statistics: %w", l.Name, err)
	}

	if a.verbose {
		logger.Debug("Metrics", logger.MetricsSnapshot().Fields())
	}

	return page, nil
}

func (a *app) chartOptions() chart.Options {
	opts := chart.DefaultOptions()
	opts.Width = vg.Length(a.cfg.Chart.Width) * vg.Inch
	opts.Height = vg.Length(a.cfg.Chart.Height) * vg.Inch
	return opts
}

func (a *app) newLeaguesCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "leagues",
		Short: "List the leagues that can be scraped",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := parseOutputFormat(format)
			if err != nil {
				return err
			}
			return writeLeagues(cmd.OutOrStdout(), a.registry.All(), f)
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "Output format: text or json")
	return cmd
}

func (a *app) newShowCmd() *cobra.Command {
	var (
		format string
		search string
		order  string
	)

	cmd := &cobra.Command{
		Use:   "show <league>",
		Short: "Show every statistics table of a league",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := parseOutputFormat(format)
			if err != nil {
				return err
			}
			sortOrder, err := stats.ParseSortOrder(order)
			if err != nil {
				return err
			}

			page, err := a.loadPage(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			page = page.Search(search)
			stats.SortPage(page, sortOrder)

			if err := writePage(cmd.OutOrStdout(), page, f, a.verbose); err != nil {
				return fmt.Errorf("writing output: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "Output format: text or json")
	cmd.Flags().StringVar(&search, "search", "", "Only show players whose name contains this text")
	cmd.Flags().StringVar(&order, "sort", "position", "Sort rows by: position, total or name")
	return cmd
}

func (a *app) newCategoriesCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "categories <league>",
		Short: "List the statistics categories of a league",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := parseOutputFormat(format)
			if err != nil {
				return err
			}

			page, err := a.loadPage(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeCategories(cmd.OutOrStdout(), page, f)
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "Output format: text or json")
	return cmd
}

func (a *app) newChartCmd() *cobra.Command {
	var (
		category string
		out      string
		text     bool
		width    int
	)

	cmd := &cobra.Command{
		Use:   "chart <league>",
		Short: "Chart the players of a statistics category",
		Long: `Chart the players of every category whose title contains --category.
Writes an image (png, svg, pdf or jpg by extension) and/or draws the chart
in the terminal with --text.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(category) == "" {
				return fmt.Errorf("--category is required")
			}
			if out == "" && !text {
				text = true
			}

			page, err := a.loadPage(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			points, err := stats.Series(page.Select(category))
			if err != nil {
				return fmt.Errorf("charting %q: %w", category, err)
			}
			if len(points) == 0 {
				return fmt.Errorf("category %q: %w", category, chart.ErrNoData)
			}

			if out != "" {
				path := out
				if a.cfg.Chart.OutputDir != "" && !filepath.IsAbs(path) {
					path = filepath.Join(a.cfg.Chart.OutputDir, path)
				}
				if err := chart.Save(points, path, a.chartOptions()); err != nil {
					return err
				}
				logger.Info("Chart saved", logger.Fields{"path": path, "bars": len(points)})
			}

			if text {
				w := cmd.OutOrStdout()
				if err := chart.WriteText(w, points, width); err != nil {
					return err
				}
				if summary, err := stats.Summarize(points); err == nil {
					writeSummary(w, summary)
				}
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Category title, or part of it (required)")
	cmd.Flags().StringVar(&out, "out", "", "Image file to write (png, svg, pdf, jpg)")
	cmd.Flags().BoolVar(&text, "text", false, "Draw the chart in the terminal (default when --out is not set)")
	cmd.Flags().IntVar(&width, "width", 40, "Length of the longest bar in --text mode")
	return cmd
}

func (a *app) newExportCmd() *cobra.Command {
	var (
		search string
		out    string
		format string
	)

	cmd := &cobra.Command{
		Use:   "export <league>",
		Short: "Export a league's statistics to JSON, CSV or XLSX",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := resolveExportFormat(format, out)
			if err != nil {
				return err
			}

			exporter, err := export.New(a.cfg.Export.DataDir)
			if err != nil {
				return fmt.Errorf("initializing export: %w", err)
			}

			l, err := a.registry.Lookup(args[0])
			if err != nil {
				return err
			}
			page, err := a.loadPage(cmd.Context(), l.Slug)
			if err != nil {
				return err
			}

			name := out
			if name == "" {
				name = export.DefaultName(l.Slug, f)
			}

			path, err := exporter.Write(page.Search(search), name, f)
			if err != nil {
				return fmt.Errorf("exporting: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "Only export players whose name contains this text")
	cmd.Flags().StringVar(&out, "out", "", "Output file; relative paths go under export.data_dir")
	cmd.Flags().StringVar(&format, "format", "", "json, csv or xlsx (default: from --out extension, else json)")
	return cmd
}

// resolveExportFormat prefers --format, then the --out extension, then JSON
func resolveExportFormat(format, out string) (export.Format, error) {
	if format != "" {
		return export.ParseFormat(format)
	}
	if out != "" {
		return export.FormatFromPath(out)
	}
	return export.FormatJSON, nil
}

func (a *app) newTUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive statistics browser",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// The terminal belongs to the UI; keep logs out of it.
			logger.SetDefault(logger.New(logger.LevelError, logger.FormatJSON, io.Discard))

			return tui.New(tui.Deps{
				Leagues:   a.registry.All(),
				Load:      a.loadPage,
				ChartDir:  a.cfg.Chart.OutputDir,
				ChartOpts: a.chartOptions(),
			}).Run(cmd.Context())
		},
	}
}

// Execute runs the CLI
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		if errors.Is(err, context.Canceled) {
			os.Exit(ExitSuccess)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
