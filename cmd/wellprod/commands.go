package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"wellprod/internal/app"
	"wellprod/internal/config"
	"wellprod/internal/export"
	"wellprod/internal/ingest"
	"wellprod/internal/models"
	"wellprod/internal/repositories/sqldb"
	"wellprod/internal/scheduler"
	"wellprod/internal/services"
	"wellprod/internal/util"
	"wellprod/pkg/db"
	"wellprod/pkg/logger"
)

type rootOpts struct {
	sqlitePath string
	timeout    time.Duration
}

func newRootCmd() *cobra.Command {
	o := &rootOpts{}
	root := &cobra.Command{
		Use:           "wellprod",
		Short:         "Well production data tools",
		SilenceUsage:  true,
	}
	root.PersistentFlags().StringVar(&o.sqlitePath, "sqlite", "", "use this SQLite file instead of DB_DRIVER/DB_DSN")
	root.PersistentFlags().DurationVar(&o.timeout, "timeout", 5*time.Minute, "overall timeout")

	root.AddCommand(
		newIngestCmd(o),
		newInspectCmd(o),
		newExportCmd(o),
		newSnapshotCmd(o),
		newHashPasswordCmd(),
	)
	return root
}

// env memuat config + logger + koneksi DB (sudah migrasi).
func (o *rootOpts) env(ctx context.Context) (*config.Config, *sql.DB, error) {
	cfg := config.Load()
	if o.sqlitePath != "" {
		cfg.DB.Driver = "sqlite"
		cfg.DB.DSN = ""
		cfg.DB.Path = o.sqlitePath
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	logger.SetGlobalLogger(logger.New(logger.Config{Level: cfg.LogLevel, Pretty: true, Out: os.Stderr}))

	conn, err := db.Open(ctx, app.DBOptions(cfg))
	if err != nil {
		return nil, nil, err
	}
	if err := sqldb.Migrate(ctx, conn, sqldb.Dialect(cfg.DB.Driver)); err != nil {
		_ = conn.Close()
		return nil, nil, err
	}
	return cfg, conn, nil
}

func newIngestCmd(o *rootOpts) *cobra.Command {
	var sheet string
	var appendRows bool
	cmd := &cobra.Command{
		Use:   "ingest <file.xlsx|file.csv>",
		Short: "Load a production workbook into the production table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), o.timeout)
			defer cancel()

			res, err := ingest.ReadFile(args[0], sheet)
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			cfg, conn, err := o.env(ctx)
			if err != nil {
				return err
			}
			defer conn.Close()

			repo := &sqldb.IngestRepo{DB: conn, Dialect: sqldb.Dialect(cfg.DB.Driver)}
			var n int
			if appendRows {
				n, err = repo.Append(ctx, res.Records)
			} else {
				n, err = repo.ReplaceAll(ctx, res.Records)
			}
			if err != nil {
				return err
			}
			total, err := repo.Count(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "batch %s: %d rows inserted, %d skipped, %d total\n", res.BatchID, n, res.Skipped, total)
			return nil
		},
	}
	cmd.Flags().StringVar(&sheet, "sheet", "", "worksheet name (default: first sheet)")
	cmd.Flags().BoolVar(&appendRows, "append", false, "keep existing rows")
	return cmd
}

func newInspectCmd(o *rootOpts) *cobra.Command {
	var sample int
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show production table columns, row count and a sample",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), o.timeout)
			defer cancel()
			cfg, conn, err := o.env(ctx)
			if err != nil {
				return err
			}
			defer conn.Close()

			repo := &sqldb.IngestRepo{DB: conn, Dialect: sqldb.Dialect(cfg.DB.Driver)}
			cols, err := repo.TableInfo(ctx)
			if err != nil {
				return err
			}
			n, err := repo.Count(ctx)
			if err != nil {
				return err
			}
			recs, err := repo.Sample(ctx, sample)
			if err != nil {
				return err
			}
			return printInspect(cmd.OutOrStdout(), cols, n, recs)
		},
	}
	cmd.Flags().IntVar(&sample, "sample", 5, "rows to show")
	return cmd
}

func printInspect(w io.Writer, cols []sqldb.ColumnInfo, n int, recs []models.ProductionRecord) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "COLUMN\tTYPE")
	for _, c := range cols {
		fmt.Fprintf(tw, "%s\t%s\n", c.Name, c.Type)
	}
	fmt.Fprintf(tw, "\nrows: %d\n\n", n)
	fmt.Fprintln(tw, "WELL\tNETWORK\tDATE\tHRS\tOIL_MT\tGAS_KCM\tCOND_MT\tWATER_BB6")
	for _, r := range recs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.1f\t%.2f\t%.2f\t%.2f\t%.2f\n",
			r.WellKey(), r.ProcessPlatform, r.ProdDate, r.HrsFlown, r.OilMT, r.GasKCM, r.CondensateMT, r.WaterBB6)
	}
	return tw.Flush()
}

func newExportCmd(o *rootOpts) *cobra.Command {
	var start, end, format, out, networks, now string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the simulated monthly series to CSV or XLSX",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), o.timeout)
			defer cancel()

			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			from, err := optDate(start)
			if err != nil {
				return fmt.Errorf("--start: %w", err)
			}
			to, err := optDate(end)
			if err != nil {
				return fmt.Errorf("--end: %w", err)
			}
			var genOpts []services.SeriesOption
			if now != "" {
				t, err := time.Parse("2006-01-02", now)
				if err != nil {
					return fmt.Errorf("--now: %w", err)
				}
				genOpts = append(genOpts, services.WithClock(util.FixedClock{T: t}))
			}

			cfg, conn, err := o.env(ctx)
			if err != nil {
				return err
			}
			defer conn.Close()

			sums, err := (&sqldb.ProductionRepo{DB: conn}).NetworkSummary(ctx)
			if err != nil {
				return err
			}
			if names := splitList(networks); len(names) > 0 {
				sums = services.FilterSummaries(sums, names)
			}
			if len(sums) == 0 {
				return fmt.Errorf("no delivery networks to export")
			}

			s, err := app.NewGenerator(cfg, genOpts...).Generate(services.GroupsFromSummaries(sums), from, to)
			if err != nil {
				return err
			}
			if out == "" {
				out = cfg.Worker.ExportDir
			}
			if err := os.MkdirAll(out, 0o755); err != nil {
				return err
			}
			path := filepath.Join(out, export.FileName(s, from, to, f))
			fh, err := os.Create(path)
			if err != nil {
				return err
			}
			if err := export.Write(fh, s, f); err != nil {
				_ = fh.Close()
				return err
			}
			if err := fh.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%d months, %d networks)\n", path, len(s.Records), len(s.Groups))
			return nil
		},
	}
	cmd.Flags().StringVar(&start, "start", "", "first month to keep (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "last month to keep (YYYY-MM-DD)")
	cmd.Flags().StringVar(&format, "format", "csv", "csv or xlsx")
	cmd.Flags().StringVar(&out, "out", "", "output directory (default EXPORT_DIR)")
	cmd.Flags().StringVar(&networks, "networks", "", "comma separated networks (default all)")
	cmd.Flags().StringVar(&now, "now", "", "pin the generator clock (YYYY-MM-DD)")
	return cmd
}

func newSnapshotCmd(o *rootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot",
		Short: "Render chart PNGs and the series CSV once, like the worker job",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), o.timeout)
			defer cancel()
			cfg, conn, err := o.env(ctx)
			if err != nil {
				return err
			}
			defer conn.Close()

			job := scheduler.NewSnapshotJob(scheduler.SnapshotConfig{
				Summaries: &sqldb.ProductionRepo{DB: conn},
				Generator: app.NewGenerator(cfg),
				Dir:       cfg.Worker.ExportDir,
			})
			dir, err := job.Render(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}

func newHashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Print a bcrypt hash for ADMIN_PASS_HASH",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := bcrypt.GenerateFromPassword([]byte(args[0]), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(h))
			return nil
		},
	}
}

func optDate(s string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func splitList(s string) []string {
	var out []string
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
