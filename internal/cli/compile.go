package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jengzang/meteorites-backend-go/internal/config"
	"github.com/jengzang/meteorites-backend-go/internal/database"
	"github.com/jengzang/meteorites-backend-go/internal/dataset"
	"github.com/jengzang/meteorites-backend-go/internal/logger"
	"github.com/jengzang/meteorites-backend-go/internal/models"
	"github.com/jengzang/meteorites-backend-go/internal/repository"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/spf13/cobra"
)

var (
	compileOut     string
	compileFormat  string
	compileTable   string
	compileGrid    float64
	compileLimit   int
	compileCleanUp bool
)

// compileCmd represents the compile command
var compileCmd = &cobra.Command{
	Use:   "compile <input.csv>",
	Short: "Convert a NASA Meteorite Landings CSV export into a dataset",
	Long: `Compile validates a NASA Meteorite Landings CSV export and writes it as a
JSON dataset or a SQLite table that 'meteorites serve' can load.

Records are shuffled and keyed meteorite_1..meteorite_N.
The output format follows --format, or the extension of --out:
  .json            plain JSON
  .json.gz         gzip compressed JSON
  .json.zst        zstd compressed JSON
  .db, .sqlite     SQLite table (see --table)

Example:
  meteorites compile Meteorite_Landings.csv --out data/meteorites.json
  meteorites compile Meteorite_Landings.csv --out data/meteorites.json.zst --grid 0.5 --clean-up
  meteorites compile Meteorite_Landings.csv --out data/meteorites.db --limit 1000`,
	Args: cobra.ExactArgs(1),
	RunE: runCompile,
}

func init() {
	rootCmd.AddCommand(compileCmd)

	compileCmd.Flags().StringVarP(&compileOut, "out", "o", "meteorites.json", "output path")
	compileCmd.Flags().StringVar(&compileFormat, "format", "", "output format (json, gzip, zstd, sqlite); default from --out")
	compileCmd.Flags().StringVar(&compileTable, "table", config.Default().Dataset.Table, "SQLite table name")
	compileCmd.Flags().Float64Var(&compileGrid, "grid", 0, "keep one meteorite per grid cell of this size in degrees (0 disables)")
	compileCmd.Flags().IntVar(&compileLimit, "limit", 0, "maximum number of meteorites (0 = unlimited)")
	compileCmd.Flags().BoolVar(&compileCleanUp, "clean-up", false, "remove meteorites with invalid coordinates and fill empty fields")
}

func runCompile(cmd *cobra.Command, args []string) error {
	if compileGrid < 0 {
		return fmt.Errorf("--grid must not be negative")
	}
	if compileLimit < 0 {
		return fmt.Errorf("--limit must not be negative")
	}

	level := "info"
	if verbose {
		level = "debug"
	}
	log := logger.New(config.LogConfig{Level: level, Format: "text"})

	in, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open input: %w", err)
	}
	defer in.Close()

	records, report, err := dataset.Compile(in, dataset.CompileOptions{
		Grid:    compileGrid,
		Limit:   compileLimit,
		CleanUp: compileCleanUp,
	}, log)
	if err != nil {
		return err
	}

	format := compileFormat
	if format == "" {
		format = formatFromPath(compileOut)
	}
	if err := writeDataset(cmd.Context(), compileOut, format, compileTable, records); err != nil {
		return err
	}

	log.Info("dataset compiled",
		"out", compileOut,
		"format", format,
		"rows", report.Rows,
		"exported", report.Exported,
		"invalid_location", report.InvalidLocation,
		"grid_duplicates", report.GridDuplicates,
	)
	return nil
}

func formatFromPath(path string) string {
	switch {
	case strings.HasSuffix(path, ".gz"):
		return "gzip"
	case strings.HasSuffix(path, ".zst"):
		return "zstd"
	case strings.HasSuffix(path, ".db"), strings.HasSuffix(path, ".sqlite"):
		return "sqlite"
	default:
		return "json"
	}
}

func writeDataset(ctx context.Context, path, format, table string, records []models.RawMeteorite) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	if format == "sqlite" {
		return writeSQLite(ctx, path, table, records)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	defer f.Close()

	var w io.WriteCloser
	switch format {
	case "json":
		w = nopWriteCloser{f}
	case "gzip":
		w = gzip.NewWriter(f)
	case "zstd":
		w, err = zstd.NewWriter(f)
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown output format %q", format)
	}

	if err := dataset.Encode(w, records); err != nil {
		return fmt.Errorf("failed to write dataset: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finish dataset: %w", err)
	}
	return f.Close()
}

func writeSQLite(ctx context.Context, path, table string, records []models.RawMeteorite) error {
	db, err := database.Open(ctx, database.Config{Path: path})
	if err != nil {
		return err
	}
	defer db.Close()

	repo, err := repository.NewMeteoriteRepository(db, table)
	if err != nil {
		return err
	}
	if err := repo.EnsureTable(ctx); err != nil {
		return err
	}
	return repo.ReplaceAll(ctx, records)
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }
