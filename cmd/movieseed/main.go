package main

import (
	"archive/zip"
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"moviefav/movie"
	"moviefav/pkg/config"
	"moviefav/store"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/lib/pq"
)

var requiredColumns = []string{"movieTitle", "year", "castStars", "cover"}

func main() {
	os.Exit(run(os.Args[1:]))
}

// run imports the favorites named by args and returns the exit code.
func run(args []string) int {
	var (
		csvPath string
		fileURL string
		limit   int
	)

	fs := flag.NewFlagSet("movieseed", flag.ContinueOnError)
	fs.StringVar(&csvPath, "csv", "", "Path to a favorites CSV (skip download)")
	fs.StringVar(&fileURL, "url", "", "URL of a favorites CSV or a zip holding one")
	fs.IntVar(&limit, "limit", 0, "Limit number of rows to import (0 = all)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if csvPath == "" && fileURL == "" {
		slog.Error("one of -csv or -url is required")
		fs.Usage()
		return 1
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("load config failed", "error", err)
		return 1
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		return 1
	}

	if csvPath == "" {
		path, cleanup, err := download(fileURL)
		if err != nil {
			slog.Error("failed to download favorites", "error", err)
			return 1
		}
		defer cleanup()
		csvPath = path
	}

	file, err := os.Open(csvPath)
	if err != nil {
		slog.Error("cannot open csv", "error", err)
		return 1
	}
	defer file.Close()

	ctx := context.Background()
	favorites, err := store.Open(ctx, cfg)
	if err != nil {
		slog.Error("cannot open favorites store", "driver", cfg.Store.Driver, "error", err)
		return 1
	}
	defer func() {
		if err := favorites.Close(ctx); err != nil {
			slog.Error("cannot close favorites store", "error", err)
		}
	}()

	count, err := importMovies(ctx, favorites.Repository, file, limit)
	if err != nil {
		slog.Error("import failed", "rows", count, "error", err)
		return 1
	}

	slog.Info("import completed", "rows", count, "driver", favorites.Driver)
	return 0
}

func download(fileURL string) (string, func(), error) {
	tmpDir, err := os.MkdirTemp("", "movieseed-")
	if err != nil {
		return "", func() {}, err
	}

	cleanup := func() {
		_ = os.RemoveAll(tmpDir)
	}

	dest := filepath.Join(tmpDir, "favorites.csv")
	isZip := strings.HasSuffix(strings.ToLower(fileURL), ".zip")
	if isZip {
		dest = filepath.Join(tmpDir, "favorites.zip")
	}
	if err := downloadFile(fileURL, dest); err != nil {
		cleanup()
		return "", func() {}, err
	}
	if !isZip {
		return dest, cleanup, nil
	}

	csvPath, err := extractCSV(dest, tmpDir)
	if err != nil {
		cleanup()
		return "", func() {}, err
	}

	return csvPath, cleanup, nil
}

func downloadFile(url, dest string) error {
	client := &http.Client{Timeout: 60 * time.Second}
	resp, err := client.Get(url) // nolint: noctx
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status: %s", resp.Status)
	}

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, resp.Body)
	return err
}

// extractCSV copies the first .csv entry of the zip at zipPath into destDir.
func extractCSV(zipPath, destDir string) (string, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return "", err
	}
	defer r.Close()

	for _, file := range r.File {
		if !strings.HasSuffix(file.Name, ".csv") {
			continue
		}

		src, err := file.Open()
		if err != nil {
			return "", err
		}
		defer src.Close()

		destPath := filepath.Join(destDir, filepath.Base(file.Name))
		out, err := os.Create(destPath)
		if err != nil {
			return "", err
		}

		if _, err := io.Copy(out, src); err != nil {
			_ = out.Close()
			return "", err
		}
		if err := out.Close(); err != nil {
			return "", err
		}

		return destPath, nil
	}

	return "", errors.New("no csv file found in zip")
}

// importMovies inserts every record of r through repo. Rows with too few
// columns are skipped; the first insert failure stops the import.
func importMovies(ctx context.Context, repo movie.Repository, r io.Reader, limit int) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	idx, err := parseHeader(reader)
	if err != nil {
		return 0, err
	}

	count := 0
	for limit <= 0 || count < limit {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return count, err
		}
		m, ok := parseRecord(record, idx)
		if !ok {
			continue
		}

		if err := repo.Insert(ctx, m); err != nil {
			return count, fmt.Errorf("insert %q: %w", m.Title, err)
		}

		count++
	}

	return count, nil
}

func parseHeader(reader *csv.Reader) (map[string]int, error) {
	header, err := reader.Read()
	if err != nil {
		return nil, err
	}

	idx := make(map[string]int, len(requiredColumns))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	for _, col := range requiredColumns {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("missing column %q in csv header", col)
		}
	}

	return idx, nil
}

func parseRecord(record []string, idx map[string]int) (movie.Movie, bool) {
	for _, col := range requiredColumns {
		if idx[col] >= len(record) {
			return movie.Movie{}, false
		}
	}

	return movie.Movie{
		Title:     strings.TrimSpace(record[idx["movieTitle"]]),
		Year:      strings.TrimSpace(record[idx["year"]]),
		CastStars: strings.TrimSpace(record[idx["castStars"]]),
		Cover:     strings.TrimSpace(record[idx["cover"]]),
	}, true
}
