// Command site-export writes the appointments and contacts held in a
// persistent store to an xlsx workbook.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/md-rashed-zaman/ambersite/libs/config"
	"github.com/md-rashed-zaman/ambersite/libs/runtime"
	"github.com/md-rashed-zaman/ambersite/services/site-service/internal/export"
	"github.com/md-rashed-zaman/ambersite/services/site-service/internal/storage"
)

var errMemoryDriver = errors.New("the memory store is per process; export needs postgres or sqlite")

func main() {
	if err := config.LoadDotenv(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "site-export: %v\n", err)
		os.Exit(1)
	}
	ctx, stop := runtime.SignalContext()
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "site-export: %v\n", err)
		}
		os.Exit(1)
	}
}

// run parses args, exports the store and closes it before returning, so the
// caller may exit right after.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("site-export", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		driver      = fs.String("driver", config.String("STORE_DRIVER", storage.DriverSQLite), "store driver (postgres, sqlite)")
		databaseURL = fs.String("database-url", config.String("DATABASE_URL", ""), "postgres connection string")
		sqlitePath  = fs.String("sqlite-path", config.String("SQLITE_PATH", "site.db"), "sqlite database file")
		out         = fs.String("out", "", "output file (default site-export-YYYYMMDD.xlsx, - for stdout)")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	name := storage.NormalizeDriver(*driver)
	if name == storage.DriverMemory {
		return errMemoryDriver
	}

	store, err := storage.Open(ctx, storage.Options{
		Driver:      name,
		DatabaseURL: *databaseURL,
		SQLitePath:  *sqlitePath,
	})
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	path := *out
	if path == "" {
		path = fmt.Sprintf("site-export-%s.xlsx", time.Now().Format("20060102"))
	}
	if path == "-" {
		return export.Write(ctx, store, stdout)
	}
	if err := writeExport(ctx, store, path); err != nil {
		return err
	}
	fmt.Fprintf(stderr, "wrote %s\n", path)
	return nil
}

// writeExport writes to a temp file beside path and renames it into place so
// a failed export never leaves a truncated workbook.
func writeExport(ctx context.Context, src export.Source, path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".site-export-*.xlsx")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := export.Write(ctx, src, tmp); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}
