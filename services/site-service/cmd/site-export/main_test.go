package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/md-rashed-zaman/ambersite/services/site-service/internal/export"
	"github.com/md-rashed-zaman/ambersite/services/site-service/internal/model"
	"github.com/md-rashed-zaman/ambersite/services/site-service/internal/storage"
	"github.com/xuri/excelize/v2"
)

func TestWriteExportFromSQLite(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := storage.Open(ctx, storage.Options{
		Driver:     storage.DriverSQLite,
		SQLitePath: filepath.Join(dir, "site.db"),
		Seed:       true,
	})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	if _, err := store.CreateContact(ctx, model.ContactInput{Name: "Ali", Email: "ali@example.com", Subject: "support", Message: "help"}); err != nil {
		t.Fatalf("create contact: %v", err)
	}

	path := filepath.Join(dir, "out.xlsx")
	if err := writeExport(ctx, store, path); err != nil {
		t.Fatalf("writeExport: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows(export.SheetContacts)
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(rows) != 2 || rows[1][3] != "support" {
		t.Fatalf("unexpected rows %v", rows)
	}

	leftovers, _ := filepath.Glob(filepath.Join(dir, ".site-export-*"))
	if len(leftovers) != 0 {
		t.Fatalf("temp files left behind: %v", leftovers)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("stat: %v", err)
	}
}

func TestRunRejectsMemoryDriver(t *testing.T) {
	for _, driver := range []string{"memory", "Memory", " MEMORY ", ""} {
		var stdout, stderr bytes.Buffer
		err := run(context.Background(), []string{"-driver", driver, "-out", "-"}, &stdout, &stderr)
		if !errors.Is(err, errMemoryDriver) {
			t.Fatalf("driver %q: expected errMemoryDriver, got %v", driver, err)
		}
		if stdout.Len() != 0 {
			t.Fatalf("driver %q: nothing should be written", driver)
		}
	}
}

func TestRunClosesStoreBeforeReturning(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "site.db")
	out := filepath.Join(dir, "export.xlsx")

	var stdout, stderr bytes.Buffer
	args := []string{"-driver", "SQLite", "-sqlite-path", dbPath, "-out", out}
	if err := run(context.Background(), args, &stdout, &stderr); err != nil {
		t.Fatalf("run: %v (%s)", err, stderr.String())
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("export missing: %v", err)
	}
	// Closing the last connection checkpoints the WAL and removes its files.
	if _, err := os.Stat(dbPath + "-wal"); !os.IsNotExist(err) {
		t.Fatalf("expected WAL to be checkpointed on close, stat err=%v", err)
	}
}

func TestRunStoreErrorIsReturned(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"-driver", "postgres", "-database-url", ""}, &stdout, &stderr)
	if err == nil {
		t.Fatal("expected error without a database url")
	}
}
