package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	config "github.com/mwantia/palanaeum/internal/config"
	"github.com/mwantia/palanaeum/pkg/db/models"
	"github.com/mwantia/palanaeum/pkg/db/store"
	"github.com/mwantia/palanaeum/pkg/log"
)

// SetupStore opens a migrated catalog in a per-test temporary directory.
// The store is closed when the test completes.
func SetupStore(tb testing.TB) *store.SQLiteStore {
	tb.Helper()

	s, err := store.NewSQLiteStore(store.SQLiteConfig{
		Path: filepath.Join(tb.TempDir(), "catalog.sqlite"),
	})
	if err != nil {
		tb.Fatalf("failed to open test store: %v", err)
	}

	ctx := context.Background()
	if err := s.Connect(ctx); err != nil {
		tb.Fatalf("failed to connect test store: %v", err)
	}
	if err := s.Migrate(ctx); err != nil {
		tb.Fatalf("failed to migrate test store: %v", err)
	}

	tb.Cleanup(func() {
		s.Close()
	})
	return s
}

// Logger returns a logger that discards everything below ERROR
func Logger(tb testing.TB) log.LoggerService {
	tb.Helper()
	return log.NewLoggerServiceWithWriter("test", config.LogConfig{Level: "error"}, os.Stderr)
}

// WriteFile creates a file with the given content below dir and returns its path
func WriteFile(tb testing.TB, dir, name string, content []byte) string {
	tb.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		tb.Fatalf("failed to create %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		tb.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

func SeedCategory(tb testing.TB, s store.CatalogStore, name string) uint {
	tb.Helper()
	ctx := context.Background()
	if err := s.CreateCategory(ctx, name); err != nil {
		tb.Fatalf("seed category %q: %v", name, err)
	}
	categories, err := s.ListCategories(ctx)
	if err != nil {
		tb.Fatalf("list categories: %v", err)
	}
	for _, c := range categories {
		if c.Name == name {
			return c.ID
		}
	}
	tb.Fatalf("seeded category %q not found", name)
	return 0
}

func SeedDiscipline(tb testing.TB, s store.CatalogStore, name string) uint {
	tb.Helper()
	ctx := context.Background()
	if err := s.CreateDiscipline(ctx, name); err != nil {
		tb.Fatalf("seed discipline %q: %v", name, err)
	}
	disciplines, err := s.ListDisciplines(ctx)
	if err != nil {
		tb.Fatalf("list disciplines: %v", err)
	}
	for _, d := range disciplines {
		if d.Name == name {
			return d.ID
		}
	}
	tb.Fatalf("seeded discipline %q not found", name)
	return 0
}

func SeedDocument(tb testing.TB, s store.CatalogStore, fileName, title string, categoryID, disciplineID uint) *models.Document {
	tb.Helper()
	doc := &models.Document{
		FileName:     fileName,
		Title:        title,
		CategoryID:   categoryID,
		DisciplineID: disciplineID,
		User:         "test",
	}
	if err := s.CreateDocument(context.Background(), doc); err != nil {
		tb.Fatalf("seed document %q: %v", fileName, err)
	}
	return doc
}

func SeedPart(tb testing.TB, s store.CatalogStore, num, rev string, name *string) *models.Part {
	tb.Helper()
	part := &models.Part{PartNum: num, PartRev: rev, Name: name}
	if err := s.CreatePart(context.Background(), part); err != nil {
		tb.Fatalf("seed part %s r%s: %v", num, rev, err)
	}
	return part
}

func Ptr[T any](v T) *T {
	return &v
}
