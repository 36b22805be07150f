package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/mwantia/palanaeum/pkg/db/models"
	"github.com/mwantia/palanaeum/pkg/db/store"
	"github.com/mwantia/palanaeum/pkg/log"
)

// Field is a document attribute that free text can be matched against
type Field int

const (
	FileName Field = iota
	Title
)

// AllFields is the default "search in" selection
var AllFields = []Field{FileName, Title}

func (f Field) String() string {
	switch f {
	case FileName:
		return "file_name"
	case Title:
		return "title"
	}
	return fmt.Sprintf("field(%d)", int(f))
}

func ParseField(s string) (Field, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "file_name", "filename", "file":
		return FileName, nil
	case "title":
		return Title, nil
	}
	return 0, fmt.Errorf("unknown search field %q", s)
}

func (f Field) value(doc models.Document) string {
	switch f {
	case FileName:
		return doc.FileName
	case Title:
		return doc.Title
	}
	return ""
}

// Query is one submitted search
type Query struct {
	Text        string
	Categories  []uint
	Disciplines []uint
	SearchIn    []Field
}

// Row is one matching document
type Row struct {
	ID           uint
	FileName     string
	Title        string
	CategoryID   uint
	DisciplineID uint
	Level3ID     *uint
}

// Result is the outcome of an executed search. Text labels the result view.
type Result struct {
	Text string
	Rows []Row
}

type Searcher struct {
	db  store.CatalogStore
	log log.LoggerService
}

func NewSearcher(db store.CatalogStore, logger log.LoggerService) *Searcher {
	return &Searcher{
		db:  db,
		log: logger,
	}
}

// Search restricts documents by category and discipline in the store, then keeps rows
// whose selected fields contain q.Text (case-sensitive). Blank text is a no-op and
// returns a nil result. Store order is preserved.
func (s *Searcher) Search(ctx context.Context, q Query) (*Result, error) {
	if strings.TrimSpace(q.Text) == "" {
		return nil, nil
	}

	docs, err := s.db.FindDocuments(ctx, q.Categories, q.Disciplines)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}

	result := &Result{
		Text: q.Text,
		Rows: make([]Row, 0, len(docs)),
	}
	for _, doc := range docs {
		if !Matches(doc, q.Text, q.SearchIn) {
			continue
		}
		result.Rows = append(result.Rows, Row{
			ID:           doc.ID,
			FileName:     doc.FileName,
			Title:        doc.Title,
			CategoryID:   doc.CategoryID,
			DisciplineID: doc.DisciplineID,
			Level3ID:     doc.Level3ID,
		})
	}

	s.log.Debug("Search '%s' matched %d of %d restricted documents", q.Text, len(result.Rows), len(docs))
	return result, nil
}

// Matches reports whether text is a literal substring of any field in searchIn.
// An empty searchIn never matches.
func Matches(doc models.Document, text string, searchIn []Field) bool {
	for _, f := range searchIn {
		if strings.Contains(f.value(doc), text) {
			return true
		}
	}
	return false
}
