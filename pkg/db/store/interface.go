package store

import (
	"context"

	"github.com/mwantia/palanaeum/pkg/db/models"
)

// CatalogStore defines the relational boundary consumed by the catalog services.
// Lookups that find nothing return an error wrapping apperrors.ErrNotFound.
type CatalogStore interface {
	// Lifecycle
	Connect(ctx context.Context) error
	Close() error
	Migrate(ctx context.Context) error
	Health(ctx context.Context) error

	// Transaction runs fn against a store bound to a single transaction.
	// The transaction commits when fn returns nil and rolls back otherwise.
	Transaction(ctx context.Context, fn func(tx CatalogStore) error) error

	// Taxonomy operations
	ListCategories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, name string) error
	ListDisciplines(ctx context.Context) ([]models.Discipline, error)
	CreateDiscipline(ctx context.Context, name string) error
	ListLevel3(ctx context.Context, categoryID, disciplineID uint) ([]models.Level3, error)
	CreateLevel3(ctx context.Context, level3 *models.Level3) error

	// Tag operations
	ListTags(ctx context.Context) ([]models.Tag, error)
	CreateTags(ctx context.Context, names []string) error
	GetTagsByName(ctx context.Context, names []string) ([]models.Tag, error)

	// Document operations
	CreateDocument(ctx context.Context, doc *models.Document) error
	GetDocument(ctx context.Context, id uint) (*models.Document, error)
	FindDocuments(ctx context.Context, categoryIDs, disciplineIDs []uint) ([]models.Document, error)
	CreateJunction(ctx context.Context, junction *models.Junction) error
	GetDocumentTags(ctx context.Context, docID uint) ([]models.Tag, error)

	// Part operations
	CreatePart(ctx context.Context, part *models.Part) error
	GetPart(ctx context.Context, partNum, partRev string) (*models.Part, error)
	UpdatePartColumn(ctx context.Context, partNum, partRev, column string, value *string) error

	// Assembly operations
	EdgeExists(ctx context.Context, edge models.Child) (bool, error)
	CreateEdge(ctx context.Context, edge *models.Child) error
	DeleteEdge(ctx context.Context, edge models.Child) (int64, error)
	ListChildren(ctx context.Context, partNum, partRev string) ([]models.RelatedPart, error)
	ListParents(ctx context.Context, partNum, partRev string) ([]models.RelatedPart, error)

	// Image operations
	CreateImage(ctx context.Context, image *models.Image) error
	ImageExists(ctx context.Context, partNum, partRev, image string) (bool, error)
	ListImages(ctx context.Context, partNum, partRev string) ([]models.Image, error)
	UpdateImageDescription(ctx context.Context, partNum, partRev, image string, description *string) error
	DeleteImage(ctx context.Context, partNum, partRev, image string) (int64, error)
	// CountImageRefs counts rows for an image across all revisions of a part number
	CountImageRefs(ctx context.Context, partNum, image string) (int64, error)

	// Note operations
	CreateNote(ctx context.Context, note *models.Note) error
	ListNotes(ctx context.Context, partNum, partRev string) ([]models.Note, error)
}
