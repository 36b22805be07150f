package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/mwantia/palanaeum/internal/archive"
	"github.com/mwantia/palanaeum/internal/taxonomy"
	"github.com/mwantia/palanaeum/pkg/apperrors"
	"github.com/mwantia/palanaeum/pkg/db/models"
	"github.com/mwantia/palanaeum/pkg/db/store"
	"github.com/mwantia/palanaeum/pkg/log"
)

// NewDocument describes a file to be copied into the document archive and catalogued
type NewDocument struct {
	SourcePath string
	Title      string
	Category   string
	Discipline string
	Level3     *string
	Tags       []string
	User       string
}

type Catalog struct {
	db       store.CatalogStore
	taxonomy *taxonomy.Store
	archive  *archive.Archive
	log      log.LoggerService

	now       func() time.Time
	mutex     sync.Mutex
	lastAdded int64
}

func New(db store.CatalogStore, tax *taxonomy.Store, arc *archive.Archive, logger log.LoggerService) *Catalog {
	return &Catalog{
		db:       db,
		taxonomy: tax,
		archive:  arc,
		log:      logger,
		now:      time.Now,
	}
}

// timeAdded returns the current unix time, never earlier than a previous call
func (c *Catalog) timeAdded() int64 {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	t := c.now().Unix()
	if t < c.lastAdded {
		t = c.lastAdded
	}
	c.lastAdded = t
	return t
}

// InsertDocument copies the source file into the archive and records it with its tags.
// The file is staged first and renamed into place as the last step of the transaction, so
// a failed rename rolls back every row and removes the staged copy. Only a failing commit
// after a successful rename can leave the archived file without rows. An existing archived
// file with the same base name and classification is replaced.
func (c *Catalog) InsertDocument(ctx context.Context, nd NewDocument) (uint, error) {
	categoryID, disciplineID, err := c.taxonomy.Resolve(nd.Category, nd.Discipline)
	if err != nil {
		return 0, err
	}

	var level3ID *uint
	if nd.Level3 != nil && *nd.Level3 != "" {
		id, err := c.taxonomy.Level3ID(ctx, categoryID, disciplineID, *nd.Level3)
		if err != nil {
			return 0, err
		}
		level3ID = &id
	}

	destination, err := c.archive.DocumentPath(nd.SourcePath, nd.Category, nd.Discipline, nd.Level3)
	if err != nil {
		return 0, err
	}
	staged, err := archive.Stage(nd.SourcePath, destination)
	if err != nil {
		return 0, fmt.Errorf("failed to stage %s: %w", nd.SourcePath, err)
	}

	doc := &models.Document{
		FileName:     filepath.Base(nd.SourcePath),
		Title:        nd.Title,
		CategoryID:   categoryID,
		DisciplineID: disciplineID,
		Level3ID:     level3ID,
		User:         nd.User,
		TimeAdded:    c.timeAdded(),
		ContentHash:  staged.Hash,
	}
	tags := distinct(nd.Tags)

	err = c.db.Transaction(ctx, func(tx store.CatalogStore) error {
		if err := tx.CreateDocument(ctx, doc); err != nil {
			return fmt.Errorf("failed to insert document: %w", err)
		}
		if err := tx.CreateTags(ctx, c.taxonomy.UnseenTags(tags)); err != nil {
			return fmt.Errorf("failed to insert tags: %w", err)
		}

		rows, err := tx.GetTagsByName(ctx, tags)
		if err != nil {
			return fmt.Errorf("failed to resolve tags: %w", err)
		}
		for _, tag := range rows {
			junction := &models.Junction{
				Name:  fmt.Sprintf("%d.%d", tag.ID, doc.ID),
				TagID: tag.ID,
				DocID: doc.ID,
			}
			if err := tx.CreateJunction(ctx, junction); err != nil {
				return fmt.Errorf("failed to link tag '%s': %w", tag.Tag, err)
			}
		}
		return staged.Publish()
	})
	if err != nil {
		if derr := staged.Discard(); derr != nil {
			c.log.Warn("Unable to remove staged copy for %s: %v", destination, derr)
		}
		return 0, err
	}

	if err := c.taxonomy.RefreshTags(ctx); err != nil {
		c.log.Warn("Unable to reload tags after inserting document %d: %v", doc.ID, err)
	}

	c.log.Info("Catalogued '%s' as document %d (%d tags)", doc.FileName, doc.ID, len(tags))
	return doc.ID, nil
}

// Get returns a catalogued document row
func (c *Catalog) Get(ctx context.Context, docID uint) (*models.Document, error) {
	return c.db.GetDocument(ctx, docID)
}

// DocumentTags returns the tag names linked to a document
func (c *Catalog) DocumentTags(ctx context.Context, docID uint) ([]string, error) {
	if _, err := c.db.GetDocument(ctx, docID); err != nil {
		return nil, err
	}

	tags, err := c.db.GetDocumentTags(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tags of document %d: %w", docID, err)
	}

	names := make([]string, 0, len(tags))
	for _, t := range tags {
		names = append(names, t.Tag)
	}
	return names, nil
}

// DocumentPath returns the archive location of a stored document
func (c *Catalog) DocumentPath(ctx context.Context, docID uint) (string, error) {
	doc, err := c.db.GetDocument(ctx, docID)
	if err != nil {
		return "", err
	}

	category, err := c.taxonomy.CategoryName(doc.CategoryID)
	if err != nil {
		return "", err
	}
	discipline, err := c.taxonomy.DisciplineName(doc.DisciplineID)
	if err != nil {
		return "", err
	}

	var level3 *string
	if doc.Level3ID != nil {
		name, err := c.taxonomy.Level3Name(ctx, doc.CategoryID, doc.DisciplineID, *doc.Level3ID)
		if err != nil {
			return "", err
		}
		level3 = &name
	}

	return c.archive.DocumentPath(doc.FileName, category, discipline, level3)
}

// OpenPath returns the quoted archive path of a document for the platform open command.
// The file must exist.
func (c *Catalog) OpenPath(ctx context.Context, docID uint) (string, error) {
	path, err := c.DocumentPath(ctx, docID)
	if err != nil {
		return "", err
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("document file %s: %w", path, apperrors.ErrNotFound)
		}
		return "", err
	}
	return archive.Quote(path), nil
}

func distinct(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}
	return result
}
