package taxonomy

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/mwantia/palanaeum/internal/archive"
	"github.com/mwantia/palanaeum/pkg/apperrors"
	"github.com/mwantia/palanaeum/pkg/db/models"
	"github.com/mwantia/palanaeum/pkg/db/store"
	"github.com/mwantia/palanaeum/pkg/log"
)

// Store caches the Category, Discipline and Tag vocabularies of one catalog and keeps
// them in step with its own inserts. Inserts made by other processes become visible
// only after Reload.
type Store struct {
	mutex sync.RWMutex

	db  store.CatalogStore
	log log.LoggerService

	categories  Vocabulary
	disciplines Vocabulary
	tags        Vocabulary
}

// New creates the store and performs the initial load
func New(ctx context.Context, db store.CatalogStore, logger log.LoggerService) (*Store, error) {
	s := &Store{
		db:          db,
		log:         logger,
		categories:  newVocabulary(KindCategory, 0),
		disciplines: newVocabulary(KindDiscipline, 0),
		tags:        newVocabulary(KindTag, 0),
	}

	if err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Load reads one vocabulary straight from the catalog without touching the cache
func (s *Store) Load(ctx context.Context, kind Kind) (Vocabulary, error) {
	return load(ctx, s.db, kind)
}

func load(ctx context.Context, db store.CatalogStore, kind Kind) (Vocabulary, error) {
	switch kind {
	case KindCategory:
		rows, err := db.ListCategories(ctx)
		if err != nil {
			return Vocabulary{}, fmt.Errorf("failed to load categories: %w", err)
		}
		v := newVocabulary(kind, len(rows))
		for _, r := range rows {
			v.add(r.ID, r.Name)
		}
		return v, nil

	case KindDiscipline:
		rows, err := db.ListDisciplines(ctx)
		if err != nil {
			return Vocabulary{}, fmt.Errorf("failed to load disciplines: %w", err)
		}
		v := newVocabulary(kind, len(rows))
		for _, r := range rows {
			v.add(r.ID, r.Name)
		}
		return v, nil

	case KindTag:
		rows, err := db.ListTags(ctx)
		if err != nil {
			return Vocabulary{}, fmt.Errorf("failed to load tags: %w", err)
		}
		v := newVocabulary(kind, len(rows))
		for _, r := range rows {
			v.add(r.ID, r.Tag)
		}
		return v, nil
	}

	return Vocabulary{}, fmt.Errorf("unsupported vocabulary %q", kind)
}

// Reload refreshes the cached Category, Discipline and Tag vocabularies
func (s *Store) Reload(ctx context.Context) error {
	categories, err := load(ctx, s.db, KindCategory)
	if err != nil {
		return err
	}
	disciplines, err := load(ctx, s.db, KindDiscipline)
	if err != nil {
		return err
	}
	tags, err := load(ctx, s.db, KindTag)
	if err != nil {
		return err
	}

	s.mutex.Lock()
	s.categories, s.disciplines, s.tags = categories, disciplines, tags
	s.mutex.Unlock()

	s.log.Debug("Loaded %d categories, %d disciplines, %d tags", categories.Len(), disciplines.Len(), tags.Len())
	return nil
}

func (s *Store) reloadTags(ctx context.Context) error {
	tags, err := load(ctx, s.db, KindTag)
	if err != nil {
		return err
	}

	s.mutex.Lock()
	s.tags = tags
	s.mutex.Unlock()
	return nil
}

// Categories returns a snapshot of the cached category vocabulary
func (s *Store) Categories() Vocabulary {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.categories.clone()
}

// Disciplines returns a snapshot of the cached discipline vocabulary
func (s *Store) Disciplines() Vocabulary {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.disciplines.clone()
}

// Tags returns a snapshot of the cached tag vocabulary
func (s *Store) Tags() Vocabulary {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.tags.clone()
}

func (s *Store) CategoryID(name string) (uint, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.categories.ID(name)
}

func (s *Store) DisciplineID(name string) (uint, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.disciplines.ID(name)
}

func (s *Store) TagID(name string) (uint, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.tags.ID(name)
}

func (s *Store) CategoryName(id uint) (string, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.categories.Name(id)
}

func (s *Store) DisciplineName(id uint) (string, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.disciplines.Name(id)
}

// Level3 loads the subcategories valid for one category and discipline pair
func (s *Store) Level3(ctx context.Context, categoryID, disciplineID uint) (Vocabulary, error) {
	return level3(ctx, s.db, categoryID, disciplineID)
}

func level3(ctx context.Context, db store.CatalogStore, categoryID, disciplineID uint) (Vocabulary, error) {
	rows, err := db.ListLevel3(ctx, categoryID, disciplineID)
	if err != nil {
		return Vocabulary{}, fmt.Errorf("failed to load level3 for category %d, discipline %d: %w", categoryID, disciplineID, err)
	}

	v := newVocabulary(KindLevel3, len(rows))
	for _, r := range rows {
		v.add(r.ID, r.Name)
	}
	return v, nil
}

// Level3ID resolves a subcategory name within its category and discipline pair
func (s *Store) Level3ID(ctx context.Context, categoryID, disciplineID uint, name string) (uint, error) {
	v, err := s.Level3(ctx, categoryID, disciplineID)
	if err != nil {
		return 0, err
	}
	return v.ID(name)
}

// Level3Name resolves a subcategory id within its category and discipline pair
func (s *Store) Level3Name(ctx context.Context, categoryID, disciplineID, id uint) (string, error) {
	v, err := s.Level3(ctx, categoryID, disciplineID)
	if err != nil {
		return "", err
	}
	return v.Name(id)
}

// Resolve translates a mandatory category and discipline pair into ids. Blank or unknown
// names fail with apperrors.ErrInvalidTaxonomy.
func (s *Store) Resolve(category, discipline string) (uint, uint, error) {
	if strings.TrimSpace(category) == "" {
		return 0, 0, fmt.Errorf("%w: category is required", apperrors.ErrInvalidTaxonomy)
	}
	if strings.TrimSpace(discipline) == "" {
		return 0, 0, fmt.Errorf("%w: discipline is required", apperrors.ErrInvalidTaxonomy)
	}

	for _, name := range []string{category, discipline} {
		if err := archive.CheckSegment(name); err != nil {
			return 0, 0, err
		}
	}

	categoryID, err := s.CategoryID(category)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", apperrors.ErrInvalidTaxonomy, err)
	}
	disciplineID, err := s.DisciplineID(discipline)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", apperrors.ErrInvalidTaxonomy, err)
	}
	return categoryID, disciplineID, nil
}

// UnseenTags returns the distinct non-empty candidates missing from the loaded tag
// vocabulary, in first-seen order. Matching is case-sensitive.
func (s *Store) UnseenTags(candidates []string) []string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	seen := make(map[string]struct{}, len(candidates))
	var unseen []string
	for _, c := range candidates {
		if c == "" || s.tags.Has(c) {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		unseen = append(unseen, c)
	}
	return unseen
}

// AddTags inserts every candidate not yet present and reloads the tag vocabulary
func (s *Store) AddTags(ctx context.Context, candidates []string) error {
	unseen := s.UnseenTags(candidates)
	if len(unseen) > 0 {
		if err := s.db.CreateTags(ctx, unseen); err != nil {
			return fmt.Errorf("failed to insert tags: %w", err)
		}
		s.log.Info("Added %d new tags: %s", len(unseen), strings.Join(unseen, ", "))
	}

	return s.reloadTags(ctx)
}

// RefreshTags reloads only the tag vocabulary, after tags were written through a
// transaction the store did not own.
func (s *Store) RefreshTags(ctx context.Context) error {
	return s.reloadTags(ctx)
}

// AddCategory inserts a category if absent and reloads the vocabularies
func (s *Store) AddCategory(ctx context.Context, name string) error {
	if err := archive.CheckSegment(name); err != nil {
		return fmt.Errorf("category %q: %w", name, err)
	}
	if err := s.db.CreateCategory(ctx, name); err != nil {
		return fmt.Errorf("failed to insert category %q: %w", name, err)
	}
	return s.Reload(ctx)
}

// AddDiscipline inserts a discipline if absent and reloads the vocabularies
func (s *Store) AddDiscipline(ctx context.Context, name string) error {
	if err := archive.CheckSegment(name); err != nil {
		return fmt.Errorf("discipline %q: %w", name, err)
	}
	if err := s.db.CreateDiscipline(ctx, name); err != nil {
		return fmt.Errorf("failed to insert discipline %q: %w", name, err)
	}
	return s.Reload(ctx)
}

// InsertLevel3 always inserts a new subcategory row, even when an identical one exists
func (s *Store) InsertLevel3(ctx context.Context, category, discipline, name string) (uint, error) {
	categoryID, disciplineID, err := s.Resolve(category, discipline)
	if err != nil {
		return 0, err
	}
	if err := archive.CheckSegment(name); err != nil {
		return 0, fmt.Errorf("level3 %q: %w", name, err)
	}

	entry := &models.Level3{
		CategoryID:   categoryID,
		DisciplineID: disciplineID,
		Name:         name,
	}
	if err := s.db.CreateLevel3(ctx, entry); err != nil {
		return 0, fmt.Errorf("failed to insert level3 %q: %w", name, err)
	}

	s.log.Info("Added level3 '%s' under %s/%s", name, category, discipline)
	return entry.ID, nil
}

// Seed inserts the configured categories and disciplines that are not yet present
func (s *Store) Seed(ctx context.Context, categories, disciplines []string) error {
	for _, name := range append(append([]string(nil), categories...), disciplines...) {
		if err := archive.CheckSegment(name); err != nil {
			return fmt.Errorf("seed %q: %w", name, err)
		}
	}

	err := s.db.Transaction(ctx, func(tx store.CatalogStore) error {
		for _, name := range categories {
			if err := tx.CreateCategory(ctx, name); err != nil {
				return fmt.Errorf("failed to seed category %q: %w", name, err)
			}
		}
		for _, name := range disciplines {
			if err := tx.CreateDiscipline(ctx, name); err != nil {
				return fmt.Errorf("failed to seed discipline %q: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	return s.Reload(ctx)
}
