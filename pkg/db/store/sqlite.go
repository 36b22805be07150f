package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/mwantia/palanaeum/pkg/apperrors"
	"github.com/mwantia/palanaeum/pkg/db/migrations"
	"github.com/mwantia/palanaeum/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// SQLiteStore implements CatalogStore using SQLite
type SQLiteStore struct {
	db   *gorm.DB
	path string
}

// DB returns the underlying GORM database instance
func (s *SQLiteStore) DB() *gorm.DB {
	return s.db
}

// Path returns the database file location
func (s *SQLiteStore) Path() string {
	return s.path
}

// SQLiteConfig holds SQLite-specific configuration
type SQLiteConfig struct {
	Path     string
	LogLevel logger.LogLevel
}

// ParseLogLevel maps a configured name onto a gorm log level
func ParseLogLevel(level string) logger.LogLevel {
	switch level {
	case "error":
		return logger.Error
	case "warn":
		return logger.Warn
	case "info":
		return logger.Info
	}
	return logger.Silent
}

// NewSQLiteStore creates a new SQLite-backed catalog store
func NewSQLiteStore(cfg SQLiteConfig) (*SQLiteStore, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}

	// Default to silent logging
	if cfg.LogLevel == 0 {
		cfg.LogLevel = logger.Silent
	}

	db, err := gorm.Open(sqlite.Open(cfg.Path), &gorm.Config{
		Logger: logger.Default.LogMode(cfg.LogLevel),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open sqlite database: %v", apperrors.ErrStoreUnavailable, err)
	}

	return &SQLiteStore{
		db:   db,
		path: cfg.Path,
	}, nil
}

// Connect configures the single-writer connection and verifies it
func (s *SQLiteStore) Connect(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	// SQLite only supports 1 writer; one connection serialises every operation
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrStoreUnavailable, err)
	}
	return nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	return sqlDB.Close()
}

// Migrate applies all pending schema migrations
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := migrations.NewMigrator(s.db).Migrate(ctx)
	return err
}

// Health checks database connectivity
func (s *SQLiteStore) Health(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrStoreUnavailable, err)
	}
	return nil
}

func (s *SQLiteStore) Transaction(ctx context.Context, fn func(tx CatalogStore) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&SQLiteStore{db: tx, path: s.path})
	})
}

func notFound(err error, format string, args ...any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), apperrors.ErrNotFound)
	}
	return err
}

// Taxonomy operations

func (s *SQLiteStore) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := s.db.WithContext(ctx).Find(&categories).Error
	return categories, err
}

func (s *SQLiteStore) CreateCategory(ctx context.Context, name string) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.Category{Name: name}).Error
}

func (s *SQLiteStore) ListDisciplines(ctx context.Context) ([]models.Discipline, error) {
	var disciplines []models.Discipline
	err := s.db.WithContext(ctx).Find(&disciplines).Error
	return disciplines, err
}

func (s *SQLiteStore) CreateDiscipline(ctx context.Context, name string) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.Discipline{Name: name}).Error
}

func (s *SQLiteStore) ListLevel3(ctx context.Context, categoryID, disciplineID uint) ([]models.Level3, error) {
	var entries []models.Level3
	err := s.db.WithContext(ctx).
		Where("category_id = ? AND discipline_id = ?", categoryID, disciplineID).
		Find(&entries).Error
	return entries, err
}

func (s *SQLiteStore) CreateLevel3(ctx context.Context, level3 *models.Level3) error {
	return s.db.WithContext(ctx).Create(level3).Error
}

// Tag operations

func (s *SQLiteStore) ListTags(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	err := s.db.WithContext(ctx).Find(&tags).Error
	return tags, err
}

// CreateTags inserts the given names, skipping any that already exist
func (s *SQLiteStore) CreateTags(ctx context.Context, names []string) error {
	if len(names) == 0 {
		return nil
	}

	tags := make([]models.Tag, 0, len(names))
	for _, name := range names {
		tags = append(tags, models.Tag{Tag: name})
	}

	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&tags).Error
}

func (s *SQLiteStore) GetTagsByName(ctx context.Context, names []string) ([]models.Tag, error) {
	if len(names) == 0 {
		return nil, nil
	}

	var tags []models.Tag
	err := s.db.WithContext(ctx).Where("tag IN ?", names).Find(&tags).Error
	return tags, err
}

// Document operations

func (s *SQLiteStore) CreateDocument(ctx context.Context, doc *models.Document) error {
	return s.db.WithContext(ctx).Create(doc).Error
}

func (s *SQLiteStore) GetDocument(ctx context.Context, id uint) (*models.Document, error) {
	var doc models.Document
	if err := s.db.WithContext(ctx).First(&doc, id).Error; err != nil {
		return nil, notFound(err, "document %d", id)
	}
	return &doc, nil
}

// FindDocuments returns documents restricted to the given category and discipline ids.
// An empty id set leaves that dimension unrestricted. No ordering is applied.
func (s *SQLiteStore) FindDocuments(ctx context.Context, categoryIDs, disciplineIDs []uint) ([]models.Document, error) {
	var docs []models.Document
	query := s.db.WithContext(ctx).Model(&models.Document{})

	if len(categoryIDs) > 0 {
		query = query.Where("category_id IN ?", categoryIDs)
	}
	if len(disciplineIDs) > 0 {
		query = query.Where("discipline_id IN ?", disciplineIDs)
	}

	err := query.Find(&docs).Error
	return docs, err
}

func (s *SQLiteStore) CreateJunction(ctx context.Context, junction *models.Junction) error {
	return s.db.WithContext(ctx).Create(junction).Error
}

func (s *SQLiteStore) GetDocumentTags(ctx context.Context, docID uint) ([]models.Tag, error) {
	var tags []models.Tag
	err := s.db.WithContext(ctx).
		Joins("JOIN junction_table ON junction_table.tag_id = tags.id").
		Where("junction_table.doc_id = ?", docID).
		Find(&tags).Error
	return tags, err
}

// Part operations

func (s *SQLiteStore) CreatePart(ctx context.Context, part *models.Part) error {
	return s.db.WithContext(ctx).Create(part).Error
}

func (s *SQLiteStore) GetPart(ctx context.Context, partNum, partRev string) (*models.Part, error) {
	var part models.Part
	err := s.db.WithContext(ctx).
		Where("part_num = ? AND part_rev = ?", partNum, partRev).
		First(&part).Error
	if err != nil {
		return nil, notFound(err, "part %s r%s", partNum, partRev)
	}
	return &part, nil
}

// UpdatePartColumn writes a single column; a nil value stores NULL.
// The column name must come from a whitelist held by the caller.
func (s *SQLiteStore) UpdatePartColumn(ctx context.Context, partNum, partRev, column string, value *string) error {
	var assigned any = gorm.Expr("NULL")
	if value != nil {
		assigned = *value
	}

	result := s.db.WithContext(ctx).
		Model(&models.Part{}).
		Where("part_num = ? AND part_rev = ?", partNum, partRev).
		Update(column, assigned)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("part %s r%s: %w", partNum, partRev, apperrors.ErrNotFound)
	}
	return nil
}

// Assembly operations

func (s *SQLiteStore) EdgeExists(ctx context.Context, edge models.Child) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Child{}).
		Where("part_num = ? AND part_rev = ? AND child_num = ? AND child_rev = ?",
			edge.PartNum, edge.PartRev, edge.ChildNum, edge.ChildRev).
		Count(&count).Error
	return count > 0, err
}

func (s *SQLiteStore) CreateEdge(ctx context.Context, edge *models.Child) error {
	return s.db.WithContext(ctx).Create(edge).Error
}

func (s *SQLiteStore) DeleteEdge(ctx context.Context, edge models.Child) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("part_num = ? AND part_rev = ? AND child_num = ? AND child_rev = ?",
			edge.PartNum, edge.PartRev, edge.ChildNum, edge.ChildRev).
		Delete(&models.Child{})
	return result.RowsAffected, result.Error
}

func (s *SQLiteStore) ListChildren(ctx context.Context, partNum, partRev string) ([]models.RelatedPart, error) {
	var related []models.RelatedPart
	err := s.db.WithContext(ctx).
		Table("children AS c").
		Select("c.child_num AS part_num, c.child_rev AS part_rev, p.name AS name").
		Joins("LEFT JOIN parts AS p ON p.part_num = c.child_num AND p.part_rev = c.child_rev").
		Where("c.part_num = ? AND c.part_rev = ?", partNum, partRev).
		Order("c.id").
		Scan(&related).Error
	return related, err
}

func (s *SQLiteStore) ListParents(ctx context.Context, partNum, partRev string) ([]models.RelatedPart, error) {
	var related []models.RelatedPart
	err := s.db.WithContext(ctx).
		Table("children AS c").
		Select("c.part_num AS part_num, c.part_rev AS part_rev, p.name AS name").
		Joins("LEFT JOIN parts AS p ON p.part_num = c.part_num AND p.part_rev = c.part_rev").
		Where("c.child_num = ? AND c.child_rev = ?", partNum, partRev).
		Order("c.id").
		Scan(&related).Error
	return related, err
}

// Image operations

func (s *SQLiteStore) CreateImage(ctx context.Context, image *models.Image) error {
	return s.db.WithContext(ctx).Create(image).Error
}

func (s *SQLiteStore) ImageExists(ctx context.Context, partNum, partRev, image string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Image{}).
		Where("part_num = ? AND part_rev = ? AND image = ?", partNum, partRev, image).
		Count(&count).Error
	return count > 0, err
}

func (s *SQLiteStore) ListImages(ctx context.Context, partNum, partRev string) ([]models.Image, error) {
	var images []models.Image
	err := s.db.WithContext(ctx).
		Where("part_num = ? AND part_rev = ?", partNum, partRev).
		Order("created_at").
		Find(&images).Error
	return images, err
}

func (s *SQLiteStore) UpdateImageDescription(ctx context.Context, partNum, partRev, image string, description *string) error {
	var assigned any = gorm.Expr("NULL")
	if description != nil {
		assigned = *description
	}

	result := s.db.WithContext(ctx).
		Model(&models.Image{}).
		Where("part_num = ? AND part_rev = ? AND image = ?", partNum, partRev, image).
		Update("description", assigned)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("image %s on %s r%s: %w", image, partNum, partRev, apperrors.ErrNotFound)
	}
	return nil
}

func (s *SQLiteStore) DeleteImage(ctx context.Context, partNum, partRev, image string) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("part_num = ? AND part_rev = ? AND image = ?", partNum, partRev, image).
		Delete(&models.Image{})
	return result.RowsAffected, result.Error
}

func (s *SQLiteStore) CountImageRefs(ctx context.Context, partNum, image string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Image{}).
		Where("part_num = ? AND image = ?", partNum, image).
		Count(&count).Error
	return count, err
}

// Note operations

func (s *SQLiteStore) CreateNote(ctx context.Context, note *models.Note) error {
	return s.db.WithContext(ctx).Create(note).Error
}

func (s *SQLiteStore) ListNotes(ctx context.Context, partNum, partRev string) ([]models.Note, error) {
	var notes []models.Note
	err := s.db.WithContext(ctx).
		Where("part_num = ? AND part_rev = ?", partNum, partRev).
		Order("date, id").
		Find(&notes).Error
	return notes, err
}
