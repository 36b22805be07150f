package parts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mwantia/palanaeum/internal/archive"
	"github.com/mwantia/palanaeum/internal/assembly"
	"github.com/mwantia/palanaeum/pkg/apperrors"
	"github.com/mwantia/palanaeum/pkg/db/models"
	"github.com/mwantia/palanaeum/pkg/db/store"
	"github.com/mwantia/palanaeum/pkg/log"
)

type Ref = assembly.Ref

type PartType string

const (
	Assembly     PartType = "Assembly"
	Manufactured PartType = "Manufactured"
	Purchased    PartType = "Purchased"
)

var PartTypes = []PartType{Assembly, Manufactured, Purchased}

func ParsePartType(s string) (PartType, error) {
	for _, t := range PartTypes {
		if strings.EqualFold(string(t), strings.TrimSpace(s)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", apperrors.ErrInvalidPartType, s)
}

// Field is a free-text part attribute that can be edited
type Field int

const (
	Name Field = iota
	Description
	Drawing
)

func (f Field) column() (string, bool) {
	switch f {
	case Name:
		return "name", true
	case Description:
		return "description", true
	case Drawing:
		return "drawing", true
	}
	return "", false
}

func (f Field) String() string {
	if c, ok := f.column(); ok {
		return c
	}
	return fmt.Sprintf("field(%d)", int(f))
}

func ParseField(s string) (Field, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "name":
		return Name, nil
	case "description", "desc":
		return Description, nil
	case "drawing":
		return Drawing, nil
	}
	return 0, fmt.Errorf("unknown part field %q", s)
}

// Value returns the current value of f on part
func (f Field) Value(part *models.Part) *string {
	switch f {
	case Name:
		return part.Name
	case Description:
		return part.Description
	case Drawing:
		return part.Drawing
	}
	return nil
}

// NewPart describes a part revision to register. Blank attributes are stored as NULL.
type NewPart struct {
	Ref
	Type        *PartType
	Name        string
	Description string
	Drawing     string
}

type Parts struct {
	db      store.CatalogStore
	archive *archive.Archive
	log     log.LoggerService
	now     func() time.Time
}

func New(db store.CatalogStore, arc *archive.Archive, logger log.LoggerService) *Parts {
	return &Parts{
		db:      db,
		archive: arc,
		log:     logger,
		now:     time.Now,
	}
}

func (p *Parts) Create(ctx context.Context, np NewPart) (*models.Part, error) {
	if strings.TrimSpace(np.Num) == "" || strings.TrimSpace(np.Rev) == "" {
		return nil, fmt.Errorf("%w: part number and revision are required", apperrors.ErrInvalidPartNumber)
	}
	if _, err := archive.PartDir(np.Num); err != nil {
		return nil, err
	}

	part := &models.Part{
		PartNum:     np.Num,
		PartRev:     np.Rev,
		Name:        nullable(np.Name),
		Description: nullable(np.Description),
		Drawing:     nullable(np.Drawing),
	}
	if np.Type != nil {
		t := string(*np.Type)
		part.PartType = &t
	}

	if err := p.db.CreatePart(ctx, part); err != nil {
		return nil, fmt.Errorf("failed to create part %s: %w", np.Ref, err)
	}

	p.log.Info("Created part %s", np.Ref)
	return part, nil
}

func (p *Parts) Get(ctx context.Context, ref Ref) (*models.Part, error) {
	return p.db.GetPart(ctx, ref.Num, ref.Rev)
}

func (p *Parts) Exists(ctx context.Context, ref Ref) (bool, error) {
	_, err := p.db.GetPart(ctx, ref.Num, ref.Rev)
	if errors.Is(err, apperrors.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

// SetField writes a free-text attribute. A blank value clears it.
func (p *Parts) SetField(ctx context.Context, ref Ref, field Field, value string) error {
	column, ok := field.column()
	if !ok {
		return fmt.Errorf("unknown part field %d", int(field))
	}
	return p.db.UpdatePartColumn(ctx, ref.Num, ref.Rev, column, nullable(value))
}

// SetType changes the part type. Nothing is written when the type is unchanged.
func (p *Parts) SetType(ctx context.Context, ref Ref, partType PartType) error {
	if _, err := ParsePartType(string(partType)); err != nil {
		return err
	}

	part, err := p.Get(ctx, ref)
	if err != nil {
		return err
	}
	if part.PartType != nil && *part.PartType == string(partType) {
		return nil
	}

	value := string(partType)
	return p.db.UpdatePartColumn(ctx, ref.Num, ref.Rev, "part_type", &value)
}

// SetSuccessor records the revision superseding ref, or clears it when successor is nil
func (p *Parts) SetSuccessor(ctx context.Context, ref Ref, successor *Ref) error {
	var num, rev *string
	if successor != nil {
		num, rev = &successor.Num, &successor.Rev
	}

	return p.db.Transaction(ctx, func(tx store.CatalogStore) error {
		if err := tx.UpdatePartColumn(ctx, ref.Num, ref.Rev, "successor_num", num); err != nil {
			return err
		}
		return tx.UpdatePartColumn(ctx, ref.Num, ref.Rev, "successor_rev", rev)
	})
}

// SetMugshot designates one of the part's images as its representative picture
func (p *Parts) SetMugshot(ctx context.Context, ref Ref, image string) error {
	exists, err := p.db.ImageExists(ctx, ref.Num, ref.Rev, image)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("image %s of part %s: %w", image, ref, apperrors.ErrNotFound)
	}
	return p.db.UpdatePartColumn(ctx, ref.Num, ref.Rev, "mugshot", &image)
}

// AddNote appends a note to the part. Blank text is ignored and reported as false.
func (p *Parts) AddNote(ctx context.Context, ref Ref, author, text string) (bool, error) {
	if strings.TrimSpace(text) == "" {
		return false, nil
	}

	note := &models.Note{
		PartNum: ref.Num,
		PartRev: ref.Rev,
		Author:  author,
		Date:    p.now(),
		Note:    text,
	}
	if err := p.db.CreateNote(ctx, note); err != nil {
		return false, fmt.Errorf("failed to add note to %s: %w", ref, err)
	}
	return true, nil
}

func (p *Parts) ListNotes(ctx context.Context, ref Ref) ([]models.Note, error) {
	return p.db.ListNotes(ctx, ref.Num, ref.Rev)
}

func nullable(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
