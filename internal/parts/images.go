package parts

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/mwantia/palanaeum/internal/archive"
	"github.com/mwantia/palanaeum/pkg/apperrors"
	"github.com/mwantia/palanaeum/pkg/db/models"
	"github.com/mwantia/palanaeum/pkg/db/store"
)

// AddImage copies an image into the part's archive directory under its content hash and
// records it. The same content can be attached to a part revision only once. When the
// file cannot be published no row is kept.
func (p *Parts) AddImage(ctx context.Context, ref Ref, source, description string) (string, error) {
	if _, err := p.Get(ctx, ref); err != nil {
		return "", err
	}

	name, err := archive.HashFile(source)
	if err != nil {
		return "", fmt.Errorf("failed to hash image: %w", err)
	}

	exists, err := p.db.ImageExists(ctx, ref.Num, ref.Rev, name)
	if err != nil {
		return "", err
	}
	if exists {
		return "", fmt.Errorf("%s on %s: %w", name, ref, apperrors.ErrDuplicateImage)
	}

	destination, err := p.archive.ImagePath(ref.Num, name)
	if err != nil {
		return "", err
	}
	staged, err := archive.Stage(source, destination)
	if err != nil {
		return "", fmt.Errorf("failed to stage image: %w", err)
	}

	image := &models.Image{
		PartNum:     ref.Num,
		PartRev:     ref.Rev,
		Image:       name,
		Description: nullable(description),
	}
	// the file is published last inside the transaction so a failed rename rolls the row back
	err = p.db.Transaction(ctx, func(tx store.CatalogStore) error {
		if err := tx.CreateImage(ctx, image); err != nil {
			return fmt.Errorf("failed to record image: %w", err)
		}
		return staged.Publish()
	})
	if err != nil {
		if derr := staged.Discard(); derr != nil {
			p.log.Warn("Unable to remove staged image %s: %v", destination, derr)
		}
		return "", err
	}

	p.log.Info("Added image %s to %s", name, ref)
	return name, nil
}

// RemoveImage deletes the image row and file. A mugshot pointing at it is cleared.
func (p *Parts) RemoveImage(ctx context.Context, ref Ref, image string) error {
	err := p.db.Transaction(ctx, func(tx store.CatalogStore) error {
		part, err := tx.GetPart(ctx, ref.Num, ref.Rev)
		if err != nil {
			return err
		}

		deleted, err := tx.DeleteImage(ctx, ref.Num, ref.Rev, image)
		if err != nil {
			return err
		}
		if deleted == 0 {
			return fmt.Errorf("image %s of part %s: %w", image, ref, apperrors.ErrNotFound)
		}

		if part.Mugshot != nil && *part.Mugshot == image {
			return tx.UpdatePartColumn(ctx, ref.Num, ref.Rev, "mugshot", nil)
		}
		return nil
	})
	if err != nil {
		return err
	}

	// revisions of one part number share a directory, so the file may still be in use
	refs, err := p.db.CountImageRefs(ctx, ref.Num, image)
	if err != nil {
		return err
	}
	if refs > 0 {
		return nil
	}

	path, err := p.archive.ImagePath(ref.Num, image)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		p.log.Warn("Unable to remove image file %s: %v", path, err)
	}
	return nil
}

// SetImageDescription updates the caption of an image. A blank description clears it.
func (p *Parts) SetImageDescription(ctx context.Context, ref Ref, image, description string) error {
	return p.db.UpdateImageDescription(ctx, ref.Num, ref.Rev, image, nullable(description))
}

func (p *Parts) ListImages(ctx context.Context, ref Ref) ([]models.Image, error) {
	return p.db.ListImages(ctx, ref.Num, ref.Rev)
}

// ImagePath returns the archive location of one of the part's images
func (p *Parts) ImagePath(ref Ref, image string) (string, error) {
	return p.archive.ImagePath(ref.Num, image)
}
