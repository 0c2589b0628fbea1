package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/luminafoto/lumina-api/internal/entity"
)

type GalleryRepository struct {
	DB *sql.DB
}

func NewGalleryRepository(db *sql.DB) *GalleryRepository {
	return &GalleryRepository{DB: db}
}

func (r *GalleryRepository) FindBySlug(ctx context.Context, slug string) (*entity.Gallery, error) {
	query := `
		SELECT id, studio_id, slug, title, cover_url, photo_count, status, expires_at, created_at, updated_at
		FROM galleries
		WHERE slug = $1
	`

	var g entity.Gallery
	var coverURL sql.NullString
	var expiresAt sql.NullTime
	err := r.DB.QueryRowContext(ctx, query, slug).Scan(
		&g.ID, &g.StudioID, &g.Slug, &g.Title, &coverURL, &g.PhotoCount, &g.Status,
		&expiresAt, &g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrGalleryNotFound
		}
		return nil, err
	}

	g.CoverURL = coverURL.String
	if expiresAt.Valid {
		t := expiresAt.Time
		g.ExpiresAt = &t
	}
	return &g, nil
}

func (r *GalleryRepository) CreateFavorite(ctx context.Context, fav *entity.Favorite) error {
	query := `
		INSERT INTO gallery_favorites (id, studio_id, gallery_id, photo_id, browser_fingerprint, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (gallery_id, photo_id, browser_fingerprint) DO NOTHING
	`
	_, err := r.DB.ExecContext(ctx, query,
		fav.ID, fav.StudioID, fav.GalleryID, fav.PhotoID, fav.BrowserFingerprint, fav.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return entity.ErrGalleryNotFound
		}
		return err
	}
	return nil
}

func (r *GalleryRepository) DeleteFavorite(ctx context.Context, studioID, galleryID, photoID, fingerprint string) error {
	_, err := r.DB.ExecContext(ctx,
		`DELETE FROM gallery_favorites
		 WHERE studio_id = $1 AND gallery_id = $2 AND photo_id = $3 AND browser_fingerprint = $4`,
		studioID, galleryID, photoID, fingerprint)
	return err
}

func (r *GalleryRepository) ListFavorites(ctx context.Context, studioID, galleryID string) ([]entity.Favorite, error) {
	query := `
		SELECT id, studio_id, gallery_id, photo_id, browser_fingerprint, created_at
		FROM gallery_favorites
		WHERE studio_id = $1 AND gallery_id = $2
		ORDER BY created_at ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, studioID, galleryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var favs []entity.Favorite
	for rows.Next() {
		var f entity.Favorite
		if err := rows.Scan(&f.ID, &f.StudioID, &f.GalleryID, &f.PhotoID, &f.BrowserFingerprint, &f.CreatedAt); err != nil {
			return nil, err
		}
		favs = append(favs, f)
	}
	return favs, rows.Err()
}
