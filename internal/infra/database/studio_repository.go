package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/luminafoto/lumina-api/internal/entity"
)

type StudioRepository struct {
	DB *sql.DB
}

func NewStudioRepository(db *sql.DB) *StudioRepository {
	return &StudioRepository{DB: db}
}

func (r *StudioRepository) FindByID(ctx context.Context, id string) (*entity.Studio, error) {
	query := `SELECT id, name, email, whatsapp, slug, created_at FROM studios WHERE id = $1`

	var s entity.Studio
	var whatsapp sql.NullString
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&s.ID, &s.Name, &s.Email, &whatsapp, &s.Slug, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrStudioNotFound
		}
		return nil, err
	}

	s.Whatsapp = whatsapp.String
	return &s, nil
}
