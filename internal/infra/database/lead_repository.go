package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/lib/pq"
	"github.com/luminafoto/lumina-api/internal/entity"
)

var ErrDuplicateIdentifier = errors.New("identificador já existe nesse estúdio")

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

const leadColumns = `id, studio_id, instagram_id, browser_fingerprint, whatsapp, email,
	name, service_type, event_date, event_location, heat_level,
	last_interaction_at, created_at, updated_at`

func (r *LeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	query := `
		INSERT INTO leads (` + leadColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.DB.ExecContext(ctx, query,
		lead.ID,
		lead.StudioID,
		nullString(lead.InstagramID),
		nullString(lead.BrowserFingerprint),
		nullString(lead.Whatsapp),
		nullString(lead.Email),
		nullString(lead.Name),
		nullString(lead.ServiceType),
		nullString(lead.EventDate),
		nullString(lead.EventLocation),
		string(lead.HeatLevel),
		lead.LastInteractionAt,
		lead.CreatedAt,
		lead.UpdatedAt,
	)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicateIdentifier
		}
		log.Printf("Erro crítico no banco: %v", err)
		return err
	}

	return nil
}

func (r *LeadRepository) FindByID(ctx context.Context, studioID, id string) (*entity.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE studio_id = $1 AND id = $2`
	lead, err := scanLead(r.DB.QueryRowContext(ctx, query, studioID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrLeadNotFound
		}
		return nil, err
	}
	return lead, nil
}

// FindByChannel busca por igualdade exata dentro do estúdio. (nil, nil)
// quando não existe — a cadeia de resolução decide o que fazer.
func (r *LeadRepository) FindByChannel(ctx context.Context, studioID string, ch entity.Channel, value string) (*entity.Lead, error) {
	var column string
	switch ch {
	case entity.ChannelInstagram:
		column = "instagram_id"
	case entity.ChannelFingerprint:
		column = "browser_fingerprint"
	case entity.ChannelWhatsapp:
		column = "whatsapp"
	case entity.ChannelEmail:
		column = "email"
	default:
		return nil, fmt.Errorf("canal desconhecido: %q", ch)
	}

	query := `SELECT ` + leadColumns + ` FROM leads WHERE studio_id = $1 AND ` + column + ` = $2`
	lead, err := scanLead(r.DB.QueryRowContext(ctx, query, studioID, value))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return lead, nil
}

// MergeChannelIDs só preenche coluna NULL: COALESCE(coluna_atual, valor_novo).
// Rodar duas vezes com os mesmos argumentos deixa a linha igual.
func (r *LeadRepository) MergeChannelIDs(ctx context.Context, studioID, leadID, instagramID, fingerprint string) error {
	query := `
		UPDATE leads
		SET
			instagram_id = COALESCE(instagram_id, $3),
			browser_fingerprint = COALESCE(browser_fingerprint, $4),
			updated_at = NOW()
		WHERE studio_id = $1 AND id = $2
	`

	result, err := r.DB.ExecContext(ctx, query, studioID, leadID,
		nullString(instagramID), nullString(fingerprint))
	if err != nil {
		return err
	}

	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return entity.ErrLeadNotFound
	}
	return nil
}

func (r *LeadRepository) Touch(ctx context.Context, studioID, leadID string, at time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE leads SET last_interaction_at = $3, updated_at = NOW() WHERE studio_id = $1 AND id = $2`,
		studioID, leadID, at)
	return err
}

// UpdateProfile enriquece o perfil sem apagar o que já foi coletado antes.
func (r *LeadRepository) UpdateProfile(ctx context.Context, studioID, leadID string, name, serviceType, eventDate, eventLocation string) error {
	query := `
		UPDATE leads
		SET
			name = COALESCE($3, name),
			service_type = COALESCE($4, service_type),
			event_date = COALESCE($5, event_date),
			event_location = COALESCE($6, event_location),
			updated_at = NOW()
		WHERE studio_id = $1 AND id = $2
	`
	_, err := r.DB.ExecContext(ctx, query, studioID, leadID,
		nullString(name), nullString(serviceType), nullString(eventDate), nullString(eventLocation))
	return err
}

func (r *LeadRepository) UpdateHeat(ctx context.Context, studioID, leadID string, heat entity.HeatLevel) error {
	result, err := r.DB.ExecContext(ctx,
		`UPDATE leads SET heat_level = $3, updated_at = NOW() WHERE studio_id = $1 AND id = $2`,
		studioID, leadID, string(heat))
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return entity.ErrLeadNotFound
	}
	return nil
}

// Upsert é o caminho do formulário público de captura: chaveia por email e
// só preenche campo que ainda está NULL. O índice de email é parcial
// (WHERE email IS NOT NULL), então o ON CONFLICT precisa repetir o predicado
// para o Postgres aceitar o índice como árbitro.
func (r *LeadRepository) Upsert(ctx context.Context, lead *entity.Lead) error {
	query := `
		INSERT INTO leads (id, studio_id, email, name, whatsapp, heat_level, last_interaction_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW(), NOW())
		ON CONFLICT (studio_id, email) WHERE email IS NOT NULL
		DO UPDATE SET
			name = COALESCE(leads.name, EXCLUDED.name),
			whatsapp = COALESCE(leads.whatsapp, EXCLUDED.whatsapp),
			last_interaction_at = NOW(),
			updated_at = NOW()
		RETURNING id, created_at, updated_at, heat_level
	`

	var heat string
	err := r.DB.QueryRowContext(ctx, query,
		lead.ID,
		lead.StudioID,
		lead.Email,
		nullString(lead.Name),
		nullString(lead.Whatsapp),
		string(entity.HeatCold),
	).Scan(&lead.ID, &lead.CreatedAt, &lead.UpdatedAt, &heat)
	if err != nil {
		return err
	}
	lead.HeatLevel = entity.HeatLevel(heat)
	return nil
}

func (r *LeadRepository) Delete(ctx context.Context, studioID, id string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM leads WHERE studio_id = $1 AND id = $2`, studioID, id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLead(row rowScanner) (*entity.Lead, error) {
	var lead entity.Lead
	var instagramID, fingerprint, whatsapp, email sql.NullString
	var name, serviceType, eventDate, eventLocation sql.NullString
	var heat string

	err := row.Scan(
		&lead.ID,
		&lead.StudioID,
		&instagramID,
		&fingerprint,
		&whatsapp,
		&email,
		&name,
		&serviceType,
		&eventDate,
		&eventLocation,
		&heat,
		&lead.LastInteractionAt,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	lead.InstagramID = instagramID.String
	lead.BrowserFingerprint = fingerprint.String
	lead.Whatsapp = whatsapp.String
	lead.Email = email.String
	lead.Name = name.String
	lead.ServiceType = serviceType.String
	lead.EventDate = eventDate.String
	lead.EventLocation = eventLocation.String
	lead.HeatLevel = entity.HeatLevel(heat)
	return &lead, nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
