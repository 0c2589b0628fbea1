package worker

import (
	"context"
	"database/sql"
	"log"
	"time"
)

// GalleryExpirationWorker marca como EXPIRED as galerias públicas cujo
// prazo de acesso venceu. Galeria expirada some do link do cliente mas
// continua no painel do estúdio.
type GalleryExpirationWorker struct {
	db           *sql.DB
	tickInterval time.Duration
}

func NewGalleryExpirationWorker(db *sql.DB) *GalleryExpirationWorker {
	return &GalleryExpirationWorker{
		db:           db,
		tickInterval: 10 * time.Minute,
	}
}

func (w *GalleryExpirationWorker) Start(ctx context.Context) {
	log.Println("🕒 Gallery Expiration Worker iniciado")

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.expireOldGalleries(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Println("⚠️ Gallery Expiration Worker encerrado")
			return
		case <-ticker.C:
			w.expireOldGalleries(ctx)
		}
	}
}

func (w *GalleryExpirationWorker) expireOldGalleries(ctx context.Context) {
	query := `
		UPDATE galleries
		SET
			status = 'EXPIRED',
			updated_at = NOW()
		WHERE
			status = 'ACTIVE'
			AND expires_at IS NOT NULL
			AND expires_at < NOW()
		RETURNING id, studio_id, slug
	`

	rows, err := w.db.QueryContext(ctx, query)
	if err != nil {
		log.Printf("❌ Erro ao buscar galerias expiradas: %v", err)
		return
	}
	defer rows.Close()

	expiredCount := 0
	for rows.Next() {
		var galleryID, studioID, slug string
		if err := rows.Scan(&galleryID, &studioID, &slug); err != nil {
			log.Printf("⚠️ Erro ao escanear galeria expirada: %v", err)
			continue
		}

		log.Printf("⏱️ Galeria expirada: gallery=%s studio=%s slug=%s", galleryID, studioID, slug)
		expiredCount++
	}

	if expiredCount > 0 {
		log.Printf("✅ %d galeria(s) marcadas como EXPIRED", expiredCount)
	}
}
