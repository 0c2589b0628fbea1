package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/luminafoto/lumina-api/internal/infra/database"
	"github.com/luminafoto/lumina-api/internal/infra/http/handlers"
	"github.com/luminafoto/lumina-api/internal/infra/http/middleware"
	"github.com/luminafoto/lumina-api/internal/infra/integration/whatsapp"
	"github.com/luminafoto/lumina-api/internal/infra/mail"
	"github.com/luminafoto/lumina-api/internal/infra/queue"
	"github.com/luminafoto/lumina-api/internal/infra/worker"
	"github.com/luminafoto/lumina-api/internal/offline"
	"github.com/luminafoto/lumina-api/internal/offline/sqlitestore"
	"github.com/luminafoto/lumina-api/internal/usecase"
)

func main() {
	godotenv.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.NewDBConnection(os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	rabbitMQ, err := queue.NewRabbitMQ(
		getEnv("RABBITMQ_USER", "user"),
		getEnv("RABBITMQ_PASS", "password"),
		getEnv("RABBITMQ_HOST", "localhost"),
		getEnv("RABBITMQ_PORT", "5672"),
	)
	if err != nil {
		panic(err)
	}
	defer rabbitMQ.Conn.Close()
	defer rabbitMQ.Ch.Close()

	// 1. Repositórios
	leadRepo := database.NewLeadRepository(db)
	messageRepo := database.NewMessageRepository(db)
	galleryRepo := database.NewGalleryRepository(db)
	proposalRepo := database.NewProposalRepository(db)
	studioRepo := database.NewStudioRepository(db)

	// 2. Gateways e Adapters
	producer := queue.NewProducer(rabbitMQ.Conn, rabbitMQ.Ch)
	mailSender := mail.NewEmailSender(
		os.Getenv("MAIL_HOST"), 587, os.Getenv("MAIL_USER"), os.Getenv("MAIL_PASS"),
		getEnv("MAIL_FROM", "noreply@luminafoto.com.br"),
	)
	waClient := whatsapp.NewClient()

	// 3. Workers (fila de notificações + expiração de galerias)
	notifWorker := queue.NewWorker(rabbitMQ.Ch, mailSender, waClient)
	go notifWorker.Start(queue.QueueName)

	expirationWorker := worker.NewGalleryExpirationWorker(db)
	go expirationWorker.Start(ctx)

	// 4. Fila offline (cache durável local + replay contra o Postgres)
	applier := database.NewMutationApplier(leadRepo, galleryRepo)

	var (
		mutationStore offline.Store
		snapshots     offline.SnapshotStore
	)
	localStore, err := sqlitestore.Open(getEnv("OFFLINE_DB_PATH", "lumina-offline.db"))
	if err != nil {
		log.Printf("⚠️ Cache local indisponível, usando memória: %v", err)
		mutationStore = offline.NewMemoryStore()
		snapshots = offline.NewMemorySnapshotStore()
	} else {
		defer localStore.Close()
		mutationStore = localStore
		snapshots = localStore
	}

	syncQueue := offline.NewQueue(mutationStore, applier, offline.WithReplayCallback(func(r offline.Report) {
		middleware.RecordReplay(r.Succeeded, r.Failed)
	}))

	monitor := offline.NewMonitor(syncQueue, func(ctx context.Context) error {
		return db.PingContext(ctx)
	})
	go monitor.Start(ctx)

	// 5. UseCases
	resolver := usecase.NewLeadResolver(leadRepo)
	chatIntakeUC := usecase.NewChatIntakeUseCase(resolver, leadRepo, messageRepo, producer)
	signProposalUC := usecase.NewSignProposalUseCase(proposalRepo, studioRepo, producer)

	// 6. Handlers
	chatHandler := handlers.NewChatHandler(chatIntakeUC)
	leadHandler := handlers.NewLeadHandler(leadRepo, syncQueue)
	galleryHandler := handlers.NewGalleryHandler(galleryRepo, syncQueue, snapshots)
	proposalHandler := handlers.NewProposalHandler(proposalRepo, leadRepo, signProposalUC)
	syncHandler := handlers.NewSyncHandler(syncQueue)
	healthHandler := handlers.NewHealthHandler(db, rabbitMQ.Conn)

	// 7. Router
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:5173", "*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "X-Studio-ID"},
	}))

	r.Post("/chat/event", chatHandler.Handle)

	r.Post("/leads", leadHandler.CaptureLead)
	r.Get("/leads/{leadId}", leadHandler.GetLead)
	r.Patch("/leads/{leadId}/heat", leadHandler.UpdateHeat)
	r.Delete("/leads/{leadId}", leadHandler.DeleteLead)

	r.Get("/galleries/{slug}", galleryHandler.GetGallery)
	r.Post("/galleries/{slug}/favorites", galleryHandler.AddFavorite)
	r.Delete("/galleries/{slug}/favorites/{photoId}", galleryHandler.RemoveFavorite)

	r.Get("/proposals/{proposalId}", proposalHandler.GetProposal)
	r.Post("/proposals/{proposalId}/sign", proposalHandler.Sign)

	r.Post("/sync/replay", syncHandler.Replay)
	r.Get("/sync/pending", syncHandler.Pending)

	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	port := ":8080"
	log.Printf("🔥 Lumina API rodando na porta %s", port)
	http.ListenAndServe(port, r)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
