// main wires the services, starts the HTTP server, and keeps the lifecycle
// small. Business logic lives in the internal service packages.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"docket/internal/audit"
	"docket/internal/auth"
	"docket/internal/auth/store/revocation"
	"docket/internal/blob"
	"docket/internal/document"
	"docket/internal/jurisdiction"
	"docket/internal/jwttoken"
	"docket/internal/platform/config"
	"docket/internal/platform/httpserver"
	"docket/internal/platform/logger"
	"docket/internal/platform/postgres"
	platformredis "docket/internal/platform/redis"
	httptransport "docket/internal/transport/http"
	"docket/internal/user"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.Connect(rootCtx, cfg.DatabaseURL)
	if err != nil {
		log.Error("postgres connect failed", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis connect failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	blobs, err := blob.NewS3Store(rootCtx, blob.S3Config{
		Region:    cfg.S3.Region,
		Bucket:    cfg.S3.Bucket,
		AccessKey: cfg.S3.AccessKey,
		SecretKey: cfg.S3.SecretKey,
		Endpoint:  cfg.S3.Endpoint,
	})
	if err != nil {
		log.Error("blob store init failed", "error", err)
		os.Exit(1)
	}

	// Audit records flow through a bounded inbox; a worker drains them so
	// emission never blocks a request.
	auditStore := audit.NewPostgresStore(pool)
	inbox := make(chan audit.Record, cfg.AuditInboxSize)
	auditor := audit.NewPublisher(auditStore, log, audit.WithInbox(inbox))
	auditWorker := audit.NewWorker(auditStore, inbox, log)

	jurisdictionStore := jurisdiction.NewPostgresStore(pool)
	if err := jurisdictionStore.Seed(rootCtx, jurisdiction.SeedNodes()); err != nil {
		log.Error("jurisdiction seed failed", "error", err)
		os.Exit(1)
	}
	var treeCache jurisdiction.TreeCache
	if redisClient != nil {
		treeCache = jurisdiction.NewRedisTreeCache(redisClient.Client)
	}
	jurisdictions := jurisdiction.NewService(jurisdictionStore, treeCache, jurisdiction.DefaultTreeTTL, log)

	var revocations revocation.List
	if redisClient != nil {
		revocations = revocation.NewRedisList(redisClient.Client)
	} else {
		log.Warn("redis not configured, using in-process revocation list")
		revocations = revocation.NewMemoryList()
	}
	tokens := auth.NewService(
		jwttoken.NewService(cfg.JWTSigningKey, cfg.JWTIssuer, cfg.JWTAudience),
		revocations, auditor, log, cfg.AccessTTL, cfg.RefreshTTL,
	)
	users := user.NewService(user.NewPostgresStore(pool), tokens, auditor, log)

	documentStore := document.NewPostgresStore(pool)
	documents := document.NewService(documentStore, blobs, jurisdictions, auditor, log, cfg.MaxUploadBytes)
	sweeper := document.NewSweeper(documentStore, blobs, auditor, log, cfg.Retention, cfg.SweepInterval)

	router := httptransport.NewRouter(httptransport.Deps{
		Auth:          httptransport.NewAuthHandler(users, tokens, log),
		Documents:     httptransport.NewDocumentHandler(documents, log, cfg.MaxUploadBytes),
		Jurisdictions: httptransport.NewJurisdictionHandler(jurisdictions, log),
		Verifier:      tokens,
		Logger:        log,
	})
	srv := httpserver.New(cfg.Addr, router)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		sweeper.Run(rootCtx)
	}()
	go func() {
		defer wg.Done()
		_ = auditWorker.Run(rootCtx)
	}()

	go func() {
		log.Info("docket listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-rootCtx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
	wg.Wait()
}
