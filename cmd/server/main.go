package main

import (
	"fmt"
	"log"
	"os"

	"github.com/riddaudit/backend/config"
	httpDelivery "github.com/riddaudit/backend/internal/delivery/http"
	"github.com/riddaudit/backend/internal/domain"
	"github.com/riddaudit/backend/internal/infrastructure/catalogstore"
	"github.com/riddaudit/backend/internal/infrastructure/docai"
	"github.com/riddaudit/backend/internal/infrastructure/pdftext"
	"github.com/riddaudit/backend/internal/infrastructure/report"
	"github.com/riddaudit/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting RIDD Audit Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Extractor: %s", cfg.Extractor.Type)

	// Load the rule catalog once at startup
	store, err := catalogstore.Load(cfg.Catalog.Path)
	if err != nil {
		log.Fatalf("Failed to load rule catalog from %s: %v", cfg.Catalog.Path, err)
	}
	log.Printf("Catalog: %d products loaded from %s", store.Size(), cfg.Catalog.Path)
	for _, warning := range store.Warnings() {
		log.Printf("WARNING: catalog: %s", warning)
	}

	// Select the text-extraction collaborator
	var extractor domain.TextExtractor
	switch cfg.Extractor.Type {
	case config.ExtractorDocAI:
		client := docai.NewClient(
			cfg.DocAI.Endpoint,
			cfg.DocAI.ProjectID,
			cfg.DocAI.Location,
			cfg.DocAI.ProcessorID,
			cfg.DocAI.AccessToken,
			cfg.DocAI.RequestsPerHour,
		)
		if cfg.Server.Environment == "development" {
			client.SetDebug(true)
			log.Printf("Document AI client debug mode enabled")
		}
		log.Printf("Document AI configured: %s (processor %s)", cfg.DocAI.Endpoint, cfg.DocAI.ProcessorID)
		extractor = client
	default:
		extractor = pdftext.NewExtractor()
		log.Printf("Local PDF text extraction configured (no cloud OCR)")
	}

	// Initialize usecase layer
	auditService := usecase.NewAuditService(extractor, store, usecase.AuditServiceConfig{
		EnableDebugLogging: cfg.Server.Environment == "development",
	})

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(auditService, store, report.NewPDFRenderer())

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
