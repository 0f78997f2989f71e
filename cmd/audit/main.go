// Command audit runs a compliance audit from the command line using local
// PDF text extraction, without the server or cloud OCR credentials:
//
//	audit -rules products.json -technician "J. Smith" ticket1.pdf ticket2.pdf
//
// Exit code 1 means at least one product verdict was non-compliant,
// 2 means a document or the catalog could not be processed.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"

	"github.com/riddaudit/backend/internal/domain"
	"github.com/riddaudit/backend/internal/infrastructure/catalogstore"
	"github.com/riddaudit/backend/internal/infrastructure/pdftext"
	"github.com/riddaudit/backend/internal/infrastructure/report"
	"github.com/riddaudit/backend/internal/usecase"
)

func main() {
	rulesPath := flag.String("rules", "products.json", "path to the product rule catalog")
	technician := flag.String("technician", "", "technician name for the report")
	date := flag.String("date", time.Now().Format("2006-01-02"), "service date (YYYY-MM-DD)")
	reportPath := flag.String("report", "", "write a PDF report to this path")
	verbose := flag.Bool("v", false, "print extracted text for each document")
	flag.Parse()

	if *technician == "" || flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: audit -rules products.json -technician NAME [-date YYYY-MM-DD] [-report out.pdf] ticket.pdf [ticket.pdf ...]")
		os.Exit(2)
	}

	store, err := catalogstore.Load(*rulesPath)
	if err != nil {
		color.Red("cannot load rule catalog: %v", err)
		os.Exit(2)
	}
	for _, warning := range store.Warnings() {
		color.Yellow("catalog warning: %s", warning)
	}

	var docs []domain.Document
	for _, path := range flag.Args() {
		data, err := os.ReadFile(path)
		if err != nil {
			color.Red("cannot read %s: %v", path, err)
			os.Exit(2)
		}
		docs = append(docs, domain.Document{Name: path, Data: data})
	}

	service := usecase.NewAuditService(pdftext.NewExtractor(), store, usecase.AuditServiceConfig{})
	batch, err := service.ProcessBatch(context.Background(), docs, *technician, *date)
	if err != nil {
		color.Red("audit failed: %v", err)
		os.Exit(2)
	}

	exitCode := 0
	for _, e := range batch.Errors {
		color.Red("error: %s", e)
		exitCode = 2
	}

	for _, result := range batch.Results {
		fmt.Printf("\n=== %s (%s, %s) ===\n", result.File, result.Technician, result.Date)

		if len(result.ComplianceResults) == 0 {
			color.Yellow("no catalog products mentioned in this document")
		}

		for _, verdict := range result.ComplianceResults {
			if verdict.Compliant {
				color.Green("%s: COMPLIANT", verdict.Product)
			} else {
				color.Red("%s: NON-COMPLIANT", verdict.Product)
				if exitCode == 0 {
					exitCode = 1
				}
			}
			for _, detail := range verdict.Details {
				fmt.Printf("  - %s\n", detail)
			}
			fmt.Printf("  actual rate: %s\n", verdict.ActualUsageRate)
			if verdict.LabeledUsageRate != "" {
				fmt.Printf("  labeled rate: %s\n", verdict.LabeledUsageRate)
			}
			if verdict.Deviation != "" {
				fmt.Printf("  deviation: %s\n", verdict.Deviation)
			}
		}

		if *verbose {
			fmt.Printf("\n--- extracted text ---\n%s\n", result.OCRText)
		}
	}

	if *reportPath != "" {
		pdfBytes, err := report.NewPDFRenderer().Render(batch.Results)
		if err != nil {
			color.Red("cannot render report: %v", err)
			os.Exit(2)
		}
		if err := os.WriteFile(*reportPath, pdfBytes, 0o644); err != nil {
			color.Red("cannot write report: %v", err)
			os.Exit(2)
		}
		fmt.Printf("\nreport written to %s\n", *reportPath)
	}

	os.Exit(exitCode)
}
