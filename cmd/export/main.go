package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/ikkim/license-backend/config"
	"github.com/ikkim/license-backend/internal/app/model"
	"github.com/ikkim/license-backend/internal/app/repository"
	"github.com/ikkim/license-backend/internal/app/service"
	"github.com/ikkim/license-backend/internal/db"
	"github.com/ikkim/license-backend/internal/report"
	"github.com/spf13/pflag"
)

func main() {
	status := pflag.String("status", "", "only export applications in this status (Draft, Submitted, UnderReview, Approved, Rejected)")
	out := pflag.StringP("out", "o", "applications.xlsx", "output workbook path")
	pflag.Parse()

	var filter *model.ApplicationStatus
	if *status != "" {
		s := model.ApplicationStatus(*status)
		if !s.Valid() {
			log.Fatalf("Unknown status %q", *status)
		}
		filter = &s
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	appService := service.NewApplicationService(repository.NewApplicationRepository(db.GetDB()))

	apps, err := appService.ListApplications(context.Background(), filter)
	if err != nil {
		log.Fatal("Failed to list applications:", err)
	}

	f, err := os.Create(*out)
	if err != nil {
		log.Fatal("Failed to create output file:", err)
	}
	if err := report.WriteApplications(f, apps); err != nil {
		f.Close()
		log.Fatal("Failed to write workbook:", err)
	}
	if err := f.Close(); err != nil {
		log.Fatal("Failed to close output file:", err)
	}

	fmt.Printf("Exported %d applications to %s\n", len(apps), *out)
}
