package main

import (
	"log"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"onlinefdr/adapters/excel"
	"onlinefdr/adapters/postgres"
	"onlinefdr/app"
	"onlinefdr/internal/config"
	"onlinefdr/internal/lord"
	"onlinefdr/internal/testkit"
	"onlinefdr/ports"
	"onlinefdr/ui"
)

func main() {
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Invalid configuration:", err)
	}

	var runs ports.RunRepository
	if cfg.Database.URL != "" {
		db, err := sqlx.Connect("postgres", cfg.Database.URL)
		if err != nil {
			log.Fatal("Failed to connect to database:", err)
		}
		defer db.Close()
		runs = postgres.NewRunRepository(db)
	} else {
		runs = testkit.NewInMemoryRunRepository()
		log.Println("DATABASE_URL not set, keeping runs in memory")
	}

	service := app.NewScreeningService(runs, excel.NewResultExporter(), lord.Params{
		W0:    cfg.Screening.W0,
		Alpha: cfg.Screening.Alpha,
	})

	server, err := ui.NewServer(service)
	if err != nil {
		log.Fatal("Failed to create dashboard:", err)
	}

	addr := ":" + cfg.Server.UIPort
	log.Printf("Starting screening dashboard on http://localhost%s", addr)
	log.Fatal(server.Start(addr))
}
