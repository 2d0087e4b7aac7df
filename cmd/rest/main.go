package main

import (
	"context"
	"log"

	"rap-for-money-be/internal/bootstrap"
	"rap-for-money-be/internal/config"
	"rap-for-money-be/internal/server"
	"rap-for-money-be/internal/tracer"
	"rap-for-money-be/pkg/database"
)

func main() {
	// 0. Initialize Tracer
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	// 4. Start Background Services
	go func() {
		log.Println("Background: Starting Consumer Service...")
		if err := container.ConsumerService.Consume(context.Background()); err != nil {
			log.Printf("Background Consumer Error: %v", err)
		}
	}()

	// Signal relay janitor (prunes expired mailboxes)
	go container.Relay.Run()
	defer container.Relay.Stop()

	// Stream expiry sweeper (force-ends streams past their duration cap)
	go container.Sweeper.Run(context.Background())

	// 5. Initialize Server
	srv := server.New(cfg, container)

	// 6. Run Server
	log.Fatal(srv.Run())
}
