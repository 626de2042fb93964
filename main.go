package main

import (
	"log"

	"github.com/Asadganteng/ruang-iklim-scada/confs"
	"github.com/Asadganteng/ruang-iklim-scada/db"
	"github.com/Asadganteng/ruang-iklim-scada/logging"
	"github.com/Asadganteng/ruang-iklim-scada/server"
)

func main() {
	// load config
	cfg, err := confs.Load()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	logger, err := logging.New()
	if err != nil {
		log.Fatalf("Error building logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	// connect to database Postgres
	database, err := db.Connect(logger)
	if err != nil {
		logger.Fatalw("failed to connect to DB", "error", err)
	}

	// run server
	srv := server.NewServer(cfg, database, logger)
	if err := srv.Start(); err != nil {
		logger.Fatalw("server exited", "error", err)
	}
}
