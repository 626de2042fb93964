package server

import (
	"math/rand"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Asadganteng/ruang-iklim-scada/confs"
	"github.com/Asadganteng/ruang-iklim-scada/db"
	"github.com/Asadganteng/ruang-iklim-scada/handlers"
	httpHandler "github.com/Asadganteng/ruang-iklim-scada/handlers/http"
	"github.com/Asadganteng/ruang-iklim-scada/repositories"
	"github.com/Asadganteng/ruang-iklim-scada/services"
	"github.com/Asadganteng/ruang-iklim-scada/usecases"
	"github.com/Asadganteng/ruang-iklim-scada/ws"
)

type Server struct {
	app *gin.Engine
	cfg *confs.Config
	db  db.Database
	log *zap.SugaredLogger

	feed *services.LiveFeed
}

func NewServer(cfg *confs.Config, database db.Database, log *zap.SugaredLogger) *Server {
	return &Server{
		app: gin.Default(),
		cfg: cfg,
		db:  database,
		log: log,
	}
}

func (s *Server) Start() error {
	// Setup CORS middleware
	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	s.app.Use(cors.New(config))

	// Setup healthcheck route
	s.app.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "OK",
		})
	})

	clock, err := services.NewClock(s.cfg.Timezone)
	if err != nil {
		return err
	}

	// Initialize repositories
	readingRepo := repositories.NewReadingPgRepository(s.db)
	setpointRepo := repositories.NewSetpointPgRepository(s.db)

	// Change-notification hub
	hub := ws.NewHub()

	// Initialize use cases
	readingUseCase := usecases.NewReadingUseCase(readingRepo, hub, clock, s.log)
	setpointUseCase := usecases.NewSetpointUseCase(setpointRepo, s.log)
	setpointUseCase.Load()

	// Live feed, activated in the configured mode
	switch s.cfg.FeedMode {
	case confs.FeedModeSynthetic:
		s.feed = services.NewLiveFeed(s.cfg.SynthCap, clock, s.log)
		gen := services.NewGenerator(clock, rand.New(rand.NewSource(time.Now().UnixNano())))
		s.feed.StartSynthetic(gen, setpointUseCase.Current, s.cfg.Tick, hub)
		s.log.Infow("live feed started", "mode", "synthetic", "capacity", s.cfg.SynthCap, "tick", s.cfg.Tick)
	default:
		s.feed = services.NewLiveFeed(s.cfg.LiveCap, clock, s.log)
		s.feed.StartReal(readingRepo, hub, s.cfg.BulkLimit)
		s.log.Infow("live feed started", "mode", "real", "capacity", s.cfg.LiveCap, "bulk_limit", s.cfg.BulkLimit)
	}

	// Initialize handlers
	readingHandler := httpHandler.NewReadingHandler(readingUseCase)
	setpointHandler := httpHandler.NewSetpointHandler(setpointUseCase)
	feedHandler := handlers.NewFeedHandler(s.feed)
	wsHandler := handlers.NewWSHandler(hub, readingUseCase, s.log)

	// Setup API routes
	api := s.app.Group("/api/v1")
	{
		readings := api.Group("/readings")
		{
			readings.POST("", readingHandler.CreateReading)
			readings.GET("/recent", readingHandler.GetRecentReadings)
		}

		setpoints := api.Group("/setpoints")
		{
			setpoints.GET("", setpointHandler.GetSetpoints)
			setpoints.PUT("", setpointHandler.SaveSetpoints)
		}

		feed := api.Group("/feed")
		{
			feed.GET("", feedHandler.GetFeed)
			feed.GET("/stats", feedHandler.GetFeedStats)
			feed.GET("/subscribers", wsHandler.GetSubscriberCount)
		}
	}

	s.app.GET("/ws/ingest", wsHandler.HandleSensorWS)
	s.app.GET("/ws/live", wsHandler.HandleLiveWS)

	defer s.feed.Stop()
	return s.app.Run(s.cfg.Addr)
}
