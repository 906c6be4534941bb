package server

import (
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"travel-booking/internal/config"
	"travel-booking/internal/database"
	"travel-booking/internal/service"
	"travel-booking/internal/storage"
)

type Server struct {
	port int

	db      database.Service
	catalog *service.Catalog
	limiter *visitors
	log     *zap.Logger

	secret        []byte
	uploadsDir    string
	maxImageBytes int64
}

func newServer(cfg *config.Config, db database.Service, media storage.Service, log *zap.Logger) *Server {
	s := &Server{
		port:          cfg.Port,
		db:            db,
		catalog:       service.New(db, media, cfg.Buckets, log),
		limiter:       newVisitors(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
		log:           log,
		secret:        []byte(cfg.Auth.JWTSecret),
		maxImageBytes: cfg.Storage.MaxImageBytes,
	}
	if s.maxImageBytes <= 0 {
		s.maxImageBytes = storage.MaxImageSize
	}
	if cfg.Storage.Driver == "local" {
		s.uploadsDir = cfg.Storage.LocalRoot
	}
	return s
}

// NewServer builds the HTTP server for the API.
func NewServer(cfg *config.Config, db database.Service, media storage.Service, log *zap.Logger) *http.Server {
	s := newServer(cfg, db, media, log)

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		ErrorLog:     zap.NewStdLog(log),
	}
}
