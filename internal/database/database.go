package database

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"travel-booking/internal/config"
	"travel-booking/internal/models"

	// PostgreSQL driver
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Service represents a service that interacts with a database.
type Service interface {
	// Health returns a map of health status information.
	// The keys and values in the map are service-specific.
	Health() map[string]string

	// Close terminates the database connection.
	// It returns an error if the connection cannot be closed.
	Close() error

	Destinations() Store[models.Destination]
	Hotels() Store[models.Hotel]
	Events() Store[models.Event]
	Promos() Store[models.Promo]
	Transports() Store[models.Transport]
	Bookings() BookingStore

	// ImageURLs returns every image and payment proof URL referenced by a row.
	ImageURLs(ctx context.Context) ([]string, error)
}

type service struct {
	db  *sqlx.DB
	log *zap.Logger

	destinations *table[models.Destination]
	hotels       *table[models.Hotel]
	events       *table[models.Event]
	promos       *table[models.Promo]
	transports   *table[models.Transport]
	bookings     *bookingTable
}

var dbInstance *service

// New opens the connection pool. Subsequent calls reuse the first pool.
func New(cfg config.DB, log *zap.Logger) (Service, error) {
	// Reuse Connection
	if dbInstance != nil {
		return dbInstance, nil
	}
	db, err := sqlx.Open("pgx", cfg.URL())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	dbInstance = newService(db, log.With(zap.String("database", cfg.Database)))
	return dbInstance, nil
}

func newService(db *sqlx.DB, log *zap.Logger) *service {
	return &service{
		db:  db,
		log: log,
		destinations: &table[models.Destination]{
			db:        db,
			name:      "destinations",
			columns:   []string{"name", "location", "description", "price", "image_url", "user_id"},
			updatable: []string{"name", "location", "description", "price", "image_url"},
			filters:   []string{"user_id", "name", "location"},
		},
		hotels: &table[models.Hotel]{
			db:        db,
			name:      "hotels",
			columns:   []string{"name", "location", "description", "price", "rating", "image_url", "user_id"},
			updatable: []string{"name", "location", "description", "price", "rating", "image_url"},
			filters:   []string{"user_id", "name", "location"},
		},
		events: &table[models.Event]{
			db:        db,
			name:      "events",
			columns:   []string{"name", "location", "date", "description", "price", "image_url", "user_id"},
			updatable: []string{"name", "location", "date", "description", "price", "image_url"},
			filters:   []string{"user_id", "location", "date"},
		},
		promos: &table[models.Promo]{
			db:        db,
			name:      "promos",
			columns:   []string{"title", "description", "discount", "valid_until", "price", "image_url", "user_id"},
			updatable: []string{"title", "description", "discount", "valid_until", "price", "image_url"},
			filters:   []string{"user_id"},
		},
		transports: &table[models.Transport]{
			db:        db,
			name:      "transports",
			columns:   []string{"name", "type", "origin", "destination", "departure", "price", "image_url", "user_id"},
			updatable: []string{"name", "type", "origin", "destination", "departure", "price", "image_url"},
			filters:   []string{"user_id", "type", "origin", "destination"},
		},
		bookings: &bookingTable{table[models.Booking]{
			db:   db,
			name: "bookings",
			columns: []string{
				"user_id", "hotel_id", "hotel_name", "customer_name", "check_in", "check_out",
				"guests", "total_price", "status", "proof_url",
			},
			updatable: []string{"customer_name", "check_in", "check_out", "guests", "total_price"},
			filters:   []string{"user_id", "hotel_id", "status"},
		}},
	}
}

func (s *service) Destinations() Store[models.Destination] { return s.destinations }
func (s *service) Hotels() Store[models.Hotel]             { return s.hotels }
func (s *service) Events() Store[models.Event]             { return s.events }
func (s *service) Promos() Store[models.Promo]             { return s.promos }
func (s *service) Transports() Store[models.Transport]     { return s.transports }
func (s *service) Bookings() BookingStore                  { return s.bookings }

// Health checks the health of the database connection by pinging the database.
// It returns a map with keys indicating various health statistics.
func (s *service) Health() map[string]string {
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	stats := make(map[string]string)

	// Ping the database
	err := s.db.PingContext(ctx)
	if err != nil {
		stats["status"] = "down"
		stats["error"] = fmt.Sprintf("db down: %v", err)
		s.log.Error("database ping failed", zap.Error(err))
		return stats
	}

	// Database is up, add more statistics
	stats["status"] = "up"
	stats["message"] = "It's healthy"

	// Get database stats (like open connections, in use, idle, etc.)
	dbStats := s.db.Stats()
	stats["open_connections"] = strconv.Itoa(dbStats.OpenConnections)
	stats["in_use"] = strconv.Itoa(dbStats.InUse)
	stats["idle"] = strconv.Itoa(dbStats.Idle)
	stats["wait_count"] = strconv.FormatInt(dbStats.WaitCount, 10)
	stats["wait_duration"] = dbStats.WaitDuration.String()
	stats["max_idle_closed"] = strconv.FormatInt(dbStats.MaxIdleClosed, 10)
	stats["max_lifetime_closed"] = strconv.FormatInt(dbStats.MaxLifetimeClosed, 10)

	// Evaluate stats to provide a health message
	if dbStats.OpenConnections > 20 {
		stats["message"] = "The database is experiencing heavy load."
	}

	if dbStats.WaitCount > 1000 {
		stats["message"] = "The database has a high number of wait events, indicating potential bottlenecks."
	}

	if dbStats.MaxIdleClosed > int64(dbStats.OpenConnections)/2 {
		stats["message"] = "Many idle connections are being closed, consider revising the connection pool settings."
	}

	if dbStats.MaxLifetimeClosed > int64(dbStats.OpenConnections)/2 {
		stats["message"] = "Many connections are being closed due to max lifetime, consider increasing max lifetime or revising the connection usage pattern."
	}

	return stats
}

// Close closes the database connection.
func (s *service) Close() error {
	s.log.Info("disconnected from database")
	return s.db.Close()
}

// mediaColumns lists every column holding an object storage URL.
var mediaColumns = []struct{ table, column string }{
	{"destinations", "image_url"},
	{"hotels", "image_url"},
	{"events", "image_url"},
	{"promos", "image_url"},
	{"transports", "image_url"},
	{"bookings", "proof_url"},
}

func (s *service) ImageURLs(ctx context.Context) ([]string, error) {
	var (
		mu   sync.Mutex
		urls []string
	)
	g, ctx := errgroup.WithContext(ctx)
	for _, mc := range mediaColumns {
		mc := mc
		g.Go(func() error {
			var found []string
			query := fmt.Sprintf("SELECT %[2]s FROM %[1]s WHERE %[2]s <> ''", mc.table, mc.column)
			if err := s.db.SelectContext(ctx, &found, query); err != nil {
				return fmt.Errorf("%s.%s: %w", mc.table, mc.column, err)
			}
			mu.Lock()
			urls = append(urls, found...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return urls, nil
}
