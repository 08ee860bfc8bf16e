package deps

import (
	"context"
	"log"

	"github.com/comuna-app/comuna_api/config"
	"github.com/comuna-app/comuna_api/internal/db"
	"github.com/comuna-app/comuna_api/internal/http/gemini"
	"github.com/comuna-app/comuna_api/util/cache"
	"github.com/comuna-app/comuna_api/util/storage"
	"github.com/comuna-app/comuna_api/util/websockets"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Dependencies struct {
	DB         *db.DB
	Cloudinary *storage.Cloudinary
	WebSocket  *websockets.WebSocketManager
	Cache      *cache.Cache
	Gemini     *gemini.Client
}

func New(cfg *config.Config) *Dependencies {
	database, err := db.New(cfg.Dsn)
	if err != nil {
		log.Panicln("failed to connect to database", "error", err)
	}

	cloudinary := storage.NewCloudinary(cfg)
	websocket := websockets.NewWebSocketManager()
	redisCache := cache.New(cfg.RedisAddr, cfg.RedisPassword)

	geminiClient, err := gemini.NewClient(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.Panicln("failed to create gemini client", "error", err)
	}

	deps := Dependencies{
		DB:         database,
		Cloudinary: cloudinary,
		WebSocket:  websocket,
		Cache:      redisCache,
		Gemini:     geminiClient,
	}
	return &deps
}

func (d *Dependencies) Pool() *pgxpool.Pool {
	return d.DB.Pool()
}
