package main

import (
	"context"
	"crypto/tls"
	"errors"
	"os"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"todo-attack-api/api"
	"todo-attack-api/board"
	"todo-attack-api/config"
	"todo-attack-api/storage"
)

// starterDocument seeds a fresh deployment so the editor opens on something
// other than a 404.
const starterDocument = `# Todo

- [ ] add your first task
`

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}

	files, err := storage.New(cfg.DocsDir, cfg.MaxDocumentBytes, cfg.AllowedExtensions)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}

	var store api.Store = files
	var deduper api.Deduper
	if cfg.RedisURL != "" {
		rc := redis.NewClient(redisOptions(cfg.RedisURL))
		store = storage.NewCache(files, rc, cfg.CacheTTL)
		deduper = api.NewRedisDeduper(rc, cfg.CacheTTL)
		log.Info("redis cache and event dedupe enabled")
	}

	seedDefaultDocument(store, cfg.DefaultDocument)

	e := echo.New()
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(api.SecurityHeadersMiddleware())
	e.Use(api.GzipRequestMiddleware())

	logger := log.New()
	api.Register(e, store, api.NewAuth(cfg.AuthSecret), deduper, api.NewHub(), board.NewController(), logger)

	e.Logger.Fatal(e.Start(cfg.ListenAddr))
}

// redisOptions accepts either a redis:// URL or the comma-separated
// host,password=...,ssl=true form some managed caches hand out.
func redisOptions(conn string) *redis.Options {
	opts, err := redis.ParseURL(conn)
	if err == nil {
		return opts
	}
	parts := strings.Split(conn, ",")
	opts = &redis.Options{Addr: parts[0]}
	for _, p := range parts[1:] {
		kv := strings.SplitN(p, "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch strings.ToLower(kv[0]) {
		case "password":
			opts.Password = kv[1]
		case "ssl":
			if strings.ToLower(kv[1]) == "true" {
				opts.TLSConfig = &tls.Config{}
			}
		}
	}
	return opts
}

func seedDefaultDocument(store api.Store, name string) {
	if name == "" {
		return
	}
	ctx := context.Background()
	_, err := store.Load(ctx, name)
	if err == nil {
		return
	}
	var notFound api.NotFoundError
	if !errors.As(err, &notFound) {
		log.Warnf("seed: load %s: %v", name, err)
		return
	}
	if err := store.Save(ctx, name, starterDocument); err != nil {
		log.Warnf("seed: save %s: %v", name, err)
	}
}
