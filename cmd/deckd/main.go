// Command deckd serves the deck editor API over a SQLite version history.
//
// Usage:
//
//	deckd [-config preview.json] [-listen :8080] [-db reactordeck.db] [-deck deck.yaml]
//	deckd migrate up|down|status|version|force N
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/banshee-data/reactordeck/internal/api"
	"github.com/banshee-data/reactordeck/internal/config"
	"github.com/banshee-data/reactordeck/internal/db"
	"github.com/banshee-data/reactordeck/internal/deck"
	"github.com/banshee-data/reactordeck/internal/palette"
	"github.com/banshee-data/reactordeck/internal/timeutil"
	"github.com/banshee-data/reactordeck/internal/version"
)

var (
	configPath  = flag.String("config", "", "Path to a preview config JSON file")
	listen      = flag.String("listen", "", "Listen address (overrides config)")
	dbPath      = flag.String("db", "", "SQLite database path (overrides config)")
	deckPath    = flag.String("deck", "", "Deck file (.yaml or .json) to start from instead of the latest saved deck")
	exportPath  = flag.String("export", "", "Write the deck to this file on shutdown")
	showVersion = flag.Bool("version", false, "Print the version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Get())
		return
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if *listen != "" {
		cfg.Listen = listen
	}
	if *dbPath != "" {
		cfg.DBPath = dbPath
	}

	if flag.Arg(0) == "migrate" {
		if err := db.RunMigrateCommand(flag.Args()[1:], cfg.GetDBPath(), os.Stdout); err != nil {
			log.Fatalf("migrate: %v", err)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal(err)
	}
	log.Printf("Graceful shutdown complete")
}

// loadConfig reads path, or returns the defaults when path is empty.
func loadConfig(path string) (*config.PreviewConfig, error) {
	if path == "" {
		return config.DefaultPreviewConfig(), nil
	}
	return config.LoadPreviewConfig(path)
}

func run(ctx context.Context, cfg *config.PreviewConfig) error {
	database, err := db.NewDB(cfg.GetDBPath())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	store := db.NewDeckStore(database)
	ctrl, err := openDeck(ctx, store, *deckPath)
	if err != nil {
		return err
	}

	handler, err := newHandler(ctrl, store, database, cfg)
	if err != nil {
		return err
	}
	server := &http.Server{
		Addr:              cfg.GetListen(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Printf("listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
	case <-ctx.Done():
	}
	log.Println("shutting down HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
		if err := server.Close(); err != nil {
			log.Printf("HTTP server force close error: %v", err)
		}
	}

	if *exportPath != "" {
		if err := deck.WriteFile(*exportPath, ctrl.Snapshot()); err != nil {
			return fmt.Errorf("failed to export deck: %w", err)
		}
		log.Printf("exported deck to %s", *exportPath)
	}
	return nil
}

// openDeck picks the starting document: the deck file when one is given,
// else the most recently saved deck, else a new empty deck. A deck read
// from a file is saved straight away so it shows up in the history.
func openDeck(ctx context.Context, store *db.DeckStore, path string) (*deck.Controller, error) {
	clock := timeutil.RealClock{}
	if path == "" {
		doc, err := store.LatestDocument(ctx)
		switch {
		case errors.Is(err, db.ErrNoVersions):
			doc = deck.NewDocument("untitled")
			log.Printf("starting new deck %s", doc.ID)
		case err != nil:
			return nil, err
		default:
			log.Printf("resuming deck %q (%s) at version %d", doc.Name, doc.ID, doc.Version)
		}
		return deck.NewController(doc, store, clock), nil
	}

	doc, err := deck.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if doc.ID == "" {
		doc.ID = deck.NewDocument(doc.Name).ID
	}
	if latest, err := store.Latest(ctx, doc.ID); err == nil && latest.Version > doc.Version {
		doc.Version = latest.Version
	} else if err != nil && !errors.Is(err, db.ErrNoVersions) {
		return nil, err
	}

	ctrl := deck.NewController(doc, store, clock)
	saved, err := ctrl.Apply(ctx, func(*deck.Document) error { return nil })
	if err != nil {
		return nil, fmt.Errorf("failed to save deck from %s: %w", path, err)
	}
	log.Printf("loaded deck %q from %s as version %d", saved.Name, path, saved.Version)
	return ctrl, nil
}

// newHandler mounts the API and the admin routes behind request logging.
func newHandler(ctrl *deck.Controller, store *db.DeckStore, database *db.DB, cfg *config.PreviewConfig) (http.Handler, error) {
	srv := api.NewServer(ctrl, store, palette.NewRegistry(), cfg)
	mux := srv.ServeMux()
	if err := database.AttachAdminRoutes(mux); err != nil {
		return nil, fmt.Errorf("failed to attach admin routes: %w", err)
	}
	return api.LoggingMiddleware(mux), nil
}
