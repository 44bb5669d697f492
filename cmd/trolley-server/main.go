package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Garsondee/trolley-sense/internal/api"
	"github.com/Garsondee/trolley-sense/internal/game"
)

func loadTuning(path string) (game.Tuning, error) {
	if path == "" {
		return game.DefaultTuning(), nil
	}
	return game.LoadTuning(path)
}

func main() {
	addr := flag.String("addr", ":8081", "listen address")
	tuningPath := flag.String("tuning", "", "YAML tuning file (defaults when empty)")
	flag.Parse()

	t, err := loadTuning(*tuningPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := api.NewHub()
	go hub.Run(ctx)
	srv := api.NewServer(api.NewConfigStore(t), hub)

	// SIGHUP reloads the tuning file for new sessions.
	go func() {
		hup := make(chan os.Signal, 1)
		signal.Notify(hup, syscall.SIGHUP)
		for {
			select {
			case <-hup:
				next, err := loadTuning(*tuningPath)
				if err != nil {
					log.Printf("reload: %v", err)
					continue
				}
				srv.Reload(next)
				log.Printf("reload: tuning applied (seed %d)", next.Seed)
			case <-ctx.Done():
				return
			}
		}
	}()

	httpSrv := &http.Server{Addr: *addr, Handler: srv.Routes()}
	go func() {
		<-ctx.Done()
		httpSrv.Shutdown(context.Background())
	}()

	log.Printf("trolley server listening on %s", *addr)
	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
