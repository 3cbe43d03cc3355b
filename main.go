package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coindash/server"
)

func main() {
	var addr, logFile string
	var dev bool
	flag.StringVar(&addr, "addr", ":3001", "server listen address, e.g. :3001")
	flag.StringVar(&logFile, "log", "app.log", "log file path")
	flag.BoolVar(&dev, "dev", false, "debug logging, teed to stderr")
	flag.Parse()

	if err := server.InitLogger(logFile, dev); err != nil {
		panic(err)
	}
	defer server.SyncLogger()

	cfg := server.LoadConfig()
	game := server.NewGame(cfg)
	game.StartTicker()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", game.HandleWS)
	mux.Handle("/", http.FileServer(http.Dir("web")))
	mux.HandleFunc("/admin/config", game.HandleAdminConfig)
	mux.HandleFunc("/metrics", game.HandleMetrics)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		server.Log.Infof("coindash listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			server.Log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	server.Log.Info("Shutting down...")

	game.StopTicker()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
}
