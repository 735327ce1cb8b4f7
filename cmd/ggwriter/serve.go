package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gogpu/ggwriter"
	"github.com/gogpu/ggwriter/inspect"
)

func runServe(a *app, ctx context.Context, args []string) error {
	fs := a.flags("serve")
	in := fs.String("i", "", "input record stream")
	addr := fs.String("addr", a.cfg.Addr, "listen address")
	if err := fs.Parse(args); err != nil {
		return err
	}
	root, err := a.load(*in)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              *addr,
		Handler:           a.router(root),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		a.logger.Info("inspector listening", "addr", *addr, "input", *in)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	a.logger.Info("inspector shutting down")
	return srv.Shutdown(shutdownCtx)
}

// router mounts the inspector for root behind the standard middleware.
func (a *app) router(root ggwriter.Node) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	inspect.New(root, a.logger).RegisterHTTP(r)
	return r
}
