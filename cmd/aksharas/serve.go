package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/japaniel/akshara/pkg/pipeline"
	"github.com/japaniel/akshara/pkg/render"
	"github.com/japaniel/akshara/pkg/server"
)

func (a *app) newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a live preview that re-analyzes as you type",
		RunE:  a.runServe,
	}
	cmd.Flags().String("addr", ":8080", "listen address")
	cmd.Flags().Duration("debounce", pipeline.DefaultWindow, "quiet period before typed text is analyzed")
	return cmd
}

func (a *app) runServe(cmd *cobra.Command, args []string) error {
	a.v.BindPFlag("serve.addr", cmd.Flags().Lookup("addr"))
	a.v.BindPFlag("debounce", cmd.Flags().Lookup("debounce"))

	ag, err := a.newAggregator()
	if err != nil {
		return err
	}
	surface := render.NewMemorySurface(a.v.GetString("placeholder"))
	presenter, err := render.NewPresenter(surface)
	if err != nil {
		return err
	}
	p := pipeline.New(ag, presenter,
		pipeline.WithLogger(a.logger),
		pipeline.WithWindow(a.v.GetDuration("debounce")),
	)
	defer p.Stop()

	mux := http.NewServeMux()
	server.NewHandler(p, surface, a.logger).RegisterRoutes(mux)

	g, ctx := errgroup.WithContext(cmd.Context())

	// No WriteTimeout: /events responses stay open until their request
	// context, derived from ctx, is canceled.
	srv := &http.Server{
		Addr:              a.v.GetString("serve.addr"),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       120 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	g.Go(func() error {
		a.logger.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		a.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
