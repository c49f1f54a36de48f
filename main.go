package main

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/dotword/internal/catalog"
	"github.com/robalobadob/dotword/internal/httpserver"
	"github.com/robalobadob/dotword/internal/journal"
	"github.com/robalobadob/dotword/internal/store"
)

func main() {
	_ = godotenv.Load()
	cfg := &Config{}
	if err := newCmd(cfg).Execute(); err != nil {
		log.Fatal().Err(err).Msg("dotword exited")
	}
}

func serve(ctx context.Context, cfg *Config) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cat, err := catalog.Load(cfg.catalogFile)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	log.Info().Int("levels", cat.Len()).Str("file", cfg.catalogFile).Msg("catalog loaded")

	var rec httpserver.Recorder = journal.Disabled{}
	if cfg.db != "" {
		j, err := journal.Open(ctx, cfg.db)
		if err != nil {
			return fmt.Errorf("open journal: %w", err)
		}
		defer j.Close()
		rec = j
		log.Info().Str("db", cfg.db).Msg("journal enabled")
	}

	secret := []byte(cfg.tokenSecret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return fmt.Errorf("generate token secret: %w", err)
		}
		log.Warn().Msg("no token secret configured; tokens will not survive a restart")
	}

	srv := httpserver.New(cat, store.NewMemoryStore(), rec, httpserver.Options{
		TokenSecret:   secret,
		TokenTTL:      cfg.tokenTTL,
		CORSOrigin:    cfg.corsOrigin,
		SecureCookies: cfg.secureCookies,
	})
	go srv.Sweep(ctx, cfg.sessionTimeout)

	hs := &http.Server{
		Addr:              cfg.addr(),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		log.Info().Str("addr", hs.Addr).Msg("starting dotword")
		errs <- hs.ListenAndServe()
	}()

	select {
	case err := <-errs:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return hs.Shutdown(shutdownCtx)
}

func newCatalogCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "Validate the level catalog and print it.",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := catalog.Load(cfg.catalogFile)
			if err != nil {
				return err
			}
			return printCatalog(cmd, cat)
		},
	}
}

func printCatalog(cmd *cobra.Command, cat *catalog.Catalog) error {
	cv := cat.Canvas()
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "canvas %dx%d, tolerance %d\n", cv.Width, cv.Height, cv.Tolerance)
	fmt.Fprintln(tw, "#\tEQUATION\tANSWER\tDOTS\tCOLOR")
	for i, l := range cat.Levels() {
		dots, err := cat.DotPattern(l.Answer)
		if err != nil {
			return err
		}
		color, err := cat.Color(l.Answer)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\n", i, l.Equation(), l.Answer, len(dots), color)
	}
	return tw.Flush()
}
