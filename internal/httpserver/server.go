// internal/httpserver/server.go
//
// HTTP boundary for the dot-connect game.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs, logging).
//   - Public endpoints: "/health", "/catalog", "/stats", POST "/session".
//   - Session endpoints (token required): pointer events, hint, submit, next.
//   - Journal writes for solved levels and revealed hints (best effort).
//
// Notes:
//   - Each request is one game event. The store serializes events per
//     session, so a session only ever sees one event at a time.
//   - Responses carry the explicit Outcome plus a full View; the client
//     renders from those and never needs to diff.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/dotword/internal/catalog"
	"github.com/robalobadob/dotword/internal/game"
	"github.com/robalobadob/dotword/internal/journal"
	"github.com/robalobadob/dotword/internal/store"
)

// Recorder receives journal events. *journal.Journal and journal.Disabled
// both satisfy it.
type Recorder interface {
	Record(ctx context.Context, e journal.Event) error
	Stats(ctx context.Context) ([]journal.AnswerStats, error)
}

// Options configures the boundary.
type Options struct {
	TokenSecret   []byte
	TokenTTL      time.Duration
	CORSOrigin    string // empty disables CORS headers
	SecureCookies bool
}

// Server bundles router, catalog, session store and journal.
type Server struct {
	r      *chi.Mux
	cat    *catalog.Catalog
	store  store.Store
	rec    Recorder
	tokens tokenIssuer
	opts   Options
}

// New constructs a Server, installs middleware, and registers routes.
func New(cat *catalog.Catalog, st store.Store, rec Recorder, opts Options) *Server {
	if rec == nil {
		rec = journal.Disabled{}
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 24 * time.Hour
	}
	s := &Server{
		r:      chi.NewRouter(),
		cat:    cat,
		store:  st,
		rec:    rec,
		tokens: tokenIssuer{secret: opts.TokenSecret, ttl: opts.TokenTTL, now: time.Now},
		opts:   opts,
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(requestLogger)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(10 * time.Second))
	s.r.Use(jsonContentType)
	s.r.Use(cors(opts.CORSOrigin))

	// --- diagnostics / reference data ---
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	s.r.Get("/catalog", s.handleCatalog)
	s.r.Get("/stats", s.handleStats)

	// --- game ---
	s.r.Route("/session", func(r chi.Router) {
		r.Post("/", s.handleNewSession)
		r.Group(func(r chi.Router) {
			r.Use(s.requireSession)
			r.Get("/", s.handleView)
			r.Delete("/", s.handleEnd)
			r.Post("/pointer/{phase}", s.handlePointer)
			r.Post("/hint", s.handleHint)
			r.Post("/submit", s.handleSubmit)
			r.Post("/next", s.handleNext)
		})
	})

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeErr(w, http.StatusNotFound, "not_found")
	})

	return s
}

// Handler exposes the router (used by main and tests).
func (s *Server) Handler() http.Handler { return s.r }

// Sweep prunes idle sessions until ctx is canceled.
func (s *Server) Sweep(ctx context.Context, idle time.Duration) {
	every := idle / 4
	if every < time.Second {
		every = time.Second
	}
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			for _, id := range s.store.Prune(ctx, idle) {
				log.Info().Str("session", id).Msg("session expired")
			}
		}
	}
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for a single origin.
func cors(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if origin == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,DELETE,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requestLogger writes one zerolog line per request.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		ev := log.Debug()
		if ww.Status() >= http.StatusInternalServerError {
			ev = log.Error()
		}
		ev.Str("reqId", chimw.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("took", time.Since(start)).
			Msg("request")
	})
}

type ctxSessionKey struct{}

// requireSession validates the session token and stores the session ID in
// the request context.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := bearerOrCookie(r)
		if raw == "" {
			writeErr(w, http.StatusUnauthorized, "missing_token")
			return
		}
		sid, err := s.tokens.parse(raw)
		if err != nil {
			writeErr(w, http.StatusUnauthorized, "invalid_token")
			return
		}
		ctx := context.WithValue(r.Context(), ctxSessionKey{}, sid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionID(r *http.Request) string {
	sid, _ := r.Context().Value(ctxSessionKey{}).(string)
	return sid
}

// ------------------------------ CATALOG ------------------------------------

type catalogLevel struct {
	Index    int    `json:"index"`
	Equation string `json:"equation"`
	catalog.Level
}

type catalogRes struct {
	Canvas catalog.Canvas `json:"canvas"`
	Levels []catalogLevel `json:"levels"`
}

// handleCatalog lists the equations; answers are withheld.
func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	res := catalogRes{Canvas: s.cat.Canvas()}
	for i, l := range s.cat.Levels() {
		res.Levels = append(res.Levels, catalogLevel{Index: i, Equation: l.Equation(), Level: l})
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.rec.Stats(r.Context())
	if errors.Is(err, journal.ErrDisabled) {
		writeErr(w, http.StatusNotFound, "journal_disabled")
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("journal stats")
		writeErr(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// ------------------------------ SESSION ------------------------------------

type newSessionReq struct {
	Level int `json:"level"`
}

type newSessionRes struct {
	SessionID string    `json:"sessionId"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	View      game.View `json:"view"`
}

type eventRes struct {
	Outcome game.Outcome `json:"outcome"`
	View    game.View    `json:"view"`
}

// handleNewSession starts a session at level 0 or the requested level.
func (s *Server) handleNewSession(w http.ResponseWriter, r *http.Request) {
	var req newSessionReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeErr(w, http.StatusBadRequest, "bad_json")
		return
	}

	g := game.New(s.cat, req.Level)
	if err := s.store.Save(r.Context(), g); err != nil {
		log.Error().Err(err).Msg("save session")
		writeErr(w, http.StatusInternalServerError, "save_failed")
		return
	}
	tok, exp, err := s.tokens.sign(g.ID)
	if err != nil {
		log.Error().Err(err).Msg("sign token")
		writeErr(w, http.StatusInternalServerError, "sign_failed")
		return
	}
	setTokenCookie(w, tok, exp, s.opts.SecureCookies)

	log.Info().Str("session", g.ID).Int("level", g.LevelIndex()).Msg("session created")
	writeJSON(w, http.StatusCreated, newSessionRes{SessionID: g.ID, Token: tok, ExpiresAt: exp, View: g.View()})
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	var v game.View
	err := s.store.Do(r.Context(), sessionID(r), func(g *game.Session) error {
		v = g.View()
		return nil
	})
	if err != nil {
		s.storeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// handleEnd discards the session and clears the cookie.
func (s *Server) handleEnd(w http.ResponseWriter, r *http.Request) {
	sid := sessionID(r)
	_ = s.store.Delete(r.Context(), sid)
	clearTokenCookie(w, s.opts.SecureCookies)
	log.Info().Str("session", sid).Msg("session ended")
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// handlePointer routes pointer down/move/up with a body of {"x":..,"y":..}.
func (s *Server) handlePointer(w http.ResponseWriter, r *http.Request) {
	var apply func(*game.Session, catalog.Point) game.Outcome
	switch chi.URLParam(r, "phase") {
	case "down":
		apply = (*game.Session).PointerDown
	case "move":
		apply = (*game.Session).PointerMove
	case "up":
		apply = (*game.Session).PointerUp
	default:
		writeErr(w, http.StatusNotFound, "unknown_phase")
		return
	}

	var p catalog.Point
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeErr(w, http.StatusBadRequest, "bad_json")
		return
	}
	s.event(w, r, func(g *game.Session) (game.Outcome, *journal.Event, error) {
		return apply(g, p), nil, nil
	})
}

// handleHint reveals the answer; 402 when the balance is short.
func (s *Server) handleHint(w http.ResponseWriter, r *http.Request) {
	s.event(w, r, func(g *game.Session) (game.Outcome, *journal.Event, error) {
		before := g.Diamonds()
		o := g.ShowHint()
		if o.Kind != game.OutcomeHintRevealed {
			return o, nil, nil
		}
		return o, &journal.Event{
			SessionID:  g.ID,
			Kind:       journal.KindHint,
			LevelIndex: g.LevelIndex(),
			Answer:     g.Level().Answer,
			Diamonds:   o.Diamonds,
			HintsUsed:  o.HintsUsed,
			Cost:       before - o.Diamonds,
		}, nil
	})
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	s.event(w, r, func(g *game.Session) (game.Outcome, *journal.Event, error) {
		o := g.Submit()
		if o.Kind != game.OutcomeSolved {
			return o, nil, nil
		}
		return o, &journal.Event{
			SessionID:  g.ID,
			Kind:       journal.KindSolved,
			LevelIndex: g.LevelIndex(),
			Answer:     g.Level().Answer,
			Diamonds:   o.Diamonds,
			HintsUsed:  o.HintsUsed,
		}, nil
	})
}

var errNextDisabled = errors.New("next level locked")

// handleNext advances a level; 409 until the current one is solved.
func (s *Server) handleNext(w http.ResponseWriter, r *http.Request) {
	s.event(w, r, func(g *game.Session) (game.Outcome, *journal.Event, error) {
		if !g.NextEnabled() {
			return game.Outcome{}, nil, errNextDisabled
		}
		return g.NextLevel(), nil, nil
	})
}

// event runs fn under the session lock, journals its event (if any) once
// the lock is released, and writes outcome + view.
func (s *Server) event(w http.ResponseWriter, r *http.Request, fn func(*game.Session) (game.Outcome, *journal.Event, error)) {
	var (
		res eventRes
		ev  *journal.Event
	)
	err := s.store.Do(r.Context(), sessionID(r), func(g *game.Session) error {
		o, e, err := fn(g)
		if err != nil {
			return err
		}
		res, ev = eventRes{Outcome: o, View: g.View()}, e
		return nil
	})
	if err != nil {
		s.storeErr(w, err)
		return
	}

	if ev != nil {
		log.Info().Str("session", ev.SessionID).Str("kind", string(ev.Kind)).
			Str("answer", ev.Answer).Int("diamonds", ev.Diamonds).Int("cost", ev.Cost).Msg("journal event")
		if err := s.rec.Record(r.Context(), *ev); err != nil {
			log.Warn().Err(err).Str("session", ev.SessionID).Msg("journal record")
		}
	}

	status := http.StatusOK
	if res.Outcome.Kind == game.OutcomeHintRefused {
		status = http.StatusPaymentRequired
	}
	writeJSON(w, status, res)
}

func (s *Server) storeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeErr(w, http.StatusNotFound, "session_not_found")
	case errors.Is(err, errNextDisabled):
		writeErr(w, http.StatusConflict, "next_disabled")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeErr(w, http.StatusServiceUnavailable, "timeout")
	default:
		log.Error().Err(err).Msg("session event")
		writeErr(w, http.StatusInternalServerError, "internal")
	}
}

// ------------------------------- small util --------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}

func writeErr(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}
