package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sandevgo/chatminder/pkg/log"
)

// Server exposes the chat API over HTTP and plugs into the service
// lifecycle alongside the message pipeline.
type Server struct {
	srv *http.Server
}

func NewServer(addr string, h *Handler) *Server {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.Health)
	r.Route("/api", func(r chi.Router) {
		r.Post("/chats", h.CreateChat)
		r.Get("/chats/{chatID}/messages", h.ListMessages)
		r.Post("/chats/{chatID}/messages", h.CreateMessage)
		r.Post("/chats/{chatID}/refine", h.RefineMessage)
		r.Patch("/messages/{messageID}", h.UpdateMessage)
	})

	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

func (s *Server) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Str("addr", s.srv.Addr).Msg("http server listening")

	err := s.srv.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	return s.srv.Shutdown(sctx)
}
