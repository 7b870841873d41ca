package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/imkonsowa/vibe-eats/config"
	"github.com/imkonsowa/vibe-eats/recommender"
	"golang.org/x/sync/errgroup"
)

type Agent struct {
	config  *config.Config
	service Recommender
}

func NewAgent(cfg *config.Config, service Recommender) *Agent {
	return &Agent{
		config:  cfg,
		service: service,
	}
}

func (a *Agent) Router() *gin.Engine {
	r := gin.Default()
	r.Use(cors.New(corsConfig(a.config.Server.AllowedOrigins)))

	r.GET("/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"message": WelcomeMessage})
	})

	r.POST("/api/recommendations", a.recommend)

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
		MaxAge:       12 * time.Hour,
	}

	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}

	return cfg
}

func (a *Agent) recommend(ctx *gin.Context) {
	var req RecommendationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Mood) == "" {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Error: ErrMsgMoodRequired})
		return
	}

	recommendations, err := a.service.Recommend(ctx.Request.Context(), req.Mood)
	if err != nil {
		status, body := errorResponse(err)
		ctx.JSON(status, body)
		return
	}

	if recommendations == nil {
		recommendations = []recommender.Recommendation{}
	}

	ctx.JSON(http.StatusOK, RecommendationsResponse{Recommendations: recommendations})
}

func errorResponse(err error) (int, ErrorResponse) {
	var formatErr *recommender.FormatError

	switch {
	case errors.Is(err, recommender.ErrInvalidInput):
		return http.StatusBadRequest, ErrorResponse{Error: ErrMsgMoodRequired}
	case errors.Is(err, recommender.ErrEmptyCatalog):
		return http.StatusNotFound, ErrorResponse{Error: ErrMsgEmptyCatalog}
	case errors.As(err, &formatErr):
		return http.StatusInternalServerError, ErrorResponse{Error: ErrMsgParseResponse, Details: formatErr.Error()}
	default:
		slog.Error("recommendation request failed", "error", err)
		return http.StatusInternalServerError, ErrorResponse{Error: err.Error()}
	}
}

// Run serves until ctx is canceled, then drains in-flight requests for at most
// the configured shutdown timeout.
func (a *Agent) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              a.config.Server.Address(),
		Handler:           a.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("http server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		slog.Info("shutting down http server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
