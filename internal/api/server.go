package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/loomlm/loom/internal/inference"
	"github.com/loomlm/loom/internal/version"
)

// Server wires the generation service into an echo router.
type Server struct {
	service *GenerateService
}

func NewServer(service *GenerateService) *Server {
	return &Server{service: service}
}

func (s *Server) Register(e *echo.Echo) {
	e.POST("/v1/generate", s.handleGenerate)
	e.GET("/healthz", s.handleHealthz)
	e.GET("/metrics", wrapHandler(promhttp.Handler()))
}

func (s *Server) handleGenerate(c *echo.Context) error {
	if s.service == nil {
		recordGenerateRequest("error")
		return writeServerError(c, "generation service not configured")
	}
	req, err := decodeJSON[GenerateRequest](c.Request().Body)
	if err != nil {
		recordGenerateRequest("invalid")
		return writeBadRequest(c, err.Error())
	}

	var (
		writer *SSEStreamWriter
		stream StreamWriter
	)
	if req.Stream != nil && *req.Stream {
		w, err := NewSSEStreamWriter(c)
		if err != nil {
			recordGenerateRequest("invalid")
			return writeBadRequest(c, err.Error())
		}
		writer = w
		stream = w
	}

	start := timeNow()
	resp, err := s.service.CreateGeneration(c.Request().Context(), &req, stream)
	recordGenerateDuration(timeNow().Sub(start).Seconds())
	if err != nil {
		// Once events are flowing the error already went out in-band.
		if writer != nil && writer.Started() {
			recordGenerateRequest("error")
			return nil
		}
		if errors.Is(err, ErrInvalidRequest) || errors.Is(err, inference.ErrInvalidConfig) {
			recordGenerateRequest("invalid")
			return writeBadRequest(c, err.Error())
		}
		recordGenerateRequest("error")
		return writeServerError(c, err.Error())
	}

	recordGenerateRequest("ok")
	recordTokenGeneration(resp.Stats.TokensGenerated)
	if writer != nil {
		return nil
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleHealthz(c *echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ok",
		"version": version.String(),
	})
}

// wrapHandler adapts a plain http.Handler to an echo handler.
func wrapHandler(h http.Handler) func(c *echo.Context) error {
	return func(c *echo.Context) error {
		h.ServeHTTP(c.Response(), c.Request())
		return nil
	}
}
