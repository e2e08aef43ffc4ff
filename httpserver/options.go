package httpserver

import (
	"errors"
	"fmt"
	"strings"

	"movieflix/movie"
	"movieflix/pkg/config"

	"go.uber.org/zap"
)

type Options func(s *Server) error

// WithConfig applies the listen port, CORS origins and poster directory.
func WithConfig(cfg *config.Config) Options {
	return func(s *Server) error {
		if cfg == nil {
			return errors.New("httpserver: nil config")
		}
		s.Config = cfg
		if cfg.Port > 0 {
			s.Addr = fmt.Sprintf(":%d", cfg.Port)
		}
		if cfg.AllowOrigins != "" {
			s.AllowOrigins = strings.Split(cfg.AllowOrigins, ",")
		}
		if cfg.Poster.Dir != "" {
			s.PosterDir = cfg.Poster.Dir
		}
		return nil
	}
}

func WithLogger(l *zap.SugaredLogger) Options {
	return func(s *Server) error {
		if l == nil {
			return errors.New("httpserver: nil logger")
		}
		s.Logger = l
		return nil
	}
}

func WithMovieService(svc movie.Service) Options {
	return func(s *Server) error {
		s.MovieService = svc
		return nil
	}
}

func WithPosterReader(r movie.PosterReader) Options {
	return func(s *Server) error {
		s.Posters = r
		return nil
	}
}
