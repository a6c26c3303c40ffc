package server

import (
	"context"
	"fmt"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/mohammedgidrah/testing-hotel-sub000/config"
)

type echoServer struct {
	app *echo.Echo
	cfg *config.Config
}

func NewEchoServer(cfg *config.Config, log logrus.FieldLogger) Server {
	e := echo.New()
	e.HideBanner = true
	e.Validator = NewValidator()

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			entry := log.WithFields(logrus.Fields{
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency":    v.Latency.String(),
				"request_id": v.RequestID,
			})
			if v.Error != nil {
				entry.WithError(v.Error).Error("request failed")
				return nil
			}
			entry.Info("request")
			return nil
		},
	}))

	// Serve Swagger documentation
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return &echoServer{
		app: e,
		cfg: cfg,
	}
}

func (s *echoServer) Start() error {
	return s.app.Start(fmt.Sprintf(":%d", s.cfg.Server.Port))
}

func (s *echoServer) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *echoServer) GetEcho() *echo.Echo {
	return s.app
}
