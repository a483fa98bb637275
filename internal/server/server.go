package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	authdomain "github.com/storekeeplabs/storekeep/internal/auth/domain"
	"github.com/storekeeplabs/storekeep/internal/config"
	"github.com/storekeeplabs/storekeep/internal/observability"
	productdomain "github.com/storekeeplabs/storekeep/internal/product/domain"
	scheduledomain "github.com/storekeeplabs/storekeep/internal/schedule/domain"
	taskdomain "github.com/storekeeplabs/storekeep/internal/task/domain"
	userdomain "github.com/storekeeplabs/storekeep/internal/user/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Server struct {
	cfg     config.Config
	log     *zap.Logger
	metrics *observability.Metrics

	authSvc     authdomain.Service
	productSvc  productdomain.Service
	userSvc     userdomain.Service
	scheduleSvc scheduledomain.Service
	taskSvc     taskdomain.Service
}

type Params struct {
	fx.In

	Config  config.Config
	Log     *zap.Logger
	Metrics *observability.Metrics

	AuthSvc     authdomain.Service
	ProductSvc  productdomain.Service
	UserSvc     userdomain.Service
	ScheduleSvc scheduledomain.Service
	TaskSvc     taskdomain.Service
}

func NewServer(p Params) *Server {
	return &Server{
		cfg:         p.Config,
		log:         p.Log.Named("server"),
		metrics:     p.Metrics,
		authSvc:     p.AuthSvc,
		productSvc:  p.ProductSvc,
		userSvc:     p.UserSvc,
		scheduleSvc: p.ScheduleSvc,
		taskSvc:     p.TaskSvc,
	}
}

func NewEngine(cfg config.Config, log *zap.Logger, metrics *observability.Metrics) *gin.Engine {
	if !cfg.Server.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestLogger(log.Named("http")))
	engine.Use(metrics.Middleware())
	return engine
}

// requestLogger tags every request with an id and logs its outcome.
func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.NewString()
		c.Set("request_id", requestID)
		c.Header("X-Request-Id", requestID)

		start := time.Now()
		c.Next()

		log.Info("request",
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

func RunHTTP(lc fx.Lifecycle, engine *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: engine,
	}

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			log.Info("http server starting", zap.String("addr", cfg.Server.Addr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("http server shutting down")
			return srv.Shutdown(ctx)
		},
	})
}
