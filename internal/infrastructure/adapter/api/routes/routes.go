package routes

import (
	"context"
	"net/http"

	coreport "github.com/amirhossein-jamali/arena-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/arena-ledger/internal/infrastructure/adapter/api/handler"
	"github.com/amirhossein-jamali/arena-ledger/internal/infrastructure/adapter/api/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers groups the HTTP handlers of the adapter
type Handlers struct {
	Auth       *handler.AuthHandler
	Account    *handler.AccountHandler
	Tournament *handler.TournamentHandler
	Admin      *handler.AdminHandler
}

// HealthCheck reports whether the backing store is reachable
type HealthCheck func(ctx context.Context) error

// SetupRoutes configures all the routes for the API
func SetupRoutes(
	router *gin.Engine,
	h Handlers,
	session middleware.SessionSource,
	health HealthCheck,
	gatherer prometheus.Gatherer,
) {
	router.GET("/healthz", func(c *gin.Context) {
		if health != nil {
			if err := health(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	authRoutes := router.Group("/auth")
	{
		authRoutes.GET("/status", h.Auth.Status)
		authRoutes.POST("/begin", h.Auth.Begin)
		authRoutes.POST("/resend", h.Auth.Resend)
		authRoutes.POST("/verify", h.Auth.Verify)
		authRoutes.POST("/signout", h.Auth.SignOut)
	}

	// Public reads
	router.GET("/tournaments", h.Tournament.List)
	router.GET("/tournaments/:id", h.Tournament.Get)
	router.GET("/notifications", h.Account.Notifications)
	router.POST("/notifications/read-all", h.Account.MarkAllRead)
	router.GET("/notice", h.Account.Notice)
	router.GET("/theme", h.Account.Theme)
	router.PUT("/theme", h.Account.SetTheme)

	signedIn := router.Group("/", middleware.RequireSession(session))
	{
		signedIn.GET("/session", h.Auth.Session)
		signedIn.PUT("/session/profile", h.Account.UpdateProfile)

		signedIn.POST("/tournaments/:id/join", h.Tournament.Join)

		signedIn.GET("/me/tournaments", h.Account.MyTournaments)
		signedIn.GET("/me/transactions", h.Account.MyTransactions)
		signedIn.GET("/me/history", h.Account.MyHistory)

		signedIn.POST("/wallet/deposit", h.Account.Deposit)
		signedIn.POST("/wallet/withdraw", h.Account.Withdraw)
	}

	admin := router.Group("/admin", middleware.RequireSession(session))
	{
		admin.POST("/tournaments", h.Admin.CreateTournament)
		admin.PUT("/tournaments/:id", h.Admin.EditTournament)
		admin.DELETE("/tournaments/:id", h.Admin.DeleteTournament)

		admin.GET("/users", h.Admin.ListUsers)
		admin.DELETE("/users/:id", h.Admin.DeleteUser)
		admin.POST("/users/:id/adjust", h.Admin.AdjustWallet)
		admin.POST("/users/:id/award", h.Admin.AwardWinning)
		admin.PUT("/users/:id/role", h.Admin.SetRole)

		admin.PUT("/notice", h.Admin.SetNotice)
		admin.POST("/notifications", h.Admin.PushNotification)
	}
}

// SetupMiddlewares configures global middlewares for the API
func SetupMiddlewares(router *gin.Engine, logger coreport.Logger, timeProvider coreport.TimeProvider, reg prometheus.Registerer) {
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.Logger(logger, timeProvider))
	router.Use(middleware.Metrics(reg))
	router.Use(middleware.CORS())
}
