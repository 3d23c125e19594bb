package routes_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/amirhossein-jamali/arena-ledger/internal/domain/error"
	"github.com/amirhossein-jamali/arena-ledger/internal/domain/usecase/auth"
	"github.com/amirhossein-jamali/arena-ledger/internal/domain/usecase/ledger"
	"github.com/amirhossein-jamali/arena-ledger/internal/domain/usecase/session"
	"github.com/amirhossein-jamali/arena-ledger/internal/infrastructure/adapter/api/dto"
	"github.com/amirhossein-jamali/arena-ledger/internal/infrastructure/adapter/api/handler"
	"github.com/amirhossein-jamali/arena-ledger/internal/infrastructure/adapter/api/routes"
	"github.com/amirhossein-jamali/arena-ledger/internal/infrastructure/adapter/idgen"
	"github.com/amirhossein-jamali/arena-ledger/internal/infrastructure/adapter/logger"
	"github.com/amirhossein-jamali/arena-ledger/internal/infrastructure/adapter/metrics"
	"github.com/amirhossein-jamali/arena-ledger/internal/infrastructure/adapter/repository"
	"github.com/amirhossein-jamali/arena-ledger/internal/infrastructure/adapter/store"
	"github.com/amirhossein-jamali/arena-ledger/internal/infrastructure/adapter/store/memory"
	timeProvider "github.com/amirhossein-jamali/arena-ledger/internal/infrastructure/adapter/time"
)

type server struct {
	router *gin.Engine
	clock  *timeProvider.ManualTimeProvider
}

func newServer(t *testing.T) *server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	kv := memory.NewStore()
	clock := timeProvider.NewManualTimeProvider(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	log := logger.NewNoopLogger()
	reg := prometheus.NewRegistry()

	seeder := repository.NewSeeder(kv, repository.DefaultSeedConfig(), clock)
	repos := ledger.Repositories{
		Users:         repository.NewUserRepository(kv, seeder, log),
		Sessions:      repository.NewSessionRepository(kv, log),
		Tournaments:   repository.NewTournamentRepository(kv, seeder, log),
		Transactions:  repository.NewTransactionRepository(kv, log),
		History:       repository.NewMatchHistoryRepository(kv, log),
		Notifications: repository.NewNotificationRepository(kv),
		Settings:      repository.NewSettingsRepository(kv),
		Seeder:        seeder,
	}
	engine := ledger.NewEngine(
		repos,
		session.NewContext(repos.Sessions),
		store.NewUnitOfWork(kv, log),
		store.NewLocalWriteLock(),
		idgen.NewSequenceGenerator("id"),
		clock,
		log,
		metrics.NewPrometheus(reg),
		ledger.DefaultPolicy(),
	)
	require.NoError(t, engine.Open(context.Background()))
	flow := auth.NewFlow(engine, clock, log, 30*time.Second)

	router := gin.New()
	routes.SetupMiddlewares(router, log, clock, reg)
	routes.SetupRoutes(router, routes.Handlers{
		Auth:       handler.NewAuthHandler(flow, engine, log),
		Account:    handler.NewAccountHandler(engine, log),
		Tournament: handler.NewTournamentHandler(engine, log),
		Admin:      handler.NewAdminHandler(engine, log),
	}, engine, nil, reg)

	return &server{router: router, clock: clock}
}

func (s *server) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func (s *server) signUp(t *testing.T, name, phone string) dto.UserResponse {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/auth/begin", dto.BeginRequest{
		Mode: "create", Name: name, Phone: phone, Password: "secret123",
	})
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	rec = s.do(t, http.MethodPost, "/auth/verify", dto.VerifyRequest{Code: "000000"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[dto.UserResponse](t, rec)
}

func TestRoutes_Health(t *testing.T) {
	s := newServer(t)

	rec := s.do(t, http.MethodGet, "/healthz", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRoutes_LoginFlow(t *testing.T) {
	t.Run("should walk a new player through the OTP flow", func(t *testing.T) {
		// Arrange
		s := newServer(t)

		// Act
		rec := s.do(t, http.MethodPost, "/auth/begin", dto.BeginRequest{
			Mode: "create", Name: "rahim", GameName: "Rahim", Phone: "01711111111", Password: "secret123",
		})

		// Assert
		require.Equal(t, http.StatusAccepted, rec.Code)
		status := decode[dto.AuthStatusResponse](t, rec)
		assert.Equal(t, "otp-pending", status.State)
		assert.Equal(t, 30, status.ResendInSeconds)

		rec = s.do(t, http.MethodPost, "/auth/resend", nil)
		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.Equal(t, string(errs.KindCooldown), decode[dto.ErrorResponse](t, rec).Kind)

		s.clock.Advance(31 * time.Second)
		rec = s.do(t, http.MethodPost, "/auth/resend", nil)
		assert.Equal(t, http.StatusOK, rec.Code)

		rec = s.do(t, http.MethodPost, "/auth/verify", dto.VerifyRequest{Code: "424242"})
		require.Equal(t, http.StatusOK, rec.Code)
		user := decode[dto.UserResponse](t, rec)
		assert.Equal(t, "100.00", user.Wallet)
		assert.Equal(t, "01711111111@ludotaka.com", user.Email)

		rec = s.do(t, http.MethodGet, "/session", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, user.ID, decode[dto.UserResponse](t, rec).ID)
	})

	t.Run("should reject a malformed form", func(t *testing.T) {
		s := newServer(t)

		rec := s.do(t, http.MethodPost, "/auth/begin", `{"mode":"create"`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec = s.do(t, http.MethodPost, "/auth/begin", dto.BeginRequest{
			Mode: "create", Name: "rahim", Phone: "123", Password: "secret123",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, string(errs.KindValidation), decode[dto.ErrorResponse](t, rec).Kind)
	})

	t.Run("should refuse a handle that already holds a seat", func(t *testing.T) {
		s := newServer(t)

		rec := s.do(t, http.MethodPost, "/auth/begin", dto.BeginRequest{
			Mode: "create", Name: "tarek_ludo", Phone: "01711111111", Password: "secret123",
		})

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, string(errs.KindConflict), decode[dto.ErrorResponse](t, rec).Kind)
	})

	t.Run("should refuse a taken handle with a conflict", func(t *testing.T) {
		s := newServer(t)

		rec := s.do(t, http.MethodPost, "/auth/begin", dto.BeginRequest{
			Mode: "create", Name: "admin", Phone: "01711111111", Password: "secret123",
		})

		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestRoutes_Wallet(t *testing.T) {
	t.Run("should require a session", func(t *testing.T) {
		s := newServer(t)

		rec := s.do(t, http.MethodPost, "/wallet/deposit", dto.AmountRequest{Amount: "10"})

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("should join, then refuse a withdrawal the wallet cannot cover", func(t *testing.T) {
		// Arrange
		s := newServer(t)
		s.signUp(t, "rahim", "01711111111")

		// Act
		rec := s.do(t, http.MethodPost, "/tournaments/1001/join", nil)

		// Assert
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		joined := decode[dto.JoinResponse](t, rec)
		assert.True(t, joined.Joined)
		assert.Equal(t, "50.00", joined.User.Wallet)
		assert.Equal(t, 3, joined.Tournament.SlotsFilled)
		assert.Contains(t, joined.Tournament.ParticipantNames, "rahim")

		rec = s.do(t, http.MethodPost, "/wallet/withdraw", dto.AmountRequest{Amount: "100"})
		assert.Equal(t, http.StatusPaymentRequired, rec.Code)
		assert.Equal(t, string(errs.KindInsufficientFunds), decode[dto.ErrorResponse](t, rec).Kind)

		rec = s.do(t, http.MethodPost, "/wallet/deposit", dto.AmountRequest{Amount: "9.99"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec = s.do(t, http.MethodPost, "/wallet/deposit", dto.AmountRequest{Amount: "25.50"})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "75.50", decode[dto.WalletResponse](t, rec).User.Wallet)

		rec = s.do(t, http.MethodGet, "/me/transactions", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, decode[[]dto.TransactionResponse](t, rec), 2)
	})

	t.Run("should report a missing tournament", func(t *testing.T) {
		s := newServer(t)
		s.signUp(t, "rahim", "01711111111")

		rec := s.do(t, http.MethodPost, "/tournaments/9999/join", nil)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestRoutes_Admin(t *testing.T) {
	t.Run("should forbid a player", func(t *testing.T) {
		s := newServer(t)
		player := s.signUp(t, "rahim", "01711111111")

		rec := s.do(t, http.MethodPost, "/admin/users/"+player.ID+"/adjust", dto.AdjustRequest{Delta: "1000"})

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestRoutes_Metrics(t *testing.T) {
	s := newServer(t)
	s.do(t, http.MethodGet, "/tournaments", nil)
	s.signUp(t, "rahim", "01711111111")

	rec := s.do(t, http.MethodGet, "/metrics", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `arena_http_requests_total{method="GET",route="/tournaments",status="200"} 1`)
	assert.Contains(t, rec.Body.String(), "arena_ledger_operations_total")
}
