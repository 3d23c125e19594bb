package handler

import (
	"net/http"

	coreport "github.com/amirhossein-jamali/arena-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/arena-ledger/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/arena-ledger/internal/infrastructure/adapter/api/dto"
	"github.com/amirhossein-jamali/arena-ledger/internal/infrastructure/adapter/api/middleware"
	"github.com/gin-gonic/gin"
)

// TournamentHandler serves the catalog and joins
type TournamentHandler struct {
	ledger usecase.LedgerUseCase
	logger coreport.Logger
}

// NewTournamentHandler creates a new tournament handler instance
func NewTournamentHandler(ledger usecase.LedgerUseCase, logger coreport.Logger) *TournamentHandler {
	return &TournamentHandler{
		ledger: ledger,
		logger: logger,
	}
}

// List handles GET /tournaments
func (h *TournamentHandler) List(c *gin.Context) {
	list, err := h.ledger.ListTournaments(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewTournamentListResponse(list))
}

// Get handles GET /tournaments/:id
func (h *TournamentHandler) Get(c *gin.Context) {
	t, err := h.ledger.GetTournament(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewTournamentResponse(t))
}

// Join handles POST /tournaments/:id/join
func (h *TournamentHandler) Join(c *gin.Context) {
	result, err := h.ledger.JoinTournament(c.Request.Context(), middleware.SessionUser(c).ID, c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.JoinResponse{
		Joined:     result.Joined,
		User:       dto.NewUserResponse(result.User),
		Tournament: dto.NewTournamentResponse(result.Tournament),
	})
}
