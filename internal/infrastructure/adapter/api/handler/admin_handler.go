package handler

import (
	"net/http"

	coreport "github.com/amirhossein-jamali/arena-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/arena-ledger/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/arena-ledger/internal/domain/usecase/ledger"
	"github.com/amirhossein-jamali/arena-ledger/internal/infrastructure/adapter/api/dto"
	"github.com/amirhossein-jamali/arena-ledger/internal/infrastructure/adapter/api/middleware"
	"github.com/gin-gonic/gin"
)

// AdminHandler serves administrative operations; the engine enforces the role
type AdminHandler struct {
	ledger usecase.LedgerUseCase
	logger coreport.Logger
}

// NewAdminHandler creates a new admin handler instance
func NewAdminHandler(ledger usecase.LedgerUseCase, logger coreport.Logger) *AdminHandler {
	return &AdminHandler{
		ledger: ledger,
		logger: logger,
	}
}

func actorID(c *gin.Context) string {
	return middleware.SessionUser(c).ID
}

// CreateTournament handles POST /admin/tournaments
func (h *AdminHandler) CreateTournament(c *gin.Context) {
	var req dto.TournamentRequest
	if !bindJSON(c, &req) {
		return
	}
	t, err := h.ledger.CreateTournament(c.Request.Context(), actorID(c), ledger.TournamentInput{
		Title:     req.Title,
		EntryFee:  req.EntryFee,
		PrizePool: req.PrizePool,
		Slots:     req.Slots,
		StartTime: req.StartTime,
		Status:    req.Status,
		Map:       req.Map,
		Type:      req.Type,
		RoomCode:  req.RoomCode,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewTournamentResponse(t))
}

// EditTournament handles PUT /admin/tournaments/:id
func (h *AdminHandler) EditTournament(c *gin.Context) {
	var req dto.TournamentPatchRequest
	if !bindJSON(c, &req) {
		return
	}
	t, err := h.ledger.EditTournament(c.Request.Context(), actorID(c), c.Param("id"), ledger.TournamentPatch{
		Title:     req.Title,
		EntryFee:  req.EntryFee,
		PrizePool: req.PrizePool,
		Slots:     req.Slots,
		StartTime: req.StartTime,
		Status:    req.Status,
		Map:       req.Map,
		Type:      req.Type,
		RoomCode:  req.RoomCode,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewTournamentResponse(t))
}

// DeleteTournament handles DELETE /admin/tournaments/:id
func (h *AdminHandler) DeleteTournament(c *gin.Context) {
	if err := h.ledger.DeleteTournament(c.Request.Context(), actorID(c), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListUsers handles GET /admin/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.ledger.ListUsers(c.Request.Context(), actorID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserListResponse(users))
}

// DeleteUser handles DELETE /admin/users/:id
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	if err := h.ledger.DeleteUser(c.Request.Context(), actorID(c), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AdjustWallet handles POST /admin/users/:id/adjust
func (h *AdminHandler) AdjustWallet(c *gin.Context) {
	var req dto.AdjustRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.ledger.AdminAdjustWallet(c.Request.Context(), actorID(c), c.Param("id"), req.Delta)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewWalletResponse(result.User, result.Transaction))
}

// AwardWinning handles POST /admin/users/:id/award
func (h *AdminHandler) AwardWinning(c *gin.Context) {
	var req dto.AwardRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.ledger.AwardWinning(c.Request.Context(), actorID(c), c.Param("id"), req.TournamentID, req.Amount)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewWalletResponse(result.User, result.Transaction))
}

// SetRole handles PUT /admin/users/:id/role
func (h *AdminHandler) SetRole(c *gin.Context) {
	var req dto.RoleRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.ledger.SetRole(c.Request.Context(), actorID(c), c.Param("id"), req.Role)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserResponse(user))
}

// SetNotice handles PUT /admin/notice
func (h *AdminHandler) SetNotice(c *gin.Context) {
	var req dto.NoticeBody
	if !bindJSON(c, &req) {
		return
	}
	if err := h.ledger.SetGlobalNotice(c.Request.Context(), actorID(c), req.Text); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// PushNotification handles POST /admin/notifications
func (h *AdminHandler) PushNotification(c *gin.Context) {
	var req dto.NotificationRequest
	if !bindJSON(c, &req) {
		return
	}
	n, err := h.ledger.PushNotification(c.Request.Context(), actorID(c), ledger.NotificationInput{
		Title:   req.Title,
		Message: req.Message,
		Type:    req.Type,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewNotificationResponse(n))
}
