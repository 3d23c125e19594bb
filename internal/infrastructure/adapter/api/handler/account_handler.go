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

// AccountHandler serves the signed-in user's wallet, profile and feeds
type AccountHandler struct {
	ledger usecase.LedgerUseCase
	logger coreport.Logger
}

// NewAccountHandler creates a new account handler instance
func NewAccountHandler(ledger usecase.LedgerUseCase, logger coreport.Logger) *AccountHandler {
	return &AccountHandler{
		ledger: ledger,
		logger: logger,
	}
}

// Deposit handles POST /wallet/deposit
func (h *AccountHandler) Deposit(c *gin.Context) {
	var req dto.AmountRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.ledger.Deposit(c.Request.Context(), middleware.SessionUser(c).ID, req.Amount)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewWalletResponse(result.User, result.Transaction))
}

// Withdraw handles POST /wallet/withdraw
func (h *AccountHandler) Withdraw(c *gin.Context) {
	var req dto.AmountRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.ledger.Withdraw(c.Request.Context(), middleware.SessionUser(c).ID, req.Amount)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewWalletResponse(result.User, result.Transaction))
}

// UpdateProfile handles PUT /session/profile
func (h *AccountHandler) UpdateProfile(c *gin.Context) {
	var req dto.ProfileRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.ledger.UpdateProfile(c.Request.Context(), middleware.SessionUser(c).ID, ledger.ProfileUpdate{
		GameName: req.GameName,
		Email:    req.Email,
		Phone:    req.Phone,
		Avatar:   req.Avatar,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserResponse(user))
}

// MyTournaments handles GET /me/tournaments
func (h *AccountHandler) MyTournaments(c *gin.Context) {
	list, err := h.ledger.MyTournaments(c.Request.Context(), middleware.SessionUser(c).ID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewTournamentListResponse(list))
}

// MyTransactions handles GET /me/transactions
func (h *AccountHandler) MyTransactions(c *gin.Context) {
	entries, err := h.ledger.ListTransactions(c.Request.Context(), middleware.SessionUser(c).ID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewTransactionListResponse(entries))
}

// MyHistory handles GET /me/history
func (h *AccountHandler) MyHistory(c *gin.Context) {
	history, err := h.ledger.GameHistory(c.Request.Context(), middleware.SessionUser(c).ID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewMatchHistoryListResponse(history))
}

// Notifications handles GET /notifications
func (h *AccountHandler) Notifications(c *gin.Context) {
	list, err := h.ledger.ListNotifications(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewNotificationListResponse(list))
}

// MarkAllRead handles POST /notifications/read-all
func (h *AccountHandler) MarkAllRead(c *gin.Context) {
	n, err := h.ledger.MarkAllNotificationsRead(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.MarkReadResponse{Updated: n})
}

// Notice handles GET /notice
func (h *AccountHandler) Notice(c *gin.Context) {
	text, err := h.ledger.GlobalNotice(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NoticeBody{Text: text})
}

// Theme handles GET /theme
func (h *AccountHandler) Theme(c *gin.Context) {
	theme, err := h.ledger.Theme(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.ThemeBody{Theme: string(theme)})
}

// SetTheme handles PUT /theme
func (h *AccountHandler) SetTheme(c *gin.Context) {
	var req dto.ThemeBody
	if !bindJSON(c, &req) {
		return
	}
	if err := h.ledger.SetTheme(c.Request.Context(), req.Theme); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, req)
}
