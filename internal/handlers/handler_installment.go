package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hasnin090/tariq-sub000/internal/apperrors"
	portssvc "github.com/hasnin090/tariq-sub000/internal/core/ports/services"
	"github.com/hasnin090/tariq-sub000/internal/dto"
	"github.com/hasnin090/tariq-sub000/internal/middleware"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// installmentHandler handles HTTP requests related to installment settlement.
type installmentHandler struct {
	settlementService portssvc.SettlementSvcFacade
}

// newInstallmentHandler creates a new installmentHandler.
func newInstallmentHandler(ss portssvc.SettlementSvcFacade) *installmentHandler {
	return &installmentHandler{
		settlementService: ss,
	}
}

// registerInstallmentRoutes registers routes related to installments.
func registerInstallmentRoutes(rg *gin.RouterGroup, settlementService portssvc.SettlementSvcFacade) {
	h := newInstallmentHandler(settlementService)

	// Define rate limit: 60 settlement operations per minute per IP
	rate, _ := limiter.NewRateFromFormatted("60-M")
	store := memory.NewStore()
	ipLimiter := limiter.New(store, rate)
	limitMiddleware := middleware.RateLimit(ipLimiter)

	installments := rg.Group("/installments")
	{
		installments.POST("/:id/settle", limitMiddleware, h.settleInstallment)
		installments.POST("/:id/reverse", limitMiddleware, h.reverseSettlement)
	}
}

// settleInstallment godoc
// @Summary Settle an installment
// @Description Settles one installment in full under the sequential-payment rule and records the payment in the ledger
// @Tags installments
// @Accept  json
// @Produce  json
// @Param   id path string true "Installment ID"
// @Param   settlement body dto.SettleInstallmentRequest false "Settlement details"
// @Success 201 {object} dto.LedgerEntryResponse
// @Failure 400 {object} map[string]string "Sequential rule violated, already settled, or validation error"
// @Failure 404 {object} map[string]string "Installment not found"
// @Failure 409 {object} map[string]string "Ledger integrity violation"
// @Failure 500 {object} map[string]string "Failed to settle installment"
// @Router /installments/{id}/settle [post]
func (h *installmentHandler) settleInstallment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	installmentID := c.Param("id")

	// The body is optional: settling with no attachment, note or override date
	// is a plain empty POST.
	var req dto.SettleInstallmentRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.Warn("Failed to bind JSON for SettleInstallment", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
			return
		}
	}

	actorID, _ := middleware.GetActorIDFromContext(c)
	logger.Info("Received request to settle installment", slog.String("installment_id", installmentID))

	entry, err := h.settlementService.SettleInstallment(c.Request.Context(), installmentID, req, actorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error settling installment", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Installment not found", slog.String("installment_id", installmentID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Installment not found"})
		} else if errors.Is(err, apperrors.ErrIntegrity) {
			logger.Error("Integrity violation settling installment", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to settle installment in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to settle installment"})
		}
		return
	}

	logger.Info("Installment settled successfully", slog.String("entry_id", entry.EntryID))
	c.JSON(http.StatusCreated, dto.ToLedgerEntryResponse(entry))
}

// reverseSettlement godoc
// @Summary Reverse a settlement
// @Description Undoes a settlement: deletes the funding ledger entry and returns the installment to pending or overdue
// @Tags installments
// @Produce  json
// @Param   id path string true "Installment ID"
// @Success 204 "Settlement reversed"
// @Failure 400 {object} map[string]string "Installment is covered by an extra or final payment"
// @Failure 404 {object} map[string]string "Installment not found"
// @Failure 409 {object} map[string]string "Installment is not settled"
// @Failure 500 {object} map[string]string "Failed to reverse settlement"
// @Router /installments/{id}/reverse [post]
func (h *installmentHandler) reverseSettlement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	installmentID := c.Param("id")

	actorID, _ := middleware.GetActorIDFromContext(c)
	logger.Info("Received request to reverse settlement", slog.String("installment_id", installmentID))

	err := h.settlementService.ReverseSettlement(c.Request.Context(), installmentID, actorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Installment not found", slog.String("installment_id", installmentID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Installment not found"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Reversal rejected", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrIntegrity) {
			logger.Warn("Integrity violation reversing settlement", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to reverse settlement in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reverse settlement"})
		}
		return
	}

	logger.Info("Settlement reversed successfully", slog.String("installment_id", installmentID))
	c.Status(http.StatusNoContent)
}
