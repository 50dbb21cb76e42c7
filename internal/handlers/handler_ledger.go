package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hasnin090/tariq-sub000/internal/apperrors"
	portssvc "github.com/hasnin090/tariq-sub000/internal/core/ports/services"
	"github.com/hasnin090/tariq-sub000/internal/middleware"
)

// ledgerEntryHandler handles the admin-only deletion of ledger entries.
type ledgerEntryHandler struct {
	settlementService portssvc.SettlementSvcFacade
}

// newLedgerEntryHandler creates a new ledgerEntryHandler.
func newLedgerEntryHandler(ss portssvc.SettlementSvcFacade) *ledgerEntryHandler {
	return &ledgerEntryHandler{
		settlementService: ss,
	}
}

// registerLedgerEntryRoutes registers routes related to ledger entries.
func registerLedgerEntryRoutes(rg *gin.RouterGroup, settlementService portssvc.SettlementSvcFacade) {
	h := newLedgerEntryHandler(settlementService)

	entries := rg.Group("/ledger-entries")
	{
		entries.DELETE("/:id", h.deleteLedgerEntry)
	}
}

// deleteLedgerEntry godoc
// @Summary Delete a ledger entry
// @Description Removes a ledger entry, unwinds the installments it funded and rebalances the remaining schedule
// @Tags ledger-entries
// @Produce  json
// @Param   id path string true "Ledger entry ID"
// @Success 204 "Ledger entry deleted"
// @Failure 404 {object} map[string]string "Ledger entry not found"
// @Failure 409 {object} map[string]string "Ledger integrity violation"
// @Failure 500 {object} map[string]string "Failed to delete ledger entry"
// @Router /ledger-entries/{id} [delete]
func (h *ledgerEntryHandler) deleteLedgerEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("id")

	actorID, _ := middleware.GetActorIDFromContext(c)
	logger.Info("Received request to delete ledger entry", slog.String("entry_id", entryID))

	err := h.settlementService.DeleteLedgerEntry(c.Request.Context(), entryID, actorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Ledger entry not found", slog.String("entry_id", entryID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Ledger entry not found"})
		} else if errors.Is(err, apperrors.ErrIntegrity) {
			logger.Error("Integrity violation deleting ledger entry", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to delete ledger entry in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete ledger entry"})
		}
		return
	}

	logger.Info("Ledger entry deleted successfully", slog.String("entry_id", entryID))
	c.Status(http.StatusNoContent)
}
