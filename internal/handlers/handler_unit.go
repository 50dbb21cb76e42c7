package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hasnin090/tariq-sub000/internal/apperrors"
	portssvc "github.com/hasnin090/tariq-sub000/internal/core/ports/services"
	"github.com/hasnin090/tariq-sub000/internal/dto"
	"github.com/hasnin090/tariq-sub000/internal/middleware"
)

// unitHandler handles HTTP requests related to units.
type unitHandler struct {
	unitService portssvc.UnitSvcFacade
}

// newUnitHandler creates a new unitHandler.
func newUnitHandler(us portssvc.UnitSvcFacade) *unitHandler {
	return &unitHandler{
		unitService: us,
	}
}

// registerUnitRoutes registers routes related to units.
func registerUnitRoutes(rg *gin.RouterGroup, unitService portssvc.UnitSvcFacade) {
	h := newUnitHandler(unitService)

	units := rg.Group("/units")
	{
		units.POST("", h.createUnit)
		units.GET("/:id", h.getUnit)
		units.GET("", h.listUnits)
	}
}

// createUnit godoc
// @Summary Create a new unit
// @Description Creates a new sellable unit with its price
// @Tags units
// @Accept  json
// @Produce  json
// @Param   unit body dto.CreateUnitRequest true "Unit details"
// @Success 201 {object} dto.UnitResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 500 {object} map[string]string "Failed to create unit"
// @Router /units [post]
func (h *unitHandler) createUnit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateUnit", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, _ := middleware.GetActorIDFromContext(c)
	logger.Info("Received request to create unit", slog.String("unit_name", req.Name))

	newUnit, err := h.unitService.CreateUnit(c.Request.Context(), req, actorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error creating unit", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create unit in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create unit"})
		}
		return
	}

	logger.Info("Unit created successfully", slog.String("unit_id", newUnit.UnitID))
	c.JSON(http.StatusCreated, dto.ToUnitResponse(newUnit))
}

// getUnit godoc
// @Summary Get a unit by ID
// @Description Retrieves details for a specific unit by its ID
// @Tags units
// @Produce  json
// @Param   id path string true "Unit ID"
// @Success 200 {object} dto.UnitResponse
// @Failure 404 {object} map[string]string "Unit not found"
// @Failure 500 {object} map[string]string "Failed to retrieve unit"
// @Router /units/{id} [get]
func (h *unitHandler) getUnit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	unitID := c.Param("id")

	unit, err := h.unitService.GetUnitByID(c.Request.Context(), unitID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Unit not found", slog.String("unit_id", unitID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Unit not found"})
		} else {
			logger.Error("Failed to get unit from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve unit"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToUnitResponse(unit))
}

// listUnits godoc
// @Summary List units
// @Description Retrieves units ordered by creation time
// @Tags units
// @Produce  json
// @Param   limit query int false "Page size" default(20)
// @Param   offset query int false "Offset" default(0)
// @Success 200 {array} dto.UnitResponse
// @Failure 500 {object} map[string]string "Failed to list units"
// @Router /units [get]
func (h *unitHandler) listUnits(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	units, err := h.unitService.ListUnits(c.Request.Context(), limit, offset)
	if err != nil {
		logger.Error("Failed to list units from service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list units"})
		return
	}

	c.JSON(http.StatusOK, dto.ToUnitResponses(units))
}
