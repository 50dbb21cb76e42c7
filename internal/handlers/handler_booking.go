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

// bookingHandler handles HTTP requests related to bookings: creation, reads,
// the authoritative remaining balance, the ledger and extra payments.
type bookingHandler struct {
	bookingService      portssvc.BookingSvcFacade
	ledgerService       portssvc.LedgerReaderSvcFacade
	extraPaymentService portssvc.ExtraPaymentSvcFacade
}

// newBookingHandler creates a new bookingHandler.
func newBookingHandler(bs portssvc.BookingSvcFacade, ls portssvc.LedgerReaderSvcFacade, es portssvc.ExtraPaymentSvcFacade) *bookingHandler {
	return &bookingHandler{
		bookingService:      bs,
		ledgerService:       ls,
		extraPaymentService: es,
	}
}

// registerBookingRoutes registers routes related to bookings.
func registerBookingRoutes(rg *gin.RouterGroup, bookingService portssvc.BookingSvcFacade, ledgerService portssvc.LedgerReaderSvcFacade, extraPaymentService portssvc.ExtraPaymentSvcFacade) {
	h := newBookingHandler(bookingService, ledgerService, extraPaymentService)

	bookings := rg.Group("/bookings")
	{
		bookings.POST("", h.createBooking)
		bookings.GET("", h.listBookings)
		bookings.GET("/:id", h.getBooking)
		bookings.GET("/:id/remaining", h.getRemaining)
		bookings.GET("/:id/ledger", h.listLedgerEntries)
		bookings.GET("/:id/extra-payments", h.listExtraPayments)
		bookings.POST("/:id/extra-payments", h.recordExtraPayment)
	}
}

// createBooking godoc
// @Summary Create a new booking
// @Description Creates a booking with its deposit ledger entry and initial installment schedule in one transaction
// @Tags bookings
// @Accept  json
// @Produce  json
// @Param   booking body dto.CreateBookingRequest true "Booking details"
// @Success 201 {object} dto.BookingResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 404 {object} map[string]string "Unit or customer not found"
// @Failure 500 {object} map[string]string "Failed to create booking"
// @Router /bookings [post]
func (h *bookingHandler) createBooking(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateBooking", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, _ := middleware.GetActorIDFromContext(c)
	logger.Info("Received request to create booking", slog.String("unit_id", req.UnitID), slog.String("customer_id", req.CustomerID))

	newBooking, err := h.bookingService.CreateBooking(c.Request.Context(), req, actorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error creating booking", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Dependency not found creating booking", slog.String("error", err.Error()))
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create booking in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create booking"})
		}
		return
	}

	logger.Info("Booking created successfully", slog.String("booking_id", newBooking.BookingID))
	c.JSON(http.StatusCreated, dto.ToBookingResponse(newBooking))
}

// getBooking godoc
// @Summary Get a booking with its schedule
// @Description Retrieves a booking and its full installment schedule
// @Tags bookings
// @Produce  json
// @Param   id path string true "Booking ID"
// @Success 200 {object} dto.BookingWithScheduleResponse
// @Failure 404 {object} map[string]string "Booking not found"
// @Failure 500 {object} map[string]string "Failed to retrieve booking"
// @Router /bookings/{id} [get]
func (h *bookingHandler) getBooking(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	bookingID := c.Param("id")

	booking, installments, err := h.bookingService.GetBookingWithSchedule(c.Request.Context(), bookingID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Booking not found", slog.String("booking_id", bookingID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		} else {
			logger.Error("Failed to get booking from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve booking"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.BookingWithScheduleResponse{
		Booking:      dto.ToBookingResponse(booking),
		Installments: dto.ToInstallmentResponses(installments),
	})
}

// listBookings godoc
// @Summary List bookings
// @Description Retrieves bookings ordered by creation time
// @Tags bookings
// @Produce  json
// @Param   limit query int false "Page size" default(20)
// @Param   offset query int false "Offset" default(0)
// @Success 200 {array} dto.BookingResponse
// @Failure 500 {object} map[string]string "Failed to list bookings"
// @Router /bookings [get]
func (h *bookingHandler) listBookings(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	bookings, err := h.bookingService.ListBookings(c.Request.Context(), limit, offset)
	if err != nil {
		logger.Error("Failed to list bookings from service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list bookings"})
		return
	}

	responses := make([]dto.BookingResponse, len(bookings))
	for i, b := range bookings {
		responses[i] = dto.ToBookingResponse(&b)
	}
	c.JSON(http.StatusOK, responses)
}

// getRemaining godoc
// @Summary Get the remaining balance of a booking
// @Description Computes the authoritative remaining balance from the payment ledger
// @Tags bookings
// @Produce  json
// @Param   id path string true "Booking ID"
// @Success 200 {object} dto.RemainingResponse
// @Failure 404 {object} map[string]string "Booking not found"
// @Failure 500 {object} map[string]string "Failed to compute remaining balance"
// @Router /bookings/{id}/remaining [get]
func (h *bookingHandler) getRemaining(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	bookingID := c.Param("id")

	summary, err := h.ledgerService.GetRemaining(c.Request.Context(), bookingID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Booking not found", slog.String("booking_id", bookingID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		} else if errors.Is(err, apperrors.ErrIntegrity) {
			logger.Error("Ledger integrity violation reading remaining", slog.String("booking_id", bookingID), slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to compute remaining balance", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute remaining balance"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToRemainingResponse(summary))
}

// listLedgerEntries godoc
// @Summary List ledger entries of a booking
// @Description Retrieves a paginated list of ledger entries, newest first
// @Tags bookings
// @Produce  json
// @Param   id path string true "Booking ID"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Pagination token from a previous response"
// @Success 200 {object} dto.ListLedgerEntriesResponse
// @Failure 400 {object} map[string]string "Invalid pagination token"
// @Failure 404 {object} map[string]string "Booking not found"
// @Failure 500 {object} map[string]string "Failed to list ledger entries"
// @Router /bookings/{id}/ledger [get]
func (h *bookingHandler) listLedgerEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	bookingID := c.Param("id")

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	var nextToken *string
	if token := c.Query("nextToken"); token != "" {
		nextToken = &token
	}

	entries, newNextToken, err := h.ledgerService.ListLedgerEntries(c.Request.Context(), bookingID, limit, nextToken)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Booking not found", slog.String("booking_id", bookingID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		} else {
			logger.Error("Failed to list ledger entries", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list ledger entries"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ListLedgerEntriesResponse{
		Entries:   dto.ToLedgerEntryResponses(entries),
		NextToken: newNextToken,
	})
}

// listExtraPayments godoc
// @Summary List extra payments of a booking
// @Description Retrieves the extra payment audit records of a booking, newest first
// @Tags bookings
// @Produce  json
// @Param   id path string true "Booking ID"
// @Success 200 {array} dto.ExtraPaymentRecordResponse
// @Failure 404 {object} map[string]string "Booking not found"
// @Failure 500 {object} map[string]string "Failed to list extra payments"
// @Router /bookings/{id}/extra-payments [get]
func (h *bookingHandler) listExtraPayments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	bookingID := c.Param("id")

	records, err := h.ledgerService.ListExtraPayments(c.Request.Context(), bookingID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Booking not found", slog.String("booking_id", bookingID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		} else {
			logger.Error("Failed to list extra payments", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list extra payments"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToExtraPaymentRecordResponses(records))
}

// recordExtraPayment godoc
// @Summary Record an extra payment
// @Description Records an out-of-plan payment and reschedules the unpaid installments under the chosen strategy
// @Tags bookings
// @Accept  json
// @Produce  json
// @Param   id path string true "Booking ID"
// @Param   payment body dto.ExtraPaymentRequest true "Payment details and reschedule strategy"
// @Success 201 {object} dto.ExtraPaymentResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 404 {object} map[string]string "Booking not found"
// @Failure 409 {object} map[string]string "Ledger integrity violation"
// @Failure 500 {object} map[string]string "Failed to record extra payment"
// @Router /bookings/{id}/extra-payments [post]
func (h *bookingHandler) recordExtraPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	bookingID := c.Param("id")

	var req dto.ExtraPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RecordExtraPayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, _ := middleware.GetActorIDFromContext(c)
	logger.Info("Received request to record extra payment", slog.String("booking_id", bookingID), slog.String("strategy", req.Strategy))

	entry, installments, err := h.extraPaymentService.RecordExtraPayment(c.Request.Context(), bookingID, req, actorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error recording extra payment", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Booking not found", slog.String("booking_id", bookingID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		} else if errors.Is(err, apperrors.ErrIntegrity) {
			logger.Error("Integrity violation recording extra payment", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to record extra payment in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record extra payment"})
		}
		return
	}

	booking, err := h.bookingService.GetBookingByID(c.Request.Context(), bookingID)
	if err != nil {
		logger.Error("Failed to reload booking after extra payment", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Extra payment recorded but booking reload failed"})
		return
	}

	logger.Info("Extra payment recorded successfully", slog.String("entry_id", entry.EntryID))
	c.JSON(http.StatusCreated, dto.ExtraPaymentResponse{
		LedgerEntry:     dto.ToLedgerEntryResponse(entry),
		UpdatedSchedule: dto.ToInstallmentResponses(installments),
		BookingStatus:   string(booking.Status),
	})
}
