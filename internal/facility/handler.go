package facility

import (
	"errors"
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/toruke/2tm1-ParkEase/internal/api"
	"github.com/toruke/2tm1-ParkEase/internal/lot"
	"github.com/toruke/2tm1-ParkEase/internal/subscription"
)

var platePattern = regexp.MustCompile(`^[A-Za-z0-9-]{2,12}$`)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type monthsRequest struct {
	Months int `json:"months" validate:"required,gte=1,lte=120"`
}

func plateParam(c *gin.Context) (string, bool) {
	plate := c.Param("plate")
	if !platePattern.MatchString(plate) {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid plate"})
		return "", false
	}
	return plate, true
}

func respondDomainError(c *gin.Context, err error) {
	status := http.StatusInternalServerError

	var dup *lot.DuplicateEntryError
	var unknown *lot.UnknownVehicleError
	var active *subscription.AlreadyActiveError
	switch {
	case errors.Is(err, lot.ErrLotFull):
		status = http.StatusConflict
	case errors.As(err, &dup):
		status = http.StatusConflict
	case errors.As(err, &unknown):
		status = http.StatusNotFound
	case errors.As(err, &active):
		status = http.StatusConflict
	case errors.Is(err, subscription.ErrNoSubscription):
		status = http.StatusNotFound
	case errors.Is(err, subscription.ErrInvalidLength):
		status = http.StatusBadRequest
	}

	c.JSON(status, api.ErrorResponse{Error: err.Error()})
}

// CheckIn admits a vehicle through the gate.
func (h *Handler) CheckIn(c *gin.Context) {
	plate, ok := plateParam(c)
	if !ok {
		return
	}

	available, err := h.svc.CheckIn(c.Request.Context(), plate)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, CheckInResponse{Plate: plate, Available: available})
}

// CheckOut releases a vehicle and returns its receipt.
func (h *Handler) CheckOut(c *gin.Context) {
	plate, ok := plateParam(c)
	if !ok {
		return
	}

	r, err := h.svc.CheckOut(c.Request.Context(), plate)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, ReceiptResponse{
		Plate:           r.Plate,
		Duration:        r.Duration.String(),
		DurationSeconds: int64(r.Duration.Seconds()),
		AmountDue:       r.Amount,
		Subscription:    subscriptionInfo(r.Sub, time.Now()),
	})
}

// Spaces reports availability.
func (h *Handler) Spaces(c *gin.Context) {
	available, total := h.svc.Spaces()
	c.JSON(http.StatusOK, SpacesResponse{Available: available, Total: total})
}

// Register pre-registers a plate without a physical entry.
func (h *Handler) Register(c *gin.Context) {
	plate, ok := plateParam(c)
	if !ok {
		return
	}

	if err := h.svc.Register(c.Request.Context(), plate); err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, api.MessageResponse{Message: "vehicle registered"})
}

// Subscribe sells a monthly pass.
func (h *Handler) Subscribe(c *gin.Context) {
	plate, ok := plateParam(c)
	if !ok {
		return
	}

	var req monthsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request body"})
		return
	}
	if errs := api.ValidateStruct(req); len(errs) > 0 {
		api.RespondWithValidationErrors(c, errs)
		return
	}

	sub, price, err := h.svc.Subscribe(c.Request.Context(), plate, req.Months)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, SubscriptionResponse{
		Subscription: *subscriptionInfo(sub, time.Now()),
		Price:        price,
	})
}

// ExtendSubscription lengthens an existing pass.
func (h *Handler) ExtendSubscription(c *gin.Context) {
	plate, ok := plateParam(c)
	if !ok {
		return
	}

	var req monthsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request body"})
		return
	}
	if errs := api.ValidateStruct(req); len(errs) > 0 {
		api.RespondWithValidationErrors(c, errs)
		return
	}

	sub, price, err := h.svc.ExtendSubscription(c.Request.Context(), plate, req.Months)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, SubscriptionResponse{
		Subscription: *subscriptionInfo(sub, time.Now()),
		Price:        price,
	})
}

// GetSubscription shows the plate's pass.
func (h *Handler) GetSubscription(c *gin.Context) {
	plate, ok := plateParam(c)
	if !ok {
		return
	}

	sub, err := h.svc.SubscriptionInfo(plate)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, subscriptionInfo(sub, time.Now()))
}

// Report aggregates every ticket into occupancy histograms.
func (h *Handler) Report(c *gin.Context) {
	r := h.svc.Report()
	peakDays, dayCount := r.PeakDays()
	peakHours, hourCount := r.PeakHours()

	c.JSON(http.StatusOK, ReportResponse{
		PerDay:        r.PerDay,
		PerHour:       r.PerHour,
		PeakDays:      peakDays,
		PeakDayCount:  dayCount,
		PeakHours:     peakHours,
		PeakHourCount: hourCount,
	})
}
