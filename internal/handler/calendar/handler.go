package calendar

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/medhub/ambulatorio-api/internal/handler"
	"github.com/medhub/ambulatorio-api/internal/middleware"
	"github.com/medhub/ambulatorio-api/internal/model"
	"github.com/medhub/ambulatorio-api/internal/service/calendar"
)

type Handler struct {
	calendars *calendar.Service
}

func NewHandler(calendars *calendar.Service) *Handler {
	return &Handler{calendars: calendars}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	cal := rg.Group("/calendar")
	{
		cal.GET("/time-slots", h.timeSlots)
		cal.GET("/holidays/:year", h.holidays)
	}

	closed := rg.Group("/closed-slots")
	{
		closed.POST("", h.closeSlots)
		closed.GET("", h.listClosed)
		closed.DELETE("/:id", h.reopen)
		closed.POST("/reopen-day", h.reopenDay)
	}
}

func hasSite(c *gin.Context, site model.Ambulatorio) bool {
	claims := middleware.CurrentClaims(c)
	return claims != nil && claims.HasAmbulatorio(site)
}

func (h *Handler) timeSlots(c *gin.Context) {
	c.JSON(http.StatusOK, h.calendars.Slots())
}

func (h *Handler) holidays(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year < 2000 || year > 2100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"anno": year, "festivita": h.calendars.Holidays(year)})
}

func (h *Handler) closeSlots(c *gin.Context) {
	var req model.CreateClosedSlotsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !hasSite(c, req.Ambulatorio) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Non hai accesso a questo ambulatorio"})
		return
	}
	created, err := h.calendars.CloseSlots(c.Request.Context(), middleware.CurrentUser(c), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"created": len(created), "slots": created})
}

func (h *Handler) listClosed(c *gin.Context) {
	site := model.Ambulatorio(c.Query("ambulatorio"))
	if !site.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ambulatorio"})
		return
	}
	if !hasSite(c, site) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Non hai accesso a questo ambulatorio"})
		return
	}
	slots, err := h.calendars.ClosedSlots(c.Request.Context(), &model.ClosedSlotFilters{
		Ambulatorio: site,
		Data:        c.Query("data"),
		DataFrom:    c.Query("data_from"),
		DataTo:      c.Query("data_to"),
	})
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, slots)
}

func (h *Handler) reopen(c *gin.Context) {
	slot, err := h.calendars.ClosedSlot(c.Request.Context(), c.Param("id"))
	if err != nil {
		handler.Error(c, err)
		return
	}
	if !hasSite(c, slot.Ambulatorio) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Non hai accesso a questo ambulatorio"})
		return
	}
	if err := h.calendars.Reopen(c.Request.Context(), slot.ID); err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Slot riaperto"})
}

func (h *Handler) reopenDay(c *gin.Context) {
	var req model.ReopenDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !hasSite(c, req.Ambulatorio) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Non hai accesso a questo ambulatorio"})
		return
	}
	count, err := h.calendars.ReopenDay(c.Request.Context(), req.Ambulatorio, req.Data)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("%d slot riaperti", count), "deleted_count": count})
}
