package appointment

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/medhub/ambulatorio-api/internal/handler"
	"github.com/medhub/ambulatorio-api/internal/model"
	"github.com/medhub/ambulatorio-api/internal/service/appointment"
)

type Handler struct {
	appointments *appointment.Service
}

func NewHandler(appointments *appointment.Service) *Handler {
	return &Handler{appointments: appointments}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	appointments := rg.Group("/appointments")
	{
		appointments.POST("", h.create)
		appointments.GET("", h.list)
		appointments.GET("/:id", h.get)
		appointments.PUT("/:id", h.update)
		appointments.DELETE("/:id", h.delete)
	}
}

func (h *Handler) create(c *gin.Context) {
	var req model.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.Ambulatorio.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ambulatorio"})
		return
	}
	created, err := h.appointments.Create(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) list(c *gin.Context) {
	filters := &model.AppointmentFilters{
		Ambulatorio: model.Ambulatorio(c.Query("ambulatorio")),
		PatientID:   c.Query("patient_id"),
		Data:        c.Query("data"),
		DataFrom:    c.Query("data_from"),
		DataTo:      c.Query("data_to"),
		Stato:       model.AppointmentStato(c.Query("stato")),
	}
	if limit := c.Query("limit"); limit != "" {
		if n, err := strconv.ParseInt(limit, 10, 64); err == nil {
			filters.Limit = n
		}
	}
	appointments, err := h.appointments.List(c.Request.Context(), filters)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointments": appointments, "count": len(appointments)})
}

func (h *Handler) get(c *gin.Context) {
	a, err := h.appointments.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *Handler) update(c *gin.Context) {
	var req model.UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	a, err := h.appointments.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.appointments.Delete(c.Request.Context(), c.Param("id")); err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "appointment deleted"})
}
