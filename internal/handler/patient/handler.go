package patient

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/medhub/ambulatorio-api/internal/handler"
	"github.com/medhub/ambulatorio-api/internal/middleware"
	"github.com/medhub/ambulatorio-api/internal/model"
	"github.com/medhub/ambulatorio-api/internal/service/patient"
)

type Handler struct {
	patients *patient.Service
}

func NewHandler(patients *patient.Service) *Handler {
	return &Handler{patients: patients}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	patients := rg.Group("/patients")
	{
		patients.POST("", h.create)
		patients.GET("", h.list)
		patients.POST("/batch", h.batchCreate)
		patients.PUT("/batch/status", h.batchStatus)
		patients.POST("/batch/delete", h.batchDelete)
		patients.GET("/:id", h.get)
		patients.PUT("/:id", h.update)
		patients.DELETE("/:id", h.delete)
	}
}

func hasSite(c *gin.Context) func(model.Ambulatorio) bool {
	claims := middleware.CurrentClaims(c)
	if claims == nil {
		return func(model.Ambulatorio) bool { return false }
	}
	return claims.HasAmbulatorio
}

func (h *Handler) create(c *gin.Context) {
	var req model.CreatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.Ambulatorio.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ambulatorio"})
		return
	}
	if !hasSite(c)(req.Ambulatorio) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Non hai accesso a questo ambulatorio"})
		return
	}
	if req.Ambulatorio == model.AmbulatorioVillaGinestre && req.Tipo != model.PatientTypePICC {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Villa delle Ginestre gestisce solo pazienti PICC"})
		return
	}
	created, err := h.patients.Create(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) list(c *gin.Context) {
	filters := &model.PatientFilters{
		Ambulatorio: model.Ambulatorio(c.Query("ambulatorio")),
		Tipo:        model.PatientType(c.Query("tipo")),
		Status:      model.PatientStatus(c.Query("status")),
		Search:      c.Query("search"),
	}
	if limit := c.Query("limit"); limit != "" {
		if n, err := strconv.ParseInt(limit, 10, 64); err == nil {
			filters.Limit = n
		}
	}
	patients, err := h.patients.List(c.Request.Context(), filters)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"patients": patients, "count": len(patients)})
}

func (h *Handler) get(c *gin.Context) {
	p, err := h.patients.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) update(c *gin.Context) {
	var req model.UpdatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := h.patients.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) batchCreate(c *gin.Context) {
	var req model.BatchCreatePatientsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, h.patients.BatchCreate(c.Request.Context(), &req, hasSite(c)))
}

func (h *Handler) batchStatus(c *gin.Context) {
	var req model.BatchStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.patients.BatchSetStatus(c.Request.Context(), &req, hasSite(c)))
}

func (h *Handler) batchDelete(c *gin.Context) {
	var req model.BatchDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.patients.BatchDelete(c.Request.Context(), &req, hasSite(c)))
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.patients.Delete(c.Request.Context(), c.Param("id")); err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "patient deleted"})
}
