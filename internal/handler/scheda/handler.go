package scheda

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medhub/ambulatorio-api/internal/handler"
	"github.com/medhub/ambulatorio-api/internal/model"
	"github.com/medhub/ambulatorio-api/internal/service/scheda"
)

type Handler struct {
	schede *scheda.Service
}

func NewHandler(schede *scheda.Service) *Handler {
	return &Handler{schede: schede}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	impianto := rg.Group("/schede/impianto")
	{
		impianto.POST("", h.createImpianto)
		impianto.GET("/:id", h.getImpianto)
		impianto.PUT("/:id", h.updateImpianto)
		impianto.DELETE("/:id", h.deleteImpianto)
	}

	med := rg.Group("/schede/medicazione")
	{
		med.POST("", h.createMed)
		med.GET("/:id", h.getMed)
		med.PUT("/:id", h.updateMed)
		med.DELETE("/:id", h.deleteMed)
	}

	gestione := rg.Group("/schede/gestione")
	{
		gestione.POST("", h.createGestione)
		gestione.GET("/:id", h.getGestione)
		gestione.PUT("/:id", h.updateGestione)
		gestione.DELETE("/:id", h.deleteGestione)
		gestione.PUT("/:id/giorni/:day", h.setGiorno)
	}

	patients := rg.Group("/patients/:id")
	{
		patients.GET("/schede/impianto", h.listImpianto)
		patients.GET("/schede/medicazione", h.listMed)
		patients.GET("/schede/gestione", h.listGestione)
		patients.GET("/prescrizioni", h.listPrescrizioni)
		patients.PUT("/prescrizioni/:mese", h.upsertPrescrizione)
	}
}

func (h *Handler) createImpianto(c *gin.Context) {
	var scheda model.SchedaImpiantoPICC
	if err := c.ShouldBindJSON(&scheda); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	created, err := h.schede.CreateImpianto(c.Request.Context(), &scheda)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) getImpianto(c *gin.Context) {
	s, err := h.schede.GetImpianto(c.Request.Context(), c.Param("id"))
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *Handler) updateImpianto(c *gin.Context) {
	var scheda model.SchedaImpiantoPICC
	if err := c.ShouldBindJSON(&scheda); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	scheda.ID = c.Param("id")
	if err := h.schede.UpdateImpianto(c.Request.Context(), &scheda); err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, scheda)
}

func (h *Handler) deleteImpianto(c *gin.Context) {
	if err := h.schede.DeleteImpianto(c.Request.Context(), c.Param("id")); err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "scheda deleted"})
}

func (h *Handler) createMed(c *gin.Context) {
	var scheda model.SchedaMedicazioneMED
	if err := c.ShouldBindJSON(&scheda); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	created, err := h.schede.CreateMed(c.Request.Context(), &scheda)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) getMed(c *gin.Context) {
	s, err := h.schede.GetMed(c.Request.Context(), c.Param("id"))
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *Handler) updateMed(c *gin.Context) {
	var scheda model.SchedaMedicazioneMED
	if err := c.ShouldBindJSON(&scheda); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	scheda.ID = c.Param("id")
	if err := h.schede.UpdateMed(c.Request.Context(), &scheda); err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, scheda)
}

func (h *Handler) deleteMed(c *gin.Context) {
	if err := h.schede.DeleteMed(c.Request.Context(), c.Param("id")); err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "scheda deleted"})
}

func (h *Handler) createGestione(c *gin.Context) {
	var scheda model.SchedaGestionePICC
	if err := c.ShouldBindJSON(&scheda); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	created, err := h.schede.CreateGestione(c.Request.Context(), &scheda)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) getGestione(c *gin.Context) {
	s, err := h.schede.GetGestione(c.Request.Context(), c.Param("id"))
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *Handler) updateGestione(c *gin.Context) {
	var scheda model.SchedaGestionePICC
	if err := c.ShouldBindJSON(&scheda); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	scheda.ID = c.Param("id")
	if err := h.schede.UpdateGestione(c.Request.Context(), &scheda); err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, scheda)
}

func (h *Handler) deleteGestione(c *gin.Context) {
	if err := h.schede.DeleteGestione(c.Request.Context(), c.Param("id")); err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "scheda deleted"})
}

func (h *Handler) setGiorno(c *gin.Context) {
	var entry map[string]interface{}
	if err := c.ShouldBindJSON(&entry); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.schede.SetGestioneGiorno(c.Request.Context(), c.Param("id"), c.Param("day"), entry); err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "giorno updated"})
}

func (h *Handler) listImpianto(c *gin.Context) {
	schede, err := h.schede.ListImpiantoByPatient(c.Request.Context(), c.Param("id"))
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"schede": schede})
}

func (h *Handler) listMed(c *gin.Context) {
	schede, err := h.schede.ListMedByPatient(c.Request.Context(), c.Param("id"))
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"schede": schede})
}

func (h *Handler) listGestione(c *gin.Context) {
	schede, err := h.schede.ListGestioneByPatient(c.Request.Context(), c.Param("id"))
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"schede": schede})
}

func (h *Handler) listPrescrizioni(c *gin.Context) {
	prescrizioni, err := h.schede.ListPrescrizioniByPatient(c.Request.Context(), c.Param("id"))
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"prescrizioni": prescrizioni})
}

type prescrizioneRequest struct {
	Ambulatorio model.Ambulatorio `json:"ambulatorio" binding:"required"`
	Testo       string            `json:"testo" binding:"required"`
}

func (h *Handler) upsertPrescrizione(c *gin.Context) {
	var req prescrizioneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := h.schede.UpsertPrescrizione(c.Request.Context(), c.Param("id"), req.Ambulatorio, c.Param("mese"), req.Testo)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}
