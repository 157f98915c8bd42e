package photo

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medhub/ambulatorio-api/internal/handler"
	"github.com/medhub/ambulatorio-api/internal/middleware"
	"github.com/medhub/ambulatorio-api/internal/model"
	"github.com/medhub/ambulatorio-api/internal/service/photo"
)

type Handler struct {
	photos *photo.Service
}

func NewHandler(photos *photo.Service) *Handler {
	return &Handler{photos: photos}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	photos := rg.Group("/photos")
	{
		photos.POST("", h.upload)
		photos.GET("", h.list)
		photos.GET("/:id", h.get)
		photos.DELETE("/:id", h.delete)
	}
}

func hasSite(c *gin.Context, site model.Ambulatorio) bool {
	claims := middleware.CurrentClaims(c)
	return claims != nil && claims.HasAmbulatorio(site)
}

func (h *Handler) upload(c *gin.Context) {
	var req model.UploadPhotoRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !hasSite(c, req.Ambulatorio) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Non hai accesso a questo ambulatorio"})
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable file"})
		return
	}
	defer file.Close()
	content, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable file"})
		return
	}

	created, err := h.photos.Upload(c.Request.Context(), &req, content,
		fileHeader.Filename, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": created.ID, "message": "File caricato"})
}

func (h *Handler) list(c *gin.Context) {
	patientID := c.Query("patient_id")
	site := model.Ambulatorio(c.Query("ambulatorio"))
	if patientID == "" || !site.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "patient_id and ambulatorio are required"})
		return
	}
	if !hasSite(c, site) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Non hai accesso a questo ambulatorio"})
		return
	}
	photos, err := h.photos.List(c.Request.Context(), patientID, site, c.Query("tipo"))
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, photos)
}

func (h *Handler) get(c *gin.Context) {
	p, err := h.photos.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handler.Error(c, err)
		return
	}
	if !hasSite(c, p.Ambulatorio) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Non hai accesso a questo ambulatorio"})
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) delete(c *gin.Context) {
	p, err := h.photos.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handler.Error(c, err)
		return
	}
	if !hasSite(c, p.Ambulatorio) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Non hai accesso a questo ambulatorio"})
		return
	}
	if err := h.photos.Delete(c.Request.Context(), p.ID); err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Foto eliminata"})
}
