package render

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	htmlrenderer "github.com/yuin/goldmark/renderer/html"
	"gorm.io/gorm"

	"github.com/aghamazing/quest-core/internal/models"
	"github.com/aghamazing/quest-core/internal/pkg/response"
)

var markdownEngine = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Table,
		extension.Strikethrough,
		extension.Linkify,
	),
	goldmark.WithRendererOptions(
		htmlrenderer.WithHardWraps(),
		htmlrenderer.WithXHTML(),
	),
)

// Markdown renders a content body to HTML.
func Markdown(text string) (string, error) {
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(text), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

type Handler struct {
	db *gorm.DB
}

func NewHandler(db *gorm.DB) *Handler { return &Handler{db: db} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/render")
	g.GET("/content/:id", h.renderContent)
	g.POST("/preview", authMW, h.preview)
}

// renderContent serves the HTML form of a published content body. Unpublished
// content never renders on this surface.
func (h *Handler) renderContent(c *gin.Context) {
	var m models.ContentModel
	err := h.db.WithContext(c.Request.Context()).
		Where("status = ?", models.StatusPublished).
		First(&m, "id = ?", c.Param("id")).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		response.NotFound(c, "content not found")
		return
	}
	if err != nil {
		response.InternalError(c, err)
		return
	}
	html, err := Markdown(m.Body)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if c.Query("format") == "html" {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, html)
		return
	}
	response.OK(c, gin.H{"id": m.ID, "title": m.Title, "html": html})
}

type previewDTO struct {
	Body string `json:"body" binding:"required"`
}

// preview renders arbitrary markdown for the editor UI without persisting.
func (h *Handler) preview(c *gin.Context) {
	var dto previewDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	html, err := Markdown(dto.Body)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"html": html})
}
