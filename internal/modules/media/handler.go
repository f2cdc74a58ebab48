package media

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/aghamazing/quest-core/internal/middleware"
	"github.com/aghamazing/quest-core/internal/models"
	"github.com/aghamazing/quest-core/internal/pkg/pagination"
	"github.com/aghamazing/quest-core/internal/pkg/response"
)

const maxUploadSize = 64 << 20 // 64 MiB

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, auth gin.HandlerFunc) {
	g := r.Group("/media")
	g.Use(auth)
	{
		g.GET("", h.List)
		g.GET("/:id", h.Get)
		g.GET("/:id/download", h.Download)

		staff := g.Group("", middleware.RequireStaff())
		staff.POST("/upload", h.Upload)
		staff.DELETE("/:id", h.Delete)
		staff.POST("/:id/attach", h.Attach)
		staff.DELETE("/:id/attach/:contentID", h.Detach)
	}

	r.GET("/content/:id/media", auth, h.ContentMedia)
}

type mediaView struct {
	ID          string   `json:"id"`
	FileName    string   `json:"file_name"`
	FileSize    int64    `json:"file_size"`
	MimeType    string   `json:"mime_type"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	URL         string   `json:"url"`
	UploaderID  string   `json:"uploader_id"`
}

func (h *Handler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file is required")
		return
	}
	if fileHeader.Size > maxUploadSize {
		response.UnprocessableEntity(c, "file too large")
		return
	}
	src, err := fileHeader.Open()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	defer src.Close()

	m, err := h.service.Upload(c.Request.Context(), UploadInput{
		FileName:    fileHeader.Filename,
		MimeType:    fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
		Description: c.PostForm("description"),
		Tags:        splitTags(c.PostForm("tags")),
		UploaderID:  middleware.CurrentUserID(c),
		Body:        src,
	})
	if err != nil {
		response.ErrorFrom(c, err)
		return
	}
	response.Created(c, h.view(m))
}

func (h *Handler) Get(c *gin.Context) {
	m, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.ErrorFrom(c, err)
		return
	}
	response.OK(c, h.view(m))
}

func (h *Handler) Download(c *gin.Context) {
	m, rc, err := h.service.Open(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.ErrorFrom(c, err)
		return
	}
	defer rc.Close()
	c.Header("Content-Disposition", `attachment; filename="`+m.FileName+`"`)
	c.DataFromReader(200, m.FileSize, m.MimeType, rc, nil)
}

func (h *Handler) List(c *gin.Context) {
	pq := pagination.FromContext(c)
	rows, total, err := h.service.List(c.Request.Context(), c.Query("tag"), pq)
	if err != nil {
		response.ErrorFrom(c, err)
		return
	}
	views := make([]mediaView, 0, len(rows))
	for i := range rows {
		views = append(views, h.view(&rows[i]))
	}
	response.Paged(c, views, pq.Page, pq.Size, total)
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.ErrorFrom(c, err)
		return
	}
	response.NoContent(c)
}

type attachDTO struct {
	ContentID    string `json:"content_id" binding:"required"`
	DisplayOrder int    `json:"display_order"`
}

func (h *Handler) Attach(c *gin.Context) {
	var dto attachDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	err := h.service.Attach(c.Request.Context(), dto.ContentID, c.Param("id"), dto.DisplayOrder)
	if err != nil {
		response.ErrorFrom(c, err)
		return
	}
	response.NoContent(c)
}

func (h *Handler) Detach(c *gin.Context) {
	err := h.service.Detach(c.Request.Context(), c.Param("contentID"), c.Param("id"))
	if err != nil {
		response.ErrorFrom(c, err)
		return
	}
	response.NoContent(c)
}

func (h *Handler) ContentMedia(c *gin.Context) {
	rows, err := h.service.ContentMedia(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.ErrorFrom(c, err)
		return
	}
	views := make([]mediaView, 0, len(rows))
	for i := range rows {
		views = append(views, h.view(&rows[i]))
	}
	response.OK(c, views)
}

func (h *Handler) view(m *models.MediaModel) mediaView {
	return mediaView{
		ID:          m.ID,
		FileName:    m.FileName,
		FileSize:    m.FileSize,
		MimeType:    m.MimeType,
		Description: m.Description,
		Tags:        []string(m.Tags),
		URL:         h.service.PublicURL(m),
		UploaderID:  m.UploaderID,
	}
}

func splitTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
