package analytics

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/aghamazing/quest-core/internal/middleware"
	"github.com/aghamazing/quest-core/internal/models"
)

const insertTimeout = 5 * time.Second

// Recorder writes event rows. Inserts run off the request goroutine and
// failures are logged, never surfaced.
type Recorder struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewRecorder(db *gorm.DB, log *zap.Logger) *Recorder {
	return &Recorder{db: db, log: log}
}

// PageViews returns a middleware that records one PageView row per GET
// request on the content surface. Writes and non-GET traffic are left to the
// gateway's own request log.
func (r *Recorder) PageViews() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Request.Method != "GET" || c.Writer.Status() >= 400 {
			return
		}
		pv := models.PageViewModel{
			Path:       c.Request.URL.Path,
			SessionKey: c.GetHeader("X-Session-Key"),
			IPAddress:  c.ClientIP(),
			UserAgent:  c.Request.UserAgent(),
		}
		if uid := middleware.CurrentUserID(c); uid != "" {
			pv.UserID = &uid
		}
		r.insert(&pv)
	}
}

// Record implements workflow.ActivitySink.
func (r *Recorder) Record(_ context.Context, userID, action, detail, ip string) {
	if userID == "" {
		return
	}
	r.insert(&models.UserActivityModel{
		UserID:    userID,
		Action:    action,
		Detail:    detail,
		IPAddress: ip,
	})
}

// Interaction records one content interaction event.
func (r *Recorder) Interaction(contentID, userID, kind, ip string) {
	m := models.ContentInteractionModel{
		InteractionType: strings.ToLower(kind),
		IPAddress:       ip,
	}
	if contentID != "" {
		m.ContentID = &contentID
	}
	if userID != "" {
		m.UserID = &userID
	}
	r.insert(&m)
}

func (r *Recorder) insert(row interface{}) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), insertTimeout)
		defer cancel()
		if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
			r.log.Warn("failed to record analytics event", zap.Error(err))
		}
	}()
}
