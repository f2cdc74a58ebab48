package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func ctxWithQuery(raw string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+raw, nil)
	return c
}

func TestFromContextDefaults(t *testing.T) {
	q := FromContext(ctxWithQuery(""))
	assert.Equal(t, DefaultPage, q.Page)
	assert.Equal(t, DefaultSize, q.Size)
}

func TestFromContextParses(t *testing.T) {
	q := FromContext(ctxWithQuery("page=3&size=50"))
	assert.Equal(t, 3, q.Page)
	assert.Equal(t, 50, q.Size)
}

func TestFromContextClampsAndRecovers(t *testing.T) {
	q := FromContext(ctxWithQuery("page=-2&size=999"))
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, MaxSize, q.Size)

	q = FromContext(ctxWithQuery("page=abc&size=xyz"))
	assert.Equal(t, DefaultPage, q.Page)
	assert.Equal(t, DefaultSize, q.Size)
}
