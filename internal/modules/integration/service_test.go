package integration

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aghamazing/quest-core/internal/models"
)

func TestViewMasksStoredKey(t *testing.T) {
	m := models.IntegrationModel{
		Name:   "AR Mobile App",
		APIKey: "qk_" + strings.Repeat("a", 36) + "wxyz",
	}

	v := newView(m)
	assert.Equal(t, "qk_****wxyz", v.KeyMask)

	body, err := json.Marshal(v)
	require.NoError(t, err)
	assert.NotContains(t, string(body), m.APIKey)
	assert.Contains(t, string(body), `"api_key_mask":"qk_****wxyz"`)
}
