package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchEndpointEmptyListAllowsAll(t *testing.T) {
	assert.True(t, MatchEndpoint("/api", "/api/anything", nil))
	assert.True(t, MatchEndpoint("/api", "/api/users/", []string{}))
}

func TestMatchEndpointExact(t *testing.T) {
	patterns := []string{"/markers"}
	assert.True(t, MatchEndpoint("/api", "/api/markers", patterns))
	assert.True(t, MatchEndpoint("/api", "/api/markers/", patterns))
	assert.False(t, MatchEndpoint("/api", "/api/markers/extra", patterns))
	assert.False(t, MatchEndpoint("/api", "/api/challenges", patterns))
}

func TestMatchEndpointWildcard(t *testing.T) {
	patterns := []string{"/content/*"}
	assert.True(t, MatchEndpoint("/api", "/api/content/42/", patterns))
	assert.True(t, MatchEndpoint("/api", "/api/content/42", patterns))
	assert.False(t, MatchEndpoint("/api", "/api/users/", patterns))
	assert.False(t, MatchEndpoint("/api", "/api/users/42/", patterns))
}

func TestMatchEndpointMultiplePatterns(t *testing.T) {
	patterns := []string{"/markers", "/content/*"}
	assert.True(t, MatchEndpoint("/api", "/api/markers", patterns))
	assert.True(t, MatchEndpoint("/api", "/api/content/abc/view", patterns))
	assert.False(t, MatchEndpoint("/api", "/api/feedback", patterns))
}

func TestMatchEndpointQuotesLiterals(t *testing.T) {
	// dots in patterns must stay literal, not regex wildcards
	patterns := []string{"/v1.0/data"}
	assert.True(t, MatchEndpoint("/api", "/api/v1.0/data", patterns))
	assert.False(t, MatchEndpoint("/api", "/api/v1x0/data", patterns))
}

func TestMatchEndpointNormalizesMissingSlash(t *testing.T) {
	assert.True(t, MatchEndpoint("/api", "/api/markers", []string{"markers"}))
}
