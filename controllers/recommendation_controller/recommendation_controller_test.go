package recommendation_controller

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRecommendRejectsInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rc := NewRecommendationController(nil, nil)

	for _, body := range []string{
		`{}`,
		`{"query":"need a plumber"}`,
		`{"services":["plumbing"]}`,
		`{"query":"x","services":[]}`,
		`not json`,
	} {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/api/recommendations", bytes.NewBufferString(body))
		c.Request.Header.Set("Content-Type", "application/json")

		rc.Recommend(c)
		assert.Equal(t, http.StatusBadRequest, w.Code, "body %q should be rejected", body)
	}
}
