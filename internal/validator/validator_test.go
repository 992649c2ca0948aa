package validator

import (
	"bytes"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type samplePayload struct {
	StudentID string `json:"student_id" binding:"required,min=3"`
	Email     string `json:"email" binding:"required,email"`
}

func newBindContext(t *testing.T, body string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("POST", "/", bytes.NewBufferString(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c
}

func TestBindReportsEveryFailingField(t *testing.T) {
	Setup()

	c := newBindContext(t, `{"student_id":"ab","email":"nope"}`)

	var dst samplePayload
	fields := Bind(c, &dst)

	require.NotNil(t, fields)
	assert.Contains(t, fields, "student_id")
	assert.Contains(t, fields, "email")
}

func TestBindUsesJSONFieldNames(t *testing.T) {
	Setup()

	c := newBindContext(t, `{}`)

	var dst samplePayload
	fields := Bind(c, &dst)

	require.NotNil(t, fields)
	assert.Contains(t, fields, "student_id")
	assert.NotContains(t, fields, "StudentID")
}

func TestBindSucceedsOnValidPayload(t *testing.T) {
	Setup()

	c := newBindContext(t, `{"student_id":"STU001","email":"john.doe@example.com"}`)

	var dst samplePayload
	assert.Nil(t, Bind(c, &dst))
	assert.Equal(t, "STU001", dst.StudentID)
}

func TestBindMalformedJSON(t *testing.T) {
	Setup()

	c := newBindContext(t, `{"student_id":`)

	var dst samplePayload
	fields := Bind(c, &dst)

	require.NotNil(t, fields)
	assert.Contains(t, fields, "detail")
}
