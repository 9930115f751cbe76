package utils

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/linskybing/nephra/internal/domain/audit"
	"github.com/linskybing/nephra/internal/repository/mock"
	"github.com/linskybing/nephra/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext() *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.Header.Set("User-Agent", "tests")
	return c
}

func TestContextClaims(t *testing.T) {
	c := testContext()
	_, err := GetUserIDFromContext(c)
	assert.ErrorIs(t, err, ErrNoClaims)

	claims := &types.Claims{Email: "ada@example.com", Role: "admin"}
	claims.Subject = "u-42"
	c.Set(ClaimsKey, claims)

	id, err := GetUserIDFromContext(c)
	require.NoError(t, err)
	assert.Equal(t, "u-42", id)

	name, err := GetUserNameFromContext(c)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", name)

	actor := ActorFromContext(c)
	assert.Equal(t, "u-42", actor.ID)
	assert.Equal(t, "tests", actor.UserAgent)
}

func TestParseUUIDParam(t *testing.T) {
	c := testContext()
	c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}
	_, err := ParseUUIDParam(c, "id")
	assert.Error(t, err)

	c.Params = gin.Params{{Key: "id", Value: "3F2504E0-4F89-11D3-9A0C-0305E82C3301"}}
	id, err := ParseUUIDParam(c, "id")
	require.NoError(t, err)
	assert.Equal(t, "3f2504e0-4f89-11d3-9a0c-0305e82c3301", id)
}

func TestLogAudit(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockAuditRepo(ctrl)
	actor := types.Actor{ID: "admin-1", Name: "Grace", IP: "10.0.0.1"}

	repo.EXPECT().CreateAuditLog(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, l *audit.AuditLog) error {
		assert.Equal(t, "approve", l.Action)
		assert.Equal(t, "Grace", l.Actor)
		assert.JSONEq(t, `{"status":"pending"}`, string(l.OldData))
		assert.JSONEq(t, `{"status":"approved"}`, string(l.NewData))
		return nil
	})
	err := LogAudit(context.Background(), actor, "approve", "application", "p-1",
		map[string]string{"status": "pending"}, map[string]string{"status": "approved"}, "", repo)
	require.NoError(t, err)

	repo.EXPECT().CreateAuditLog(gomock.Any(), gomock.Any()).Return(errors.New("down"))
	LogAuditWithConsole(context.Background(), actor, "reject", "application", "p-1", nil, nil, "", repo)
}
