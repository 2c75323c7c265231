package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/z12guilherme/gestao-atipicos/internal/models"
)

func runRBAC(t *testing.T, profile *models.Profile, paramID string, allowed ...string) int {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	if paramID != "" {
		c.Params = gin.Params{{Key: "id", Value: paramID}}
	}
	if profile != nil {
		c.Set(ContextProfileKey, profile)
	}

	handled := false
	RBAC(allowed...)(c)
	if !c.IsAborted() {
		handled = true
	}
	if handled {
		return http.StatusOK
	}
	return w.Code
}

func TestRBACAllowsMatchingRole(t *testing.T) {
	profile := &models.Profile{ID: "u1", Role: models.RoleGestor}
	assert.Equal(t, http.StatusOK, runRBAC(t, profile, "", "gestor"))
}

func TestRBACRejectsOtherRole(t *testing.T) {
	profile := &models.Profile{ID: "u1", Role: models.RoleCuidador}
	assert.Equal(t, http.StatusForbidden, runRBAC(t, profile, "", "gestor"))
}

func TestRBACSelfAccess(t *testing.T) {
	guardian := &models.Profile{ID: "g1", Role: models.RoleResponsavel}

	assert.Equal(t, http.StatusOK, runRBAC(t, guardian, "g1", "gestor", SelfAccess))
	assert.Equal(t, http.StatusForbidden, runRBAC(t, guardian, "other", "gestor", SelfAccess))
}

func TestRBACMissingProfile(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, runRBAC(t, nil, "", "gestor"))
}
