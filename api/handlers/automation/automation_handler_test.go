package automation

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"backend/internal/auth"
	"backend/internal/automation"
	"backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

func fakeUser(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(string(auth.UserContextKey), &auth.UserContext{UserID: userID})
		c.Next()
	}
}

func setupAutomationTest(t *testing.T, userID string) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.SOP{}, &models.Automation{}))

	provider := automation.NewSimulatedProvider()
	service := automation.NewService(models.NewSOPService(db), models.NewAutomationService(db), provider)
	handler := NewAutomationHandler(service, provider.Name())

	router := gin.New()
	router.Use(fakeUser(userID))
	router.GET("/api/automations/suggest/:sopId", handler.Suggest)
	router.POST("/api/automations", handler.Create)
	router.GET("/api/automations", handler.List)

	return router, db
}

func seedSOP(t *testing.T, db *gorm.DB, owner string) *models.SOP {
	t.Helper()
	sop := &models.SOP{
		Title:       "Monthly Invoice Processing",
		Description: "Process vendor invoices at month end.",
		Steps: []string{
			"Download invoice reports",
			"Send confirmation emails to vendors",
			"Update the spreadsheet with totals",
		},
		CreatedBy: owner,
	}
	require.NoError(t, db.Create(sop).Error)
	return sop
}

func doRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSuggest(t *testing.T) {
	router, db := setupAutomationTest(t, "user-1")
	sop := seedSOP(t, db, "user-1")

	w := doRequest(router, http.MethodGet, "/api/automations/suggest/"+sop.ID, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Suggestions []automation.SuggestedAutomation `json:"suggestions"`
			Message     string                           `json:"message"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data.Suggestions, 2)
	assert.Equal(t, "Monthly Invoice Processing - Email Notification", resp.Data.Suggestions[0].Name)
	assert.Equal(t, []int{1}, resp.Data.Suggestions[0].MatchedStepIndices)
	assert.NotEmpty(t, resp.Data.Message)
}

func TestSuggest_NotFound(t *testing.T) {
	router, _ := setupAutomationTest(t, "user-1")

	w := doRequest(router, http.MethodGet, "/api/automations/suggest/missing-id", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSuggest_Forbidden(t *testing.T) {
	router, db := setupAutomationTest(t, "user-1")
	sop := seedSOP(t, db, "user-2")

	w := doRequest(router, http.MethodGet, "/api/automations/suggest/"+sop.ID, "")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCreate(t *testing.T) {
	router, db := setupAutomationTest(t, "user-1")
	sop := seedSOP(t, db, "user-1")

	w := doRequest(router, http.MethodPost, "/api/automations",
		`{"sopId":"`+sop.ID+`","connectedApps":["Email","Gmail"]}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Data models.Automation `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, models.AutomationStatusActive, resp.Data.Status)
	assert.Equal(t, sop.ID, resp.Data.SOPID)
	assert.Contains(t, resp.Data.WorkflowID, "sim-")
}

func TestCreate_EmptyApps(t *testing.T) {
	router, db := setupAutomationTest(t, "user-1")
	sop := seedSOP(t, db, "user-1")

	w := doRequest(router, http.MethodPost, "/api/automations",
		`{"sopId":"`+sop.ID+`","connectedApps":[]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.Automation{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreate_SOPNotFound(t *testing.T) {
	router, _ := setupAutomationTest(t, "user-1")

	w := doRequest(router, http.MethodPost, "/api/automations",
		`{"sopId":"missing-id","connectedApps":["Email"]}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreate_Forbidden(t *testing.T) {
	router, db := setupAutomationTest(t, "user-1")
	sop := seedSOP(t, db, "user-2")

	w := doRequest(router, http.MethodPost, "/api/automations",
		`{"sopId":"`+sop.ID+`","connectedApps":["Email"]}`)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestList(t *testing.T) {
	router, db := setupAutomationTest(t, "user-1")
	sop := seedSOP(t, db, "user-1")

	created := doRequest(router, http.MethodPost, "/api/automations",
		`{"sopId":"`+sop.ID+`","connectedApps":["Email"]}`)
	require.Equal(t, http.StatusCreated, created.Code)

	w := doRequest(router, http.MethodGet, "/api/automations", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), sop.ID)
}
