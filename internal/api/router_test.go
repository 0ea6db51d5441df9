package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/codewithmk180105/attendance-portal/internal/app"
	iauth "github.com/codewithmk180105/attendance-portal/internal/auth"
	"github.com/codewithmk180105/attendance-portal/internal/cache"
	"github.com/codewithmk180105/attendance-portal/internal/database/testutil"
	"github.com/codewithmk180105/attendance-portal/internal/models"
)

type apiHarness struct {
	router *gin.Engine
	db     *gorm.DB
}

func newAPIHarness(t *testing.T) *apiHarness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.MustOpenTestDB(t)
	jwt, err := iauth.NewJWTService(iauth.JWTConfig{Secret: "router-test-secret"})
	require.NoError(t, err)

	cfg := &app.Config{}
	cfg.Auth.Cookie.Name = "auth_token"
	cfg.Monitoring.Prometheus.Enabled = false

	router, err := NewRouter(Dependencies{
		DB:        db,
		JWT:       jwt,
		Config:    cfg,
		RateStore: cache.NewMemoryStore(),
	})
	require.NoError(t, err)

	return &apiHarness{router: router, db: db}
}

func (h *apiHarness) postJSON(t *testing.T, path string, payload any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func (h *apiHarness) get(t *testing.T, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

// signUpAndVerify registers an account, reads the stored verification
// code directly and confirms it, returning the session cookie.
func (h *apiHarness) signUpAndVerify(t *testing.T, payload map[string]any) *http.Cookie {
	t.Helper()

	w := h.postJSON(t, "/api/auth/sign-up", payload)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	email := payload["email"].(string)
	var user models.User
	require.NoError(t, h.db.Where("email = ?", email).First(&user).Error)

	w = h.postJSON(t, "/api/auth/verify", map[string]any{"email": email, "code": user.VerifyCode})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = h.postJSON(t, "/api/auth/sign-in", map[string]any{
		"email": email, "password": payload["password"], "role": payload["role"],
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == "auth_token" {
			return cookie
		}
	}
	t.Fatal("sign-in response did not set the session cookie")
	return nil
}

func hodPayload(email string) map[string]any {
	return map[string]any{
		"role": "hod", "name": "Dr. Head", "email": email,
		"password": "hod-password", "contactNumber": "9000000001",
		"college": "Flow College " + email, "department": "Flow Department",
	}
}

func TestFullPortalFlow(t *testing.T) {
	h := newAPIHarness(t)

	// HOD registers, verifies and signs in
	hodCookie := h.signUpAndVerify(t, hodPayload("hod@flow.edu"))

	// The HOD's record carries both join codes
	var hod models.User
	require.NoError(t, h.db.Where("email = ?", "hod@flow.edu").First(&hod).Error)
	require.Len(t, hod.StudentCode, 6)
	require.Len(t, hod.ProfessorCode, 6)

	// Join codes resolve publicly
	w := h.get(t, fmt.Sprintf("/api/classes/resolve?code=%s&role=student", hod.StudentCode))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Flow Department")

	// Professor and student join via their codes
	profCookie := h.signUpAndVerify(t, map[string]any{
		"role": "professor", "name": "Dr. Prof", "email": "prof@flow.edu",
		"password": "prof-password", "contactNumber": "9000000002",
		"professorCode": hod.ProfessorCode,
	})
	studentCookie := h.signUpAndVerify(t, map[string]any{
		"role": "student", "name": "Asha", "email": "student@flow.edu",
		"password": "student-password", "contactNumber": "9000000003",
		"rollNo": "17", "userId": "S-1017", "division": "A",
		"studentCode": hod.StudentCode,
	})

	// Student submits a request for a future event
	eventDate := time.Now().AddDate(0, 0, 3).Format("2006-01-02")
	w = h.postMultipart(t, "/api/requests", map[string]string{
		"eventName": "Tech Fest", "eventLocation": "Auditorium",
		"eventDate": eventDate, "lectureTime": "11:00",
		"subject": "Networks", "professor": "prof@flow.edu",
		"reasonForAbsence": "Representing the college",
	}, studentCookie)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var request models.AttendanceRequest
	require.NoError(t, h.db.Where("student_student_id = ?", "S-1017").First(&request).Error)
	assert.Equal(t, models.StatusPending, request.Status)

	// HOD sees it and approves
	w = h.get(t, "/api/requests", hodCookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Tech Fest")

	w = h.patchJSON(t, "/api/requests/"+request.ID+"/status", map[string]any{"status": "approved"}, hodCookie)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Professor sees the approved request and grants it
	w = h.get(t, "/api/requests/professor?status=approved", profCookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), request.ID)

	w = h.postJSON(t, "/api/requests/"+request.ID+"/grant", nil, profCookie)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Granted is terminal
	w = h.patchJSON(t, "/api/requests/"+request.ID+"/status", map[string]any{"status": "rejected"}, hodCookie)
	require.Equal(t, http.StatusConflict, w.Code)

	// Student sees the final state
	w = h.get(t, "/api/requests/student", studentCookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "granted")
}

func (h *apiHarness) patchJSON(t *testing.T, path string, payload any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPatch, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func (h *apiHarness) postMultipart(t *testing.T, path string, fields map[string]string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func TestSignUpDuplicateScopeConflicts(t *testing.T) {
	h := newAPIHarness(t)

	first := hodPayload("one@scope.edu")
	first["college"] = "Same College"
	w := h.postJSON(t, "/api/auth/sign-up", first)
	require.Equal(t, http.StatusCreated, w.Code)

	// Verify the first account so the unverified-overwrite path is not taken
	var user models.User
	require.NoError(t, h.db.Where("email = ?", "one@scope.edu").First(&user).Error)
	require.NoError(t, h.db.Model(&user).Update("is_verified", true).Error)

	second := hodPayload("two@scope.edu")
	second["college"] = "Same College"
	w = h.postJSON(t, "/api/auth/sign-up", second)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "already exists")
}

func TestSignInRequiresVerification(t *testing.T) {
	h := newAPIHarness(t)

	payload := hodPayload("unverified@signin.edu")
	w := h.postJSON(t, "/api/auth/sign-up", payload)
	require.Equal(t, http.StatusCreated, w.Code)

	w = h.postJSON(t, "/api/auth/sign-in", map[string]any{
		"email": "unverified@signin.edu", "password": "hod-password", "role": "hod",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "verify")
}

func TestRoleGuardsOnRequestRoutes(t *testing.T) {
	h := newAPIHarness(t)

	hodCookie := h.signUpAndVerify(t, hodPayload("guard@roles.edu"))

	// An HOD cannot submit attendance requests
	w := h.postMultipart(t, "/api/requests", map[string]string{"eventName": "x"}, hodCookie)
	require.Equal(t, http.StatusForbidden, w.Code)

	// Anonymous callers get 401 on protected routes
	w = h.get(t, "/api/requests")
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestResolveUnknownCode(t *testing.T) {
	h := newAPIHarness(t)

	w := h.get(t, "/api/classes/resolve?code=AAAAAA&role=student")
	require.Equal(t, http.StatusNotFound, w.Code)

	w = h.get(t, "/api/classes/resolve?role=student")
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealthEndpoint(t *testing.T) {
	h := newAPIHarness(t)

	w := h.get(t, "/healthz")
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
}
