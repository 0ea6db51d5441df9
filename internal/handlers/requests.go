package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/codewithmk180105/attendance-portal/internal/models"
	"github.com/codewithmk180105/attendance-portal/internal/services"
	"github.com/codewithmk180105/attendance-portal/internal/uploads"
	"github.com/codewithmk180105/attendance-portal/pkg/errors"
	"github.com/codewithmk180105/attendance-portal/pkg/response"
)

// eventDateLayout is the wire format for event dates.
const eventDateLayout = "2006-01-02"

// RequestHandler manages the attendance-request endpoints.
type RequestHandler struct {
	requests *services.RequestService
	users    *services.UserService
	uploads  uploads.Store
}

func NewRequestHandler(requests *services.RequestService, users *services.UserService, uploadStore uploads.Store) *RequestHandler {
	return &RequestHandler{requests: requests, users: users, uploads: uploadStore}
}

// currentUser loads the full account backing the authenticated claims.
func (h *RequestHandler) currentUser(c *gin.Context) (*models.User, bool) {
	claims, ok := currentClaims(c)
	if !ok {
		response.Error(c, errors.ErrUnauthorized)
		return nil, false
	}
	user, err := h.users.GetByID(requestContext(c), claims.UserID)
	if err != nil {
		response.Error(c, errors.ErrUnauthorized)
		return nil, false
	}
	return user, true
}

// POST /api/requests (multipart)
func (h *RequestHandler) Submit(c *gin.Context) {
	student, ok := h.currentUser(c)
	if !ok {
		return
	}

	dateValue := c.PostForm("eventDate")
	if dateValue == "" {
		response.Error(c, errors.NewBadRequest("eventDate is required"))
		return
	}
	eventDate, err := time.ParseInLocation(eventDateLayout, dateValue, time.Local)
	if err != nil {
		response.Error(c, errors.NewBadRequest("eventDate must be in YYYY-MM-DD format"))
		return
	}

	input := services.SubmitRequestInput{
		EventName:        c.PostForm("eventName"),
		EventLocation:    c.PostForm("eventLocation"),
		EventDate:        eventDate,
		LectureTime:      c.PostForm("lectureTime"),
		Subject:          c.PostForm("subject"),
		Professor:        c.PostForm("professor"),
		ReasonForAbsence: c.PostForm("reasonForAbsence"),
	}

	if file, err := c.FormFile("supportingDocument"); err == nil && file != nil {
		if h.uploads == nil {
			response.Error(c, errors.NewBadRequest("file uploads are not enabled"))
			return
		}
		url, err := h.uploads.Save(file)
		if err != nil {
			response.Error(c, err)
			return
		}
		input.SupportingDocument = url
	}

	request, err := h.requests.Submit(requestContext(c), student, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusCreated, "Attendance request submitted", gin.H{"request": request})
}

// GET /api/requests (HOD)
func (h *RequestHandler) List(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	requests, err := h.requests.ListForScope(requestContext(c), user.College, user.Department)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"requests": requests})
}

// GET /api/requests/professor?status=
func (h *RequestHandler) ListForProfessor(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	status := models.RequestStatus(c.Query("status"))
	if status != "" && status != models.StatusPending && status != models.StatusApproved &&
		status != models.StatusRejected && status != models.StatusGranted {
		response.Error(c, errors.NewBadRequest("unknown status filter"))
		return
	}

	requests, err := h.requests.ListForProfessor(requestContext(c), user.Email, user.College, user.Department, status)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"requests": requests})
}

// GET /api/requests/student
func (h *RequestHandler) ListForStudent(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	requests, err := h.requests.ListForStudent(requestContext(c), user.StudentID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"requests": requests})
}

// GET /api/requests/:id
func (h *RequestHandler) Get(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	request, err := h.requests.Get(requestContext(c), c.Param("id"), user.College, user.Department)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"request": request})
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// PATCH /api/requests/:id/status (HOD)
func (h *RequestHandler) UpdateStatus(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req updateStatusRequest
	if !bindAndValidate(c, &req) {
		return
	}

	request, err := h.requests.UpdateStatus(requestContext(c), c.Param("id"),
		user.College, user.Department, models.RequestStatus(req.Status))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusOK, "Request "+req.Status, gin.H{"request": request})
}

// POST /api/requests/:id/grant (professor)
func (h *RequestHandler) Grant(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	request, err := h.requests.Grant(requestContext(c), c.Param("id"),
		user.Email, user.College, user.Department)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMessage(c, http.StatusOK, "Attendance granted", gin.H{"request": request})
}
