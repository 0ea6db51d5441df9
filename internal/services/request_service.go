package services

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/codewithmk180105/attendance-portal/internal/models"
	apperrors "github.com/codewithmk180105/attendance-portal/pkg/errors"
	"github.com/codewithmk180105/attendance-portal/pkg/metrics"
)

var (
	// ErrRequestNotFound indicates no request matches within the caller's scope.
	ErrRequestNotFound = apperrors.New("REQUEST_NOT_FOUND", "Attendance request not found", http.StatusNotFound)
	// ErrRequestGranted guards the terminal state against further transitions.
	ErrRequestGranted = apperrors.New("REQUEST_GRANTED", "Attendance has already been granted for this request", http.StatusConflict)
	// ErrRequestNotApproved blocks granting a request the HOD has not approved.
	ErrRequestNotApproved = apperrors.New("REQUEST_NOT_APPROVED", "Only approved requests can be granted", http.StatusConflict)
	// ErrEventInPast rejects submissions for lectures already held.
	ErrEventInPast = apperrors.New("EVENT_IN_PAST", "Event date and lecture time must be in the future", http.StatusBadRequest)
)

// lectureTimeLayouts lists the accepted clock formats for lecture times.
var lectureTimeLayouts = []string{"15:04", "3:04 PM", "3:04PM", "15:04:05"}

// SubmitRequestInput carries a student's excuse application.
type SubmitRequestInput struct {
	EventName          string
	EventLocation      string
	EventDate          time.Time
	LectureTime        string
	Subject            string
	Professor          string
	ReasonForAbsence   string
	SupportingDocument string
}

// RequestService manages the attendance-request lifecycle.
type RequestService struct {
	db  *gorm.DB
	now func() time.Time
}

// RequestOption customises a RequestService.
type RequestOption func(*RequestService)

// WithRequestClock overrides the time source for future-date checks.
func WithRequestClock(now func() time.Time) RequestOption {
	return func(s *RequestService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewRequestService constructs a RequestService instance.
func NewRequestService(db *gorm.DB, opts ...RequestOption) (*RequestService, error) {
	if db == nil {
		return nil, errors.New("request service: db is required")
	}
	svc := &RequestService{db: db, now: time.Now}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Submit files a new pending request for the student. The event must lie
// strictly in the future when its date and lecture time are combined.
func (s *RequestService) Submit(ctx context.Context, student *models.User, input SubmitRequestInput) (*models.AttendanceRequest, error) {
	ctx = ensureContext(ctx)

	if student == nil || student.Role != models.RoleStudent {
		return nil, apperrors.ErrForbidden
	}

	required := map[string]string{
		"eventName":        input.EventName,
		"eventLocation":    input.EventLocation,
		"lectureTime":      input.LectureTime,
		"subject":          input.Subject,
		"professor":        input.Professor,
		"reasonForAbsence": input.ReasonForAbsence,
	}
	for field, value := range required {
		if strings.TrimSpace(value) == "" {
			return nil, apperrors.NewBadRequest(field + " is required")
		}
	}
	if input.EventDate.IsZero() {
		return nil, apperrors.NewBadRequest("eventDate is required")
	}

	eventAt, err := combineEventTime(input.EventDate, input.LectureTime)
	if err != nil {
		return nil, err
	}
	if !eventAt.After(s.now()) {
		return nil, ErrEventInPast
	}

	request := &models.AttendanceRequest{
		Student: models.StudentSnapshot{
			Name:      student.Name,
			RollNo:    student.RollNo,
			Class:     student.Division,
			StudentID: student.StudentID,
		},
		Event: models.EventDetails{
			EventName:     strings.TrimSpace(input.EventName),
			EventLocation: strings.TrimSpace(input.EventLocation),
			EventDate:     datatypes.Date(input.EventDate),
			LectureTime:   strings.TrimSpace(input.LectureTime),
		},
		ClassInfo: models.ClassDetails{
			Subject:          strings.TrimSpace(input.Subject),
			Professor:        strings.ToLower(strings.TrimSpace(input.Professor)),
			ReasonForAbsence: strings.TrimSpace(input.ReasonForAbsence),
		},
		SupportingDocument: input.SupportingDocument,
		College:            student.College,
		Department:         student.Department,
		Status:             models.StatusPending,
	}

	if err := s.db.WithContext(ctx).Create(request).Error; err != nil {
		return nil, apperrors.Wrap(err, "create request")
	}

	metrics.RequestTransitions.WithLabelValues("submitted").Inc()
	return request, nil
}

// combineEventTime merges the event date with the lecture's wall-clock time.
func combineEventTime(date time.Time, lectureTime string) (time.Time, error) {
	trimmed := strings.TrimSpace(strings.ToUpper(lectureTime))
	for _, layout := range lectureTimeLayouts {
		clock, err := time.Parse(layout, trimmed)
		if err != nil {
			continue
		}
		return time.Date(date.Year(), date.Month(), date.Day(),
			clock.Hour(), clock.Minute(), 0, 0, time.Local), nil
	}
	return time.Time{}, apperrors.NewBadRequest("lectureTime must be a valid time such as 14:30 or 2:30 PM")
}

// ListForScope returns every request in the department, oldest first.
func (s *RequestService) ListForScope(ctx context.Context, college, department string) ([]models.AttendanceRequest, error) {
	ctx = ensureContext(ctx)

	var requests []models.AttendanceRequest
	err := s.db.WithContext(ctx).
		Where("college = ? AND department = ?", college, department).
		Order("created_at ASC").
		Find(&requests).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "list requests")
	}
	return requests, nil
}

// ListForProfessor returns scoped requests addressed to the professor,
// optionally filtered by status, oldest first.
func (s *RequestService) ListForProfessor(ctx context.Context, professorEmail, college, department string, status models.RequestStatus) ([]models.AttendanceRequest, error) {
	ctx = ensureContext(ctx)

	query := s.db.WithContext(ctx).
		Where("class_professor = ? AND college = ? AND department = ?",
			strings.ToLower(strings.TrimSpace(professorEmail)), college, department)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var requests []models.AttendanceRequest
	if err := query.Order("created_at ASC").Find(&requests).Error; err != nil {
		return nil, apperrors.Wrap(err, "list professor requests")
	}
	return requests, nil
}

// ListForStudent returns the requests the student submitted, oldest first.
func (s *RequestService) ListForStudent(ctx context.Context, studentID string) ([]models.AttendanceRequest, error) {
	ctx = ensureContext(ctx)

	var requests []models.AttendanceRequest
	err := s.db.WithContext(ctx).
		Where("student_student_id = ?", studentID).
		Order("created_at ASC").
		Find(&requests).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "list student requests")
	}
	return requests, nil
}

// Get returns a single request if it lies within the given scope.
func (s *RequestService) Get(ctx context.Context, id, college, department string) (*models.AttendanceRequest, error) {
	ctx = ensureContext(ctx)

	var request models.AttendanceRequest
	err := s.db.WithContext(ctx).
		Where("id = ? AND college = ? AND department = ?", id, college, department).
		First(&request).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRequestNotFound
	}
	if err != nil {
		return nil, apperrors.Wrap(err, "load request")
	}
	return &request, nil
}

// UpdateStatus moves a scoped request to approved or rejected. Repeating
// the current status is a no-op; granted requests can no longer change.
func (s *RequestService) UpdateStatus(ctx context.Context, id, college, department string, status models.RequestStatus) (*models.AttendanceRequest, error) {
	ctx = ensureContext(ctx)

	if status != models.StatusApproved && status != models.StatusRejected {
		return nil, apperrors.NewBadRequest("status must be approved or rejected")
	}

	request, err := s.Get(ctx, id, college, department)
	if err != nil {
		return nil, err
	}
	if request.Status == models.StatusGranted {
		return nil, ErrRequestGranted
	}
	if request.Status == status {
		return request, nil
	}

	if err := s.db.WithContext(ctx).Model(request).Update("status", status).Error; err != nil {
		return nil, apperrors.Wrap(err, "update status")
	}

	request.Status = status
	metrics.RequestTransitions.WithLabelValues(string(status)).Inc()
	return request, nil
}

// Grant marks an approved request as granted. The update is conditional on
// the stored status so two racing grants cannot both succeed.
func (s *RequestService) Grant(ctx context.Context, id, professorEmail, college, department string) (*models.AttendanceRequest, error) {
	ctx = ensureContext(ctx)

	request, err := s.Get(ctx, id, college, department)
	if err != nil {
		return nil, err
	}
	if request.ClassInfo.Professor != strings.ToLower(strings.TrimSpace(professorEmail)) {
		return nil, ErrRequestNotFound
	}
	if request.Status == models.StatusGranted {
		return nil, ErrRequestGranted
	}
	if request.Status != models.StatusApproved {
		return nil, ErrRequestNotApproved
	}

	result := s.db.WithContext(ctx).Model(&models.AttendanceRequest{}).
		Where("id = ? AND status = ?", id, models.StatusApproved).
		Update("status", models.StatusGranted)
	if result.Error != nil {
		return nil, apperrors.Wrap(result.Error, "grant request")
	}
	if result.RowsAffected == 0 {
		return nil, ErrRequestNotApproved
	}

	request.Status = models.StatusGranted
	metrics.RequestTransitions.WithLabelValues("granted").Inc()
	return request, nil
}
