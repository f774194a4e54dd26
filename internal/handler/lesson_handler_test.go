package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tutorbook-api/internal/dto"
	"github.com/noah-isme/tutorbook-api/internal/handler"
	"github.com/noah-isme/tutorbook-api/internal/middleware"
	"github.com/noah-isme/tutorbook-api/internal/models"
	"github.com/noah-isme/tutorbook-api/internal/service"
)

type stubLessonService struct {
	err           error
	lastPrincipal service.Principal
	lastLessonID  uint
	lastCoinType  string
	lastCoins     dto.SetCoinsRequest
	lastFinish    dto.FinishLessonRequest
}

func (s *stubLessonService) Scorecard(context.Context, uint) ([]models.Lesson, error) {
	return nil, s.err
}

func (s *stubLessonService) EnsureScorecard(context.Context, uint) (int, error) {
	return 0, s.err
}

func (s *stubLessonService) SetCoins(_ context.Context, p service.Principal, lessonID uint, coinType string, req dto.SetCoinsRequest) (dto.LessonResponse, error) {
	s.lastPrincipal, s.lastLessonID, s.lastCoinType, s.lastCoins = p, lessonID, coinType, req
	if s.err != nil {
		return dto.LessonResponse{}, s.err
	}
	return dto.LessonResponse{ID: lessonID, Understanding: *req.Value}, nil
}

func (s *stubLessonService) UpdateHomework(_ context.Context, p service.Principal, lessonID uint, req dto.UpdateHomeworkRequest) (dto.LessonResponse, error) {
	s.lastPrincipal, s.lastLessonID = p, lessonID
	return dto.LessonResponse{ID: lessonID, Homework: req.Homework}, s.err
}

func (s *stubLessonService) AddLesson(_ context.Context, p service.Principal, studentID uint, req dto.LessonCreateRequest) (dto.LessonResponse, error) {
	s.lastPrincipal = p
	return dto.LessonResponse{ID: 1, StudentID: studentID, Topic: req.Topic}, s.err
}

func (s *stubLessonService) ListScored(_ context.Context, p service.Principal, _ uint) ([]dto.LessonResponse, error) {
	s.lastPrincipal = p
	return []dto.LessonResponse{}, s.err
}

func (s *stubLessonService) AddItem(_ context.Context, p service.Principal, lessonID uint, req dto.LessonItemCreateRequest) (dto.LessonItemResponse, error) {
	s.lastPrincipal, s.lastLessonID = p, lessonID
	return dto.LessonItemResponse{ID: 3, ItemName: req.ItemName}, s.err
}

func (s *stubLessonService) Finish(_ context.Context, p service.Principal, lessonID uint, req dto.FinishLessonRequest) (dto.LessonResponse, error) {
	s.lastPrincipal, s.lastLessonID, s.lastFinish = p, lessonID, req
	if s.err != nil {
		return dto.LessonResponse{}, s.err
	}
	return dto.LessonResponse{ID: lessonID, IsFinished: true, Percentage: 50, Comment: "Weak areas: item3"}, nil
}

func (s *stubLessonService) Details(_ context.Context, p service.Principal, lessonID uint) (dto.LessonDetailResponse, error) {
	s.lastPrincipal, s.lastLessonID = p, lessonID
	return dto.LessonDetailResponse{Lesson: dto.LessonResponse{ID: lessonID}}, s.err
}

var _ service.LessonService = (*stubLessonService)(nil)

func lessonApp(svc *stubLessonService, userID uint, role string) *fiber.App {
	app, group := newApp(userID, role)
	handler.NewLessonHandler(svc, zerolog.Nop()).Register(group)
	return app
}

func TestLessonHandler_SetCoinsPassesPrincipal(t *testing.T) {
	svc := &stubLessonService{}
	app := lessonApp(svc, 5, models.RoleTeacher)

	resp := doRequest(t, app, http.MethodPost, "/api/v1/lessons/12/coins/understanding", `{"value":3}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	payload := decodeResponse(t, resp)
	require.True(t, payload.Success)
	var lesson dto.LessonResponse
	require.NoError(t, json.Unmarshal(payload.Data, &lesson))
	require.Equal(t, 3, lesson.Understanding)

	require.Equal(t, service.Principal{UserID: 5, Role: models.RoleTeacher}, svc.lastPrincipal)
	require.Equal(t, uint(12), svc.lastLessonID)
	require.Equal(t, "understanding", svc.lastCoinType)
}

func TestLessonHandler_RejectsInvalidID(t *testing.T) {
	svc := &stubLessonService{}
	app := lessonApp(svc, 5, models.RoleTeacher)

	resp := doRequest(t, app, http.MethodPost, "/api/v1/lessons/abc/finish", "")
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	require.Zero(t, svc.lastLessonID)
}

func TestLessonHandler_FinishWithoutBody(t *testing.T) {
	svc := &stubLessonService{}
	app := lessonApp(svc, 5, models.RoleTeacher)

	resp := doRequest(t, app, http.MethodPost, "/api/v1/lessons/4/finish", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, uint(4), svc.lastLessonID)
	require.Empty(t, svc.lastFinish.Homework)
}

func TestLessonHandler_MapsServiceErrors(t *testing.T) {
	validationErr := validator.New().Struct(dto.SetCoinsRequest{})

	cases := []struct {
		name     string
		err      error
		status   int
		redirect bool
	}{
		{"finished", service.ErrLessonFinished, fiber.StatusConflict, false},
		{"denied", service.ErrAccessDenied, fiber.StatusForbidden, true},
		{"teacher only", service.ErrTeacherRequired, fiber.StatusForbidden, true},
		{"missing", service.ErrLessonNotFound, fiber.StatusNotFound, true},
		{"coin type", service.ErrInvalidCoinType, fiber.StatusBadRequest, false},
		{"anonymous", service.ErrUnauthenticated, fiber.StatusUnauthorized, false},
		{"validation", validationErr, fiber.StatusBadRequest, false},
		{"store", context.DeadlineExceeded, fiber.StatusInternalServerError, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &stubLessonService{err: tc.err}
			app := lessonApp(svc, 5, models.RoleTeacher)

			resp := doRequest(t, app, http.MethodPost, "/api/v1/lessons/9/coins/understanding", `{"value":1}`)
			require.Equal(t, tc.status, resp.StatusCode)

			payload := decodeResponse(t, resp)
			require.False(t, payload.Success)
			if tc.redirect {
				require.Equal(t, middleware.HomePath, payload.Details["redirect"])
			}
			if tc.status == fiber.StatusInternalServerError {
				require.Equal(t, "internal server error", payload.Message)
			}
		})
	}
}

func TestLessonHandler_ValidationDetailsNameFields(t *testing.T) {
	err := validator.New().Struct(dto.SetCoinsRequest{})
	svc := &stubLessonService{err: err}
	app := lessonApp(svc, 5, models.RoleTeacher)

	resp := doRequest(t, app, http.MethodPost, "/api/v1/lessons/9/coins/understanding", `{"value":1}`)
	payload := decodeResponse(t, resp)
	require.Equal(t, "required", payload.Details["value"])
}

func TestLessonHandler_AnonymousPrincipal(t *testing.T) {
	svc := &stubLessonService{}
	app := lessonApp(svc, 0, models.RoleAnonymous)

	resp := doRequest(t, app, http.MethodGet, "/api/v1/lessons/2", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.True(t, svc.lastPrincipal.IsAnonymous())
}
