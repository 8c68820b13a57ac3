package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/quizly/quizly/internal/apperrors"
	"github.com/quizly/quizly/internal/handlers/render"
	"github.com/quizly/quizly/internal/handlers/userctx"
	"github.com/quizly/quizly/internal/logger"
	"github.com/quizly/quizly/internal/models"
	"github.com/quizly/quizly/internal/service/quiz"
)

type questionResponse struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"question_title"`
	Options   []string  `json:"question_options"`
	Answer    string    `json:"answer"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type quizResponse struct {
	ID          uuid.UUID          `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	VideoURL    string             `json:"video_url"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
	Questions   []questionResponse `json:"questions"`
}

func toQuizResponse(q models.Quiz) quizResponse {
	questions := make([]questionResponse, 0, len(q.Questions))
	for _, question := range q.Questions {
		questions = append(questions, questionResponse{
			ID:        question.ID,
			Title:     question.Title,
			Options:   question.Options,
			Answer:    question.Answer,
			CreatedAt: question.CreatedAt,
			UpdatedAt: question.UpdatedAt,
		})
	}

	return quizResponse{
		ID:          q.ID,
		Title:       q.Title,
		Description: q.Description,
		VideoURL:    q.VideoURL,
		CreatedAt:   q.CreatedAt,
		UpdatedAt:   q.UpdatedAt,
		Questions:   questions,
	}
}

func handleCreateQuiz(quizService quizService, l logger.Logger) http.Handler {
	// Clients send the video link under "url", responses echo it as "video_url"
	type request struct {
		URL string `json:"url" validate:"required,youtube_url"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		created, err := quizService.CreateFromURL(r.Context(), user, data.URL)

		var verr *apperrors.ValidationError
		switch {
		case err == nil:
			render.JSONWithStatus(w, toQuizResponse(created), http.StatusCreated)
		case errors.As(err, &verr):
			render.FieldErrors(w, verr.Fields)
		case errors.Is(err, apperrors.ErrInvalidQuiz):
			render.ServiceError(w, "Failed to generate a quiz for this video", http.StatusBadRequest)
		case errors.Is(err, apperrors.ErrNotConfigured):
			l.Error("Quiz generation is not configured", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		default:
			l.Error("Failed to create quiz", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleListQuizzes(quizService quizService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		quizzes, err := quizService.List(r.Context(), user)
		if err != nil {
			l.Error("Failed to list quizzes", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		response := make([]quizResponse, 0, len(quizzes))
		for _, q := range quizzes {
			response = append(response, toQuizResponse(q))
		}
		render.JSON(w, response)
	})
}

func handleGetQuiz(quizService quizService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		quizID, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			render.ServiceError(w, "Quiz not found", http.StatusNotFound)
			return
		}

		found, err := quizService.Get(r.Context(), user, quizID)

		switch {
		case err == nil:
			render.JSON(w, toQuizResponse(found))
		case errors.Is(err, apperrors.ErrQuizNotFound):
			render.ServiceError(w, "Quiz not found", http.StatusNotFound)
		case errors.Is(err, apperrors.ErrQuizNotOwned):
			render.ServiceError(w, "You don't have access to this quiz", http.StatusForbidden)
		default:
			l.Error("Failed to get quiz", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleUpdateQuiz(quizService quizService, l logger.Logger) http.Handler {
	type request struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		quizID, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			render.ServiceError(w, "Quiz not found", http.StatusNotFound)
			return
		}

		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		updated, err := quizService.Update(r.Context(), user, quizID, quiz.UpdateParams{
			Title:       data.Title,
			Description: data.Description,
		})

		var verr *apperrors.ValidationError
		switch {
		case err == nil:
			render.JSON(w, toQuizResponse(updated))
		case errors.As(err, &verr):
			render.FieldErrors(w, verr.Fields)
		case errors.Is(err, apperrors.ErrQuizNotFound):
			render.ServiceError(w, "Quiz not found", http.StatusNotFound)
		case errors.Is(err, apperrors.ErrQuizNotOwned):
			render.ServiceError(w, "You don't have access to this quiz", http.StatusForbidden)
		default:
			l.Error("Failed to update quiz", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleDeleteQuiz(quizService quizService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		quizID, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			render.ServiceError(w, "Quiz not found", http.StatusNotFound)
			return
		}

		err = quizService.Delete(r.Context(), user, quizID)

		switch {
		case err == nil:
			w.WriteHeader(http.StatusNoContent)
		case errors.Is(err, apperrors.ErrQuizNotFound):
			render.ServiceError(w, "Quiz not found", http.StatusNotFound)
		case errors.Is(err, apperrors.ErrQuizNotOwned):
			render.ServiceError(w, "You don't have access to this quiz", http.StatusForbidden)
		default:
			l.Error("Failed to delete quiz", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}
