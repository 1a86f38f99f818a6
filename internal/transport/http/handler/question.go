package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"pdfchat/internal/app"
)

// ProcessingFailureAnswer replaces the answer text when retrieval or
// generation fails. The response status stays 200; callers cannot tell a
// backend failure apart from a genuine answer by status code alone. This is
// the documented contract, kept as-is.
const ProcessingFailureAnswer = "An error occurred while processing your question."

type QuestionHandler struct {
	answerService *app.AnswerService
}

func NewQuestionHandler(answerService *app.AnswerService) *QuestionHandler {
	return &QuestionHandler{answerService: answerService}
}

type AskQuestionRequest struct {
	Question   string `json:"question"`
	DocumentID string `json:"documentId"`
}

func (r AskQuestionRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Question, validation.Required, validation.By(notBlank)),
		validation.Field(&r.DocumentID, validation.Required),
	)
}

func notBlank(value interface{}) error {
	s, _ := value.(string)
	if strings.TrimSpace(s) == "" {
		return errors.New("must not be blank")
	}
	return nil
}

type AskQuestionResponse struct {
	Answer string `json:"answer"`
}

// Ask answers a question about one document. Blank question or missing
// documentId is a plain-text 400; everything else, including internal
// failure, is a 200 with an answer field.
func (h *QuestionHandler) Ask(c *gin.Context) {
	var req AskQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, "Missing question or documentId")
		return
	}
	if err := req.Validate(); err != nil {
		c.String(http.StatusBadRequest, "Missing question or documentId")
		return
	}

	answer, err := h.answerService.Answer(c.Request.Context(), req.Question, req.DocumentID)
	if err != nil {
		if errors.Is(err, app.ErrInvalidInput) {
			c.String(http.StatusBadRequest, "Missing question or documentId")
			return
		}
		slog.Error("answer failed", "document_id", req.DocumentID, "error", err)
		c.JSON(http.StatusOK, AskQuestionResponse{Answer: ProcessingFailureAnswer})
		return
	}

	c.JSON(http.StatusOK, AskQuestionResponse{Answer: answer})
}
