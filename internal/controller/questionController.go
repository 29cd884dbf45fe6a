package controller

import (
	"encoding/json"
	"net/http"
	"strconv"

	customerrors "github.com/taekwondodev/go-qa-forum/internal/customErrors"
	"github.com/taekwondodev/go-qa-forum/internal/dto"
	"github.com/taekwondodev/go-qa-forum/internal/forum/service"
	"github.com/taekwondodev/go-qa-forum/internal/middleware"
)

type QuestionController struct {
	forumService service.ForumService
}

func NewQuestionController(forumService service.ForumService) *QuestionController {
	return &QuestionController{forumService: forumService}
}

func (c *QuestionController) List(w http.ResponseWriter, r *http.Request) error {
	res, err := c.forumService.ListQuestions(r.Context())
	if err != nil {
		return err
	}

	return respond(w, http.StatusOK, res)
}

func (c *QuestionController) Get(w http.ResponseWriter, r *http.Request) error {
	id, err := questionID(r)
	if err != nil {
		return err
	}

	res, err := c.forumService.GetQuestion(r.Context(), id)
	if err != nil {
		return err
	}

	return respond(w, http.StatusOK, res)
}

func (c *QuestionController) Create(w http.ResponseWriter, r *http.Request) error {
	var req dto.CreateQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return customerrors.ErrBadRequest
	}

	identity := middleware.IdentityFromContext(r.Context())
	res, err := c.forumService.CreateQuestion(r.Context(), identity, req)
	if err != nil {
		return err
	}

	return respond(w, http.StatusCreated, res)
}

func (c *QuestionController) CreateAnswer(w http.ResponseWriter, r *http.Request) error {
	id, err := questionID(r)
	if err != nil {
		return err
	}

	var req dto.CreateAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return customerrors.ErrBadRequest
	}

	identity := middleware.IdentityFromContext(r.Context())
	res, err := c.forumService.CreateAnswer(r.Context(), identity, id, req)
	if err != nil {
		return err
	}

	return respond(w, http.StatusCreated, res)
}

// A non-numeric id cannot name a question.
func questionID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, customerrors.ErrQuestionNotFound
	}
	return id, nil
}
