package dto

import (
	customerrors "github.com/taekwondodev/go-qa-forum/internal/customErrors"
	"github.com/taekwondodev/go-qa-forum/internal/models"
)

const MaxTitleLength = 200

type CreateQuestionRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"required"`
}

func (r *CreateQuestionRequest) Validate() error {
	failed, err := firstFailure(r)
	switch {
	case err != nil:
		return err
	case failed == nil:
		return nil
	case hasTag(failed, "required"):
		return customerrors.ErrMissingQuestion
	default:
		return customerrors.ErrTitleTooLong
	}
}

type CreateQuestionResponse struct {
	Message    string `json:"message"`
	QuestionID int64  `json:"questionId"`
}

type QuestionResponse struct {
	Question models.QuestionDetail `json:"question"`
	Answers  []models.AnswerView   `json:"answers"`
}

type CreateAnswerRequest struct {
	Answer string `json:"answer" validate:"required"`
}

func (r *CreateAnswerRequest) Validate() error {
	failed, err := firstFailure(r)
	if err != nil {
		return err
	}
	if failed != nil {
		return customerrors.ErrMissingAnswer
	}
	return nil
}

type CreateAnswerResponse struct {
	Message  string `json:"message"`
	AnswerID int64  `json:"answerId"`
}
