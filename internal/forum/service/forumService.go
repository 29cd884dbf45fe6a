package service

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	customerrors "github.com/taekwondodev/go-qa-forum/internal/customErrors"
	"github.com/taekwondodev/go-qa-forum/internal/dto"
	"github.com/taekwondodev/go-qa-forum/internal/models"
	"github.com/taekwondodev/go-qa-forum/internal/repository"
	"github.com/taekwondodev/go-qa-forum/internal/telemetry"
)

var tracer = otel.Tracer("github.com/taekwondodev/go-qa-forum/internal/forum/service")

type ForumService interface {
	ListQuestions(ctx context.Context) ([]models.QuestionSummary, error)
	GetQuestion(ctx context.Context, id int64) (*dto.QuestionResponse, error)
	CreateQuestion(ctx context.Context, identity *models.Identity, req dto.CreateQuestionRequest) (*dto.CreateQuestionResponse, error)
	CreateAnswer(ctx context.Context, identity *models.Identity, questionID int64, req dto.CreateAnswerRequest) (*dto.CreateAnswerResponse, error)
}

type ForumServiceImpl struct {
	repo repository.QuestionRepository
}

func NewForumService(repo repository.QuestionRepository) *ForumServiceImpl {
	return &ForumServiceImpl{repo: repo}
}

func (s *ForumServiceImpl) ListQuestions(ctx context.Context) (res []models.QuestionSummary, err error) {
	ctx, span := tracer.Start(ctx, "ForumService.ListQuestions")
	defer func() { telemetry.End(span, err) }()

	return s.repo.ListQuestions(ctx)
}

func (s *ForumServiceImpl) GetQuestion(ctx context.Context, id int64) (res *dto.QuestionResponse, err error) {
	ctx, span := tracer.Start(ctx, "ForumService.GetQuestion")
	span.SetAttributes(attribute.Int64("question.id", id))
	defer func() { telemetry.End(span, err) }()

	question, err := s.repo.GetQuestion(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}

	answers, err := s.repo.ListAnswers(ctx, id)
	if err != nil {
		return nil, err
	}

	return &dto.QuestionResponse{
		Question: *question,
		Answers:  answers,
	}, nil
}

func (s *ForumServiceImpl) CreateQuestion(ctx context.Context, identity *models.Identity, req dto.CreateQuestionRequest) (res *dto.CreateQuestionResponse, err error) {
	ctx, span := tracer.Start(ctx, "ForumService.CreateQuestion")
	defer func() { telemetry.End(span, err) }()

	if identity == nil {
		return nil, customerrors.ErrAccessTokenRequired
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	id, err := s.repo.SaveQuestion(ctx, req.Title, req.Description, identity.UserID)
	if err != nil {
		return nil, err
	}

	return &dto.CreateQuestionResponse{
		Message:    "Question created successfully",
		QuestionID: id,
	}, nil
}

func (s *ForumServiceImpl) CreateAnswer(ctx context.Context, identity *models.Identity, questionID int64, req dto.CreateAnswerRequest) (res *dto.CreateAnswerResponse, err error) {
	ctx, span := tracer.Start(ctx, "ForumService.CreateAnswer")
	span.SetAttributes(attribute.Int64("question.id", questionID))
	defer func() { telemetry.End(span, err) }()

	if identity == nil {
		return nil, customerrors.ErrAccessTokenRequired
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	exists, err := s.repo.QuestionExists(ctx, questionID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, customerrors.ErrQuestionNotFound
	}

	// The question may vanish between the check and the insert.
	id, err := s.repo.SaveAnswer(ctx, req.Answer, questionID, identity.UserID)
	if err != nil {
		return nil, mapNotFound(err)
	}

	return &dto.CreateAnswerResponse{
		Message:  "Answer posted successfully",
		AnswerID: id,
	}, nil
}

func mapNotFound(err error) error {
	if errors.Is(err, repository.ErrQuestionNotFound) {
		return customerrors.ErrQuestionNotFound
	}
	return err
}

var _ ForumService = (*ForumServiceImpl)(nil)
