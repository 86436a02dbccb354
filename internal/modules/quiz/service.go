package quiz

import (
	"context"
	"errors"
	"fmt"

	"github.com/kiennt169/quiz-core-go/internal/models"
	"gorm.io/gorm"
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

func (s *Service) List(ctx context.Context, page, size int) ([]models.QuizModel, int64, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 10
	}

	var total int64
	q := s.db.WithContext(ctx).Model(&models.QuizModel{}).Where("active = ?", true)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count quizzes: %w", err)
	}

	var quizzes []models.QuizModel
	err := q.Order("created_at DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&quizzes).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list quizzes: %w", err)
	}
	return quizzes, total, nil
}

// Get loads a quiz with its questions and answer options.
func (s *Service) Get(ctx context.Context, id string) (*models.QuizModel, error) {
	var q models.QuizModel
	err := s.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC, created_at ASC")
		}).
		Preload("Questions.Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC, created_at ASC")
		}).
		Where("id = ?", id).First(&q).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load quiz: %w", err)
	}
	return &q, nil
}

func (s *Service) Create(ctx context.Context, dto *QuizDTO, createdBy string) (*models.QuizModel, error) {
	q := models.QuizModel{
		Title:       dto.Title,
		Description: dto.Description,
		Duration:    dto.Duration,
		Active:      dto.Active == nil || *dto.Active,
		CreatedBy:   createdBy,
	}
	if err := s.db.WithContext(ctx).Create(&q).Error; err != nil {
		return nil, fmt.Errorf("create quiz: %w", err)
	}
	return &q, nil
}

func (s *Service) Update(ctx context.Context, id string, dto *QuizDTO) (*models.QuizModel, error) {
	updates := map[string]interface{}{
		"title":       dto.Title,
		"description": dto.Description,
		"duration":    dto.Duration,
	}
	if dto.Active != nil {
		updates["active"] = *dto.Active
	}

	res := s.db.WithContext(ctx).Model(&models.QuizModel{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return nil, fmt.Errorf("update quiz: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return s.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.QuizModel{})
	if res.Error != nil {
		return false, fmt.Errorf("delete quiz: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// AddQuestion appends a question with its answers to a quiz.
func (s *Service) AddQuestion(ctx context.Context, quizID string, dto *QuestionDTO) (*models.QuestionModel, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.QuizModel{}).
		Where("id = ?", quizID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("check quiz: %w", err)
	}
	if count == 0 {
		return nil, nil
	}

	points := dto.Points
	if points <= 0 {
		points = 1
	}
	q := models.QuestionModel{
		QuizID:   quizID,
		Text:     dto.Text,
		Points:   points,
		Position: dto.Position,
	}
	for _, a := range dto.Answers {
		q.Answers = append(q.Answers, models.AnswerModel{
			Text:     a.Text,
			Correct:  a.Correct,
			Position: a.Position,
		})
	}
	if err := s.db.WithContext(ctx).Create(&q).Error; err != nil {
		return nil, fmt.Errorf("create question: %w", err)
	}
	return &q, nil
}

// DeleteQuestion removes one question of a quiz; the quiz id guards against
// deleting a question through the wrong quiz.
func (s *Service) DeleteQuestion(ctx context.Context, quizID, questionID string) (bool, error) {
	res := s.db.WithContext(ctx).
		Where("id = ? AND quiz_id = ?", questionID, quizID).
		Delete(&models.QuestionModel{})
	if res.Error != nil {
		return false, fmt.Errorf("delete question: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}
