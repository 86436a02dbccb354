package models

// QuizModel represents a quiz owning an ordered set of questions.
type QuizModel struct {
	Base
	Title       string          `json:"title"       gorm:"not null"`
	Description string          `json:"description" gorm:"type:text"`
	Duration    int             `json:"duration"` // minutes, 0 = unlimited
	Active      bool            `json:"active"      gorm:"default:true"`
	CreatedBy   string          `json:"created_by"  gorm:"type:char(36);index"`
	Questions   []QuestionModel `json:"questions,omitempty" gorm:"foreignKey:QuizID"`
}

func (QuizModel) TableName() string { return "quizzes" }

// QuestionModel is a single question with its answer options.
type QuestionModel struct {
	Base
	QuizID   string        `json:"quiz_id"  gorm:"type:char(36);index;not null"`
	Text     string        `json:"text"     gorm:"type:text;not null"`
	Points   int           `json:"points"   gorm:"default:1"`
	Position int           `json:"position"`
	Answers  []AnswerModel `json:"answers,omitempty" gorm:"foreignKey:QuestionID"`
}

func (QuestionModel) TableName() string { return "questions" }

// AnswerModel is one selectable option of a question.
type AnswerModel struct {
	Base
	QuestionID string `json:"question_id" gorm:"type:char(36);index;not null"`
	Text       string `json:"text"        gorm:"type:text;not null"`
	Correct    bool   `json:"correct"`
	Position   int    `json:"position"`
}

func (AnswerModel) TableName() string { return "answers" }
