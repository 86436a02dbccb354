package quiz

type QuizDTO struct {
	Title       string `json:"title"       binding:"required"`
	Description string `json:"description"`
	Duration    int    `json:"duration"`
	Active      *bool  `json:"active"`
}

type QuestionDTO struct {
	Text     string      `json:"text"    binding:"required"`
	Points   int         `json:"points"`
	Position int         `json:"position"`
	Answers  []AnswerDTO `json:"answers" binding:"required,min=2,dive"`
}

type AnswerDTO struct {
	Text     string `json:"text" binding:"required"`
	Correct  bool   `json:"correct"`
	Position int    `json:"position"`
}
