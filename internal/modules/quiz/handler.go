package quiz

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kiennt169/quiz-core-go/internal/middleware"
	"github.com/kiennt169/quiz-core-go/internal/models"
	"github.com/kiennt169/quiz-core-go/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	q := rg.Group("/quizzes", middleware.RequireAuth())
	q.GET("", h.list)
	q.GET("/:id", h.get)

	admin := q.Group("", middleware.RequireRoles(models.RoleAdmin))
	admin.POST("", h.create)
	admin.PUT("/:id", h.update)
	admin.DELETE("/:id", h.delete)
	admin.POST("/:id/questions", h.addQuestion)
	admin.DELETE("/:id/questions/:questionId", h.deleteQuestion)
}

func (h *Handler) list(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))

	quizzes, total, err := h.svc.List(c.Request.Context(), page, size)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	totalPage := 0
	if size > 0 {
		totalPage = int((total + int64(size) - 1) / int64(size))
	}
	response.Paged(c, quizzes, response.Pagination{
		Total:       total,
		CurrentPage: page,
		TotalPage:   totalPage,
		Size:        size,
		HasNextPage: page < totalPage,
	})
}

func (h *Handler) get(c *gin.Context) {
	q, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if q == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, q)
}

func (h *Handler) create(c *gin.Context) {
	var dto QuizDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	q, err := h.svc.Create(c.Request.Context(), &dto, middleware.CurrentUserID(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Created(c, q)
}

func (h *Handler) update(c *gin.Context) {
	var dto QuizDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	q, err := h.svc.Update(c.Request.Context(), c.Param("id"), &dto)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if q == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, q)
}

func (h *Handler) delete(c *gin.Context) {
	deleted, err := h.svc.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if !deleted {
		response.NotFound(c)
		return
	}
	response.NoContent(c)
}

func (h *Handler) addQuestion(c *gin.Context) {
	var dto QuestionDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	q, err := h.svc.AddQuestion(c.Request.Context(), c.Param("id"), &dto)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if q == nil {
		response.NotFoundMsg(c, "quiz not found")
		return
	}
	response.Created(c, q)
}

func (h *Handler) deleteQuestion(c *gin.Context) {
	deleted, err := h.svc.DeleteQuestion(c.Request.Context(), c.Param("id"), c.Param("questionId"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if !deleted {
		response.NotFound(c)
		return
	}
	response.NoContent(c)
}
