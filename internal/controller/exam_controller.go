package controller

import (
	"strconv"

	"archtutor_backend/internal/model"
	"archtutor_backend/internal/service"
	"archtutor_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ExamController struct {
	exams *service.ExamService
}

func NewExamController(exams *service.ExamService) *ExamController {
	return &ExamController{exams: exams}
}

type generateExamRequest struct {
	Topic      string   `json:"topic"`
	Difficulty string   `json:"difficulty"`
	Count      int      `json:"count"`
	Subtopics  []string `json:"subtopics"`
}

type validateExamRequest struct {
	ExamID           string            `json:"exam_id" binding:"required"`
	UserID           string            `json:"user_id"`
	Answers          map[string]string `json:"answers" binding:"required"`
	TimeTakenSeconds int               `json:"time_taken_seconds"`
}

// Generate godoc
// @Summary Generate a multiple-choice exam
// @Tags exam
// @Accept json
// @Produce json
// @Param request body generateExamRequest true "topic, difficulty and question count"
// @Success 201 {object} util.Response
// @Failure 502 {object} util.Response
// @Router /api/v1/exam/generate [post]
func (ec *ExamController) Generate(c *gin.Context) {
	var req generateExamRequest
	c.ShouldBindJSON(&req)

	exam, err := ec.exams.Generate(c.Request.Context(), req.Topic, model.ParseDifficulty(req.Difficulty), req.Count, req.Subtopics)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Created(c, exam)
}

// Validate godoc
// @Summary Grade an exam submission
// @Tags exam
// @Accept json
// @Produce json
// @Param request body validateExamRequest true "exam id and answers"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/v1/exam/validate [post]
func (ec *ExamController) Validate(c *gin.Context) {
	var req validateExamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	result, err := ec.exams.Validate(req.ExamID, req.UserID, req.Answers, req.TimeTakenSeconds)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, result)
}

// List godoc
// @Summary List generated exams
// @Tags exam
// @Produce json
// @Param limit query int false "page size"
// @Param offset query int false "page offset"
// @Success 200 {object} util.Response
// @Router /api/v1/exam [get]
func (ec *ExamController) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	util.Success(c, ec.exams.List(limit, offset))
}

// Get godoc
// @Summary Fetch one exam without its answer key
// @Tags exam
// @Produce json
// @Param examID path string true "exam id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/v1/exam/{examID} [get]
func (ec *ExamController) Get(c *gin.Context) {
	exam, err := ec.exams.Get(c.Param("examID"))
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, exam)
}

// Delete godoc
// @Summary Delete an exam
// @Tags exam
// @Produce json
// @Param examID path string true "exam id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/v1/exam/{examID} [delete]
func (ec *ExamController) Delete(c *gin.Context) {
	if err := ec.exams.Delete(c.Param("examID")); err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, gin.H{"deleted": true})
}
