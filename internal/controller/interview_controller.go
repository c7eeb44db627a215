package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/vireohq/prepview/internal/dto"
	"github.com/vireohq/prepview/internal/service"
)

type InterviewController struct {
	sessionSvc service.SessionService
	lifecycle  service.Lifecycle
	answerSvc  service.AnswerService
	resultSvc  service.ResultService
}

func NewInterviewController(
	sessionSvc service.SessionService,
	lifecycle service.Lifecycle,
	answerSvc service.AnswerService,
	resultSvc service.ResultService,
) *InterviewController {
	return &InterviewController{
		sessionSvc: sessionSvc,
		lifecycle:  lifecycle,
		answerSvc:  answerSvc,
		resultSvc:  resultSvc,
	}
}

func (c *InterviewController) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/v1")
	{
		interviews := api.Group("/interviews")
		interviews.POST("", c.CreateSession)
		interviews.GET("", c.ListSessions)
		interviews.GET("/:session_id", c.GetSession)
		interviews.POST("/:session_id/start", c.StartSession)
		interviews.POST("/:session_id/complete", c.CompleteSession)
		interviews.POST("/:session_id/abandon", c.AbandonSession)
		interviews.POST("/:session_id/answers", c.SubmitAnswer)
		interviews.PUT("/:session_id/answers", c.UpdateAnswer)
		interviews.POST("/:session_id/answers/batch", c.SubmitAllAnswers)
		interviews.GET("/:session_id/answers", c.ListAnswers)
		interviews.POST("/:session_id/result", c.GenerateResult)
		interviews.GET("/:session_id/result", c.GetResult)
	}
}

// CreateSession godoc
// @Summary Generate a new interview session
// @Description Creates a session in "generated" state with AI-generated questions for the given position.
// @Tags Interviews
// @Accept json
// @Produce json
// @Param session body dto.SessionCreateDTO true "Session parameters"
// @Success 201 {object} dto.SessionDetailDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 502 {object} dto.ErrorResponse "Question generation failed"
// @Router /interviews [post]
func (c *InterviewController) CreateSession(ctx *gin.Context) {
	var req dto.SessionCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	session, err := c.sessionSvc.CreateSession(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, session)
}

// ListSessions godoc
// @Summary List sessions for a user
// @Tags Interviews
// @Produce json
// @Param user_id query string true "Owner user ID"
// @Success 200 {array} dto.SessionSummaryDTO
// @Failure 400 {object} dto.ErrorResponse
// @Router /interviews [get]
func (c *InterviewController) ListSessions(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	sessions, err := c.sessionSvc.ListSessions(userID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, sessions)
}

// GetSession godoc
// @Summary Get session details including questions
// @Tags Interviews
// @Produce json
// @Param session_id path string true "Session ID"
// @Param user_id query string true "Owner user ID"
// @Success 200 {object} dto.SessionDetailDTO
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Router /interviews/{session_id} [get]
func (c *InterviewController) GetSession(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	session, err := c.sessionSvc.GetSession(ctx.Param("session_id"), userID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, session)
}

// StartSession godoc
// @Summary Start a generated session
// @Description Moves the session from generated to in_progress. Any other starting state is rejected.
// @Tags Interviews
// @Produce json
// @Param session_id path string true "Session ID"
// @Param user_id query string true "Owner user ID"
// @Success 200 {object} dto.SessionDetailDTO
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Failure 409 {object} dto.ErrorResponse "Illegal lifecycle transition"
// @Router /interviews/{session_id}/start [post]
func (c *InterviewController) StartSession(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	if _, err := c.lifecycle.Start(ctx.Param("session_id"), userID); err != nil {
		respondError(ctx, err)
		return
	}
	session, err := c.sessionSvc.GetSession(ctx.Param("session_id"), userID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, session)
}

// CompleteSession godoc
// @Summary Complete an in-progress session
// @Description Moves the session from in_progress to completed and records the duration.
// @Tags Interviews
// @Produce json
// @Param session_id path string true "Session ID"
// @Param user_id query string true "Owner user ID"
// @Success 200 {object} dto.SessionDetailDTO
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Failure 409 {object} dto.ErrorResponse "Illegal lifecycle transition"
// @Router /interviews/{session_id}/complete [post]
func (c *InterviewController) CompleteSession(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	if _, err := c.lifecycle.Complete(ctx.Param("session_id"), userID); err != nil {
		respondError(ctx, err)
		return
	}
	session, err := c.sessionSvc.GetSession(ctx.Param("session_id"), userID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, session)
}

// AbandonSession godoc
// @Summary Abandon a session
// @Description Cancels a generated or in-progress session. Terminal sessions cannot be abandoned.
// @Tags Interviews
// @Produce json
// @Param session_id path string true "Session ID"
// @Param user_id query string true "Owner user ID"
// @Success 200 {object} dto.SessionDetailDTO
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Failure 409 {object} dto.ErrorResponse "Illegal lifecycle transition"
// @Router /interviews/{session_id}/abandon [post]
func (c *InterviewController) AbandonSession(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	if _, err := c.lifecycle.Abandon(ctx.Param("session_id"), userID); err != nil {
		respondError(ctx, err)
		return
	}
	session, err := c.sessionSvc.GetSession(ctx.Param("session_id"), userID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, session)
}

// SubmitAnswer godoc
// @Summary Submit one answer
// @Description Scores the answer (quality gate, then AI evaluation) and persists it. Duplicate submissions for the same question are rejected.
// @Tags Answers
// @Accept json
// @Produce json
// @Param session_id path string true "Session ID"
// @Param answer body dto.AnswerSubmitDTO true "Answer"
// @Success 201 {object} dto.AnswerDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 404 {object} dto.ErrorResponse "Session or question not found"
// @Failure 409 {object} dto.ErrorResponse "Question already answered or session not in progress"
// @Router /interviews/{session_id}/answers [post]
func (c *InterviewController) SubmitAnswer(ctx *gin.Context) {
	var req dto.AnswerSubmitDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	answer, err := c.answerSvc.SubmitAnswer(ctx.Request.Context(), ctx.Param("session_id"), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, answer)
}

// UpdateAnswer godoc
// @Summary Replace an answer and re-run its evaluation
// @Tags Answers
// @Accept json
// @Produce json
// @Param session_id path string true "Session ID"
// @Param answer body dto.AnswerSubmitDTO true "Replacement answer"
// @Success 200 {object} dto.AnswerDTO
// @Failure 404 {object} dto.ErrorResponse "No existing answer for this question"
// @Failure 409 {object} dto.ErrorResponse "Session not in progress"
// @Router /interviews/{session_id}/answers [put]
func (c *InterviewController) UpdateAnswer(ctx *gin.Context) {
	var req dto.AnswerSubmitDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	answer, err := c.answerSvc.UpdateAnswer(ctx.Request.Context(), ctx.Param("session_id"), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, answer)
}

// SubmitAllAnswers godoc
// @Summary Submit several answers at once
// @Description Applies the same checks per answer. Not transactional: a mid-batch failure leaves earlier answers persisted and is reported in the response.
// @Tags Answers
// @Accept json
// @Produce json
// @Param session_id path string true "Session ID"
// @Param batch body dto.BatchSubmitDTO true "Batch of answers with optional shared recording"
// @Success 201 {object} dto.BatchSubmitResultDTO
// @Success 207 {object} dto.BatchSubmitResultDTO "Batch aborted part-way"
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Failure 409 {object} dto.ErrorResponse "Session not in progress"
// @Router /interviews/{session_id}/answers/batch [post]
func (c *InterviewController) SubmitAllAnswers(ctx *gin.Context) {
	var req dto.BatchSubmitDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	result, err := c.answerSvc.SubmitAll(ctx.Request.Context(), ctx.Param("session_id"), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	if result.Failed != nil {
		log.Warn().
			Str("sessionID", ctx.Param("session_id")).
			Int("recorded", result.SubmittedCount).
			Msg("Partial batch submission")
		ctx.JSON(http.StatusMultiStatus, result)
		return
	}
	ctx.JSON(http.StatusCreated, result)
}

// ListAnswers godoc
// @Summary List stored answers for a session
// @Tags Answers
// @Produce json
// @Param session_id path string true "Session ID"
// @Param user_id query string true "Owner user ID"
// @Success 200 {array} dto.AnswerDTO
// @Router /interviews/{session_id}/answers [get]
func (c *InterviewController) ListAnswers(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	answers, err := c.answerSvc.ListAnswers(ctx.Param("session_id"), userID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, answers)
}

// GenerateResult godoc
// @Summary Generate the final graded report
// @Description Compiles category scores, grade and narrative for a completed session. Exactly one report per session and owner.
// @Tags Results
// @Accept json
// @Produce json
// @Param session_id path string true "Session ID"
// @Param request body dto.ResultGenerateDTO true "Owner"
// @Success 201 {object} dto.FinalResultDTO
// @Failure 404 {object} dto.ErrorResponse "Session not found or no answers"
// @Failure 409 {object} dto.ErrorResponse "Session not completed or result already exists"
// @Router /interviews/{session_id}/result [post]
func (c *InterviewController) GenerateResult(ctx *gin.Context) {
	var req dto.ResultGenerateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	result, err := c.resultSvc.GenerateResult(ctx.Request.Context(), ctx.Param("session_id"), req.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, result)
}

// GetResult godoc
// @Summary Fetch the final graded report
// @Tags Results
// @Produce json
// @Param session_id path string true "Session ID"
// @Param user_id query string true "Owner user ID"
// @Success 200 {object} dto.FinalResultDTO
// @Failure 404 {object} dto.ErrorResponse "No result for this session"
// @Router /interviews/{session_id}/result [get]
func (c *InterviewController) GetResult(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	result, err := c.resultSvc.GetResult(ctx.Param("session_id"), userID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, result)
}
