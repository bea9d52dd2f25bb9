package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Quokkas/internal/dto"
	"github.com/lshigami/Quokkas/internal/lexile"
	"github.com/lshigami/Quokkas/internal/model"
	"github.com/lshigami/Quokkas/internal/service"
	"github.com/rs/zerolog/log"
)

type RoundController struct {
	roundService service.RoundService
}

func NewRoundController(roundService service.RoundService) *RoundController {
	return &RoundController{roundService: roundService}
}

// StartRound godoc
// @Summary Start a new reading round
// @Description Generates a passage and five questions for the chosen topic and difficulty, persists them and returns the round. Content generation is retried internally; a failure here is retryable.
// @Tags Rounds
// @Accept json
// @Produce json
// @Param round body dto.StartRoundRequest true "Topic and difficulty"
// @Success 201 {object} dto.RoundResponse
// @Failure 400 {object} dto.ErrorResponse "Unknown topic or difficulty"
// @Failure 502 {object} dto.ErrorResponse "Content generation failed; try again"
// @Security BearerAuth
// @Router /rounds [post]
func (c *RoundController) StartRound(ctx *gin.Context) {
	var req dto.StartRoundRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	round, err := c.roundService.Start(ctx.Request.Context(), currentStudentID(ctx), req.Topic, req.Difficulty)
	if err != nil {
		if errors.Is(err, service.ErrContentGeneration) {
			ctx.JSON(http.StatusBadGateway, dto.ErrorResponse{Message: "Failed to generate content. Please try again."})
			return
		}
		log.Error().Err(err).Msg("StartRound: service error")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
		return
	}
	ctx.JSON(http.StatusCreated, roundResponse(round))
}

// GetRound godoc
// @Summary Get a round
// @Description Returns the round with its passage and questions. Correct options are never exposed for unanswered questions.
// @Tags Rounds
// @Produce json
// @Param round_id path int true "Round ID"
// @Success 200 {object} dto.RoundResponse
// @Failure 404 {object} dto.ErrorResponse "Round not found"
// @Security BearerAuth
// @Router /rounds/{round_id} [get]
func (c *RoundController) GetRound(ctx *gin.Context) {
	roundID, ok := roundIDParam(ctx)
	if !ok {
		return
	}
	round, err := c.roundService.Get(currentStudentID(ctx), roundID)
	if err != nil {
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Round not found"})
		return
	}
	ctx.JSON(http.StatusOK, roundResponse(round))
}

// AnswerQuestion godoc
// @Summary Answer one question (incremental mode)
// @Description Locks in the choice for one question and reveals its correctness. A locked question cannot be answered again.
// @Tags Rounds
// @Accept json
// @Produce json
// @Param round_id path int true "Round ID"
// @Param answer body dto.AnswerRequest true "Question order and chosen option"
// @Success 200 {object} service.AnswerOutcome
// @Failure 400 {object} dto.ErrorResponse "Invalid option or round state"
// @Failure 404 {object} dto.ErrorResponse "Round not found"
// @Failure 409 {object} dto.ErrorResponse "Question already answered"
// @Security BearerAuth
// @Router /rounds/{round_id}/answers [post]
func (c *RoundController) AnswerQuestion(ctx *gin.Context) {
	roundID, ok := roundIDParam(ctx)
	if !ok {
		return
	}
	var req dto.AnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	outcome, err := c.roundService.Answer(currentStudentID(ctx), roundID, req.OrderInRound, req.Option)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRoundNotFound):
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Round not found"})
		case errors.Is(err, service.ErrQuestionLocked):
			ctx.JSON(http.StatusConflict, dto.ErrorResponse{Message: "This question has already been answered."})
		case errors.Is(err, service.ErrRoundState):
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Round is no longer accepting answers."})
		default:
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
		}
		return
	}
	ctx.JSON(http.StatusOK, outcome)
}

// SubmitRound godoc
// @Summary Submit a round for evaluation
// @Description Evaluates the answers, updates factor scores and the lexile estimate, computes the XP reward and holds it pending. XP is not banked until the explicit claim.
// @Tags Rounds
// @Accept json
// @Produce json
// @Param round_id path int true "Round ID"
// @Param submission body dto.SubmitRequest true "Ordered answer letters (optional when all questions were answered incrementally)"
// @Success 200 {object} service.RoundResult
// @Failure 400 {object} dto.ErrorResponse "Answer list does not match the questions, or round not in progress"
// @Failure 404 {object} dto.ErrorResponse "Round not found"
// @Failure 500 {object} dto.ErrorResponse "Persistence failure; try again"
// @Security BearerAuth
// @Router /rounds/{round_id}/submit [post]
func (c *RoundController) SubmitRound(ctx *gin.Context) {
	roundID, ok := roundIDParam(ctx)
	if !ok {
		return
	}
	var req dto.SubmitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	result, err := c.roundService.Submit(currentStudentID(ctx), roundID, req.Answers)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRoundNotFound):
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Round not found"})
		case errors.Is(err, service.ErrRoundState):
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Round has already been submitted."})
		case errors.Is(err, lexile.ErrLengthMismatch):
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Answer list does not match the question count."})
		default:
			log.Error().Err(err).Uint("roundID", roundID).Msg("SubmitRound: service error")
			ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to evaluate the round. Please try again."})
		}
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// ClaimRound godoc
// @Summary Claim a round's pending XP
// @Description Banks the pending XP into the append-only ledger. Claiming is idempotent per round; a second attempt reports already claimed without a duplicate entry. Every full 100 XP of balance converts into +1 lexile level.
// @Tags Rounds
// @Produce json
// @Param round_id path int true "Round ID"
// @Success 200 {object} service.ClaimResult
// @Failure 404 {object} dto.ErrorResponse "Round not found"
// @Failure 409 {object} dto.ErrorResponse "Already claimed"
// @Failure 500 {object} dto.ErrorResponse "Persistence failure; claim can be retried"
// @Security BearerAuth
// @Router /rounds/{round_id}/claim [post]
func (c *RoundController) ClaimRound(ctx *gin.Context) {
	roundID, ok := roundIDParam(ctx)
	if !ok {
		return
	}
	result, err := c.roundService.Claim(currentStudentID(ctx), roundID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRoundNotFound):
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Round not found"})
		case errors.Is(err, service.ErrAlreadyClaimed):
			ctx.JSON(http.StatusConflict, dto.ErrorResponse{Message: "You have already claimed XP for this round."})
		case errors.Is(err, service.ErrRoundState):
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Round has not been evaluated yet."})
		default:
			log.Error().Err(err).Uint("roundID", roundID).Msg("ClaimRound: service error")
			ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to claim XP. Please try again."})
		}
		return
	}
	ctx.JSON(http.StatusOK, result)
}

func roundIDParam(ctx *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param("round_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid Round ID format"})
		return 0, false
	}
	return uint(id), true
}

func roundResponse(round *model.Round) dto.RoundResponse {
	resp := dto.RoundResponse{
		ID:          round.ID,
		Topic:       round.Topic,
		Difficulty:  round.Difficulty,
		TargetLevel: round.TargetLevel,
		Content:     round.Content,
		Status:      round.Status,
		StartedAt:   round.StartedAt,
		Accuracy:    round.Accuracy,
		XPPending:   round.XPPending,
	}
	for _, q := range round.Questions {
		resp.Questions = append(resp.Questions, dto.QuestionResponse{
			ID:           q.ID,
			OrderInRound: q.OrderInRound,
			Text:         q.Text,
			Options:      q.Options(),
			Factor:       q.Factor,
			ChosenOption: q.ChosenOption,
			Correct:      q.Correct,
		})
	}
	return resp
}
