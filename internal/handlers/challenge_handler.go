package handlers

import (
	"io"
	"net/http"

	"github.com/SAP-F-2025/challenge-service/internal/events"
	"github.com/SAP-F-2025/challenge-service/internal/services"
	"github.com/SAP-F-2025/challenge-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type ChallengeHandler struct {
	BaseHandler
	challengeService services.ChallengeService
	subscriber       events.EventSubscriber
}

func NewChallengeHandler(
	challengeService services.ChallengeService,
	subscriber events.EventSubscriber,
	logger utils.Logger,
) *ChallengeHandler {
	return &ChallengeHandler{
		BaseHandler:      NewBaseHandler(logger),
		challengeService: challengeService,
		subscriber:       subscriber,
	}
}

// MountChallenge renders a question's widget and restores its stored progress
// @Summary Mount challenge
// @Tags challenges
// @Produce json
// @Param id path string true "Question ID"
// @Success 200 {object} SuccessResponse{data=services.ChallengeResponse}
// @Failure 404 {object} ErrorResponse
// @Router /challenges/{id}/mount [post]
func (h *ChallengeHandler) MountChallenge(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	h.LogRequest(c, "Mounting challenge", "question_id", id)

	resp, err := h.challengeService.Mount(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Challenge mounted", resp)
}

// GetChallenge returns the current widget snapshot
// @Router /challenges/{id} [get]
func (h *ChallengeHandler) GetChallenge(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	resp, err := h.challengeService.Get(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Challenge retrieved", resp)
}

// SelectAnswer picks an option, toggles one, or replaces the fill text
// @Router /challenges/{id}/select [post]
func (h *ChallengeHandler) SelectAnswer(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	var req services.SelectAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err, err.Error())
		return
	}

	h.LogRequest(c, "Selecting answer", "question_id", id)

	resp, err := h.challengeService.Select(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, selectionMessage(resp.Accepted), resp)
}

// SubmitAnswer grades the current candidate
// @Router /challenges/{id}/submit [post]
func (h *ChallengeHandler) SubmitAnswer(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	h.LogRequest(c, "Submitting answer", "question_id", id)

	resp, err := h.challengeService.Submit(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	message := "Submission ignored"
	if resp.Accepted && resp.Correct != nil && *resp.Correct {
		message = "Correct answer"
	} else if resp.Accepted {
		message = "Wrong answer"
	}
	h.RespondWithSuccess(c, http.StatusOK, message, resp)
}

// ResetChallenge clears stored progress unless the challenge is locked
// @Router /challenges/{id}/reset [post]
func (h *ChallengeHandler) ResetChallenge(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	h.LogRequest(c, "Resetting challenge", "question_id", id)

	resp, err := h.challengeService.Reset(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	message := "Reset ignored while locked"
	if resp.Accepted {
		message = "Challenge reset"
	}
	h.RespondWithSuccess(c, http.StatusOK, message, resp)
}

// UnmountChallenge tears the widget down; stored progress is kept
// @Router /challenges/{id} [delete]
func (h *ChallengeHandler) UnmountChallenge(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	if err := h.challengeService.Unmount(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Challenge unmounted", nil)
}

// StreamChallenge pushes the widget's events (countdown ticks included) as
// server-sent events until the client goes away.
// @Router /challenges/{id}/stream [get]
func (h *ChallengeHandler) StreamChallenge(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	current, err := h.challengeService.Get(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	ctx := c.Request.Context()
	stream, err := h.subscriber.SubscribeChallengeEvents(ctx)
	if err != nil {
		h.RespondWithError(c, http.StatusInternalServerError, "Failed to open event stream", err)
		return
	}

	h.LogInfo(c, "Challenge stream opened", "question_id", id)

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.SSEvent("snapshot", current.State)
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case event, ok := <-stream:
			if !ok {
				return false
			}
			if event.QuestionID == id {
				c.SSEvent(string(event.Type), event)
			}
			return true
		}
	})

	h.LogInfo(c, "Challenge stream closed", "question_id", id)
}

func selectionMessage(accepted bool) string {
	if accepted {
		return "Answer selected"
	}
	return "Selection ignored"
}
