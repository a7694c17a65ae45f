package handlers

import (
	"net/http"
	"time"

	"github.com/SAP-F-2025/challenge-service/internal/events"
	"github.com/SAP-F-2025/challenge-service/internal/services"
	"github.com/SAP-F-2025/challenge-service/internal/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type HandlerManager struct {
	questionHandler  *QuestionHandler
	challengeHandler *ChallengeHandler
	challenges       services.ChallengeService
}

func NewHandlerManager(
	questionService services.QuestionService,
	challengeService services.ChallengeService,
	subscriber events.EventSubscriber,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		questionHandler:  NewQuestionHandler(questionService, logger),
		challengeHandler: NewChallengeHandler(challengeService, subscriber, logger),
		challenges:       challengeService,
	}
}

// NewRouter builds the gin engine with recovery, request ids, logging and CORS.
func NewRouter(logger utils.Logger, allowedOrigins []string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.RequestID())
	router.Use(utils.LoggerMiddleware(logger))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", utils.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", utils.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	return router
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", hm.HealthCheck)

	v1 := router.Group("/api/v1")
	{
		questions := v1.Group("/questions")
		{
			questions.GET("", hm.questionHandler.ListQuestions)
			questions.GET("/:id", hm.questionHandler.GetQuestion)
		}

		challenges := v1.Group("/challenges")
		{
			challenges.POST("/:id/mount", hm.challengeHandler.MountChallenge)
			challenges.GET("/:id", hm.challengeHandler.GetChallenge)
			challenges.POST("/:id/select", hm.challengeHandler.SelectAnswer)
			challenges.POST("/:id/submit", hm.challengeHandler.SubmitAnswer)
			challenges.POST("/:id/reset", hm.challengeHandler.ResetChallenge)
			challenges.DELETE("/:id", hm.challengeHandler.UnmountChallenge)
			challenges.GET("/:id/stream", hm.challengeHandler.StreamChallenge)
		}
	}
}

func (hm *HandlerManager) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "challenge-service",
		"mounted": len(hm.challenges.Mounted()),
	})
}
