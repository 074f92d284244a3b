package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/yourusername/survey-api/internal/middleware"
)

// Routes собирает обработчики и middleware для регистрации маршрутов /api
type Routes struct {
	Auth      *AuthHandler
	Surveys   *SurveyHandler
	Questions *QuestionHandler
	Options   *OptionHandler
	Answers   *AnswerHandler

	RequireAuth gin.HandlerFunc
	// Idempotency и AuthRateLimit необязательны
	Idempotency   gin.HandlerFunc
	AuthRateLimit gin.HandlerFunc
}

// chain возвращает новую цепочку обработчиков без nil
func chain(handlers ...gin.HandlerFunc) []gin.HandlerFunc {
	result := make([]gin.HandlerFunc, 0, len(handlers))
	for _, h := range handlers {
		if h != nil {
			result = append(result, h)
		}
	}
	return result
}

// Register регистрирует маршруты API в группе /api
func (rt Routes) Register(r gin.IRouter) {
	api := r.Group("/api")

	authGroup := api.Group("/auth", chain(rt.AuthRateLimit)...)
	{
		authGroup.POST("/register", rt.Auth.Register)
		authGroup.POST("/login", rt.Auth.Login)
	}
	api.GET("/users/me", rt.RequireAuth, rt.Auth.Me)

	surveyParam := middleware.ExtractUintParam("surveyId", ParamSurveyID)
	questionParam := middleware.ExtractUintParam("questionId", ParamQuestionID)
	optionParam := middleware.ExtractUintParam("optionId", ParamOptionID)
	answerParam := middleware.ExtractUintParam("answerId", ParamAnswerID)

	surveys := api.Group("/surveys")
	{
		surveys.GET("", rt.Surveys.ListSurveys)
		surveys.GET("/done", rt.Surveys.ListDoneSurveys)
		surveys.POST("", rt.RequireAuth, rt.Surveys.CreateSurvey)
	}

	survey := surveys.Group("/:surveyId", surveyParam)
	{
		survey.GET("", rt.Surveys.GetSurvey)
		survey.GET("/export", rt.RequireAuth, rt.Surveys.ExportSurvey)
		survey.PUT("", rt.RequireAuth, rt.Surveys.UpdateSurvey)
		survey.DELETE("", rt.RequireAuth, rt.Surveys.DeleteSurvey)
		survey.POST("/complete", rt.RequireAuth, rt.Surveys.CompleteSurvey)

		survey.GET("/questions", rt.Questions.ListQuestions)
		survey.POST("/questions", rt.RequireAuth, rt.Questions.CreateQuestion)
	}

	question := survey.Group("/questions/:questionId", questionParam)
	{
		question.GET("", rt.Questions.GetQuestion)
		question.PUT("", rt.RequireAuth, rt.Questions.UpdateQuestion)
		question.DELETE("", rt.RequireAuth, rt.Questions.DeleteQuestion)

		question.GET("/options", rt.Options.ListOptions)
		question.POST("/options", rt.RequireAuth, rt.Options.CreateOption)
		question.PUT("/options/:optionId", rt.RequireAuth, optionParam, rt.Options.UpdateOption)
		question.DELETE("/options/:optionId", rt.RequireAuth, optionParam, rt.Options.DeleteOption)
	}

	// Изменения ответов меняют сумму баллов: повтор защищается Idempotency-Key
	question.POST("/answers", chain(rt.RequireAuth, rt.Idempotency, rt.Answers.CreateAnswer)...)
	question.GET("/answers/:answerId", rt.RequireAuth, answerParam, rt.Answers.GetAnswer)
	question.PUT("/answers/:answerId", chain(rt.RequireAuth, answerParam, rt.Idempotency, rt.Answers.UpdateAnswer)...)
	question.DELETE("/answers/:answerId", chain(rt.RequireAuth, answerParam, rt.Idempotency, rt.Answers.DeleteAnswer)...)
}
