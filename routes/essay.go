package routes

import (
	"essayhub/controllers"

	"github.com/gin-gonic/gin"
)

// SetupEssayRoutes registers the grading endpoints.
func SetupEssayRoutes(router *gin.Engine) {
	router.GET("/", controllers.Index)
	router.GET("/healthz", controllers.Health)
	router.POST("/grade", controllers.GradeEssay)
	router.POST("/grade/view", controllers.GradeEssayView)
}
