package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/linskybing/nephra/internal/api/handlers"
	"github.com/linskybing/nephra/internal/api/middleware"
	"github.com/linskybing/nephra/internal/application"
	"github.com/linskybing/nephra/internal/events"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/linskybing/nephra/docs"
)

func RegisterRoutes(r *gin.Engine, svc *application.Services, hub *events.Hub) {
	h := handlers.New(svc, hub)

	r.GET("/healthz", handlers.Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	auth := r.Group("/")
	auth.Use(middleware.JWTAuthMiddleware())
	{
		auth.GET("/projects", h.Project.GetProjects)
		auth.GET("/projects/:id", h.Project.GetProjectByID)

		apps := auth.Group("/applications")
		{
			apps.GET("/mine", h.Submission.ListMine)
			apps.POST("/proposals", h.Submission.SubmitProposal)
			apps.POST("/requests", h.Submission.SubmitRequest)
			apps.POST("/:id/attachments", h.Attachment.UploadAttachment)
		}

		admin := auth.Group("/admin")
		admin.Use(middleware.Admin())
		{
			admin.GET("/applications", h.Review.ListApplications)
			admin.GET("/applications/:id", h.Review.GetApplication)
			admin.PUT("/applications/:id/approve", h.Review.ApproveApplication)
			admin.PUT("/applications/:id/reject", h.Review.RejectApplication)
			admin.PUT("/applications/:id/progress", h.Review.UpdateProgress)
			admin.DELETE("/applications/:id", h.Review.DeleteApplication)
			admin.GET("/audit/logs", h.Audit.GetAuditLogs)
		}

		auth.GET("/ws/applications", middleware.Admin(), h.Events.WatchApplications)
	}
}
