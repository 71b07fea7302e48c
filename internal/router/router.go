package router

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sehyunahn/seum-backend/config"
	"github.com/sehyunahn/seum-backend/internal/app/controller"
	"github.com/sehyunahn/seum-backend/internal/middleware"
)

type Router struct {
	authController         *controller.AuthController
	userController         *controller.UserController
	authorityController    *controller.AuthorityController
	noticeController       *controller.NoticeController
	testimonyController    *controller.TestimonyController
	eventController        *controller.EventController
	organizationController *controller.OrganizationController
	notificationController *controller.NotificationController
	websocketController    *controller.WebSocketController
	authMiddleware         *middleware.AuthMiddleware
	authorityMiddleware    *middleware.AuthorityMiddleware
	config                 *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	userController *controller.UserController,
	authorityController *controller.AuthorityController,
	noticeController *controller.NoticeController,
	testimonyController *controller.TestimonyController,
	eventController *controller.EventController,
	organizationController *controller.OrganizationController,
	notificationController *controller.NotificationController,
	websocketController *controller.WebSocketController,
	authMiddleware *middleware.AuthMiddleware,
	authorityMiddleware *middleware.AuthorityMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:         authController,
		userController:         userController,
		authorityController:    authorityController,
		noticeController:       noticeController,
		testimonyController:    testimonyController,
		eventController:        eventController,
		organizationController: organizationController,
		notificationController: notificationController,
		websocketController:    websocketController,
		authMiddleware:         authMiddleware,
		authorityMiddleware:    authorityMiddleware,
		config:                 cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "SEUM API is running",
		})
	})

	// 실시간 알림 채널. 핸드셰이크 토큰은 쿼리 파라미터로 받는다.
	router.GET("/ws/notifications", r.authMiddleware.Authenticate(), r.websocketController.HandleNotifications)

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/join", r.authController.Join)
			auth.POST("/login", r.authController.Login)
			auth.POST("/refresh", r.authController.Refresh)
			auth.POST("/logout", r.authMiddleware.Authenticate(), r.authController.Logout)
			auth.GET("/me", r.authMiddleware.Authenticate(), r.authController.Me)
			auth.PATCH("/me", r.authMiddleware.Authenticate(), r.authController.UpdateMe)
			auth.PUT("/password", r.authMiddleware.Authenticate(), r.authController.ChangePassword)
			auth.PUT("/push-token", r.authMiddleware.Authenticate(), r.authController.UpdatePushToken)
		}

		users := v1.Group("/users")
		users.Use(r.authMiddleware.Authenticate())
		{
			// 명단 조회/내보내기는 사용자 관리 권한(팀장 이상)
			users.GET("", r.authorityMiddleware.RequireUserManager(), r.userController.GetUsers)
			users.GET("/export", r.authorityMiddleware.RequireUserManager(), r.userController.ExportRoster)
			users.GET("/:id", r.authorityMiddleware.RequireUserManager(), r.userController.GetUser)

			users.GET("/:id/authorities", r.userAuthoritiesRead())
			users.POST("/:id/authorities", r.authorityMiddleware.RequireMaster(), r.authorityController.AssignAuthority)
			users.DELETE("/:id/authorities/:authorityId", r.authorityMiddleware.RequireMaster(), r.authorityController.RemoveAuthority)
		}

		authorities := v1.Group("/authorities")
		authorities.Use(r.authMiddleware.Authenticate())
		{
			authorities.GET("", r.authorityController.ListAuthorities)
			authorities.GET("/me", r.authorityController.GetMyAuthorities)
		}

		notices := v1.Group("/notices")
		notices.Use(r.authMiddleware.Authenticate())
		{
			notices.GET("", r.noticeController.GetNotices)
			notices.GET("/:id", r.noticeController.GetNotice)
			// 공지 작성/수정/삭제는 훈련 관리 권한(지부장 이상)
			notices.POST("", r.authorityMiddleware.RequireTrainingManager(), r.noticeController.CreateNotice)
			notices.PUT("/:id", r.authorityMiddleware.RequireTrainingManager(), r.noticeController.UpdateNotice)
			notices.DELETE("/:id", r.authorityMiddleware.RequireTrainingManager(), r.noticeController.DeleteNotice)
		}

		testimonies := v1.Group("/testimonies")
		testimonies.Use(r.authMiddleware.Authenticate())
		{
			testimonies.GET("", r.testimonyController.GetTestimonies)
			testimonies.GET("/:id", r.testimonyController.GetTestimony)
			testimonies.POST("", r.testimonyController.CreateTestimony)
			// 수정/삭제는 핸들러 안에서 작성자-또는-관리자 분기
			testimonies.PUT("/:id", r.authorityMiddleware.ResolveAuthorities(), r.testimonyController.UpdateTestimony)
			testimonies.DELETE("/:id", r.authorityMiddleware.ResolveAuthorities(), r.testimonyController.DeleteTestimony)

			testimonies.POST("/:id/like", r.testimonyController.ToggleLike)
			testimonies.GET("/:id/comments", r.testimonyController.GetComments)
			testimonies.POST("/:id/comments", r.testimonyController.CreateComment)
		}

		comments := v1.Group("/comments")
		comments.Use(r.authMiddleware.Authenticate())
		{
			comments.PUT("/:id", r.testimonyController.UpdateComment)
			comments.DELETE("/:id", r.authorityMiddleware.ResolveAuthorities(), r.testimonyController.DeleteComment)
		}

		events := v1.Group("/events")
		events.Use(r.authMiddleware.Authenticate())
		{
			events.GET("", r.eventController.GetEvents)
			events.GET("/:id", r.eventController.GetEvent)
			events.POST("", r.authorityMiddleware.RequireTrainingManager(), r.eventController.CreateEvent)
			events.PUT("/:id", r.authorityMiddleware.RequireTrainingManager(), r.eventController.UpdateEvent)
			events.DELETE("/:id", r.authorityMiddleware.RequireTrainingManager(), r.eventController.DeleteEvent)
		}

		organization := v1.Group("/organization")
		organization.Use(r.authMiddleware.Authenticate())
		{
			organization.GET("/branches", r.organizationController.GetBranches)
			organization.GET("/branches/:id/regions", r.organizationController.GetRegions)
			organization.GET("/regions/:id/groups", r.organizationController.GetGroups)
			organization.GET("/groups/:id/teams", r.organizationController.GetTeams)
			organization.GET("/teams/:id", r.organizationController.GetTeam)
			organization.POST("/teams/:id/members", r.authorityMiddleware.RequireUserManager(), r.organizationController.AddTeamMember)
			organization.DELETE("/teams/:id/members/:userId", r.authorityMiddleware.RequireUserManager(), r.organizationController.RemoveTeamMember)
		}

		notifications := v1.Group("/notifications")
		notifications.Use(r.authMiddleware.Authenticate())
		{
			notifications.GET("", r.notificationController.GetNotifications)
			notifications.GET("/unread-count", r.notificationController.GetUnreadCount)
			notifications.PUT("/read-all", r.notificationController.MarkAllAsRead)
			notifications.PUT("/read-related", r.notificationController.MarkRelatedAsRead)
			notifications.PUT("/:id/read", r.notificationController.MarkAsRead)
			notifications.DELETE("/:id", r.notificationController.DeleteNotification)
		}
	}

	return router
}

// userAuthoritiesRead 본인 권한은 누구나, 남의 권한은 관리 권한자만 조회
func (r *Router) userAuthoritiesRead() gin.HandlerFunc {
	managerGate := r.authorityMiddleware.RequireUserManager()
	return func(c *gin.Context) {
		userID, _ := middleware.GetUserID(c)
		if targetID, err := strconv.ParseUint(c.Param("id"), 10, 32); err == nil && uint(targetID) == userID {
			r.authorityController.GetUserAuthorities(c)
			return
		}
		managerGate(c)
		if !c.IsAborted() {
			r.authorityController.GetUserAuthorities(c)
		}
	}
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
