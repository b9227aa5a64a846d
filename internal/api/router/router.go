package router

import (
	"regexp"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/d60-Lab/sociograph/config"
	_ "github.com/d60-Lab/sociograph/docs"
	"github.com/d60-Lab/sociograph/internal/api/handler"
	"github.com/d60-Lab/sociograph/internal/middleware"
	"github.com/d60-Lab/sociograph/internal/service"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.]{3,30}$`)

func registerValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
			return usernamePattern.MatchString(fl.Field().String())
		})
	}
}

// Setup 组装 gin 引擎：访问日志、sentry recovery、gzip、tracing、限流
func Setup(cfg *config.Config, h *handler.Handler, authService service.AuthService) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)
	registerValidators()

	r := gin.New()
	r.Use(
		middleware.RequestLog(),
		middleware.Recovery(),
		gzip.Gzip(gzip.DefaultCompression),
		otelgin.Middleware("sociograph"),
		middleware.RateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
	)

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/healthz", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })

	api := r.Group("/api/v1")

	auth := api.Group("/auth")
	{
		auth.POST("/signup", h.SignUp)
		auth.POST("/login", h.Login)
		auth.GET("/logout", h.Logout)
		auth.POST("/forgot-password", h.ForgotPassword)
		auth.POST("/reset-password", h.ResetPassword)
	}

	authed := api.Group("", middleware.Auth(authService))
	{
		authed.PATCH("/auth/settings", h.Settings)

		authed.POST("/users/:user_id/follow", h.Follow)
		authed.DELETE("/users/:user_id/follow", h.Unfollow)
		authed.POST("/users/:user_id/close-friend", h.AddCloseFriend)
		authed.DELETE("/users/:user_id/close-friend", h.RemoveCloseFriend)
		authed.GET("/users/:user_id/followers", h.ListFollowers)

		authed.GET("/timeline", h.Timeline)

		authed.POST("/posts", h.CreatePost)
		authed.POST("/posts/:post_id/like", h.LikePost)
		authed.DELETE("/posts/:post_id/like", h.UnlikePost)

		authed.POST("/stories", h.CreateStory)
		authed.GET("/stories", h.ListStories)
	}

	return r
}
