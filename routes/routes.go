package routes

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"reliquia-backend/config"
	"reliquia-backend/controllers"
	"reliquia-backend/utils"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	CORSOrigins  []string
	Logger       *zap.Logger
	Tokens       *utils.TokenManager
	AdminChecker utils.AdminChecker
	HealthChecks map[string]controllers.Pinger

	Auth         *controllers.AuthController
	Catalog      *controllers.CatalogController
	Appointments *controllers.AppointmentController
	Payments     *controllers.PaymentController
	Admin        *controllers.AdminController
}

func SetupRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     d.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger(d.Logger))

	r.GET("/healthz", controllers.Health(d.HealthChecks))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.NoRoute(func(c *gin.Context) {
		utils.RespondWithError(c, http.StatusNotFound, "Route not found")
	})

	requireAuth := utils.AuthMiddleware(d.Tokens)

	auth := r.Group("/auth")
	{
		auth.POST("/register", d.Auth.Register)
		auth.POST("/login", d.Auth.Login)

		auth.Use(requireAuth)
		auth.GET("/me", d.Auth.Me)
		auth.PUT("/password", d.Auth.ChangePassword)
	}

	api := r.Group("/api")
	api.Use(requireAuth)
	{
		api.GET("/services", d.Catalog.GetServices)
		api.GET("/combos", d.Catalog.GetCombos)
		api.POST("/pricing/quote", d.Appointments.Quote)
		api.GET("/slots", d.Appointments.GetSlots)

		appointments := api.Group("/appointments")
		{
			appointments.POST("", d.Appointments.CreateAppointment)
			appointments.GET("", d.Appointments.GetMyAppointments)
			appointments.POST("/:id/cancel", d.Appointments.CancelMyAppointment)
		}

		api.GET("/payments/balance", d.Payments.GetMyBalance)
	}

	admin := r.Group("/admin")
	admin.Use(requireAuth, utils.AdminMiddleware(d.AdminChecker))
	{
		admin.GET("/dashboard", d.Admin.GetDashboardOverview)
		admin.GET("/earnings", d.Admin.GetWeeklyEarnings)

		services := admin.Group("/services")
		{
			services.POST("", d.Catalog.CreateService)
			services.GET("", d.Catalog.ListAllServices)
			services.GET("/:id", d.Catalog.GetService)
			services.PUT("/:id", d.Catalog.UpdateService)
			services.DELETE("/:id", d.Catalog.DeleteService)
		}

		appointments := admin.Group("/appointments")
		{
			appointments.GET("", d.Appointments.ListAppointments)
			appointments.POST("/:id/confirm", d.Appointments.ConfirmAppointment)
			appointments.DELETE("/:id", d.Appointments.DeleteAppointment)
		}

		payments := admin.Group("/payments/clients")
		{
			payments.GET("", d.Payments.GetOutstandingClients)
			payments.GET("/:id/pix", d.Payments.GetClientPix)
			payments.GET("/:id/pix.png", d.Payments.GetClientPixQR)
		}

		users := admin.Group("/users")
		{
			users.GET("", d.Admin.SearchUsers)
			users.GET("/ban-presets", d.Admin.GetBanPresets)
			users.POST("/:id/ban", d.Admin.BanUser)
			users.POST("/:id/unban", d.Admin.UnbanUser)
			users.DELETE("/:id", d.Admin.DeleteUser)
		}
	}

	return r
}
