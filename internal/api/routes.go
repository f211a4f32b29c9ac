package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter builds the gin engine with middleware and every route
func NewRouter(h *Handler) *gin.Engine {
	RegisterValidators()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(h.logger))
	router.Use(Metrics())
	router.Use(CORS(h.config.Server.AllowedOrigins))

	SetupRoutes(router, h)
	return router
}

func SetupRoutes(router *gin.Engine, h *Handler) {
	router.GET("/healthz", h.Healthz)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	admin := h.AdminAuth()

	api := router.Group("/api")
	{
		property := api.Group("/property")
		property.GET("/getProperties", h.GetProperties)
		property.GET("/getProperty/:id", h.GetProperty)
		property.GET("/catalog", h.GetCatalog)
		property.GET("/geojson", h.GetGeoJSON)
		property.POST("/emi/:id", h.QuoteProperty)
		property.POST("/createProperty", admin, h.CreateProperty)
		property.PUT("/updateProperty/:id", admin, h.UpdateProperty)
		property.DELETE("/deleteProperty/:id", admin, h.DeleteProperty)

		api.POST("/emi/quote", h.QuoteLoan)

		faq := api.Group("/faq")
		faq.GET("/getfaqs", h.GetFAQs)
		faq.GET("/getfaq/:id", h.GetFAQ)
		faq.POST("/createfaq", admin, h.CreateFAQ)
		faq.PUT("/updatefaq/:id", admin, h.UpdateFAQ)
		faq.DELETE("/deletefaq/:id", admin, h.DeleteFAQ)

		team := api.Group("/team")
		team.GET("/getTeams", h.GetTeams)
		team.POST("/createTeam", admin, h.CreateTeam)
		team.PUT("/updateTeam/:id", admin, h.UpdateTeam)
		team.DELETE("/deleteTeam/:id", admin, h.DeleteTeam)

		static := api.Group("/static")
		static.GET("/getAllStatics", h.GetAllStatics)
		static.GET("/getStatic/:id", h.GetStatic)
		static.PUT("/updateStatic/:id", admin, h.UpdateStatic)

		contact := api.Group("/contact")
		contact.POST("/createContact", h.CreateContact)
		contact.GET("/getContacts", admin, h.GetContacts)
		contact.GET("/getContact/:id", admin, h.GetContact)
		contact.DELETE("/deleteContact/:id", admin, h.DeleteContact)

		api.POST("/admin/login", h.Login)
		adminGroup := api.Group("/admin", admin)
		adminGroup.GET("/me", h.Me)
		adminGroup.GET("/stats", h.GetStats)
		adminGroup.POST("/update-coordinates", h.UpdateCoordinates)
		adminGroup.GET("/telegram", h.GetTelegramConfig)
		adminGroup.PUT("/telegram", h.UpdateTelegramConfig)
		adminGroup.POST("/telegram/test", h.TestTelegramConfig)
	}
}
