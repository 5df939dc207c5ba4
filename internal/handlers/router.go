package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/Atig-Hamza/RecoleCheck/internal/middleware"
	"github.com/Atig-Hamza/RecoleCheck/internal/repository"
)

// Routes groups the handlers served under /api/v1.
type Routes struct {
	Auth      *AuthHandler
	Profile   *ProfileHandler
	Dashboard *DashboardHandler
	Parcels   *ParcelHandler
	Zones     *ZoneHandler
	Harvests  *HarvestHandler
}

// Register mounts the routes on v1. requireAuth guards everything except
// sign-up and sign-in, which go through authLimit instead.
func (r Routes) Register(v1 *gin.RouterGroup, requireAuth, authLimit gin.HandlerFunc) {
	authRoutes := v1.Group("/auth")
	{
		authRoutes.POST("/sign-up", authLimit, r.Auth.SignUp)
		authRoutes.POST("/sign-in", authLimit, r.Auth.SignIn)
		authRoutes.POST("/sign-out", requireAuth, r.Auth.SignOut)
	}

	protected := v1.Group("", requireAuth)
	{
		protected.GET("/me", r.Auth.Me)

		protected.GET("/profile", r.Profile.Get)
		protected.PUT("/profile", r.Profile.Save)
		protected.PATCH("/profile", r.Profile.Patch)

		protected.GET("/dashboard", r.Dashboard.Get)

		parcels := protected.Group("/parcels")
		{
			parcels.GET("", r.Parcels.List)
			parcels.POST("", r.Parcels.Create)
			parcels.GET("/:parcelId", r.Parcels.Get)
			parcels.PUT("/:parcelId", r.Parcels.Update)
			parcels.DELETE("/:parcelId", r.Parcels.Delete)

			zones := parcels.Group("/:parcelId/zones")
			{
				zones.GET("", r.Zones.List)
				zones.POST("", r.Zones.Create)
				zones.GET("/:zoneId", r.Zones.Get)
				zones.PUT("/:zoneId", r.Zones.Update)
				zones.DELETE("/:zoneId", r.Zones.Delete)
				zones.GET("/:zoneId/summary", r.Harvests.Summary)

				harvests := zones.Group("/:zoneId/harvests")
				{
					harvests.GET("", r.Harvests.List)
					harvests.POST("", r.Harvests.Create)
					harvests.GET("/:harvestId", r.Harvests.Get)
					harvests.PUT("/:harvestId", r.Harvests.Update)
					harvests.DELETE("/:harvestId", r.Harvests.Delete)
				}
			}
		}
	}
}

func zoneScope(c *gin.Context) repository.ZoneScope {
	return repository.ParcelScope{UserID: middleware.GetUserID(c)}.Zones(c.Param("parcelId"))
}

func harvestScope(c *gin.Context) repository.HarvestScope {
	return zoneScope(c).Harvests(c.Param("zoneId"))
}
