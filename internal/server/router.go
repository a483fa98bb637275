package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterAPIRoutes wires the full REST surface onto the engine.
func (s *Server) RegisterAPIRoutes(engine *gin.Engine) {
	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	engine.GET("/metrics", s.metrics.Handler())

	api := engine.Group("/api")

	// Public routes
	api.POST("/register", s.Register)
	api.POST("/login", s.Login)

	// Protected routes
	authed := api.Group("")
	authed.Use(s.AuthRequired())
	{
		authed.GET("/user", s.CurrentUser)
		authed.POST("/logout", s.Logout)

		authed.GET("/products/statistics", s.ProductStatistics)
		authed.GET("/products/all", s.AllProducts)
		authed.GET("/products/low-stock", s.LowStockProducts)
		authed.GET("/products/out-of-stock", s.OutOfStockProducts)
		authed.PATCH("/products/:id/stock", s.UpdateProductStock)
		authed.GET("/products", s.ListProducts)
		authed.POST("/products", s.CreateProduct)
		authed.GET("/products/:id", s.GetProduct)
		authed.PUT("/products/:id", s.UpdateProduct)
		authed.DELETE("/products/:id", s.DeleteProduct)

		authed.GET("/schedules", s.ListSchedules)
		authed.POST("/schedules", s.CreateSchedule)
		authed.GET("/schedules/:id", s.GetSchedule)
		authed.PUT("/schedules/:id", s.UpdateSchedule)
		authed.DELETE("/schedules/:id", s.DeleteSchedule)

		authed.GET("/tasks", s.ListTasks)
		authed.POST("/tasks", s.CreateTask)
		authed.GET("/tasks/:id", s.GetTask)
		authed.PUT("/tasks/:id", s.UpdateTask)
		authed.DELETE("/tasks/:id", s.DeleteTask)
	}

	// Admin only routes
	admin := api.Group("/admin")
	admin.Use(s.AuthRequired(), s.AdminRequired())
	{
		admin.GET("/users/statistics", s.UserStatistics)
		admin.GET("/users/all", s.AllUsers)
		admin.GET("/users/verified", s.VerifiedUsers)
		admin.GET("/users/unverified", s.UnverifiedUsers)
		admin.GET("/users/admins", s.AdminUsers)
		admin.PATCH("/users/:id/role", s.UpdateUserRole)
		admin.GET("/users", s.ListUsers)
		admin.POST("/users", s.CreateUser)
		admin.GET("/users/:id", s.GetUser)
		admin.PUT("/users/:id", s.UpdateUser)
		admin.DELETE("/users/:id", s.DeleteUser)
	}
}
