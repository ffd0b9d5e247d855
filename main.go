package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"backend/internal/config"
	"backend/internal/database"
	"backend/internal/handlers"
	"backend/internal/mailer"
	"backend/internal/middleware"
	"backend/internal/models"
)

func main() {
	config.Load()

	client, err := database.Connect(config.AppEnv.MongoURI)
	if err != nil {
		log.Fatal(err)
	}

	db := client.Database(config.AppEnv.DBName)

	log.Println("MongoDB connected to:", db.Name())

	if err := database.EnsureUserIndexes(db); err != nil {
		log.Printf("user index warning: %v", err)
	}
	if err := database.EnsureSparePartIndexes(db); err != nil {
		log.Printf("sparepart index warning: %v", err)
	}

	otpSender := mailer.NewSMTPSender(
		config.AppEnv.SMTPHost,
		config.AppEnv.SMTPPort,
		config.AppEnv.SMTPUser,
		config.AppEnv.SMTPPassword,
		config.AppEnv.SMTPFrom,
		config.AppEnv.OTPTTL,
	)

	r := gin.Default()
	r.Static("/public", "./public")

	auth := r.Group("/auth")
	{
		auth.POST("/otp", handlers.RequestOTP(db, otpSender, config.AppEnv.OTPTTL))
		auth.POST("/register", handlers.Register(db, config.AppEnv.JWTSecret, config.AppEnv.SessionTokenTTL))
		auth.POST("/login", handlers.Login(db, config.AppEnv.JWTSecret, config.AppEnv.SessionTokenTTL))
		auth.POST("/verify-email", handlers.VerifyEmail(db))
		auth.POST("/forgot-password", handlers.ForgotPassword(db, otpSender, config.AppEnv.OTPTTL))
		auth.PATCH("/password", middleware.OptionalUserAuth(config.AppEnv.JWTSecret), handlers.UpdatePassword(db))
	}

	users := r.Group("/users")
	users.Use(middleware.UserAuth(config.AppEnv.JWTSecret))
	{
		users.GET("", handlers.ListUsers(db))
		users.GET("/me", handlers.GetProfile(db))
		users.PATCH("/me", handlers.EditProfile(db))
		users.PATCH("/:id/deletion", handlers.SetUserDeletion(db))
	}

	parts := r.Group("/spareparts")
	parts.Use(middleware.UserAuth(config.AppEnv.JWTSecret))
	{
		parts.GET("", handlers.ListSpareParts(db))
		parts.POST("", middleware.RoleGuard(models.RoleSeller), handlers.AddSparePart(db))
		parts.PATCH("/:id", middleware.RoleGuard(models.RoleSeller), handlers.EditSparePart(db))
	}

	r.Run(":" + config.AppEnv.Port)
}
