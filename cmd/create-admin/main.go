package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/atelierhq/atelier/internal/auth"
	"github.com/atelierhq/atelier/internal/database"
	"github.com/atelierhq/atelier/internal/models"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	godotenv.Load()

	email := flag.String("email", "", "Admin email address")
	username := flag.String("username", "", "Admin username")
	password := flag.String("password", "", "Admin password")
	flag.Parse()

	if *email == "" || *username == "" || *password == "" {
		fmt.Println("Usage: create-admin -email=me@example.com -username=me -password=secret")
		return
	}

	if err := database.Initialize(); err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}
	defer database.Close()

	var existing models.User
	err := database.DB.Where("LOWER(email) = LOWER(?)", *email).First(&existing).Error
	if err == nil {
		fmt.Printf("❌ User already exists: %s\n", *email)
		return
	}
	if err != gorm.ErrRecordNotFound {
		log.Fatalf("❌ Database error: %v", err)
	}

	hash, err := auth.HashPassword(*password)
	if err != nil {
		log.Fatalf("❌ Failed to hash password: %v", err)
	}

	user := models.User{
		Email:        *email,
		Username:     *username,
		PasswordHash: hash,
		Role:         "admin",
	}
	if err := database.DB.Create(&user).Error; err != nil {
		log.Fatalf("❌ Failed to create admin: %v", err)
	}

	fmt.Printf("✅ Admin user created: %s (%s)\n", user.Username, user.Email)
}
