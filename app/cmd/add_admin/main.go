package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sakthimugupython/Vetri-Training-Final/app/config"
	"github.com/sakthimugupython/Vetri-Training-Final/app/database"
	"github.com/sakthimugupython/Vetri-Training-Final/app/models"
	"github.com/sakthimugupython/Vetri-Training-Final/app/routes/auth"
)

func main() {
	email := flag.String("email", "", "admin email address")
	password := flag.String("password", "", "admin password (min 8 characters)")
	firstName := flag.String("first-name", "Admin", "first name")
	lastName := flag.String("last-name", "", "last name")
	flag.Parse()

	if *email == "" || *password == "" {
		fmt.Println("Usage: add_admin -email admin@example.com -password secret123")
		os.Exit(1)
	}
	if len(*password) < 8 {
		fmt.Println("Password must be at least 8 characters long")
		os.Exit(1)
	}

	// Initialize database connection
	config.InitDB()
	db := config.GetDB()
	if db == nil {
		fmt.Println("Failed to connect to database")
		os.Exit(1)
	}
	defer db.Close()

	hashed, err := auth.HashPassword(*password)
	if err != nil {
		fmt.Printf("Error hashing password: %v\n", err)
		os.Exit(1)
	}

	user := &models.User{
		Email:     *email,
		Password:  hashed,
		FirstName: *firstName,
		LastName:  *lastName,
		IsActive:  true,
	}
	if err := database.CreateUser(db, user); err != nil {
		fmt.Printf("Error creating user: %v\n", err)
		os.Exit(1)
	}
	if err := database.AssignUserRole(db, user.ID, models.RoleAdmin); err != nil {
		fmt.Printf("Error assigning admin role: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Admin created successfully: %s %s (%s)\n", user.FirstName, user.LastName, user.Email)
}
