package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/mo-amir99/campaign-naming-server-go/internal/features/user"
	"github.com/mo-amir99/campaign-naming-server-go/pkg/config"
	"github.com/mo-amir99/campaign-naming-server-go/pkg/database"
	"github.com/mo-amir99/campaign-naming-server-go/pkg/logger"
	"github.com/mo-amir99/campaign-naming-server-go/pkg/types"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}

	// Connect to database
	db, err := database.Connect(context.Background(), cfg.Database, appLogger)
	if err != nil {
		appLogger.Error("Failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.Close(db, appLogger)

	reader := bufio.NewReader(os.Stdin)

	fmt.Print("Full Name: ")
	fullName, _ := reader.ReadString('\n')
	fullName = strings.TrimSpace(fullName)

	fmt.Print("Email: ")
	email, _ := reader.ReadString('\n')
	email = strings.TrimSpace(email)

	fmt.Printf("Password (min %d chars): ", user.MinPasswordLength)
	password, _ := reader.ReadString('\n')
	password = strings.TrimSpace(password)

	if fullName == "" || email == "" {
		fmt.Println("❌ Error: Full name and email are required")
		os.Exit(1)
	}

	newUser, err := user.CreateWithPassword(db, user.PasswordInput{
		FullName: fullName,
		Email:    email,
		Password: password,
		Role:     types.UserRoleAdmin,
	})
	switch {
	case errors.Is(err, user.ErrEmailTaken):
		fmt.Println("❌ Error: A user with this email already exists")
		os.Exit(1)
	case errors.Is(err, user.ErrInvalidPassword):
		fmt.Printf("❌ Error: Password must be at least %d characters\n", user.MinPasswordLength)
		os.Exit(1)
	case err != nil:
		appLogger.Error("Failed to create admin", slog.String("error", err.Error()))
		os.Exit(1)
	}

	fmt.Println("\n✅ Admin created successfully!")
	fmt.Printf("   ID: %s\n", newUser.ID)
	fmt.Printf("   Email: %s\n", newUser.Email)
	fmt.Printf("   Role: %s\n", newUser.Role)
}
