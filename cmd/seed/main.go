package main

import (
	"log"
	"os"

	"rap-for-money-be/internal/model"
	"rap-for-money-be/pkg/database"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
)

func main() {
	// Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	color.Cyan("Seeding Demo Accounts...")

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Error: Failed to hash demo password:", err)
	}

	bio := func(s string) *string { return &s }

	users := []model.User{
		{
			Username:     "mc_flow",
			DisplayName:  "MC Flow",
			Email:        "mcflow@example.com",
			PasswordHash: string(hash),
			Bio:          bio("Freestyle every Friday. Tips keep the mic on."),
			Roles:        datatypes.NewJSONSlice([]string{"rapper"}),
			Genres:       datatypes.NewJSONSlice([]string{"boom-bap", "freestyle"}),
		},
		{
			Username:     "beatsmith",
			DisplayName:  "Beatsmith",
			Email:        "beatsmith@example.com",
			PasswordHash: string(hash),
			Bio:          bio("Producer. DM for collabs."),
			Roles:        datatypes.NewJSONSlice([]string{"producer"}),
			Genres:       datatypes.NewJSONSlice([]string{"trap", "lofi"}),
		},
		{
			Username:     "fan_one",
			DisplayName:  "First Fan",
			Email:        "fan@example.com",
			PasswordHash: string(hash),
			Roles:        datatypes.NewJSONSlice([]string{"fan"}),
		},
	}

	for _, u := range users {
		var existing model.User
		if err := db.Where("username = ?", u.Username).First(&existing).Error; err == nil {
			log.Printf("User '%s' already exists, skipping...", u.Username)
			continue
		}

		if err := db.Create(&u).Error; err != nil {
			log.Printf("Error creating user '%s': %v", u.Username, err)
		} else {
			log.Printf("Created user: %s (%s)", u.DisplayName, u.Username)
		}
	}

	log.Println("Demo account seeding completed!")

	log.Println("Seeding Notification Types...")
	SeedNotificationTypes(db)

	color.Green("✅ Seeding finished.")
}
