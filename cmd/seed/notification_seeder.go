package main

import (
	"log"

	"rap-for-money-be/internal/model"
	"rap-for-money-be/pkg/events"

	"gorm.io/gorm"
)

// SeedNotificationTypes populates the database with default notification types.
func SeedNotificationTypes(db *gorm.DB) {
	types := []model.NotificationType{
		{
			Code:        events.TypeUserFollowed,
			DisplayName: "New Follower",
			Template:    "started following you",
			IsActive:    true,
		},
		{
			Code:        events.TypePostLiked,
			DisplayName: "Post Liked",
			Template:    "liked your post",
			IsActive:    true,
		},
		{
			Code:        events.TypePostCommented,
			DisplayName: "New Comment",
			Template:    "commented on your post",
			IsActive:    true,
		},
		{
			Code:        events.TypeTipCreated,
			DisplayName: "Tip Received",
			Template:    "sent you a tip",
			IsActive:    true,
		},
	}

	for _, t := range types {
		var existing model.NotificationType
		if err := db.Where("code = ?", t.Code).First(&existing).Error; err == nil {
			log.Printf("Notification type '%s' already exists, skipping...", t.Code)
			continue
		}

		if err := db.Create(&t).Error; err != nil {
			log.Printf("Error creating notification type '%s': %v", t.Code, err)
		} else {
			log.Printf("Created notification type: %s", t.Code)
		}
	}
}
