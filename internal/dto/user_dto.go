package dto

type UpdateProfileRequest struct {
	DisplayName *string  `json:"display_name" validate:"omitempty,min=1,max=60"`
	Bio         *string  `json:"bio" validate:"omitempty,max=500"`
	Location    *string  `json:"location" validate:"omitempty,max=100"`
	Genres      []string `json:"genres" validate:"omitempty,dive,min=1"`
}

type SearchUsersRequest struct {
	Query string `query:"q" validate:"required,min=1"`
	Page  int    `query:"page"`
	Limit int    `query:"limit"`
}

type FollowResponse struct {
	Following     bool  `json:"following"`
	FollowerCount int64 `json:"follower_count"`
}
