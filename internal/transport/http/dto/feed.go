package dto

type CreatePostRequest struct {
	ImageURL string `json:"imageUrl" validate:"required"`
	Username string `json:"username" validate:"required"`
	Caption  string `json:"caption"`
}

type ToggleLikeRequest struct {
	Username string `json:"username" validate:"required"`
}
