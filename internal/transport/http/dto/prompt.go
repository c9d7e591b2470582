package dto

type SavePromptRequest struct {
	Text string `json:"text" validate:"required"`
	Name string `json:"name"`
}
