package dto

type UpdateBioRequest struct {
	Bio string `json:"bio"`
}

// UpdateProfilePictureRequest distinguishes "clear the picture" (explicit
// null) from "no picture supplied": both arrive as nil here, and clearing
// is the documented meaning.
type UpdateProfilePictureRequest struct {
	ProfilePicture *string `json:"profilePicture"`
}
