package dto

// SaveImageRequest carries a new gallery image. ImageData is either a bare
// URL/data-URI string or an object with a "url" field; the service resolves
// whichever is present.
type SaveImageRequest struct {
	ImageData any            `json:"imageData"`
	Metadata  map[string]any `json:"metadata"`
}

type CountResponse struct {
	Count int `json:"count"`
}
