package response

type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type AttachmentResponse struct {
	Object string `json:"object"`
	URL    string `json:"url"`
}
