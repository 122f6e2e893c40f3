package dto

// OSSUploadRequest: field body yang dipakai provider oss. Key lain diabaikan.
type OSSUploadRequest struct {
	Filename    string `json:"filename" validate:"required,max=200"`
	ContentType string `json:"content_type" validate:"omitempty,max=100"`
	Folder      string `json:"folder" validate:"omitempty,max=100"`
}

// OSSUploadResponse: client melakukan PUT langsung ke UploadURL.
type OSSUploadResponse struct {
	Provider    string `json:"provider"`
	Method      string `json:"method"`
	UploadURL   string `json:"upload_url"`
	ObjectKey   string `json:"object_key"`
	PublicURL   string `json:"public_url"`
	ContentType string `json:"content_type,omitempty"`
	ExpiresIn   int64  `json:"expires_in"`
}
