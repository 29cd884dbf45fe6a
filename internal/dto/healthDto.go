package dto

type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

type HelloResponse struct {
	Message string `json:"message"`
	Path    string `json:"path"`
}
