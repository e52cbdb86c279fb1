package model

// Request and response payloads for the JSON endpoints. Business rejections
// come back as {"success": false, "message": ...} on a 200 response; status
// codes are reserved for transport-level problems.

type LoginRequest struct {
	Name      string `json:"name"`
	StudentID string `json:"student_id"`
}

type CheckCodeRequest struct {
	Code string `json:"code"`
}

type DeleteCodeRequest struct {
	Code string `json:"code"`
}

type StatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type CheckCodeResponse struct {
	Success bool   `json:"success"`
	Page    string `json:"page,omitempty"`
	Message string `json:"message,omitempty"`
}

type ReloadResponse struct {
	Success bool   `json:"success"`
	Count   int    `json:"count"`
	Message string `json:"message,omitempty"`
}

type AdminReport struct {
	Attempts  []Attempt  `json:"attempts"`
	UsedCodes []UsedCode `json:"used_codes"`
}
