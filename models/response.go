package models

// Mutating operations answer with a uniform envelope instead of raising:
// only structurally invalid input is rejected with a transport-level error.
type MutationResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

type DiscrepancyResponse struct {
	Success     bool              `json:"success"`
	Discrepancy *Discrepancy      `json:"discrepancy,omitempty"`
	Message     string            `json:"message"`
	Errors      map[string]string `json:"errors,omitempty"`
}
