package dto

type HomeModeSummary struct {
	Mode      string `json:"mode"`
	Total     int    `json:"total"`
	Completed int    `json:"completed"`
	Active    int    `json:"active"`
}

type HomeDashboardResponse struct {
	Projects         int               `json:"projects"`
	Sessions         []HomeModeSummary `json:"sessions"`
	AverageMockScore *float64          `json:"averageMockScore"`
}
