package models

// ProgramBudgetForecast is one program row from the budget forecast service.
type ProgramBudgetForecast struct {
	Program string  `json:"program"`
	PS      float64 `json:"ps"`
	MOOE    float64 `json:"mooe"`
	CO      float64 `json:"co"`
	Total   float64 `json:"total"`
}
