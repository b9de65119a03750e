package dto

import "github.com/consolahealth/studenthealth/internal/app/healthmetrics"

// DashboardResponse holds the health dashboard summary and chart data
type DashboardResponse struct {
	TotalStudents      int                    `json:"totalStudents"`
	AverageBMI         float64                `json:"avgBmi"`
	HealthDistribution map[string]int         `json:"healthDistribution"`
	SchoolYears        []string               `json:"schoolYears"`
	WeightByYear       map[string]float64     `json:"weightByYear"`
	StudentsPerYear    map[string]int         `json:"studentsPerYear"`
	RecentRecords      []HealthRecordResponse `json:"recentRecords"`
	Students           []StudentSummary       `json:"students"`
}

// StudentHistoryResponse is one student's checkups with chart series
type StudentHistoryResponse struct {
	Student      StudentResponse        `json:"student"`
	Records      []HealthRecordResponse `json:"healthRecords"`
	Series       healthmetrics.Series   `json:"series"`
	LatestRecord *HealthRecordResponse  `json:"latestRecord"`
}
