package entity

// BusinessUnit is a subsidiary that submits closing reports to head office
type BusinessUnit struct {
	ID                   string   `json:"id" yaml:"id"`
	Code                 string   `json:"code" yaml:"code"`
	Name                 string   `json:"name" yaml:"name"`
	TotalReports         int      `json:"total_reports" yaml:"total_reports"`
	SubmittedReports     int      `json:"submitted_reports" yaml:"submitted_reports"`
	ApprovedReports      int      `json:"approved_reports" yaml:"approved_reports"`
	CompletionPercentage int      `json:"completion_percentage" yaml:"completion_percentage"`
	OverallStatus        BUStatus `json:"overall_status" yaml:"overall_status"`
	Region               string   `json:"region" yaml:"region"`
}

// AsLocked returns the historical-period view of the BU: every report
// submitted and approved, fully complete, and locked.
func (b BusinessUnit) AsLocked() BusinessUnit {
	b.SubmittedReports = b.TotalReports
	b.ApprovedReports = b.TotalReports
	b.CompletionPercentage = 100
	b.OverallStatus = BUStatusLocked
	return b
}
