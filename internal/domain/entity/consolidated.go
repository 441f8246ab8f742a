package entity

// ConsolidatedReport is a group-level consolidation for a period
type ConsolidatedReport struct {
	ID                string              `json:"id" yaml:"id"`
	Period            string              `json:"period" yaml:"period"`
	Year              int                 `json:"year" yaml:"year"`
	Type              PeriodType          `json:"type" yaml:"type"`
	Status            ConsolidationStatus `json:"status" yaml:"status"`
	ClosingDate       Date                `json:"closing_date" yaml:"closing_date"`
	FinalApprovalDate *Date               `json:"final_approval_date" yaml:"final_approval_date"`
	ExcelURL          string              `json:"excel_url" yaml:"excel_url"`
	PDFURL            string              `json:"pdf_url" yaml:"pdf_url"`
}

// Downloadable reports whether exports are available for the period.
// Consolidations still running in EPM have no files yet.
func (c ConsolidatedReport) Downloadable() bool {
	return c.Status == ConsolidationCompleted || c.Status == ConsolidationClosed
}
