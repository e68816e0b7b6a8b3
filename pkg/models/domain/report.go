package domain

// Report represents a complete verification or summary report
type Report struct {
	Title    string
	Period   TimePeriod
	Sections []ReportSection
}

// ReportSection represents a logical section in the report
type ReportSection struct {
	Title   string
	Summary map[string]any
	Details []ReportDetail
}

// ReportDetail represents detailed information within a section
type ReportDetail struct {
	Name        string
	Value       any
	Unit        string
	Description string
}
