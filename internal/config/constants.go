package config

// Default file locations, relative to the working directory.
const (
	// DefaultDatabasePath is the catalog database.
	DefaultDatabasePath = "./library_management.db"

	// DefaultReportPath is where the HTML report is written.
	DefaultReportPath = "./books_list.html"

	// DefaultReportSchedule regenerates the report hourly at :00.
	DefaultReportSchedule = "0 * * * *"
)
