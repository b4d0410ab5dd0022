package seed

// SampleCatalog returns a small cross-category course catalog. Popularity
// values only seed the counters; ingested enrollments shift them afterwards.
func SampleCatalog() []CourseRequest {
	return []CourseRequest{
		{CourseID: "PYT101", Title: "Python Basics", Description: "Variables, control flow and functions", Category: "Programming", Tags: []string{"python", "programming", "beginner"}, Popularity: 120, IsPublished: true},
		{CourseID: "PYT201", Title: "Advanced Python", Description: "Generators, decorators and typing", Category: "Programming", Tags: []string{"python", "programming", "advanced"}, Popularity: 60, IsPublished: true},
		{CourseID: "GO101", Title: "Go for Backend Engineers", Description: "Goroutines, channels and HTTP services", Category: "Programming", Tags: []string{"go", "programming", "backend"}, Popularity: 75, IsPublished: true},
		{CourseID: "SQL101", Title: "SQL Fundamentals", Description: "Joins, indexes and query plans", Category: "Database", Tags: []string{"sql", "database", "beginner"}, Popularity: 140, IsPublished: true},
		{CourseID: "SQL201", Title: "Database Design", Description: "Normalization and schema migrations", Category: "Database", Tags: []string{"sql", "database", "modeling"}, Popularity: 45, IsPublished: true},
		{CourseID: "DSI301", Title: "Data Science Intro", Description: "Pandas, plotting and statistics", Category: "Data", Tags: []string{"python", "data", "analysis"}, Popularity: 110, IsPublished: true},
		{CourseID: "DSI401", Title: "Machine Learning Basics", Description: "Regression, classification and evaluation", Category: "Data", Tags: []string{"python", "data", "ml"}, Popularity: 95, IsPublished: true},
		{CourseID: "WEB101", Title: "Web Development Basics", Description: "HTML, CSS and a first dynamic page", Category: "Web", Tags: []string{"web", "javascript", "beginner"}, Popularity: 130, IsPublished: true},
		{CourseID: "WEB201", Title: "Frontend Frameworks", Description: "Components, state and routing", Category: "Web", Tags: []string{"web", "javascript", "frontend"}, Popularity: 70, IsPublished: true},
		{CourseID: "OPS101", Title: "Cloud Operations", Description: "Containers, pipelines and monitoring", Category: "Operations", Tags: []string{"devops", "cloud", "backend"}, Popularity: 55, IsPublished: true},
		{CourseID: "DRAFT9", Title: "Unreleased Course", Description: "Still in review", Category: "Programming", Tags: []string{"python"}, Popularity: 999, IsPublished: false},
	}
}
