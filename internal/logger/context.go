package logger

// Component-specific logger functions

// Query returns a logger for statement rendering
func Query() Logger {
	return WithField("component", "query")
}

// Bucket returns a logger for bucket repository operations
func Bucket() Logger {
	return WithField("component", "bucket")
}

// Cache returns a logger for result caching
func Cache() Logger {
	return WithField("component", "cache")
}

// CLI returns a logger for CLI operations
func CLI() Logger {
	return WithField("component", "cli")
}

// DB returns a logger for cluster and database access
func DB() Logger {
	return WithField("component", "db")
}
