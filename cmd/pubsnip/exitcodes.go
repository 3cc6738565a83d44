package main

// Exit codes
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (invalid config file, unknown key)
	ExitDataError   = 3 // Data error (unreadable table, missing columns)
	ExitEmptyInput  = 4 // No rows, or no row with Authors, Title and Year
)
