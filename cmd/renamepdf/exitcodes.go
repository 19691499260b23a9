package main

// Exit codes shared by all subcommands.
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure, failed files)
	ExitConfigError = 2 // Configuration error (missing API key, invalid config)
	ExitDataError   = 3 // Data error (unreadable PDF, malformed response)
)
