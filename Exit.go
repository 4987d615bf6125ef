/*
File Name:  Exit.go
Copyright:  2026 Skylink Project
Author:     Skylink Project
*/

package core

// Exit codes signal why the application exited. These are universal between
// clients built on this library. Clients are encouraged to log additional
// details in a log file. 3rd party clients may define additional exit codes.
const (
	ExitSuccess            = 0 // This is actually never used.
	ExitErrorConfigAccess  = 1 // Error accessing the config file.
	ExitErrorConfigRead    = 2 // Error reading the config file.
	ExitErrorConfigParse   = 3 // Error parsing the config file.
	ExitErrorLogInit       = 4 // Error initializing log file.
	ExitParamWebapiInvalid = 5 // Parameter for webapi is invalid.
	ExitErrorTopology      = 6 // Invalid drone roster: bad drop rate or dangling neighbor reference.
	ExitGraceful           = 9 // Graceful shutdown.
)
