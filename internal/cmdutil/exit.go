package cmdutil

// Process exit codes shared by every tool.
const (
	ExitOK       = 0
	ExitNoValid  = 1 // default for --no-valid-exit-code
	ExitUsage    = 2
	ExitIO       = 3
	ExitCanceled = 130
)
