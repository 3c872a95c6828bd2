package model

import "time"

// OutputMode selects where a child process writes its standard streams.
type OutputMode int

const (
	// OutputDiscard drops the child's output.
	OutputDiscard OutputMode = iota
	// OutputInherit forwards the child's output to our own stdout/stderr.
	OutputInherit
	// OutputFile writes the child's stdout to ProcessSpec.StdoutPath and drops stderr.
	OutputFile
)

// ProcessSpec describes one external command invocation.
type ProcessSpec struct {
	// Step names the pipeline stage for logs and metrics (build, check, err-msg).
	Step       string
	Name       string
	Args       []string
	Dir        Path
	Output     OutputMode
	StdoutPath Path
	Timeout    time.Duration
}

// ProcessOutcome is the terminal state of a monitored process.
type ProcessOutcome int

const (
	// ProcessSucceeded means the process exited with status 0.
	ProcessSucceeded ProcessOutcome = iota
	// ProcessFailed means the process exited with a nonzero status.
	ProcessFailed
	// ProcessTimedOut means the process was killed after its timeout elapsed.
	ProcessTimedOut
)

func (o ProcessOutcome) String() string {
	switch o {
	case ProcessSucceeded:
		return "success"
	case ProcessFailed:
		return "error"
	case ProcessTimedOut:
		return "timeout"
	default:
		return "unknown"
	}
}

// ProcessResult reports how a process ended and how long it ran.
type ProcessResult struct {
	Outcome  ProcessOutcome
	ExitCode int
	Elapsed  time.Duration
}
