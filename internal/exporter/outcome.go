package exporter

import (
	"fmt"
	"time"
)

// Kind classifies an Outcome for display.
type Kind string

const (
	KindInfo    Kind = "info"
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// How long each kind of outcome stays on screen.
const (
	InfoDuration    = 3 * time.Second
	SuccessDuration = 3 * time.Second
	ErrorDuration   = 5 * time.Second
)

// User-facing status messages.
const (
	MsgCreating = "Creating archive..."
	MsgNoData   = "No chat data found. Try refreshing the page."
)

// Outcome is one status report of an export.
type Outcome struct {
	ConversationID string
	Kind           Kind
	Message        string
	Duration       time.Duration

	// Path is where the archive was saved, on success.
	Path string
	// Err is the underlying failure, on error.
	Err error
}

// OK reports whether the outcome is not an error.
func (o Outcome) OK() bool {
	return o.Kind != KindError
}

func info(id, msg string) Outcome {
	return Outcome{ConversationID: id, Kind: KindInfo, Message: msg, Duration: InfoDuration}
}

func success(id, path string, messages, artifacts int) Outcome {
	msg := fmt.Sprintf("Archive created with %d messages!", messages)
	if artifacts > 0 {
		msg = fmt.Sprintf("Archive created with %d messages and %d artifacts!", messages, artifacts)
	}
	return Outcome{ConversationID: id, Kind: KindSuccess, Message: msg, Duration: SuccessDuration, Path: path}
}

func failure(id, msg string, err error) Outcome {
	return Outcome{ConversationID: id, Kind: KindError, Message: msg, Duration: ErrorDuration, Err: err}
}

func noData(id string, err error) Outcome {
	return failure(id, MsgNoData, err)
}

func assemblyFailed(id string, err error) Outcome {
	return failure(id, "Error creating archive: "+err.Error(), err)
}

func downloadFailed(id string, err error) Outcome {
	return failure(id, "Failed to download archive: "+err.Error(), err)
}
