package client

import (
	"context"
	"sync"
	"time"

	"jobportal/resume-parser/internal/models"
)

// State tracks where an upload-and-parse run currently is.
type State int

const (
	StateIdle State = iota
	StateUploading
	StateProcessing
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateUploading:
		return "uploading"
	case StateProcessing:
		return "processing"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Poller runs the two-step upload/parse flow and surfaces a live progress
// message while the parse is in flight. Safe for concurrent Snapshot calls;
// Run itself is single-use per call.
type Poller struct {
	client *Client

	mu      sync.Mutex
	state   State
	message string
	elapsed time.Duration
	profile models.Profile
	err     error
}

func NewPoller(client *Client) *Poller {
	return &Poller{client: client, state: StateIdle}
}

// Snapshot returns the current state, progress message and elapsed
// processing time.
func (p *Poller) Snapshot() (State, string, time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state, p.message, p.elapsed
}

// Result returns the final profile or error once Run has finished.
func (p *Poller) Result() (models.Profile, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.profile, p.err
}

// Reset returns the poller to idle so it can be reused for another file.
func (p *Poller) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = StateIdle
	p.message = ""
	p.elapsed = 0
	p.profile = nil
	p.err = nil
}

// Run uploads the file at path and parses it, updating the progress message
// every second while the parse runs. onProgress may be nil.
func (p *Poller) Run(ctx context.Context, path string, onProgress func(State, string)) (models.Profile, error) {
	p.setState(StateUploading, "Uploading resume...", onProgress)

	upload, err := p.client.UploadResume(ctx, path)
	if err != nil {
		p.fail(err, onProgress)
		return nil, err
	}

	p.setState(StateProcessing, ProcessingMessage(0), onProgress)

	start := time.Now()
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(progressInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				elapsed := time.Since(start)
				p.mu.Lock()
				p.elapsed = elapsed
				p.message = ProcessingMessage(elapsed)
				msg := p.message
				p.mu.Unlock()
				if onProgress != nil {
					onProgress(StateProcessing, msg)
				}
			}
		}
	}()

	profile, err := p.client.ParseResume(ctx, upload.FilePath)
	close(done)

	if err != nil {
		p.fail(err, onProgress)
		return nil, err
	}

	// Any well-formed response is a terminal success for the flow; an
	// in-band success:false is a result the caller renders, not a flow
	// failure.
	p.mu.Lock()
	p.profile = profile
	p.state = StateSucceeded
	if profile.Success() {
		p.message = "Resume parsed successfully"
	} else if msg, ok := profile["error"].(string); ok && msg != "" {
		p.message = msg
	} else {
		p.message = "Resume parsed with errors"
	}
	state, msg := p.state, p.message
	p.mu.Unlock()

	if onProgress != nil {
		onProgress(state, msg)
	}
	return profile, nil
}

func (p *Poller) setState(state State, message string, onProgress func(State, string)) {
	p.mu.Lock()
	p.state = state
	p.message = message
	p.mu.Unlock()
	if onProgress != nil {
		onProgress(state, message)
	}
}

func (p *Poller) fail(err error, onProgress func(State, string)) {
	p.mu.Lock()
	p.state = StateFailed
	p.message = err.Error()
	p.err = err
	p.mu.Unlock()
	if onProgress != nil {
		onProgress(StateFailed, err.Error())
	}
}
