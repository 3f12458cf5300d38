package domain

import (
	"encoding/json"
	"fmt"
)

// DefaultBranchRef is the only ref that triggers a deploy unless configured
// otherwise.
const DefaultBranchRef = "refs/heads/main"

// Outcome statuses reported back to GitHub.
const (
	StatusPong    = "pong"
	StatusIgnored = "ignored"
	StatusStarted = "success"
)

// PushEvent is the part of a GitHub push payload the deployer reads.
type PushEvent struct {
	Ref    string `json:"ref"`
	Pusher struct {
		Name string `json:"name"`
	} `json:"pusher"`
	Commits []json.RawMessage `json:"commits"`
}

// PusherName falls back to "unknown" when GitHub omits the pusher.
func (p PushEvent) PusherName() string {
	if p.Pusher.Name == "" {
		return "unknown"
	}
	return p.Pusher.Name
}

// Decision says what to do with a delivery.
type Decision struct {
	Status  string
	Reason  string
	Deploy  bool
	Pusher  string
	Commits int
}

// Decide classifies a verified delivery. Only push events to branchRef
// deploy; ping is answered with pong and everything else is ignored.
func Decide(eventType string, body []byte, branchRef string) (Decision, error) {
	if branchRef == "" {
		branchRef = DefaultBranchRef
	}
	switch eventType {
	case "ping":
		return Decision{Status: StatusPong}, nil
	case "push":
	default:
		return Decision{Status: StatusIgnored, Reason: fmt.Sprintf("Event type: %s", eventType)}, nil
	}

	var push PushEvent
	if err := json.Unmarshal(body, &push); err != nil {
		return Decision{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if push.Ref != branchRef {
		return Decision{Status: StatusIgnored, Reason: fmt.Sprintf("Not main branch: %s", push.Ref)}, nil
	}
	return Decision{
		Status:  StatusStarted,
		Deploy:  true,
		Pusher:  push.PusherName(),
		Commits: len(push.Commits),
	}, nil
}
