package domain

import (
	"github.com/google/uuid"

	shared "github.com/felixgeelhaar/ordo/internal/shared/domain"
)

const (
	AggregateType = "Deployment"

	RoutingKeyDeployTriggered = "deploy.triggered"
)

// DeployTriggered records an accepted push that started a deploy.
type DeployTriggered struct {
	shared.BaseEvent
	DeploymentID uuid.UUID `json:"deployment_id"`
	Ref          string    `json:"ref"`
	Pusher       string    `json:"pusher"`
	Commits      int       `json:"commits"`
}

func NewDeployTriggered(deploymentID uuid.UUID, ref, pusher string, commits int) *DeployTriggered {
	return &DeployTriggered{
		BaseEvent:    shared.NewBaseEvent(deploymentID, AggregateType, RoutingKeyDeployTriggered),
		DeploymentID: deploymentID,
		Ref:          ref,
		Pusher:       pusher,
		Commits:      commits,
	}
}
