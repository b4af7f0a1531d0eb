package model

import (
	"fmt"
	"time"
)

// PodIdentity addresses exactly one spec document in the remote store.
type PodIdentity struct {
	Customer    string `json:"customer"`
	Environment string `json:"environment"`
}

func (id PodIdentity) String() string {
	return id.Customer + "/" + id.Environment
}

// PodSpec is the typed view of the fields the service actively reads and
// writes. The full document, including fields this core does not know about,
// lives in Document.
type PodSpec struct {
	Customer     string `json:"customer"`
	Environment  string `json:"environment"`
	InstanceName string `json:"instance_name"`
	InstanceType string `json:"instance_type"`
	WAFEnabled   bool   `json:"waf_enabled"`
}

// Identity returns the pod identity of the spec.
func (s PodSpec) Identity() PodIdentity {
	return PodIdentity{Customer: s.Customer, Environment: s.Environment}
}

// FullName is the display name used in commit messages and operator output.
// It is never used for addressing.
func (s PodSpec) FullName() string {
	return fmt.Sprintf("%s-%s-%s", s.Customer, s.Environment, s.InstanceName)
}

// DeployRequest carries the mutable fields of one deploy call. It exists only
// for the duration of the orchestration and is never persisted.
type DeployRequest struct {
	Customer     string `json:"customer"`
	Environment  string `json:"environment"`
	InstanceName string `json:"instance_name"`
	WAFEnabled   bool   `json:"waf_enabled"`

	// AllowCreate permits deploying to an identity with no existing document.
	// When false, such a deploy fails with NotFound.
	AllowCreate bool `json:"allow_create"`
}

// Identity returns the pod identity targeted by the request.
func (r DeployRequest) Identity() PodIdentity {
	return PodIdentity{Customer: r.Customer, Environment: r.Environment}
}

// DeployResult reports a completed deploy: the committed document's reference
// and the pipeline trigger acknowledgment.
type DeployResult struct {
	Identity  PodIdentity `json:"identity"`
	FullName  string      `json:"full_name"`
	CommitSHA string      `json:"commit_sha"`
	Ref       string      `json:"ref"`
	Created   bool        `json:"created"`

	// TriggerQueued is the acknowledgment that the provisioning pipeline
	// trigger was accepted for dispatch. It says nothing about completion.
	TriggerQueued bool `json:"trigger_queued"`
}

// RateLimit is the remote store's reported API quota, surfaced by the health
// endpoint and used for retry guidance.
type RateLimit struct {
	Limit     int       `json:"limit"`
	Remaining int       `json:"remaining"`
	Reset     time.Time `json:"reset"`
}
