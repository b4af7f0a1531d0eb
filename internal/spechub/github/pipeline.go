package github

import (
	"context"

	gh "github.com/google/go-github/v66/github"

	"github.com/actionspec-io/spec-hub/internal/spechub/core"
	"github.com/actionspec-io/spec-hub/internal/spechub/core/model"
	"github.com/actionspec-io/spec-hub/pkg/log"
	"github.com/actionspec-io/spec-hub/pkg/options"
)

var _ core.PipelineTrigger = (*TriggerPipeline)(nil)

// TriggerPipeline dispatches provisioning workflow runs from a buffered
// queue. Deploys must never wait on the Actions API, so Trigger only
// enqueues and a background worker does the dispatching.
type TriggerPipeline struct {
	client *gh.Client

	owner        string
	repo         string
	workflowFile string
	ref          string

	// inputCh is the channel where completed deploys are pushed.
	inputCh chan *model.DeployResult
}

// NewTriggerPipeline creates a pipeline trigger for the configured workflow.
func NewTriggerPipeline(client *gh.Client, opts *options.GitHubOptions) *TriggerPipeline {
	return &TriggerPipeline{
		client:       client,
		owner:        opts.Owner(),
		repo:         opts.Name(),
		workflowFile: opts.WorkflowFile,
		ref:          opts.Branch,
		inputCh:      make(chan *model.DeployResult, 100),
	}
}

// Start begins the background worker that dispatches queued triggers.
// This should be run in a goroutine.
func (p *TriggerPipeline) Start(ctx context.Context) {
	log.Info("Pipeline trigger worker started", "workflow", p.workflowFile, "ref", p.ref)

	for {
		select {
		case result := <-p.inputCh:
			if err := p.dispatch(ctx, result); err != nil {
				log.Error(err, "Failed to dispatch pipeline run",
					"pod", result.Identity.String(), "commit", result.CommitSHA)
			}
		case <-ctx.Done():
			return
		}
	}
}

// Trigger enqueues a workflow dispatch for the deploy. It is non-blocking:
// a full queue drops the trigger and reports false.
func (p *TriggerPipeline) Trigger(ctx context.Context, result *model.DeployResult) bool {
	result.Ref = p.ref

	select {
	case p.inputCh <- result:
		return true
	default:
		// Queue full: drop the trigger rather than stall the deploy.
		return false
	}
}

func (p *TriggerPipeline) dispatch(ctx context.Context, result *model.DeployResult) error {
	event := gh.CreateWorkflowDispatchEventRequest{
		Ref: p.ref,
		Inputs: map[string]any{
			"customer":    result.Identity.Customer,
			"environment": result.Identity.Environment,
			"commit_sha":  result.CommitSHA,
		},
	}

	_, err := p.client.Actions.CreateWorkflowDispatchEventByFileName(
		ctx, p.owner, p.repo, p.workflowFile, event)
	if err != nil {
		return err
	}

	log.Info("Pipeline run dispatched",
		"pod", result.Identity.String(), "workflow", p.workflowFile, "commit", result.CommitSHA)
	return nil
}
