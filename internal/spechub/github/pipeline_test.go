package github

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/actionspec-io/spec-hub/internal/spechub/core/model"
	"github.com/actionspec-io/spec-hub/pkg/options"
)

func TestTriggerStampsRefAndQueues(t *testing.T) {
	opts := options.NewGitHubOptions()
	opts.Repo = "acme/pod-specs"
	opts.Branch = "release"
	p := NewTriggerPipeline(nil, opts)

	result := &model.DeployResult{Identity: model.PodIdentity{Customer: "advworks", Environment: "dev"}}
	assert.True(t, p.Trigger(context.Background(), result))
	assert.Equal(t, "release", result.Ref)
}

func TestTriggerDropsWhenQueueFull(t *testing.T) {
	opts := options.NewGitHubOptions()
	opts.Repo = "acme/pod-specs"
	p := NewTriggerPipeline(nil, opts)

	result := &model.DeployResult{}
	for i := 0; i < cap(p.inputCh); i++ {
		assert.True(t, p.Trigger(context.Background(), result))
	}
	assert.False(t, p.Trigger(context.Background(), result))
}
