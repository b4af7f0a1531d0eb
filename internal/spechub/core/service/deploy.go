package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/actionspec-io/spec-hub/internal/pkg/metrics"
	"github.com/actionspec-io/spec-hub/internal/pkg/util"
	"github.com/actionspec-io/spec-hub/internal/pkg/validation"
	"github.com/actionspec-io/spec-hub/internal/spechub/core"
	"github.com/actionspec-io/spec-hub/internal/spechub/core/model"
	"github.com/actionspec-io/spec-hub/pkg/log"
)

// Deploy applies a deploy request to the spec repository and queues a
// provisioning pipeline run.
// Flow:
// 1. Validate the request identifiers and instance name.
// 2. Fetch the current spec straight from the repository (never the cache,
//    the blob SHA becomes the write precondition).
// 3. Merge the request into the existing document, or create a fresh one
//    when the pod does not exist yet and the request allows creation.
// 4. Commit, invalidate the cache entry, archive the revision, trigger the
//    pipeline.
func (s *Service) Deploy(ctx context.Context, req model.DeployRequest) (*model.DeployResult, error) {
	id := req.Identity()
	if err := s.validateDeploy(req); err != nil {
		return nil, err
	}

	content, sha, created, err := s.renderSpec(ctx, req)
	if err != nil {
		return nil, err
	}

	kind := "update"
	if created {
		kind = "create"
	}
	waf := "off"
	if req.WAFEnabled {
		waf = "on"
	}
	message := fmt.Sprintf("deploy: %s %s (instance=%s waf=%s)", kind, id, req.InstanceName, waf)

	commitSHA, err := s.repo.CommitSpec(ctx, id, content, sha, message)
	if err != nil {
		if errors.Is(err, util.ErrConflict) {
			s.cache.Invalidate(id)
			return nil, core.NewError(core.KindConflict, "Deploy", id,
				"spec changed since it was read, retry the deploy", err)
		}
		return nil, s.remoteError("Deploy", id, "failed to commit spec", err)
	}

	s.cache.Invalidate(id)
	metrics.DeploysTotal.WithLabelValues(kind).Inc()

	result := &model.DeployResult{
		Identity:  id,
		FullName:  model.PodSpec{Customer: id.Customer, Environment: id.Environment, InstanceName: req.InstanceName}.FullName(),
		CommitSHA: commitSHA,
		Created:   created,
	}

	if s.archive != nil {
		if err := s.archive.Archive(ctx, id, commitSHA, content); err != nil {
			log.Warn("Failed to archive spec revision", "pod", id.String(), "commit", commitSHA, "err", err)
		}
	}

	result.TriggerQueued = s.trigger.Trigger(ctx, result)
	if !result.TriggerQueued {
		log.Warn("Pipeline trigger dropped", "pod", id.String(), "commit", commitSHA)
	}

	log.Info("Deploy committed", "pod", id.String(), "kind", kind, "commit", commitSHA, "triggerQueued", result.TriggerQueued)
	return result, nil
}

// renderSpec produces the document bytes to commit, the blob SHA
// precondition for the write, and whether this deploy creates the pod.
func (s *Service) renderSpec(ctx context.Context, req model.DeployRequest) (content []byte, sha string, created bool, err error) {
	id := req.Identity()

	current, sha, err := s.repo.FetchSpec(ctx, id)
	if err != nil {
		if !errors.Is(err, util.ErrNotFound) {
			return nil, "", false, s.remoteError("Deploy", id, "failed to fetch current spec", err)
		}
		if !req.AllowCreate {
			return nil, "", false, s.notFound(ctx, "Deploy", id)
		}
		content, err = model.NewDocument(req).Encode()
		if err != nil {
			return nil, "", false, core.NewError(core.KindInternal, "Deploy", id, "failed to encode spec", err)
		}
		return content, "", true, nil
	}

	doc, err := model.ParseDocument(current)
	if err != nil {
		return nil, "", false, core.NewError(core.KindMalformed, "Deploy", id,
			"existing spec document is not valid YAML", err)
	}
	doc.Merge(req)
	content, err = doc.Encode()
	if err != nil {
		return nil, "", false, core.NewError(core.KindInternal, "Deploy", id, "failed to encode spec", err)
	}
	return content, sha, false, nil
}

func (s *Service) validateDeploy(req model.DeployRequest) error {
	id := req.Identity()
	if _, err := s.validateIdentity(req.Customer, req.Environment); err != nil {
		return err
	}
	if err := validation.InstanceName(req.InstanceName); err != nil {
		return validationError(id, err)
	}
	return nil
}
