package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/actionspec-io/spec-hub/internal/pkg/metrics"
	"github.com/actionspec-io/spec-hub/internal/pkg/util"
	"github.com/actionspec-io/spec-hub/internal/pkg/validation"
	"github.com/actionspec-io/spec-hub/internal/spechub/cache"
	"github.com/actionspec-io/spec-hub/internal/spechub/core"
	"github.com/actionspec-io/spec-hub/internal/spechub/core/model"
	"github.com/actionspec-io/spec-hub/pkg/log"
)

// ListPods returns every pod identity known to the spec repository, grouped
// per customer with environments in lifecycle order.
func (s *Service) ListPods(ctx context.Context) ([]model.PodIdentity, error) {
	pods, err := s.repo.ListPods(ctx)
	if err != nil {
		return nil, s.remoteError("ListPods", model.PodIdentity{}, "failed to list pod specs", err)
	}
	return pods, nil
}

// GetPod returns the typed spec and the raw document for one pod. Reads are
// served from the cache when a fresh entry exists; otherwise the spec is
// fetched from the repository, parsed and cached.
func (s *Service) GetPod(ctx context.Context, customer, environment string) (model.PodSpec, map[string]any, error) {
	id, err := s.validateIdentity(customer, environment)
	if err != nil {
		return model.PodSpec{}, nil, err
	}

	entry, err := s.loadEntry(ctx, id)
	if err != nil {
		return model.PodSpec{}, nil, err
	}
	return entry.Spec, entry.Raw, nil
}

// RefreshCache drops every cached spec entry and reports how many were
// evicted. Purely in-memory; the next read for each pod goes back to the
// repository.
func (s *Service) RefreshCache() int {
	n := s.cache.Clear()
	log.Info("Spec cache cleared", "evicted", n)
	return n
}

// Health reports the remaining remote API quota.
func (s *Service) Health(ctx context.Context) (*model.RateLimit, error) {
	rl, err := s.repo.RateLimit(ctx)
	if err != nil {
		return nil, s.remoteError("Health", model.PodIdentity{}, "failed to query rate limit", err)
	}
	metrics.RateLimitRemaining.Set(float64(rl.Remaining))
	return rl, nil
}

// loadEntry resolves a pod spec through the cache, fetching and parsing on
// a miss.
func (s *Service) loadEntry(ctx context.Context, id model.PodIdentity) (cache.Entry, error) {
	if entry, ok := s.cache.Get(id); ok {
		return entry, nil
	}

	content, sha, err := s.repo.FetchSpec(ctx, id)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			return cache.Entry{}, s.notFound(ctx, "GetPod", id)
		}
		return cache.Entry{}, s.remoteError("GetPod", id, "failed to fetch spec", err)
	}

	doc, err := model.ParseDocument(content)
	if err != nil {
		return cache.Entry{}, core.NewError(core.KindMalformed, "GetPod", id,
			"spec document is not valid YAML", err)
	}

	raw, err := doc.Raw()
	if err != nil {
		return cache.Entry{}, core.NewError(core.KindMalformed, "GetPod", id,
			"spec document could not be decoded", err)
	}

	entry := cache.Entry{
		Spec: doc.PodSpec(id),
		Raw:  raw,
		SHA:  sha,
	}
	s.cache.Put(id, entry)
	return entry, nil
}

func (s *Service) validateIdentity(customer, environment string) (model.PodIdentity, error) {
	id := model.PodIdentity{Customer: customer, Environment: environment}
	if err := validation.Identifier(customer, "customer"); err != nil {
		return id, validationError(id, err)
	}
	if err := validation.Identifier(environment, "environment"); err != nil {
		return id, validationError(id, err)
	}
	return id, nil
}

func validationError(id model.PodIdentity, err error) *core.Error {
	detail := err.Error()
	if validation.IsTraversal(err) {
		detail = "identifier rejected: path traversal attempt"
	}
	return core.NewError(core.KindValidation, "validate", id, detail, err)
}

// notFound builds a not_found error carrying every known pod as a
// suggestion, best effort. Pods of the requested customer sort first.
func (s *Service) notFound(ctx context.Context, op string, id model.PodIdentity) *core.Error {
	ce := core.NewError(core.KindNotFound, op, id,
		fmt.Sprintf("no spec found for pod %s", id), util.ErrNotFound)

	pods, err := s.repo.ListPods(ctx)
	if err != nil {
		return ce
	}
	for _, p := range pods {
		if p.Customer == id.Customer {
			ce.Suggestions = append(ce.Suggestions, p.String())
		}
	}
	for _, p := range pods {
		if p.Customer != id.Customer {
			ce.Suggestions = append(ce.Suggestions, p.String())
		}
	}
	return ce
}

// remoteError passes through errors the adapter already classified and
// wraps everything else as internal.
func (s *Service) remoteError(op string, id model.PodIdentity, detail string, err error) error {
	var ce *core.Error
	if errors.As(err, &ce) {
		return err
	}
	return core.NewError(core.KindInternal, op, id, detail, err)
}
