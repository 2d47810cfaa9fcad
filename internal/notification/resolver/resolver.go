// Package resolver computes who should be notified about an event.
//
// Resolution is an ordered filter pipeline over the team roster. Each stage
// only narrows the candidate set and the order is fixed:
//
//  1. roster          all active members of the event's team
//  2. actor           the user who caused the event
//  3. last_editor     the document's most recent editor (rule-gated)
//  4. collaborators   users outside the document's collaborator set (rule-gated)
//  5. preference      users without an opt-in for the rule's preference key
//  6. access          users the policy oracle denies read on the collection
//  7. freshness       users who viewed the document since it last changed (rule-gated)
//
// The resolver only reads from its collaborators. Any collaborator failure
// aborts the whole resolution; it never returns a partially filtered set.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"docnotify/internal/notification/metrics"
	"docnotify/internal/notification/models"
	"docnotify/internal/notification/ports"
	id "docnotify/pkg/domain"
	dErrors "docnotify/pkg/domain-errors"
	"docnotify/pkg/platform/sentinel"
)

const defaultConcurrency = 16

// StageError reports the pipeline stage whose collaborator query failed.
type StageError struct {
	Stage models.Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Resolver runs the recipient pipeline. It holds no mutable state and is safe
// for concurrent use.
type Resolver struct {
	roster      ports.TeamRoster
	documents   ports.DocumentStore
	preferences ports.PreferenceStore
	access      ports.AccessPolicy
	recency     ports.RecencyStore

	concurrency int
	logger      *slog.Logger
	metrics     *metrics.Metrics
	tracer      trace.Tracer
}

type Option func(*Resolver)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Resolver) {
		r.metrics = m
	}
}

// WithConcurrency bounds the number of in-flight per-candidate queries within
// one stage.
func WithConcurrency(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

func New(
	roster ports.TeamRoster,
	documents ports.DocumentStore,
	preferences ports.PreferenceStore,
	access ports.AccessPolicy,
	recency ports.RecencyStore,
	opts ...Option,
) (*Resolver, error) {
	if roster == nil {
		return nil, fmt.Errorf("team roster is required")
	}
	if documents == nil {
		return nil, fmt.Errorf("document store is required")
	}
	if preferences == nil {
		return nil, fmt.Errorf("preference store is required")
	}
	if access == nil {
		return nil, fmt.Errorf("access policy is required")
	}
	if recency == nil {
		return nil, fmt.Errorf("recency store is required")
	}

	r := &Resolver{
		roster:      roster,
		documents:   documents,
		preferences: preferences,
		access:      access,
		recency:     recency,
		concurrency: defaultConcurrency,
		logger:      slog.Default(),
		tracer:      otel.Tracer("docnotify/notification/resolver"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Resolve returns the recipients for event. The event must be notifiable and
// carry a team and document.
func (r *Resolver) Resolve(ctx context.Context, event models.Event) (*models.Resolution, error) {
	rules, ok := models.RulesFor(event.Name)
	if !ok {
		return nil, dErrors.New(dErrors.CodeValidation, "event type is not notifiable: "+event.Name.String())
	}
	if err := event.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	ctx, span := r.tracer.Start(ctx, "notification.resolve", trace.WithAttributes(
		attribute.String("event.id", event.ID.String()),
		attribute.String("event.name", event.Name.String()),
		attribute.String("document.id", event.DocumentID.String()),
	))
	defer span.End()

	res, err := r.run(ctx, event, rules)
	r.metrics.ObserveResolveLatency(time.Since(start))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "resolve failed")
		return nil, err
	}
	span.SetAttributes(attribute.Int("recipients", len(res.Recipients)))
	return res, nil
}

func (r *Resolver) run(ctx context.Context, event models.Event, rules models.Rules) (*models.Resolution, error) {
	members, err := r.roster.TeamMembers(ctx, event.TeamID)
	if err != nil {
		return nil, &StageError{Stage: models.StageRoster, Err: err}
	}
	p := newPool(members)

	doc, err := r.documents.Document(ctx, event.DocumentID)
	if errors.Is(err, sentinel.ErrNotFound) {
		// Deleted between the event and now: nobody is notified.
		r.logger.DebugContext(ctx, "document not found, skipping notification",
			"event_id", event.ID,
			"document_id", event.DocumentID,
		)
		p.retain(models.StageDocument, func(id.UserID) bool { return false })
		return r.finish(p, nil), nil
	}
	if err != nil {
		return nil, &StageError{Stage: models.StageDocument, Err: err}
	}

	if event.HasActor() {
		p.retain(models.StageActor, func(u id.UserID) bool { return u != event.ActorID })
	}

	if rules.ExcludeLastEditor && !doc.LastModifiedByID.IsNil() {
		p.retain(models.StageLastEditor, func(u id.UserID) bool { return u != doc.LastModifiedByID })
	}

	if rules.CollaboratorsOnly {
		p.retain(models.StageCollaborators, doc.HasCollaborator)
	}

	err = r.retainEach(ctx, p, models.StagePreference, func(ctx context.Context, u id.UserID) (bool, error) {
		return r.preferences.IsEnabled(ctx, u, event.TeamID, rules.PreferenceKey)
	})
	if err != nil {
		return nil, err
	}

	if !event.CollectionID.IsNil() {
		collection := models.CollectionResource(event.CollectionID)
		err = r.retainEach(ctx, p, models.StageAccess, func(ctx context.Context, u id.UserID) (bool, error) {
			caps, err := r.access.Abilities(ctx, u, collection)
			if err != nil {
				return false, err
			}
			return caps.Read, nil
		})
		if err != nil {
			return nil, err
		}
	}

	if rules.SuppressIfViewed && !doc.UpdatedAt.IsZero() {
		err = r.retainEach(ctx, p, models.StageFreshness, func(ctx context.Context, u id.UserID) (bool, error) {
			viewedAt, ok, err := r.recency.LastViewed(ctx, event.DocumentID, u)
			if err != nil {
				return false, err
			}
			// Viewing at the exact modification instant counts as seen.
			return !ok || viewedAt.Before(doc.UpdatedAt), nil
		})
		if err != nil {
			return nil, err
		}
	}

	return r.finish(p, doc), nil
}

// retainEach evaluates keep for every candidate concurrently and applies the
// decisions only when all of them succeeded.
func (r *Resolver) retainEach(
	ctx context.Context,
	p *pool,
	stage models.Stage,
	keep func(ctx context.Context, u id.UserID) (bool, error),
) error {
	if len(p.candidates) == 0 {
		return nil
	}

	decisions := make([]bool, len(p.candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for i, u := range p.candidates {
		i, u := i, u
		g.Go(func() error {
			ok, err := keep(gctx, u)
			if err != nil {
				return err
			}
			decisions[i] = ok
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return &StageError{Stage: stage, Err: err}
	}

	p.apply(stage, decisions)
	return nil
}

func (r *Resolver) finish(p *pool, doc *models.Document) *models.Resolution {
	counts := make(map[models.Stage]int)
	for _, s := range p.suppressed {
		counts[s.Stage]++
	}
	for stage, n := range counts {
		r.metrics.AddSuppressed(string(stage), n)
	}
	return &models.Resolution{
		Document:   doc,
		Recipients: p.candidates,
		Suppressed: p.suppressed,
	}
}
