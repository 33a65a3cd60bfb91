package mlmd

import (
	"context"

	"github.com/mlmd-go/mlmd/internal/dialect"
	"github.com/mlmd-go/mlmd/internal/engine"
)

// PutAttribution records that artifactID belongs to contextID. Both
// rows must already exist.
func (st *Store) PutAttribution(ctx context.Context, contextID, artifactID int64) error {
	return st.s.PutAttribution(ctx, contextID, artifactID)
}

// PutAssociation records that executionID belongs to contextID. Both
// rows must already exist.
func (st *Store) PutAssociation(ctx context.Context, contextID, executionID int64) error {
	return st.s.PutAssociation(ctx, contextID, executionID)
}

// PutEventRequest builds an Event insert.
type PutEventRequest struct {
	store       *Store
	executionID int64
	artifactID  int64
	opts        engine.PutEventOptions
}

// PutEvent starts a PutEventRequest linking executionID and
// artifactID.
func (st *Store) PutEvent(executionID, artifactID int64) *PutEventRequest {
	return &PutEventRequest{store: st, executionID: executionID, artifactID: artifactID}
}

func (r *PutEventRequest) WithType(t EventType) *PutEventRequest {
	r.opts.Type = t
	return r
}

func (r *PutEventRequest) AtMilliseconds(ms int64) *PutEventRequest {
	r.opts.MillisecondsSinceEpoch = ms
	return r
}

// WithPath appends the given steps, in order, to the Event's path.
func (r *PutEventRequest) WithPath(steps ...EventStep) *PutEventRequest {
	r.opts.Path = append(r.opts.Path, steps...)
	return r
}

// EventResult carries the id PutEvent assigned.
type EventResult struct {
	ID int64
}

// Execute runs the request.
func (r *PutEventRequest) Execute(ctx context.Context) (EventResult, error) {
	id, err := r.store.s.PutEvent(ctx, r.executionID, r.artifactID, r.opts)
	if err != nil {
		return EventResult{}, err
	}
	return EventResult{ID: id}, nil
}

// GetEventsRequest builds a filtered Event read.
type GetEventsRequest struct {
	store  *Store
	filter dialect.EventFilter
}

// GetEvents starts a GetEventsRequest with no filters (all Events).
func (st *Store) GetEvents() *GetEventsRequest {
	return &GetEventsRequest{store: st}
}

func (r *GetEventsRequest) ForArtifacts(ids ...int64) *GetEventsRequest {
	r.filter.ArtifactIDs = ids
	return r
}

func (r *GetEventsRequest) ForExecutions(ids ...int64) *GetEventsRequest {
	r.filter.ExecutionIDs = ids
	return r
}

// EventsResult carries the Events a GetEventsRequest resolved.
type EventsResult struct {
	Events []Event
}

// Execute runs the request.
func (r *GetEventsRequest) Execute(ctx context.Context) (EventsResult, error) {
	events, err := r.store.s.GetEvents(ctx, r.filter)
	if err != nil {
		return EventsResult{}, err
	}
	return EventsResult{Events: events}, nil
}
