// Package mlmd is a Go metadata store for tracking machine-learning
// artifacts, executions, contexts and the lineage edges between them.
// Open returns a Store backed by either SQLite or MySQL; every
// operation is exposed through a small fluent Request Facade so
// callers build up one call with chained option methods and run it
// with Execute.
package mlmd

import (
	"context"

	"github.com/mlmd-go/mlmd/internal/mlerr"
	"github.com/mlmd-go/mlmd/internal/mlmdstore"
	"github.com/mlmd-go/mlmd/internal/model"
)

// Store is the open handle returned by Open.
type Store struct {
	s *mlmdstore.Store
}

// Option configures Open; see WithClock.
type Option = mlmdstore.Option

// WithClock overrides the wall clock used for item timestamps. Tests
// use this to pin create/update times.
var WithClock = mlmdstore.WithClock

// Open opens a metadata store at uri, running schema bootstrap if
// needed. uri's scheme selects the back-end: "sqlite:path/to/file" or
// "mysql:user:pass@tcp(host:3306)/dbname".
func Open(ctx context.Context, uri string, opts ...Option) (*Store, error) {
	s, err := mlmdstore.Open(ctx, uri, opts...)
	if err != nil {
		return nil, err
	}
	return &Store{s: s}, nil
}

// Close releases the store's connection.
func (st *Store) Close() error { return st.s.Close() }

// Re-exported domain types and constructors, so callers need only
// import this package for everyday use.
type (
	Kind           = model.Kind
	PropertyType   = model.PropertyType
	PropertyValue  = model.PropertyValue
	Type           = model.Type
	Item           = model.Item
	Artifact       = model.Artifact
	Execution      = model.Execution
	Context        = model.Context
	ArtifactState  = model.ArtifactState
	ExecutionState = model.ExecutionState
	EventType      = model.EventType
	EventStep      = model.EventStep
	Event          = model.Event
	Attribution    = model.Attribution
	Association    = model.Association
)

const (
	KindExecution = model.KindExecution
	KindArtifact  = model.KindArtifact
	KindContext   = model.KindContext

	PropertyTypeInt    = model.PropertyTypeInt
	PropertyTypeDouble = model.PropertyTypeDouble
	PropertyTypeString = model.PropertyTypeString

	ArtifactStateUnknown           = model.ArtifactStateUnknown
	ArtifactStatePending           = model.ArtifactStatePending
	ArtifactStateLive              = model.ArtifactStateLive
	ArtifactStateMarkedForDeletion = model.ArtifactStateMarkedForDeletion
	ArtifactStateDeleted           = model.ArtifactStateDeleted

	ExecutionStateUnknown  = model.ExecutionStateUnknown
	ExecutionStateNew      = model.ExecutionStateNew
	ExecutionStateRunning  = model.ExecutionStateRunning
	ExecutionStateComplete = model.ExecutionStateComplete
	ExecutionStateFailed   = model.ExecutionStateFailed
	ExecutionStateCached   = model.ExecutionStateCached
	ExecutionStateCanceled = model.ExecutionStateCanceled

	EventTypeUnknown        = model.EventTypeUnknown
	EventTypeDeclaredOutput = model.EventTypeDeclaredOutput
	EventTypeDeclaredInput  = model.EventTypeDeclaredInput
	EventTypeInput          = model.EventTypeInput
	EventTypeOutput         = model.EventTypeOutput
	EventTypeInternalInput  = model.EventTypeInternalInput
	EventTypeInternalOutput = model.EventTypeInternalOutput
)

var (
	IntValue    = model.IntValue
	DoubleValue = model.DoubleValue
	StringValue = model.StringValue
	IndexStep   = model.IndexStep
	KeyStep     = model.KeyStep
)

// Sentinel errors callers can compare against with errors.Is.
var (
	ErrTypeNotFound        = mlerr.ErrTypeNotFound
	ErrUndefinedProperty   = mlerr.ErrUndefinedProperty
	ErrNameAlreadyExists   = mlerr.ErrNameAlreadyExists
	ErrTypeAlreadyExists   = mlerr.ErrTypeAlreadyExists
	ErrNotFound            = mlerr.ErrNotFound
	ErrUnsupportedDatabase = mlerr.ErrUnsupportedDatabase
	ErrConvert             = mlerr.ErrConvert
)
