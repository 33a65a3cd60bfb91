// Package model defines the typed provenance domain objects shared by
// every component of the store: types, items (artifacts, executions,
// contexts), relations (attributions, associations) and events.
package model

import "fmt"

// Kind identifies which of the three item tables a Type belongs to.
// The integer values are a wire-compatibility boundary and
// must not be renumbered.
type Kind int

const (
	KindExecution Kind = 0
	KindArtifact  Kind = 1
	KindContext   Kind = 2
)

func (k Kind) String() string {
	switch k {
	case KindExecution:
		return "execution"
	case KindArtifact:
		return "artifact"
	case KindContext:
		return "context"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// PropertyType is the declared data type of a Type's property.
type PropertyType int

const (
	PropertyTypeUnknown PropertyType = iota
	PropertyTypeInt
	PropertyTypeDouble
	PropertyTypeString
)

func (t PropertyType) String() string {
	switch t {
	case PropertyTypeInt:
		return "INT"
	case PropertyTypeDouble:
		return "DOUBLE"
	case PropertyTypeString:
		return "STRING"
	default:
		return "UNKNOWN"
	}
}

// ValueTag mirrors PropertyType but tags a concrete PropertyValue
// rather than a schema declaration. It is an alias of PropertyType, not
// a distinct type; the separate name keeps "declared type" vs. "value's
// tag" readable at call sites that compare against a Type's declaration.
type ValueTag = PropertyType

// PropertyValue is a tagged union holding exactly one of an int32,
// a float64 or a string. Zero value is the untagged (invalid) value.
type PropertyValue struct {
	tag ValueTag
	i   int32
	d   float64
	s   string
}

// IntValue constructs an Int-tagged PropertyValue.
func IntValue(v int32) PropertyValue { return PropertyValue{tag: PropertyTypeInt, i: v} }

// DoubleValue constructs a Double-tagged PropertyValue.
func DoubleValue(v float64) PropertyValue { return PropertyValue{tag: PropertyTypeDouble, d: v} }

// StringValue constructs a String-tagged PropertyValue.
func StringValue(v string) PropertyValue { return PropertyValue{tag: PropertyTypeString, s: v} }

// Tag reports which variant is populated.
func (v PropertyValue) Tag() ValueTag { return v.tag }

// Int returns the Int variant; ok is false if the tag doesn't match.
func (v PropertyValue) Int() (val int32, ok bool) { return v.i, v.tag == PropertyTypeInt }

// Double returns the Double variant; ok is false if the tag doesn't match.
func (v PropertyValue) Double() (val float64, ok bool) { return v.d, v.tag == PropertyTypeDouble }

// String returns the String variant; ok is false if the tag doesn't match.
func (v PropertyValue) String() (val string, ok bool) { return v.s, v.tag == PropertyTypeString }

// Equal reports whether two property values carry the same tag and
// payload. Used by round-trip tests.
func (v PropertyValue) Equal(o PropertyValue) bool {
	if v.tag != o.tag {
		return false
	}
	switch v.tag {
	case PropertyTypeInt:
		return v.i == o.i
	case PropertyTypeDouble:
		return v.d == o.d
	case PropertyTypeString:
		return v.s == o.s
	default:
		return true
	}
}

// Type is a named schema for one Kind, carrying a property declaration
// map used to enforce that every item write matches its type's declared
// properties.
type Type struct {
	ID         int64
	Name       string
	Kind       Kind
	Properties map[string]PropertyType
}

// ArtifactState enumerates Artifact.state.
type ArtifactState int

const (
	ArtifactStateUnknown ArtifactState = iota
	ArtifactStatePending
	ArtifactStateLive
	ArtifactStateMarkedForDeletion
	ArtifactStateDeleted
)

// maxArtifactState is the highest valid ArtifactState ordinal, used to
// bound-check values decoded from storage.
const maxArtifactState = ArtifactStateDeleted

// Valid reports whether s is a recognized ArtifactState ordinal.
// Out-of-range values decoded from storage become conversion errors.
func (s ArtifactState) Valid() bool { return s >= ArtifactStateUnknown && s <= maxArtifactState }

// ExecutionState enumerates Execution.last_known_state.
type ExecutionState int

const (
	ExecutionStateUnknown ExecutionState = iota
	ExecutionStateNew
	ExecutionStateRunning
	ExecutionStateComplete
	ExecutionStateFailed
	ExecutionStateCached
	ExecutionStateCanceled
)

const maxExecutionState = ExecutionStateCanceled

// Valid reports whether s is a recognized ExecutionState ordinal.
func (s ExecutionState) Valid() bool { return s >= ExecutionStateUnknown && s <= maxExecutionState }

// EventType enumerates the role an Event plays between an Artifact and
// an Execution.
type EventType int

const (
	EventTypeUnknown EventType = iota
	EventTypeDeclaredOutput
	EventTypeDeclaredInput
	EventTypeInput
	EventTypeOutput
	EventTypeInternalInput
	EventTypeInternalOutput
)

const maxEventType = EventTypeInternalOutput

// Valid reports whether t is a recognized EventType ordinal; unknown
// values decoded from storage surface a conversion error.
func (t EventType) Valid() bool { return t >= EventTypeUnknown && t <= maxEventType }

// Item is the shared shape of Artifact, Execution and Context rows:
// an id, the Type it instantiates, typed and custom properties, and
// creation/update timestamps (milliseconds since epoch).
type Item struct {
	ID                       int64
	TypeID                   int64
	Name                     *string
	CreateTimeSinceEpoch     int64
	LastUpdateTimeSinceEpoch int64
	Properties               map[string]PropertyValue
	CustomProperties         map[string]PropertyValue
}

// Artifact is an instance of an Artifact-kind Type.
type Artifact struct {
	Item
	URI   *string
	State ArtifactState
}

// Execution is an instance of an Execution-kind Type.
type Execution struct {
	Item
	LastKnownState ExecutionState
}

// Context is an instance of a Context-kind Type. Name is required and
// unique within (type_id, name).
type Context struct {
	Item
}

// EventStepKind distinguishes the two path-step variants.
type EventStepKind int

const (
	EventStepIndex EventStepKind = iota
	EventStepKey
)

// EventStep is one element of an Event's ordered path. Exactly one of
// Index/Key is meaningful, selected by Kind.
type EventStep struct {
	Kind  EventStepKind
	Index int64
	Key   string
}

// IndexStep builds an index-variant EventStep.
func IndexStep(i int64) EventStep { return EventStep{Kind: EventStepIndex, Index: i} }

// KeyStep builds a key-variant EventStep.
func KeyStep(k string) EventStep { return EventStep{Kind: EventStepKey, Key: k} }

// Event is a directed, typed, timestamped link from an Artifact to an
// Execution, carrying an ordered Path of steps.
type Event struct {
	ID                     int64
	ArtifactID             int64
	ExecutionID            int64
	Type                   EventType
	MillisecondsSinceEpoch int64
	Path                   []EventStep
}

// Attribution is a context<->artifact membership edge.
type Attribution struct {
	ContextID  int64
	ArtifactID int64
}

// Association is a context<->execution membership edge.
type Association struct {
	ContextID   int64
	ExecutionID int64
}
