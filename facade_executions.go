package mlmd

import (
	"context"

	"github.com/mlmd-go/mlmd/internal/dialect"
)

// PostExecutionRequest builds an Execution insert.
type PostExecutionRequest struct {
	store *Store
	x     Execution
}

// PostExecution starts a PostExecutionRequest for the given Type id.
func (st *Store) PostExecution(typeID int64) *PostExecutionRequest {
	r := &PostExecutionRequest{store: st}
	r.x.TypeID = typeID
	r.x.Properties = map[string]PropertyValue{}
	r.x.CustomProperties = map[string]PropertyValue{}
	return r
}

func (r *PostExecutionRequest) WithName(name string) *PostExecutionRequest {
	r.x.Name = &name
	return r
}

func (r *PostExecutionRequest) WithState(s ExecutionState) *PostExecutionRequest {
	r.x.LastKnownState = s
	return r
}

func (r *PostExecutionRequest) WithProperty(name string, v PropertyValue) *PostExecutionRequest {
	r.x.Properties[name] = v
	return r
}

func (r *PostExecutionRequest) WithCustomProperty(name string, v PropertyValue) *PostExecutionRequest {
	r.x.CustomProperties[name] = v
	return r
}

// Execute runs the request.
func (r *PostExecutionRequest) Execute(ctx context.Context) (ItemResult, error) {
	id, err := r.store.s.PostExecution(ctx, r.x)
	if err != nil {
		return ItemResult{}, err
	}
	return ItemResult{ID: id}, nil
}

// PutExecutionRequest builds an Execution update.
type PutExecutionRequest struct {
	store                       *Store
	x                           Execution
	stateSupplied, nameSupplied bool
}

// PutExecution starts a PutExecutionRequest for an existing Execution
// id.
func (st *Store) PutExecution(id int64) *PutExecutionRequest {
	r := &PutExecutionRequest{store: st}
	r.x.ID = id
	r.x.Properties = map[string]PropertyValue{}
	r.x.CustomProperties = map[string]PropertyValue{}
	return r
}

func (r *PutExecutionRequest) WithName(name string) *PutExecutionRequest {
	r.x.Name = &name
	r.nameSupplied = true
	return r
}

func (r *PutExecutionRequest) WithState(s ExecutionState) *PutExecutionRequest {
	r.x.LastKnownState = s
	r.stateSupplied = true
	return r
}

func (r *PutExecutionRequest) WithProperty(name string, v PropertyValue) *PutExecutionRequest {
	r.x.Properties[name] = v
	return r
}

func (r *PutExecutionRequest) WithCustomProperty(name string, v PropertyValue) *PutExecutionRequest {
	r.x.CustomProperties[name] = v
	return r
}

// Execute runs the request.
func (r *PutExecutionRequest) Execute(ctx context.Context) (ItemResult, error) {
	if err := r.store.s.PutExecution(ctx, r.x, r.stateSupplied, r.nameSupplied); err != nil {
		return ItemResult{}, err
	}
	return ItemResult{ID: r.x.ID}, nil
}

// GetExecutionsRequest builds a filtered Execution read.
type GetExecutionsRequest struct {
	store  *Store
	filter dialect.ItemFilter
}

// GetExecutions starts a GetExecutionsRequest with no filters (all
// Executions).
func (st *Store) GetExecutions() *GetExecutionsRequest {
	return &GetExecutionsRequest{store: st}
}

func (r *GetExecutionsRequest) OfType(typeName string) *GetExecutionsRequest {
	r.filter.TypeName = typeName
	return r
}

func (r *GetExecutionsRequest) Named(name string) *GetExecutionsRequest {
	r.filter.Name = name
	return r
}

func (r *GetExecutionsRequest) WithIDs(ids ...int64) *GetExecutionsRequest {
	r.filter.IDs = ids
	return r
}

// InContext narrows the read to Executions associated to contextID.
func (r *GetExecutionsRequest) InContext(contextID int64) *GetExecutionsRequest {
	r.filter.ContextID = &contextID
	return r
}

// ExecutionsResult carries the Executions a GetExecutionsRequest
// resolved.
type ExecutionsResult struct {
	Executions []Execution
}

// Execute runs the request.
func (r *GetExecutionsRequest) Execute(ctx context.Context) (ExecutionsResult, error) {
	executions, err := r.store.s.GetExecutions(ctx, r.filter)
	if err != nil {
		return ExecutionsResult{}, err
	}
	return ExecutionsResult{Executions: executions}, nil
}
