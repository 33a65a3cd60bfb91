package mlmd

import (
	"context"

	"github.com/mlmd-go/mlmd/internal/registry"
)

// PutTypeRequest builds a Type insert/reconcile call. Chain With* methods, then Execute.
type PutTypeRequest struct {
	store      *Store
	kind       Kind
	name       string
	properties map[string]PropertyType
	opts       registry.PutTypeOptions
}

// PutArtifactType starts a PutTypeRequest for an Artifact-kind Type.
func (st *Store) PutArtifactType(name string) *PutTypeRequest {
	return newPutTypeRequest(st, KindArtifact, name)
}

// PutExecutionType starts a PutTypeRequest for an Execution-kind Type.
func (st *Store) PutExecutionType(name string) *PutTypeRequest {
	return newPutTypeRequest(st, KindExecution, name)
}

// PutContextType starts a PutTypeRequest for a Context-kind Type.
func (st *Store) PutContextType(name string) *PutTypeRequest {
	return newPutTypeRequest(st, KindContext, name)
}

func newPutTypeRequest(st *Store, kind Kind, name string) *PutTypeRequest {
	return &PutTypeRequest{store: st, kind: kind, name: name, properties: map[string]PropertyType{}}
}

// WithProperty declares a typed property the Type carries.
func (r *PutTypeRequest) WithProperty(name string, t PropertyType) *PutTypeRequest {
	r.properties[name] = t
	return r
}

// AllowingAddedFields permits PutType to add properties to an existing
// Type that doesn't yet declare them.
func (r *PutTypeRequest) AllowingAddedFields() *PutTypeRequest {
	r.opts.CanAddFields = true
	return r
}

// AllowingOmittedFields permits PutType to leave properties the
// existing Type declares but this call doesn't repeat.
func (r *PutTypeRequest) AllowingOmittedFields() *PutTypeRequest {
	r.opts.CanOmitFields = true
	return r
}

// TypeResult carries the id PutType resolved or created.
type TypeResult struct {
	ID int64
}

// Execute runs the request.
func (r *PutTypeRequest) Execute(ctx context.Context) (TypeResult, error) {
	id, err := r.store.s.PutType(ctx, r.kind, r.name, r.properties, r.opts)
	if err != nil {
		return TypeResult{}, err
	}
	return TypeResult{ID: id}, nil
}

// GetTypesRequest builds a filtered Type read.
type GetTypesRequest struct {
	store  *Store
	kind   Kind
	filter registry.TypeFilter
}

func (st *Store) GetArtifactTypes() *GetTypesRequest  { return newGetTypesRequest(st, KindArtifact) }
func (st *Store) GetExecutionTypes() *GetTypesRequest { return newGetTypesRequest(st, KindExecution) }
func (st *Store) GetContextTypes() *GetTypesRequest   { return newGetTypesRequest(st, KindContext) }

func newGetTypesRequest(st *Store, kind Kind) *GetTypesRequest {
	return &GetTypesRequest{store: st, kind: kind}
}

// Named narrows the read to one Type name.
func (r *GetTypesRequest) Named(name string) *GetTypesRequest {
	r.filter.Name = name
	return r
}

// WithIDs narrows the read to a set of Type ids.
func (r *GetTypesRequest) WithIDs(ids ...int64) *GetTypesRequest {
	r.filter.IDs = ids
	return r
}

// TypesResult carries the Types a GetTypesRequest resolved.
type TypesResult struct {
	Types []Type
}

// Execute runs the request.
func (r *GetTypesRequest) Execute(ctx context.Context) (TypesResult, error) {
	types, err := r.store.s.GetTypes(ctx, r.kind, r.filter)
	if err != nil {
		return TypesResult{}, err
	}
	return TypesResult{Types: types}, nil
}

// GetTypeByID resolves a single Type by id.
func (st *Store) GetTypeByID(ctx context.Context, id int64) (Type, error) {
	t, err := st.s.GetTypeByID(ctx, id)
	if err != nil {
		return Type{}, err
	}
	return *t, nil
}
