package mlmd

import (
	"context"

	"github.com/mlmd-go/mlmd/internal/dialect"
)

// PostArtifactRequest builds an Artifact insert.
type PostArtifactRequest struct {
	store      *Store
	a          Artifact
}

// PostArtifact starts a PostArtifactRequest for the given Type id.
func (st *Store) PostArtifact(typeID int64) *PostArtifactRequest {
	r := &PostArtifactRequest{store: st}
	r.a.TypeID = typeID
	r.a.Properties = map[string]PropertyValue{}
	r.a.CustomProperties = map[string]PropertyValue{}
	return r
}

func (r *PostArtifactRequest) WithName(name string) *PostArtifactRequest {
	r.a.Name = &name
	return r
}

func (r *PostArtifactRequest) WithURI(uri string) *PostArtifactRequest {
	r.a.URI = &uri
	return r
}

func (r *PostArtifactRequest) WithState(s ArtifactState) *PostArtifactRequest {
	r.a.State = s
	return r
}

func (r *PostArtifactRequest) WithProperty(name string, v PropertyValue) *PostArtifactRequest {
	r.a.Properties[name] = v
	return r
}

func (r *PostArtifactRequest) WithCustomProperty(name string, v PropertyValue) *PostArtifactRequest {
	r.a.CustomProperties[name] = v
	return r
}

// ItemResult carries the id an item POST assigned.
type ItemResult struct {
	ID int64
}

// Execute runs the request.
func (r *PostArtifactRequest) Execute(ctx context.Context) (ItemResult, error) {
	id, err := r.store.s.PostArtifact(ctx, r.a)
	if err != nil {
		return ItemResult{}, err
	}
	return ItemResult{ID: id}, nil
}

// PutArtifactRequest builds an Artifact update.
// nameSupplied/uriSupplied track which optional fields this call
// actually sets, per the variable-column UPDATE rule.
type PutArtifactRequest struct {
	store                    *Store
	a                        Artifact
	nameSupplied, uriSupplied bool
}

// PutArtifact starts a PutArtifactRequest for an existing Artifact id.
func (st *Store) PutArtifact(id int64) *PutArtifactRequest {
	r := &PutArtifactRequest{store: st}
	r.a.ID = id
	r.a.Properties = map[string]PropertyValue{}
	r.a.CustomProperties = map[string]PropertyValue{}
	return r
}

func (r *PutArtifactRequest) WithName(name string) *PutArtifactRequest {
	r.a.Name = &name
	r.nameSupplied = true
	return r
}

func (r *PutArtifactRequest) WithURI(uri string) *PutArtifactRequest {
	r.a.URI = &uri
	r.uriSupplied = true
	return r
}

func (r *PutArtifactRequest) WithState(s ArtifactState) *PutArtifactRequest {
	r.a.State = s
	return r
}

func (r *PutArtifactRequest) WithProperty(name string, v PropertyValue) *PutArtifactRequest {
	r.a.Properties[name] = v
	return r
}

func (r *PutArtifactRequest) WithCustomProperty(name string, v PropertyValue) *PutArtifactRequest {
	r.a.CustomProperties[name] = v
	return r
}

// Execute runs the request.
func (r *PutArtifactRequest) Execute(ctx context.Context) (ItemResult, error) {
	if err := r.store.s.PutArtifact(ctx, r.a, r.nameSupplied, r.uriSupplied); err != nil {
		return ItemResult{}, err
	}
	return ItemResult{ID: r.a.ID}, nil
}

// GetArtifactsRequest builds a filtered Artifact read.
type GetArtifactsRequest struct {
	store  *Store
	filter dialect.ItemFilter
}

// GetArtifacts starts a GetArtifactsRequest with no filters (all
// Artifacts).
func (st *Store) GetArtifacts() *GetArtifactsRequest {
	return &GetArtifactsRequest{store: st}
}

func (r *GetArtifactsRequest) OfType(typeName string) *GetArtifactsRequest {
	r.filter.TypeName = typeName
	return r
}

func (r *GetArtifactsRequest) Named(name string) *GetArtifactsRequest {
	r.filter.Name = name
	return r
}

func (r *GetArtifactsRequest) WithIDs(ids ...int64) *GetArtifactsRequest {
	r.filter.IDs = ids
	return r
}

func (r *GetArtifactsRequest) WithURI(uri string) *GetArtifactsRequest {
	r.filter.URI = uri
	return r
}

// InContext narrows the read to Artifacts attributed to contextID.
func (r *GetArtifactsRequest) InContext(contextID int64) *GetArtifactsRequest {
	r.filter.ContextID = &contextID
	return r
}

// ArtifactsResult carries the Artifacts a GetArtifactsRequest resolved.
type ArtifactsResult struct {
	Artifacts []Artifact
}

// Execute runs the request.
func (r *GetArtifactsRequest) Execute(ctx context.Context) (ArtifactsResult, error) {
	artifacts, err := r.store.s.GetArtifacts(ctx, r.filter)
	if err != nil {
		return ArtifactsResult{}, err
	}
	return ArtifactsResult{Artifacts: artifacts}, nil
}
