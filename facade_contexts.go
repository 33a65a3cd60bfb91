package mlmd

import (
	"context"

	"github.com/mlmd-go/mlmd/internal/dialect"
)

// PostContextRequest builds a Context insert. Name
// is mandatory.
type PostContextRequest struct {
	store *Store
	c     Context
}

// PostContext starts a PostContextRequest for the given Type id and
// name.
func (st *Store) PostContext(typeID int64, name string) *PostContextRequest {
	r := &PostContextRequest{store: st}
	r.c.TypeID = typeID
	r.c.Name = &name
	r.c.Properties = map[string]PropertyValue{}
	r.c.CustomProperties = map[string]PropertyValue{}
	return r
}

func (r *PostContextRequest) WithProperty(name string, v PropertyValue) *PostContextRequest {
	r.c.Properties[name] = v
	return r
}

func (r *PostContextRequest) WithCustomProperty(name string, v PropertyValue) *PostContextRequest {
	r.c.CustomProperties[name] = v
	return r
}

// Execute runs the request.
func (r *PostContextRequest) Execute(ctx context.Context) (ItemResult, error) {
	id, err := r.store.s.PostContext(ctx, r.c)
	if err != nil {
		return ItemResult{}, err
	}
	return ItemResult{ID: id}, nil
}

// PutContextRequest builds a Context update.
type PutContextRequest struct {
	store        *Store
	c            Context
	nameSupplied bool
}

// PutContext starts a PutContextRequest for an existing Context id.
func (st *Store) PutContext(id int64) *PutContextRequest {
	r := &PutContextRequest{store: st}
	r.c.ID = id
	r.c.Properties = map[string]PropertyValue{}
	r.c.CustomProperties = map[string]PropertyValue{}
	return r
}

func (r *PutContextRequest) WithName(name string) *PutContextRequest {
	r.c.Name = &name
	r.nameSupplied = true
	return r
}

func (r *PutContextRequest) WithProperty(name string, v PropertyValue) *PutContextRequest {
	r.c.Properties[name] = v
	return r
}

func (r *PutContextRequest) WithCustomProperty(name string, v PropertyValue) *PutContextRequest {
	r.c.CustomProperties[name] = v
	return r
}

// Execute runs the request.
func (r *PutContextRequest) Execute(ctx context.Context) (ItemResult, error) {
	if err := r.store.s.PutContext(ctx, r.c, r.nameSupplied); err != nil {
		return ItemResult{}, err
	}
	return ItemResult{ID: r.c.ID}, nil
}

// GetContextsRequest builds a filtered Context read.
type GetContextsRequest struct {
	store  *Store
	filter dialect.ItemFilter
}

// GetContexts starts a GetContextsRequest with no filters (all
// Contexts).
func (st *Store) GetContexts() *GetContextsRequest {
	return &GetContextsRequest{store: st}
}

func (r *GetContextsRequest) OfType(typeName string) *GetContextsRequest {
	r.filter.TypeName = typeName
	return r
}

func (r *GetContextsRequest) Named(name string) *GetContextsRequest {
	r.filter.Name = name
	return r
}

func (r *GetContextsRequest) WithIDs(ids ...int64) *GetContextsRequest {
	r.filter.IDs = ids
	return r
}

// ContextsResult carries the Contexts a GetContextsRequest resolved.
type ContextsResult struct {
	Contexts []Context
}

// Execute runs the request.
func (r *GetContextsRequest) Execute(ctx context.Context) (ContextsResult, error) {
	contexts, err := r.store.s.GetContexts(ctx, r.filter)
	if err != nil {
		return ContextsResult{}, err
	}
	return ContextsResult{Contexts: contexts}, nil
}
