package identity

import "context"

// Gateway is the credential-store boundary. Implementations translate their
// backend's failures into common.ErrStoreUnavailable wrapping; the auth core
// never sees a structured store-error taxonomy.
type Gateway interface {
	// FindByNormalizedName looks up an identity by its upper-cased login
	// name, limited to one result. Returns (nil, nil) when no identity
	// matches.
	FindByNormalizedName(ctx context.Context, collection Collection, name string) (*Record, error)

	// GetByID fetches an identity by primary id. Returns
	// common.ErrNotFound when the id does not resolve.
	GetByID(ctx context.Context, collection Collection, id string) (*Record, error)

	// UpdateCredentials persists a new salt+hash pair for the identity.
	// Partial update: no other fields are touched.
	UpdateCredentials(ctx context.Context, collection Collection, id, salt, passwordHash string) error

	// Create inserts a new identity record and returns it with its id set.
	Create(ctx context.Context, collection Collection, rec *Record) (*Record, error)
}
