package contextkeys

// contextKey is an unexported type to prevent collisions with context keys defined in
// other packages.
type contextKey string

// String makes contextKey satisfy the Stringer interface to assist with debugging.
func (c contextKey) String() string {
	return "docdb-explorer context key " + string(c)
}

// RequestIDKey is the key for the host request ID in context.Context
const RequestIDKey = contextKey("requestID")

// OperationKey is the key for the tree operation name (load, create, delete)
const OperationKey = contextKey("operation")

// ComponentKey is the key for the component handling the operation
const ComponentKey = contextKey("component")

// CollectionLinkKey is the key for the self link of the collection being browsed
const CollectionLinkKey = contextKey("collectionLink")
