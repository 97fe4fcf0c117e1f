package browse

import "github.com/kailas-cloud/philodex/internal/usecase/catalog"

// IndexProvider returns the currently published catalog index.
type IndexProvider interface {
	Index() *catalog.Index
}

// SessionStore keeps browse state by session ID.
type SessionStore interface {
	Get(id string) (State, bool)
	Put(id string, s State)
	Delete(id string)
}
