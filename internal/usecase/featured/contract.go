package featured

import "github.com/kailas-cloud/philodex/internal/usecase/catalog"

// IndexProvider returns the currently published catalog index.
type IndexProvider interface {
	Index() *catalog.Index
}
