package jurisdiction

import "context"

// Store loads jurisdiction reference data.
//
// Error contract: ListAll returns the full node set or a wrapped
// infrastructure error; there is no not-found case for reference data.
type Store interface {
	ListAll(ctx context.Context) ([]Node, error)
}

// Seeder is implemented by stores that support the one-time reference-data
// seed. Kept separate from Store so the service cannot write.
type Seeder interface {
	Seed(ctx context.Context, nodes []Node) error
}
