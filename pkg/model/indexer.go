package model

// indexer interface is design to give a unique index to a combination of seating variable's attributes and vice versa
type indexer interface {
	// Returns a unique index to a combination of seating variable's attributes
	Index(rider, car uint64, category SeatCategory) uint64
	// Returns a combination of seating variable's attributes from a unique index
	Attributes(index uint64) (rider uint64, car uint64, category SeatCategory)
	// Number of distinct indices, i.e. riders * cars * categories
	Size() uint64
}

func newIndexer(riders, cars, categories uint64) indexer {
	return &indexerImplementation{
		riders:     riders,
		cars:       cars,
		categories: categories,
	}
}
