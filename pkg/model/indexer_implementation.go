package model

// Indices are 0-based and rider-major, so iterating riders, then cars, then categories
// visits them in increasing order.
type indexerImplementation struct {
	riders     uint64
	cars       uint64
	categories uint64
}

func (indexer *indexerImplementation) Index(rider, car uint64, category SeatCategory) uint64 {
	return uint64(category) + indexer.categories*car + indexer.categories*indexer.cars*rider
}

func (indexer *indexerImplementation) Attributes(index uint64) (rider, car uint64, category SeatCategory) {
	category = SeatCategory(index % indexer.categories)
	index = index / indexer.categories

	car = index % indexer.cars
	index = index / indexer.cars

	rider = index % indexer.riders

	return rider, car, category
}

func (indexer *indexerImplementation) Size() uint64 {
	return indexer.riders * indexer.cars * indexer.categories
}
