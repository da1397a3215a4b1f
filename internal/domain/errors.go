package domain

import "errors"

var (
	// ErrFetch marks a transport failure or error status while fetching a page.
	ErrFetch = errors.New("fetch failed")
	// ErrStructure marks an expected HTML region that is absent from the page.
	ErrStructure = errors.New("unexpected page structure")
	// ErrDateFormat marks date text that is not "day monthName year".
	ErrDateFormat = errors.New("invalid date format")
	// ErrClassificationNetwork marks a link probe that failed at the transport level.
	ErrClassificationNetwork = errors.New("link probe failed")
	// ErrNotFound is returned by stores for missing records.
	ErrNotFound = errors.New("not found")
)
