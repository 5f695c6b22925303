// Package parallel contains a bounded parallel ForEach used to score batches row by row.
package parallel

import "golang.org/x/sync/errgroup"

// ForEach executes a for loop with a limited number of concurrent goroutines.
// Each goroutine processes one integer, from 0 to length. The first error
// returned by body is reported after all started iterations finish.
func ForEach(length, limit int, body func(i int) error) error {
	if limit <= 0 {
		limit = 1 // Default to 1 if limit is zero or negative
	}
	if length <= 0 {
		return nil // No iterations to perform
	}

	var g errgroup.Group
	g.SetLimit(limit)

	for i := 0; i < length; i++ {
		i := i
		g.Go(func() error {
			return body(i)
		})
	}

	return g.Wait()
}
