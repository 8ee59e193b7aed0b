// Package clustering groups pack folders that hold the same kind of content.
//
// Engine builds a symmetric similarity matrix over the folders (rows are
// scored in parallel), partitions it with the configured strategy, merges
// clusters that remain close, and names each cluster after its most
// representative member. Validate reports clusters that look like they
// should be split or merged.
//
// Strategies:
//   - hierarchical: average-linkage agglomeration that stops once the best
//     pair falls below the similarity threshold
//   - density: core folders with enough close neighbors seed clusters that
//     grow breadth-first; the rest stay singletons
//   - adaptive: hierarchical for small inputs, density otherwise
package clustering
