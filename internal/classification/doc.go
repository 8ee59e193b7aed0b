// Package classification routes packs through the genre classification
// cascade.
//
// A Cascade holds an ordered list of stages. Each stage either returns a
// terminal Outcome or lets the pack continue to the next one:
//
//  1. manual: an operator override from the review store
//  2. taxonomic: weighted keyword scoring against the taxonomy index
//  3. bundle-inherited: a confident classification of the pack's bundle
//  4. needs-ai: everything still unresolved
//
// Run completes the AI stage for a whole pack set. Unresolved packs are sent
// to the injected Adapter in sequential, rate-limited batches; a failed batch
// falls back to the keyword candidate at reduced confidence or quarantines its
// packs without affecting other batches. PreclassifyBundles seeds the bundle
// cache consulted by the inheritance stage.
package classification
