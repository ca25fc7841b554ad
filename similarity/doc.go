// Package similarity provides the text and vector primitives used to compare
// chunk content against the target text.
//
// Text helpers never claim exactness: Normalize and NormalizeRelaxed are used to
// build flexible search patterns, while EditSimilarity scores candidate spans.
// Vector helpers operate on embeddings supplied by an external provider.
package similarity
