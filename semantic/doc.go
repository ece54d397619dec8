// Package semantic provides dense-vector retrieval over the answer corpus.
//
// An offline builder embeds every corpus question and writes two artifact
// files: a vector table and the metadata list aligned with it. At query
// time the retriever embeds the query, scores it against the table by
// inner product (all vectors are L2-normalized, so this is cosine
// similarity) and returns the best candidates. Missing or stale artifacts
// degrade to an unavailable error rather than a crash so callers can fall
// through to other strategies.
package semantic
