// Package resolve orchestrates the answer cascade.
//
// A query is canonicalized exactly once at entry, then walked through a
// fixed sequence of stages until one produces an answer: smalltalk
// intercept, short-phrase condition lookup, cache, exact and near-exact
// corpus match, condition plus intent lookup, first-person symptom
// heuristic, keyword-overlap ranking, classifier-scoped re-rank,
// semantic retrieval, a last-resort fuzzy match, and finally a fixed
// fallback message. Stage order never changes and the first hit wins.
//
// Every answered stage writes through to the cache; a stage failure is
// logged and treated as a miss for that stage only, so the terminal
// fallback always fires. The caller always gets an answer string.
package resolve
