package core

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities, generated from content hashes.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// Identical content always produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Fingerprint derives a short hex version token from the given artifact states.
// It is used to namespace cache keys: replacing the corpus or model artifacts
// yields a different fingerprint, making previously cached keys unreachable
// without an explicit bulk delete.
func Fingerprint(parts ...[]byte) string {
	h, _ := blake2b.New(8, nil)
	for _, p := range parts {
		h.Write(p)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Sender identifies the source of a conversation turn.
type Sender int

const (
	// SenderUser represents the human asking questions.
	SenderUser Sender = iota + 1
	// SenderBot represents the answering assistant.
	SenderBot
)

// Entry is a single (question, label, answer) triple from the curated corpus.
// Entries are immutable once loaded.
type Entry struct {
	Question string
	Label    string
	Answer   string
}

// Turn is one message of the caller-owned conversation history.
// The pipeline only ever reads a bounded recent window of turns.
type Turn struct {
	Sender  Sender
	Message string
}

// Stage identifies which cascade stage produced a resolution.
type Stage int

const (
	StageNone Stage = iota
	StageSmalltalk
	StageConditionLookup
	StageCache
	StageExact
	StageConditionIntent
	StageSymptom
	StageKeyword
	StageClassifier
	StageSemantic
	StageFuzzy
	StageFallback
)

var stageNames = map[Stage]string{
	StageNone:            "none",
	StageSmalltalk:       "smalltalk",
	StageConditionLookup: "condition-lookup",
	StageCache:           "cache",
	StageExact:           "exact",
	StageConditionIntent: "condition-intent",
	StageSymptom:         "symptom",
	StageKeyword:         "keyword",
	StageClassifier:      "classifier",
	StageSemantic:        "semantic",
	StageFuzzy:           "fuzzy",
	StageFallback:        "fallback",
}

func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return "unknown"
}

// Resolution is the outcome of resolving a query: the answer text and the
// cascade stage that produced it. Label is the label of the matched entry,
// empty when no corpus entry was involved (smalltalk, fallback).
type Resolution struct {
	Answer string
	Stage  Stage
	Label  string
}

// Candidate is a scored corpus entry returned by the semantic retriever.
// Score is an inner-product similarity in [-1, 1] for normalized vectors.
type Candidate struct {
	Entry Entry
	Score float32
}
