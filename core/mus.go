package core

import (
	"github.com/mus-format/mus-go"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
)

// EntryMUS is the binary codec for Entry values in on-disk artifacts.
var EntryMUS = entryMUS{}

type entryMUS struct{}

var _ mus.Serializer[Entry] = EntryMUS

func (s entryMUS) Marshal(v Entry, bs []byte) (n int) {
	n = ord.String.Marshal(v.Question, bs)
	n += ord.String.Marshal(v.Label, bs[n:])
	n += ord.String.Marshal(v.Answer, bs[n:])
	return
}

func (s entryMUS) Unmarshal(bs []byte) (v Entry, n int, err error) {
	var n1 int
	v.Question, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	v.Label, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Answer, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	return
}

func (s entryMUS) Size(v Entry) (size int) {
	size = ord.String.Size(v.Question)
	size += ord.String.Size(v.Label)
	size += ord.String.Size(v.Answer)
	return
}

func (s entryMUS) Skip(bs []byte) (n int, err error) {
	var n1 int
	n, err = ord.String.Skip(bs)
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	return
}

// VectorMUS is the codec for a single embedding vector.
var VectorMUS = ord.NewSliceSer[float32](raw.Float32)

// EntriesMUS is the codec for the metadata list aligned with the vector index.
var EntriesMUS = ord.NewSliceSer[Entry](EntryMUS)

// VectorsMUS is the codec for the full vector table of the index artifact.
var VectorsMUS = ord.NewSliceSer[[]float32](VectorMUS)
