package cache

import (
	"time"

	"github.com/mus-format/mus-go"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
	"github.com/vitalsign/healthqa/core"
)

// Record is a cached answer with its provenance and expiry.
type Record struct {
	Answer    string
	Label     string
	Source    core.Stage
	ExpiresAt time.Time
}

// Expired reports whether the record is past its expiry at the given time.
func (r Record) Expired(now time.Time) bool {
	return !r.ExpiresAt.After(now)
}

// RecordMUS is the binary codec for cached records.
var RecordMUS = recordMUS{}

type recordMUS struct{}

var _ mus.Serializer[Record] = RecordMUS

func (s recordMUS) Marshal(v Record, bs []byte) (n int) {
	n = ord.String.Marshal(v.Answer, bs)
	n += ord.String.Marshal(v.Label, bs[n:])
	n += varint.Int.Marshal(int(v.Source), bs[n:])
	n += varint.Int64.Marshal(v.ExpiresAt.UnixMicro(), bs[n:])
	return
}

func (s recordMUS) Unmarshal(bs []byte) (v Record, n int, err error) {
	var n1 int
	v.Answer, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	v.Label, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	var stage int
	stage, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Source = core.Stage(stage)
	var micros int64
	micros, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.ExpiresAt = time.UnixMicro(micros).UTC()
	return
}

func (s recordMUS) Size(v Record) (size int) {
	size = ord.String.Size(v.Answer)
	size += ord.String.Size(v.Label)
	size += varint.Int.Size(int(v.Source))
	size += varint.Int64.Size(v.ExpiresAt.UnixMicro())
	return
}

func (s recordMUS) Skip(bs []byte) (n int, err error) {
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
	n1, err = varint.Int.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Int64.Skip(bs[n:])
	n += n1
	return
}

// MarshalRecord serializes a Record to bytes.
func MarshalRecord(record Record) []byte {
	buf := make([]byte, RecordMUS.Size(record))
	RecordMUS.Marshal(record, buf)
	return buf
}

// UnmarshalRecord deserializes a Record from bytes.
func UnmarshalRecord(data []byte) (Record, error) {
	record, _, err := RecordMUS.Unmarshal(data)
	return record, err
}
