package semantic

import (
	"fmt"
	"math"
	"os"

	"github.com/mus-format/mus-go/ord"
	"github.com/vitalsign/healthqa/core"
)

// Index holds the dense retrieval artifact: one L2-normalized vector per
// corpus entry, with the entry metadata aligned by position.
type Index struct {
	fingerprint string
	dim         int
	vectors     [][]float32
	entries     []core.Entry
}

// NewIndex assembles an index from already-normalized vectors and their
// aligned entries. The fingerprint identifies the corpus the vectors were
// built from.
func NewIndex(fingerprint string, vectors [][]float32, entries []core.Entry) (*Index, error) {
	if len(vectors) != len(entries) {
		return nil, fmt.Errorf("%w: %d vectors, %d entries", ErrArtifactMismatch, len(vectors), len(entries))
	}
	if len(vectors) == 0 {
		return nil, ErrNoEntries
	}
	dim := len(vectors[0])
	for i, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("%w: vector %d has dim %d, expected %d", ErrArtifactCorrupt, i, len(v), dim)
		}
	}
	return &Index{
		fingerprint: fingerprint,
		dim:         dim,
		vectors:     vectors,
		entries:     entries,
	}, nil
}

// Len returns the number of indexed entries.
func (x *Index) Len() int { return len(x.entries) }

// Dim returns the embedding dimension.
func (x *Index) Dim() int { return x.dim }

// Fingerprint returns the corpus fingerprint the index was built from.
func (x *Index) Fingerprint() string { return x.fingerprint }

// Entry returns the metadata for position i.
func (x *Index) Entry(i int) core.Entry { return x.entries[i] }

// Save writes the vector table and metadata list to their artifact files.
func (x *Index) Save(vectorPath, metaPath string) error {
	vbuf := make([]byte, ord.String.Size(x.fingerprint)+core.VectorsMUS.Size(x.vectors))
	n := ord.String.Marshal(x.fingerprint, vbuf)
	core.VectorsMUS.Marshal(x.vectors, vbuf[n:])
	if err := os.WriteFile(vectorPath, vbuf, 0o644); err != nil {
		return fmt.Errorf("writing vector artifact: %w", err)
	}

	mbuf := make([]byte, ord.String.Size(x.fingerprint)+core.EntriesMUS.Size(x.entries))
	n = ord.String.Marshal(x.fingerprint, mbuf)
	core.EntriesMUS.Marshal(x.entries, mbuf[n:])
	if err := os.WriteFile(metaPath, mbuf, 0o644); err != nil {
		return fmt.Errorf("writing metadata artifact: %w", err)
	}
	return nil
}

// LoadIndex reads the artifact pair from disk. A missing file yields
// ErrArtifactMissing; decode failures and cross-file disagreements yield
// ErrArtifactCorrupt and ErrArtifactMismatch respectively.
func LoadIndex(vectorPath, metaPath string) (*Index, error) {
	vdata, err := os.ReadFile(vectorPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrArtifactMissing, vectorPath)
		}
		return nil, err
	}
	mdata, err := os.ReadFile(metaPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrArtifactMissing, metaPath)
		}
		return nil, err
	}

	vfp, n, err := ord.String.Unmarshal(vdata)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrArtifactCorrupt, err)
	}
	vectors, _, err := core.VectorsMUS.Unmarshal(vdata[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrArtifactCorrupt, err)
	}

	mfp, n, err := ord.String.Unmarshal(mdata)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrArtifactCorrupt, err)
	}
	entries, _, err := core.EntriesMUS.Unmarshal(mdata[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrArtifactCorrupt, err)
	}

	if vfp != mfp {
		return nil, fmt.Errorf("%w: fingerprint %q vs %q", ErrArtifactMismatch, vfp, mfp)
	}
	return NewIndex(vfp, vectors, entries)
}

// normalize scales v to unit length in place. All-zero vectors are left
// untouched and reported.
func normalize(v []float32) error {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return ErrEmptyVector
	}
	inv := float32(1 / math.Sqrt(sum))
	for i := range v {
		v[i] *= inv
	}
	return nil
}

// dot computes the inner product of two equal-length vectors.
func dot(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
