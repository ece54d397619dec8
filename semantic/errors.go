// Copyright 2025 Vitalsign Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package semantic

import "errors"

var (
	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrArtifactMissing is returned when an index artifact file does not exist.
	ErrArtifactMissing = errors.New("index artifact missing")

	// ErrArtifactCorrupt is returned when an artifact file cannot be decoded.
	ErrArtifactCorrupt = errors.New("index artifact corrupt")

	// ErrArtifactMismatch is returned when the vector table and metadata
	// list disagree on length or fingerprint.
	ErrArtifactMismatch = errors.New("index artifacts do not match")

	// ErrNoEntries is returned when an index build is requested for an empty corpus.
	ErrNoEntries = errors.New("no entries to index")

	// ErrEmptyVector is returned when the embedder produces a zero-length
	// or all-zero vector.
	ErrEmptyVector = errors.New("empty embedding vector")
)
