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


// Package corpus provides the immutable in-memory question/answer corpus.
//
// The Store is loaded once at process start from a static tabular dataset
// with columns Question, qtype and Answer, and is never mutated afterwards.
// It offers exact lookup over a precomputed normalized-question index, fuzzy
// lookup by edit-distance similarity ratio, label-scoped retrieval, and
// substring retrieval by condition name.
//
// Condition names and the alias index (acronyms, "also known as" phrasing)
// are derived from the corpus itself; the alias index is built lazily on
// first use and cached for the process lifetime.
package corpus
