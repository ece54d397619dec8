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


// Package rewrite implements deterministic query normalization and rewriting.
//
// Normalization lowercases, collapses whitespace and strips punctuation so
// queries can be compared against the corpus's normalized-question index.
// The Rewriter additionally canonicalizes condition aliases, rewrites
// surface intent phrasing onto the corpus's phrasing conventions via an
// ordered rule table, and recovers elliptical follow-up queries ("what
// about symptoms?") from a bounded window of recent conversation turns.
//
// Every transform in this package is a pure function of its inputs: given
// identical (raw, history) pairs the output is identical.
package rewrite
