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


// Package ai provides abstractions for the model services the resolution
// pipeline consumes: text embeddings for semantic retrieval and label
// classification for the classifier cascade stage.
//
// The pipeline depends only on the interfaces defined here. Two
// implementation sub-packages are included:
//
//   - ai/openai: production implementation against OpenAI-compatible APIs
//   - ai/mock:   deterministic test doubles with injectable behavior
//
// Public constructors in ai/openai return interface types to enforce
// abstraction; mock constructors return concrete types so tests can reach
// call counts and behavior-injection fields.
//
// Both services are treated as opaque, versioned artifacts: deterministic
// for a fixed model version, possibly wrong, and never trusted blindly by
// the cascade.
package ai
