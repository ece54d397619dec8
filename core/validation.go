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


package core

import "fmt"

// ValidateEntry validates a corpus Entry according to domain rules.
//
// Validation rules:
//   - Question must not be empty
//   - Label must not be empty
//   - Answer must not be empty
//
// Duplicate questions across entries are NOT rejected; the corpus store
// resolves duplicates deterministically by load order.
func ValidateEntry(entry *Entry) error {
	if entry == nil {
		return fmt.Errorf("%w: entry is nil", ErrInvalidEntry)
	}

	if entry.Question == "" {
		return fmt.Errorf("%w: %w", ErrInvalidEntry, ErrEmptyQuestion)
	}
	if entry.Label == "" {
		return fmt.Errorf("%w: %w", ErrInvalidEntry, ErrEmptyLabel)
	}
	if entry.Answer == "" {
		return fmt.Errorf("%w: %w", ErrInvalidEntry, ErrEmptyAnswer)
	}

	return nil
}

// ValidateSender checks that a Sender holds one of the defined values.
func ValidateSender(s Sender) error {
	switch s {
	case SenderUser, SenderBot:
		return nil
	default:
		return fmt.Errorf("%w: %d", ErrInvalidSender, s)
	}
}
