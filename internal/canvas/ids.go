/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package canvas

import (
	"fmt"

	"github.com/google/uuid"
)

// IDSource issues object identifiers.
type IDSource interface {
	NewID() ID
}

// UUIDSource issues random v4 UUIDs.
type UUIDSource struct{}

func (UUIDSource) NewID() ID { return ID(uuid.NewString()) }

// SequenceSource issues prefix-1, prefix-2, ... Useful for replays that need
// stable ids.
type SequenceSource struct {
	Prefix string
	n      int
}

func (s *SequenceSource) NewID() ID {
	s.n++
	p := s.Prefix
	if p == "" {
		p = "obj"
	}
	return ID(fmt.Sprintf("%s-%d", p, s.n))
}
