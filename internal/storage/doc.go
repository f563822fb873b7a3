/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package storage implements drawing persistence.
// It handles open/save for drawing files (the snapshot JSON blob) with transactional writes and timestamped backups
// next to the file under backups/.
// It also provides an optional snapshot archive (SQLite by default, Postgres when configured) that keeps a history
// of saved blobs per drawing.
package storage
