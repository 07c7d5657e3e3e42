// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
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

// Package serializer reads configuration documents and writes run documents.
//
// Configuration files are read as JSON, YAML or TOML, the format chosen
// from the file extension (TOML when unknown):
//
//	raw, err := serializer.FromFile[map[string]any]("checks.toml")
//
// Run documents are written as indented JSON, YAML, a go-pretty table or
// plain text. Values implementing Tabler choose their own columns, values
// implementing Texter their own text; anything else is flattened into
// FIELD/VALUE rows.
//
//	w := serializer.NewFileWriterOrStdout(serializer.FormatYAML, "run.yaml")
//	defer w.Close()
//	err := w.Serialize(ctx, result)
package serializer
