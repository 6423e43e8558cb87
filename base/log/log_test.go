// Copyright 2025 recsys Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package log

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogger(t *testing.T) {
	assert.NotNil(t, Logger())
}

func TestSetLogger(t *testing.T) {
	temp, err := os.MkdirTemp("", "test_log")
	assert.NoError(t, err)
	defer func() {
		_ = os.RemoveAll(temp)
	}()
	path := filepath.Join(temp, "recsys.log")
	SetLogger(Config{Debug: true, Path: path})
	Logger().Info("hello")
	_ = Logger().Sync()
	content, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.Contains(t, string(content), "hello")
}
