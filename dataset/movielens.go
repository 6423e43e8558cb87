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

package dataset

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/juju/errors"
	"go.uber.org/zap"

	"github.com/recsys-io/neighbor/base/log"
)

// LoadMovieLens reads a MovieLens ratings file. Each line holds
// `userId,movieId,rating,timestamp`; a header line is skipped. The returned
// table is not yet indexed.
func LoadMovieLens(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer file.Close()
	ratings := make([]Rating, 0)
	scanner := bufio.NewScanner(file)
	for line := 1; scanner.Scan(); line++ {
		text := scanner.Text()
		if line == 1 && strings.HasPrefix(text, "userId") {
			continue
		}
		if text == "" {
			continue
		}
		fields := strings.Split(text, ",")
		if len(fields) < 3 {
			return nil, errors.Errorf("%s:%d: expected at least 3 fields, got %d", path, line, len(fields))
		}
		userId, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, errors.Annotatef(err, "%s:%d", path, line)
		}
		itemId, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, errors.Annotatef(err, "%s:%d", path, line)
		}
		rating, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, errors.Annotatef(err, "%s:%d", path, line)
		}
		var timestamp int64
		if len(fields) > 3 {
			timestamp, err = strconv.ParseInt(fields[3], 10, 64)
			if err != nil {
				return nil, errors.Annotatef(err, "%s:%d", path, line)
			}
		}
		ratings = append(ratings, Rating{
			UserId:    userId,
			ItemId:    itemId,
			Rating:    rating,
			Timestamp: timestamp,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Trace(err)
	}
	log.Logger().Info("loaded ratings",
		zap.String("path", path),
		zap.Int("rows", len(ratings)))
	return NewTable(ratings), nil
}
