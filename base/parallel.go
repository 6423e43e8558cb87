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

package base

import (
	"sync"

	"gonum.org/v1/gonum/floats"
)

/* Parallel Schedulers */

// Parallel schedules and runs tasks in parallel. nTask is the number of tasks. nJob is
// the number of executors. worker is the executed function which is passed a task id.
func Parallel(nTask int, nJob int, worker func(i int) error) error {
	if nJob < 1 {
		nJob = 1
	}
	var wg sync.WaitGroup
	wg.Add(nJob)
	errs := make([]error, nJob)
	for j := 0; j < nJob; j++ {
		go func(jobId int) {
			defer wg.Done()
			begin := nTask * jobId / nJob
			end := nTask * (jobId + 1) / nJob
			for i := begin; i < end; i++ {
				if errs[jobId] = worker(i); errs[jobId] != nil {
					return
				}
			}
		}(j)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// ParallelSum schedules and runs tasks in parallel, then returns the sum of returned
// values. Each task's contribution is independent so partial sums combine in any order.
func ParallelSum(nTask int, nJob int, worker func(i int) float64) float64 {
	if nJob < 1 {
		nJob = 1
	}
	var wg sync.WaitGroup
	wg.Add(nJob)
	results := make([]float64, nJob)
	for j := 0; j < nJob; j++ {
		go func(jobId int) {
			defer wg.Done()
			begin := nTask * jobId / nJob
			end := nTask * (jobId + 1) / nJob
			for i := begin; i < end; i++ {
				results[jobId] += worker(i)
			}
		}(j)
	}
	wg.Wait()
	return floats.Sum(results)
}
