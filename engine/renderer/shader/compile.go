package shader

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
)

// Request describes one shader to build as part of a CompileAll batch.
type Request struct {
	Key     string
	Type    ShaderType
	Options []ShaderBuilderOption
}

// CompileAll builds every request concurrently on a worker pool and returns the shaders keyed by request key.
// Every request is attempted; failures are joined into the returned error and missing from the map.
//
// Parameters:
//   - workers: the maximum number of concurrent compiles, defaulting to GOMAXPROCS when zero or negative
//   - requests: the shaders to build
//
// Returns:
//   - map[string]Shader: the successfully built shaders
//   - error: the joined build errors, or nil
func CompileAll(workers int, requests []Request) (map[string]Shader, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if len(requests) == 0 {
		return map[string]Shader{}, nil
	}

	pool := worker.NewDynamicWorkerPool(workers, len(requests), 1*time.Second)
	defer pool.Stop()

	var (
		mu   sync.Mutex
		wg   sync.WaitGroup
		out  = make(map[string]Shader, len(requests))
		errs []error
	)

	for i, req := range requests {
		wg.Add(1)
		reqCap := req
		pool.SubmitTask(worker.Task{
			ID:      i,
			Payload: reqCap.Key,
			Do: func() (any, error) {
				defer wg.Done()

				s, err := NewShader(reqCap.Key, reqCap.Type, reqCap.Options...)
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					errs = append(errs, err)
					return nil, err
				}
				if _, dup := out[reqCap.Key]; dup {
					err = fmt.Errorf("shader %q: duplicate key in batch", reqCap.Key)
					errs = append(errs, err)
					return nil, err
				}
				out[reqCap.Key] = s
				return s, nil
			},
		})
	}

	wg.Wait()
	return out, errors.Join(errs...)
}
