package vulkan

// rollback collects release steps for a multi-step creation and runs them in reverse acquisition order.
// A creation path pushes one step per acquired object, calls run on failure and release on success.
type rollback struct {
	steps []rollbackStep
}

type rollbackStep struct {
	name    string
	release func()
}

// push records the release step for an object that was just acquired.
func (r *rollback) push(name string, release func()) {
	r.steps = append(r.steps, rollbackStep{name: name, release: release})
}

// run releases everything acquired so far, newest first, and empties the stack.
//
// Returns:
//   - []string: the names of the steps in the order they ran
func (r *rollback) run() []string {
	ran := make([]string, 0, len(r.steps))
	for i := len(r.steps) - 1; i >= 0; i-- {
		step := r.steps[i]
		if step.release != nil {
			step.release()
		}
		ran = append(ran, step.name)
	}
	r.steps = nil
	return ran
}

// release hands ownership of every acquired object to the caller; nothing is freed.
func (r *rollback) release() {
	r.steps = nil
}

// pending reports how many release steps are recorded.
func (r *rollback) pending() int {
	return len(r.steps)
}
