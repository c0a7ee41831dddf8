package pqueue

// One structured debug line per durable state transition: a single
// log.Debug call bracketing a mutation rather than tracing every
// internal step.

func (q *Queue) logMutation(op string, count uint32) {
	q.logger.Debug("pqueue: mutation", "op", op, "path", q.path, "count", count)
}
