// Package jobqueue provides the priority queue, delivery worker and
// recurring-timer scheduler behind notification dispatch.
//
// Jobs carry an opaque payload and a set of channels to deliver on. The
// store hands out queued jobs in Rank order (1 is most urgent, FIFO within
// a rank), honoring per-job NotBefore delays and expiries. The worker
// dispatches each claimed job's pending channels through a Dispatcher,
// retries failed channels with exponential backoff (2s, 4s, 8s by default,
// three attempts per channel) and settles the job as delivered, partial or
// failed once every channel is resolved. Channels the dispatcher reports
// as skipped consume no attempts and never count against the outcome.
//
//	store := jobqueue.NewMemoryStore()
//	worker, err := jobqueue.NewWorker(store, dispatcher,
//		jobqueue.WithMaxConcurrent(4))
//	_ = worker.Start(ctx)
//	defer worker.Stop()
//
// The Scheduler runs named recurring timers for periodic work such as
// digest assembly. Registration is idempotent: registering a name that
// already exists replaces the previous timer, so wiring code can run on
// every application start.
//
//	sched := jobqueue.NewScheduler(jobqueue.WithLocation(loc))
//	sched.Register("digest:daily", jobqueue.DailyAt(8, 0), buildDigests)
//	go sched.Start(ctx)
package jobqueue
