// Package notify is the multi-channel notification engine for Ledgerly.
//
// Applications call Service.Send with a Request describing what happened;
// the engine resolves the user's preferences, suppresses duplicates,
// selects eligible channels (email, push, in-app, SMS) and enqueues a
// delivery job. A jobqueue.Worker wired with this package's Dispatcher
// performs the deliveries asynchronously, retrying failed channels with
// exponential backoff while delivered channels stay settled.
//
// # Wiring
//
//	records := notify.NewMemoryStorage()
//	prefStore := prefs.NewStore(prefs.NewMemoryStorage(), prefs.NewMemoryCache())
//	jobs := jobqueue.NewMemoryStore()
//	guard := dedupe.NewMemoryGuard()
//
//	directory := notify.NewStaticDirectory()
//	dispatcher := notify.NewDispatcher(records, directory,
//		email.NewDevSender("./outbox"),
//		notify.LogPushSender{}, notify.LogSMSSender{})
//
//	worker, _ := jobqueue.NewWorker(jobs, dispatcher)
//	_ = worker.Start(ctx)
//
//	svc := notify.NewService(guard, prefStore, jobs, records)
//	id, err := svc.Send(ctx, notify.Request{
//		UserID:   "user-1",
//		Event:    notify.EventBudgetExceeded,
//		Priority: notify.PriorityHigh,
//		Title:    "Groceries budget exceeded",
//		Message:  "You have spent $520 of your $500 budget.",
//		DedupKey: "budget_exceeded:groceries:2025-07",
//	})
//
// Production deployments swap the memory implementations for MongoStorage
// (records), prefs.PGStorage with a prefs.RedisCache, and dedupe.RedisGuard,
// and use the Postmark email sender plus real push/SMS providers.
//
// # Channel selection
//
// Channels are evaluated in the fixed order EMAIL, PUSH, IN_APP, SMS
// against the user's preferences at send time: a channel must be enabled
// and allow the notification's category, quiet hours suppress delivery
// (URGENT bypasses them on email and push), and emergency-only SMS carries
// URGENT notifications exclusively. A Request may override selection with
// an explicit channel list, which is used verbatim.
//
// The in-app channel persists a Record, which also feeds unread counts and
// digest assembly. SMS bodies are truncated to a single 160-rune segment.
package notify
