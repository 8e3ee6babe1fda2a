package notify_test

import (
	"context"
	"fmt"
	"log"

	"github.com/ledgerly/notify/pkg/jobqueue"
	"github.com/ledgerly/notify/pkg/notify"
	"github.com/ledgerly/notify/pkg/prefs"
)

func ExampleService_Send() {
	ctx := context.Background()

	prefStore := prefs.NewStore(prefs.NewMemoryStorage(), prefs.NewMemoryCache())
	jobs := jobqueue.NewMemoryStore()
	records := notify.NewMemoryStorage()

	svc := notify.NewService(nil, prefStore, jobs, records)

	id, err := svc.Send(ctx, notify.Request{
		UserID:   "user-123",
		Event:    notify.EventBudgetWarning,
		Priority: notify.PriorityHigh,
		Title:    "Groceries budget at 85%",
		Message:  "You have spent $425 of your $500 groceries budget this month.",
	})
	if err != nil {
		log.Fatal(err)
	}

	state, err := svc.JobState(ctx, id)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(state)
	// Output: queued
}

func ExampleService_Send_deduplicated() {
	ctx := context.Background()

	prefStore := prefs.NewStore(prefs.NewMemoryStorage(), prefs.NewMemoryCache())
	svc := notify.NewService(nil, prefStore, jobqueue.NewMemoryStore(), notify.NewMemoryStorage())

	// The same alert fired twice; the dedup key keeps the second one out
	// once a guard is wired in. Without a guard both go through.
	id, err := svc.Send(ctx, notify.Request{
		UserID:   "user-123",
		Event:    notify.EventBudgetExceeded,
		Priority: notify.PriorityUrgent,
		Title:    "Groceries budget exceeded",
		Message:  "You are $32 over your groceries budget.",
		DedupKey: "budget_exceeded:groceries:2026-08",
	})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(id != "")
	// Output: true
}
