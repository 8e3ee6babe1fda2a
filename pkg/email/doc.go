// Package email provides a provider-agnostic interface for sending the
// transactional emails produced by the notification pipeline, with built-in
// support for Postmark.
//
// The package is built around the Sender interface so providers can be
// swapped without changing dispatch code. Currently available:
//   - Postmark client for production delivery with open/click tracking
//   - DevSender for local development (saves emails to disk)
//
// All implementations validate parameters before sending and surface
// failures through the package's sentinel errors (ErrInvalidConfig,
// ErrInvalidParams, ErrFailedToSendEmail), checkable with errors.Is.
//
// # Usage
//
//	cfg := email.Config{
//	    PostmarkServerToken:  "server-token",
//	    PostmarkAccountToken: "account-token",
//	    SenderEmail:          "notifications@ledgerly.app",
//	    SupportEmail:         "support@ledgerly.app",
//	}
//
//	sender, err := email.NewPostmarkClient(cfg)
//	if err != nil {
//	    return err
//	}
//
//	err = sender.SendEmail(ctx, email.SendParams{
//	    SendTo:   "user@example.com",
//	    Subject:  "Budget exceeded: Groceries",
//	    BodyHTML: html,
//	    Tag:      "budget_exceeded",
//	})
//
// Development mode saves emails locally instead:
//
//	sender := email.NewDevSender("./email-output")
package email
