// Package mongo provides MongoDB connection management for the
// notification record storage.
//
//	cfg := config.MustLoad[mongo.Config]()
//	db, err := mongo.ConnectDatabase(ctx, cfg, "ledgerly")
//	if err != nil {
//		return err
//	}
//	records := notify.NewMongoStorage(db.Collection("notifications"))
//
// Connect retries with a fixed interval and verifies connectivity with a
// ping before handing out the client. Healthcheck wraps the same ping for
// readiness probes.
package mongo
