package digest

// Config holds digest scheduling settings loaded from the environment.
type Config struct {
	// Hour is the local hour (0-23) at which digests are assembled.
	Hour int `env:"NOTIFY_DIGEST_HOUR" envDefault:"8"`
}
