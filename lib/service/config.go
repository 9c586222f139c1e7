package service

type Config struct {
	DatabaseUri             string  `envconfig:"DATABASE_URI" required:"true"`
	DatabaseMaxConns        int     `envconfig:"DATABASE_MAX_CONNS" default:"10"`
	DatabaseMaxIdleConns    int     `envconfig:"DATABASE_MAX_IDLE_CONNS" default:"5"`
	DatabaseConnMaxLifetime int     `envconfig:"DATABASE_CONN_MAX_LIFETIME" default:"1800"` // 30 minutes
	DatabaseTimeout         int     `envconfig:"DATABASE_TIMEOUT" default:"60"`             // 60 seconds
	SentryDSN               string  `envconfig:"SENTRY_DSN"`
	SentryTracesSampleRate  float64 `envconfig:"SENTRY_TRACES_SAMPLE_RATE"`
	DatadogAgentUrl         string  `envconfig:"DATADOG_AGENT_URL"`
	LogFilePath             string  `envconfig:"LOG_FILE_PATH"`
	Host                    string  `envconfig:"HOST" default:"localhost:8008"`
	Port                    int     `envconfig:"PORT" default:"8008"`
	DefaultRateLimit        int     `envconfig:"DEFAULT_RATE_LIMIT" default:"50"`
	StrictRateLimit         int     `envconfig:"STRICT_RATE_LIMIT" default:"10"`
	BurstRateLimit          int     `envconfig:"BURST_RATE_LIMIT" default:"1"`
	EnablePrometheus        bool    `envconfig:"ENABLE_PROMETHEUS" default:"false"`
	PrometheusPort          int     `envconfig:"PROMETHEUS_PORT" default:"9092"`
	WebhookUrl              string  `envconfig:"WEBHOOK_URL"`
	// RequireSigVerification rejects events whose signature does not verify
	// against their pubkey. Disable only for throwaway test relays.
	RequireSigVerification bool `envconfig:"REQUIRE_SIG_VERIFICATION" default:"true"`
	// ClientQueueSize bounds the per-connection outbound queue; broadcasts
	// to a client whose queue is full are dropped rather than stalling the
	// fan-out.
	ClientQueueSize            int    `envconfig:"CLIENT_QUEUE_SIZE" default:"64"`
	RabbitMQUri                string `envconfig:"RABBITMQ_URI"`
	RabbitMQEventExchange      string `envconfig:"RABBITMQ_EVENT_EXCHANGE" default:"relayhub_event"`
	RelayName                  string `envconfig:"RELAY_NAME" default:"relayhub.go"`
	RelayDescription           string `envconfig:"RELAY_DESCRIPTION" default:"A relayhub.go nostr relay"`
	RelayPubkey                string `envconfig:"RELAY_PUBKEY"`
	RelayContact               string `envconfig:"RELAY_CONTACT"`
}
