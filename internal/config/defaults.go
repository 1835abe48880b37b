package config

const (
	defaultDataDir           = "~/.local/share/stockroom"
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
	defaultBackend           = "table"
	defaultSnapshotScope     = "main"
	defaultSnapshotTimeout   = 30
	defaultMaxProducts       = 25
	defaultMaxBytes          = 200 << 20
	defaultMaxImageBytes     = 20 << 20
	defaultMinImageEdge      = 800
	defaultMaxFilesScanned   = 5000
	defaultMaxMatchesPerSpec = 40
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
		},
		Store: Store{
			Backend: defaultBackend,
		},
		Snapshot: Snapshot{
			Scope:          defaultSnapshotScope,
			RequestTimeout: defaultSnapshotTimeout,
		},
		Catalog: Catalog{
			CurrencyRates: map[string]float64{
				"EUR": 1,
				"GBP": 1,
				"AUD": 1,
			},
		},
		Submission: Submission{
			MaxProducts:       defaultMaxProducts,
			MaxBytes:          defaultMaxBytes,
			MaxImageBytes:     defaultMaxImageBytes,
			MinImageEdge:      defaultMinImageEdge,
			MaxFilesScanned:   defaultMaxFilesScanned,
			MaxMatchesPerSpec: defaultMaxMatchesPerSpec,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
