package allone

// Config carries the environment-driven settings of the crypto core.
// NewFromEnv loads it through pkg/config and builds a Vault in one step;
// NewFromConfig accepts an already-populated value.
type Config struct {
	// StorePath is the directory of the file-backed keystore.
	StorePath string `env:"ALLONE_STORE_PATH" envDefault:"~/.allone/keys"`
	// Iterations is the PBKDF2 iteration count. Values below the format
	// floor of 100000 are ignored.
	Iterations int `env:"ALLONE_PBKDF2_ITERATIONS" envDefault:"100000"`
	// LogFormat selects "text" or "json" output.
	LogFormat string `env:"ALLONE_LOG_FORMAT" envDefault:"text"`
}
