package model

// Config holds the complete runtime configuration for a recovery run
type Config struct {
	Source     SourceConfig     `yaml:"source" mapstructure:"source"`
	Broker     BrokerConfig     `yaml:"broker" mapstructure:"broker"`
	Limits     LimitsConfig     `yaml:"limits" mapstructure:"limits"`
	Heuristics HeuristicsConfig `yaml:"heuristics" mapstructure:"heuristics"`
	Output     OutputConfig     `yaml:"output" mapstructure:"output"`
}

// SourceConfig describes where segment files come from and how to pick a
// strategy for them. Strategy has no default: the two extraction strategies
// are never reconciled against each other, so the choice is always explicit.
type SourceConfig struct {
	Dir       string `yaml:"dir" mapstructure:"dir"`
	Extension string `yaml:"extension" mapstructure:"extension"`
	Strategy  string `yaml:"strategy" mapstructure:"strategy"`
}

// BrokerConfig describes the destination broker connection and routing.
// RoutingKey defaults to Queue when empty; Rate is publishes per second,
// 0 = unlimited.
type BrokerConfig struct {
	Host       string  `yaml:"host" mapstructure:"host"`
	Port       int     `yaml:"port" mapstructure:"port"`
	VHost      string  `yaml:"vhost" mapstructure:"vhost"`
	Username   string  `yaml:"username" mapstructure:"username"`
	Password   string  `yaml:"password" mapstructure:"password"`
	Queue      string  `yaml:"queue" mapstructure:"queue"`
	Exchange   string  `yaml:"exchange" mapstructure:"exchange"`
	RoutingKey string  `yaml:"routing_key" mapstructure:"routing_key"`
	DryRun     bool    `yaml:"dry_run" mapstructure:"dry_run"`
	Rate       float64 `yaml:"rate" mapstructure:"rate"`
}

// LimitsConfig caps how much of the corpus a single run processes.
// Both limits are advisory, checked between units of work; 0 means unlimited.
type LimitsConfig struct {
	Files    int `yaml:"files" mapstructure:"files"`
	Messages int `yaml:"messages" mapstructure:"messages"`
}

// HeuristicsConfig names the tunable thresholds used by the extractors,
// sanitizer and validator. These are calibrated guesses about the segment
// format and typical payloads, not protocol facts; a format variant can be
// accommodated by overriding them in the config file instead of editing code.
//
//   - MaxEntrySize: entry sizes above this are treated as corrupt headers
//   - MinBinaryLen/MaxBinaryLen: plausible payload binary length bounds
//   - BinaryProbeLen/MinPrintable: leading bytes of a binary inspected, and
//     how many must be printable ASCII
//   - TailArtifact/TailWindow: trailing term-format residue trimmed from
//     plain text, and how close to the end it must sit
//   - MinContentLen: shortest content the validator accepts
//   - TextProbeLen/PrintableRatio: leading characters sampled, and the
//     printable/whitespace share they must reach
//   - AlnumGuardLen: purely alphanumeric content longer than this is
//     rejected as base64-like noise
type HeuristicsConfig struct {
	MaxEntrySize   int     `yaml:"max_entry_size" mapstructure:"max_entry_size"`
	MinBinaryLen   int     `yaml:"min_binary_len" mapstructure:"min_binary_len"`
	MaxBinaryLen   int     `yaml:"max_binary_len" mapstructure:"max_binary_len"`
	BinaryProbeLen int     `yaml:"binary_probe_len" mapstructure:"binary_probe_len"`
	MinPrintable   int     `yaml:"min_printable" mapstructure:"min_printable"`
	TailArtifact   string  `yaml:"tail_artifact" mapstructure:"tail_artifact"`
	TailWindow     int     `yaml:"tail_window" mapstructure:"tail_window"`
	MinContentLen  int     `yaml:"min_content_len" mapstructure:"min_content_len"`
	TextProbeLen   int     `yaml:"text_probe_len" mapstructure:"text_probe_len"`
	PrintableRatio float64 `yaml:"printable_ratio" mapstructure:"printable_ratio"`
	AlnumGuardLen  int     `yaml:"alnum_guard_len" mapstructure:"alnum_guard_len"`
}

// OutputConfig controls diagnostics and reporting
type OutputConfig struct {
	Verbose    bool   `yaml:"verbose" mapstructure:"verbose"`
	ReportPath string `yaml:"report" mapstructure:"report"`
}

// DefaultConfig returns the configuration defaults
func DefaultConfig() *Config {
	return &Config{
		Source: SourceConfig{
			Dir:       ".",
			Extension: ".qs",
		},
		Broker: BrokerConfig{
			Host:     "localhost",
			Port:     5672,
			VHost:    "/",
			Username: "guest",
			Password: "guest",
		},
		Heuristics: HeuristicsConfig{
			MaxEntrySize:   10 * 1024 * 1024,
			MinBinaryLen:   10,
			MaxBinaryLen:   1024 * 1024,
			BinaryProbeLen: 100,
			MinPrintable:   10,
			TailArtifact:   "jt",
			TailWindow:     20,
			MinContentLen:  10,
			TextProbeLen:   200,
			PrintableRatio: 0.7,
			AlnumGuardLen:  100,
		},
	}
}
