package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Engine     EngineConfig     `mapstructure:"engine"`
	API        APIConfig        `mapstructure:"api"`
	Monitoring MonitoringConfig `mapstructure:"monitoring"`
}

// AppConfig contains application-level settings
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"` // development, staging, production
	LogLevel    string `mapstructure:"log_level"`
	LogFormat   string `mapstructure:"log_format"` // "json" or "console"
}

// EngineConfig contains the signal-fusion engine settings.
// Every threshold the engine uses lives here; the engine has no hidden constants.
type EngineConfig struct {
	Weights        WeightsConfig     `mapstructure:"weights"`
	Risk           RiskConfig        `mapstructure:"risk"`
	Forecast       ForecastConfig    `mapstructure:"forecast"`
	Sentiment      SentimentConfig   `mapstructure:"sentiment"`
	Correlation    CorrelationConfig `mapstructure:"correlation"`
	Levels         LevelConfig       `mapstructure:"levels"`
	AlertCap       int               `mapstructure:"alert_cap"`        // max alerts surfaced for presentation
	AgentTimeoutMS int               `mapstructure:"agent_timeout_ms"` // per-agent budget within a cycle
}

// WeightsConfig contains the base fusion weights per agent.
// Effective weights are confidence-adjusted and renormalized at cycle time.
type WeightsConfig struct {
	Risk        float64 `mapstructure:"risk"`        // 0.40
	Forecast    float64 `mapstructure:"forecast"`    // 0.20
	Sentiment   float64 `mapstructure:"sentiment"`   // 0.20
	Correlation float64 `mapstructure:"correlation"` // 0.20
}

// RiskConfig contains volatility/drawdown agent settings
type RiskConfig struct {
	RollingWindow     int     `mapstructure:"rolling_window"`     // trailing periods for rolling volatility
	BaselineWindow    int     `mapstructure:"baseline_window"`    // 0 = full series
	TradingDays       int     `mapstructure:"trading_days"`       // annualization base (252)
	SpikeRatio        float64 `mapstructure:"spike_ratio"`        // rolling/baseline ratio for MEDIUM alert
	SpikeHighRatio    float64 `mapstructure:"spike_high_ratio"`   // ratio for HIGH alert
	DrawdownThreshold float64 `mapstructure:"drawdown_threshold"` // e.g. -0.20
	VolCeiling        float64 `mapstructure:"vol_ceiling"`        // annualized vol that saturates score 100
	VolWeight         float64 `mapstructure:"vol_weight"`         // volatility share of the blended score
	MinPeriods        int     `mapstructure:"min_periods"`        // below this: confidence floor + insufficiency alert
	FullHistory       int     `mapstructure:"full_history"`       // series length at which confidence saturates
}

// ForecastConfig contains forecast agent settings
type ForecastConfig struct {
	Deadband       float64 `mapstructure:"deadband"`        // directional neutral band on expected return
	BearishCeiling float64 `mapstructure:"bearish_ceiling"` // predicted decline that saturates score 100
	AccuracyFloor  float64 `mapstructure:"accuracy_floor"`  // hit-rate below which confidence is discounted
	ShortSMA       int     `mapstructure:"short_sma"`
	LongSMA        int     `mapstructure:"long_sma"`
	RSIPeriod      int     `mapstructure:"rsi_period"`
	MinPeriods     int     `mapstructure:"min_periods"` // series length needed for feature engineering
}

// SentimentConfig contains sentiment agent settings
type SentimentConfig struct {
	StrongThreshold float64 `mapstructure:"strong_threshold"` // |mean| at which a strong-sentiment alert fires
	ShiftDelta      float64 `mapstructure:"shift_delta"`      // change vs prior aggregate that fires a shift alert
	FullHeadlines   int     `mapstructure:"full_headlines"`   // headline count at which confidence saturates
}

// CorrelationConfig contains correlation agent settings
type CorrelationConfig struct {
	MinSymbols       int     `mapstructure:"min_symbols"`       // below this the agent is neutral
	MinOverlap       int     `mapstructure:"min_overlap"`       // minimum common observations per pair
	ClusterThreshold float64 `mapstructure:"cluster_threshold"` // |corr| at which a cluster alert fires
	DeltaThreshold   float64 `mapstructure:"delta_threshold"`   // |corr| move vs previous matrix worth reporting
	ModerateScore    float64 `mapstructure:"moderate_score"`    // risk score label boundary
	HighScore        float64 `mapstructure:"high_score"`        // risk score label boundary
	FullOverlap      int     `mapstructure:"full_overlap"`      // observations at which confidence saturates
}

// LevelConfig contains unified score to risk level cut points (half-open boundaries)
type LevelConfig struct {
	Medium   float64 `mapstructure:"medium"`   // score >= Medium is MEDIUM
	High     float64 `mapstructure:"high"`     // score >= High is HIGH
	Critical float64 `mapstructure:"critical"` // score >= Critical is CRITICAL
}

// APIConfig contains REST API settings
type APIConfig struct {
	Host          string  `mapstructure:"host"`
	Port          int     `mapstructure:"port"`
	RatePerSecond float64 `mapstructure:"rate_per_second"` // analyze/shock route rate limit
	RateBurst     int     `mapstructure:"rate_burst"`
}

// MonitoringConfig contains monitoring settings
type MonitoringConfig struct {
	PrometheusPort int  `mapstructure:"prometheus_port"`
	EnableMetrics  bool `mapstructure:"enable_metrics"`
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	// Enable environment variable overrides
	v.AutomaticEnv()
	v.SetEnvPrefix("ARION")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found; using defaults and environment variables
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Invalid thresholds and weights are rejected here, never per cycle
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Default returns the validated default configuration
func Default() *Config {
	v := viper.New()
	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// Defaults are static; unmarshal cannot fail at runtime
		panic(fmt.Sprintf("invalid default config: %v", err))
	}
	return &cfg
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "Arion")
	v.SetDefault("app.version", "0.1.0")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.log_format", "json")

	// Fusion weight defaults
	v.SetDefault("engine.weights.risk", 0.40)
	v.SetDefault("engine.weights.forecast", 0.20)
	v.SetDefault("engine.weights.sentiment", 0.20)
	v.SetDefault("engine.weights.correlation", 0.20)

	// Risk agent defaults
	v.SetDefault("engine.risk.rolling_window", 20)
	v.SetDefault("engine.risk.baseline_window", 0)
	v.SetDefault("engine.risk.trading_days", 252)
	v.SetDefault("engine.risk.spike_ratio", 1.5)
	v.SetDefault("engine.risk.spike_high_ratio", 2.0)
	v.SetDefault("engine.risk.drawdown_threshold", -0.20)
	v.SetDefault("engine.risk.vol_ceiling", 0.80)
	v.SetDefault("engine.risk.vol_weight", 0.70)
	v.SetDefault("engine.risk.min_periods", 5)
	v.SetDefault("engine.risk.full_history", 60)

	// Forecast agent defaults
	v.SetDefault("engine.forecast.deadband", 0.003)
	v.SetDefault("engine.forecast.bearish_ceiling", 0.05)
	v.SetDefault("engine.forecast.accuracy_floor", 0.5)
	v.SetDefault("engine.forecast.short_sma", 5)
	v.SetDefault("engine.forecast.long_sma", 20)
	v.SetDefault("engine.forecast.rsi_period", 14)
	v.SetDefault("engine.forecast.min_periods", 30)

	// Sentiment agent defaults
	v.SetDefault("engine.sentiment.strong_threshold", 0.5)
	v.SetDefault("engine.sentiment.shift_delta", 0.5)
	v.SetDefault("engine.sentiment.full_headlines", 10)

	// Correlation agent defaults
	v.SetDefault("engine.correlation.min_symbols", 3)
	v.SetDefault("engine.correlation.min_overlap", 20)
	v.SetDefault("engine.correlation.cluster_threshold", 0.7)
	v.SetDefault("engine.correlation.delta_threshold", 0.2)
	v.SetDefault("engine.correlation.moderate_score", 30)
	v.SetDefault("engine.correlation.high_score", 60)
	v.SetDefault("engine.correlation.full_overlap", 60)

	// Level cut points (half-open: 20.0 is MEDIUM, 80.0 is CRITICAL)
	v.SetDefault("engine.levels.medium", 20)
	v.SetDefault("engine.levels.high", 50)
	v.SetDefault("engine.levels.critical", 80)

	v.SetDefault("engine.alert_cap", 10)
	v.SetDefault("engine.agent_timeout_ms", 5000)

	// API defaults
	v.SetDefault("api.host", "0.0.0.0")
	v.SetDefault("api.port", 8081)
	v.SetDefault("api.rate_per_second", 5.0)
	v.SetDefault("api.rate_burst", 10)

	// Monitoring defaults
	v.SetDefault("monitoring.prometheus_port", 9100)
	v.SetDefault("monitoring.enable_metrics", true)
}

// AgentTimeout returns the per-agent timeout as time.Duration
func (c *EngineConfig) AgentTimeout() time.Duration {
	return time.Duration(c.AgentTimeoutMS) * time.Millisecond
}

// GetAPIAddr returns the API server address
func (c *APIConfig) GetAPIAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
