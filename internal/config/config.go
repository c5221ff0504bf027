package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	configPathEnv     = "NEWS_AGGREGATOR_CONFIG"
	newsAPIKeyEnv     = "NEWS_API_KEY"
	gnewsAPIKeyEnv    = "GNEWS_API_KEY"
	groqAPIKeyEnv     = "GROQ_API_KEY"
	llmModelEnv       = "LLM_MODEL"
	logLevelEnv       = "LOG_LEVEL"
	archivePathEnv    = "ARCHIVE_PATH"
	serverAddrEnv     = "SERVER_ADDR"
	telegramTokenEnv  = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv = "TELEGRAM_CHAT_ID"
)

const (
	ProviderNewsAPI = "newsapi"
	ProviderGNews   = "gnews"
	ProviderRSS     = "rss"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging   LoggingConfig   `yaml:"logging"`
	Pipeline  PipelineConfig  `yaml:"pipeline"`
	Providers ProviderConfig  `yaml:"providers"`
	Extractor ExtractorConfig `yaml:"extractor"`
	LLM       LLMConfig       `yaml:"llm"`
	Archive   ArchiveConfig   `yaml:"archive"`
	Server    ServerConfig    `yaml:"server"`
	Telegram  TelegramConfig  `yaml:"telegram"`
	Watch     WatchConfig     `yaml:"watch"`
}

// LoggingConfig selects slog level and handler format ("text" or "json").
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// PipelineConfig bounds a single run.
type PipelineConfig struct {
	MaxResults    int           `yaml:"maxResults"`
	Language      string        `yaml:"language"`
	ContextSuffix string        `yaml:"contextSuffix"`
	RunTimeout    time.Duration `yaml:"runTimeout"`
}

// ProviderConfig lists search providers in the order they are consulted.
type ProviderConfig struct {
	Order   []string          `yaml:"order"`
	NewsAPI HTTPProvider      `yaml:"newsapi"`
	GNews   HTTPProvider      `yaml:"gnews"`
	RSS     RSSProviderConfig `yaml:"rss"`
}

// HTTPProvider describes a keyed JSON news-search API.
type HTTPProvider struct {
	Endpoint          string        `yaml:"endpoint"`
	APIKey            string        `yaml:"apiKey"`
	Timeout           time.Duration `yaml:"timeout"`
	RequestsPerSecond float64       `yaml:"requestsPerSecond"`
}

// RSSProviderConfig describes the keyless RSS search feed.
type RSSProviderConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Endpoint string        `yaml:"endpoint"`
	Region   string        `yaml:"region"`
	Timeout  time.Duration `yaml:"timeout"`
}

// ExtractorConfig tunes article page fetching.
type ExtractorConfig struct {
	Timeout             time.Duration `yaml:"timeout"`
	UserAgent           string        `yaml:"userAgent"`
	Workers             int           `yaml:"workers"`
	MaxBodyBytes        int64         `yaml:"maxBodyBytes"`
	CacheSize           int           `yaml:"cacheSize"`
	CacheTTL            time.Duration `yaml:"cacheTTL"`
	ReadabilityFallback bool          `yaml:"readabilityFallback"`
}

// LLMConfig defines how to contact the OpenAI-compatible completion API.
type LLMConfig struct {
	Endpoint     string        `yaml:"endpoint"`
	Model        string        `yaml:"model"`
	APIKey       string        `yaml:"apiKey"`
	SystemPrompt string        `yaml:"systemPrompt"`
	MaxTokens    int           `yaml:"maxTokens"`
	Temperature  float64       `yaml:"temperature"`
	Timeout      time.Duration `yaml:"timeout"`
}

// ArchiveConfig points at the SQLite run history; empty path disables it.
type ArchiveConfig struct {
	Path string `yaml:"path"`
}

// ServerConfig is used by the serve command.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	Endpoint string `yaml:"endpoint"`
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// WatchConfig defines how often the watch command re-runs a topic.
type WatchConfig struct {
	Interval time.Duration `yaml:"interval"`
}

// Load reads .env, YAML configuration (if present) and applies environment overrides.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("config: cannot read .env: %v", err)
	}

	cfg := Default()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			fileCfg, err := Parse(raw)
			if err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

// Parse decodes a YAML document without applying defaults.
func Parse(raw []byte) (Config, error) {
	var fileCfg Config
	if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
		return Config{}, err
	}
	return fileCfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(newsAPIKeyEnv); v != "" {
		c.Providers.NewsAPI.APIKey = v
	}
	if v := os.Getenv(gnewsAPIKeyEnv); v != "" {
		c.Providers.GNews.APIKey = v
	}
	if v := os.Getenv(groqAPIKeyEnv); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv(llmModelEnv); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(archivePathEnv); v != "" {
		c.Archive.Path = v
	}
	if v := os.Getenv(serverAddrEnv); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Telegram.ChatID = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.Format != "" {
		base.Logging.Format = override.Logging.Format
	}

	if override.Pipeline.MaxResults > 0 {
		base.Pipeline.MaxResults = override.Pipeline.MaxResults
	}
	if override.Pipeline.Language != "" {
		base.Pipeline.Language = override.Pipeline.Language
	}
	if override.Pipeline.ContextSuffix != "" {
		base.Pipeline.ContextSuffix = override.Pipeline.ContextSuffix
	}
	if override.Pipeline.RunTimeout > 0 {
		base.Pipeline.RunTimeout = override.Pipeline.RunTimeout
	}

	if len(override.Providers.Order) > 0 {
		base.Providers.Order = override.Providers.Order
	}
	base.Providers.NewsAPI = mergeHTTPProvider(base.Providers.NewsAPI, override.Providers.NewsAPI)
	base.Providers.GNews = mergeHTTPProvider(base.Providers.GNews, override.Providers.GNews)
	if override.Providers.RSS.Enabled {
		base.Providers.RSS.Enabled = true
	}
	if override.Providers.RSS.Endpoint != "" {
		base.Providers.RSS.Endpoint = override.Providers.RSS.Endpoint
	}
	if override.Providers.RSS.Region != "" {
		base.Providers.RSS.Region = override.Providers.RSS.Region
	}
	if override.Providers.RSS.Timeout > 0 {
		base.Providers.RSS.Timeout = override.Providers.RSS.Timeout
	}

	if override.Extractor.Timeout > 0 {
		base.Extractor.Timeout = override.Extractor.Timeout
	}
	if override.Extractor.UserAgent != "" {
		base.Extractor.UserAgent = override.Extractor.UserAgent
	}
	if override.Extractor.Workers > 0 {
		base.Extractor.Workers = override.Extractor.Workers
	}
	if override.Extractor.MaxBodyBytes > 0 {
		base.Extractor.MaxBodyBytes = override.Extractor.MaxBodyBytes
	}
	if override.Extractor.CacheSize > 0 {
		base.Extractor.CacheSize = override.Extractor.CacheSize
	}
	if override.Extractor.CacheTTL > 0 {
		base.Extractor.CacheTTL = override.Extractor.CacheTTL
	}
	if override.Extractor.ReadabilityFallback {
		base.Extractor.ReadabilityFallback = true
	}

	if override.LLM.Endpoint != "" {
		base.LLM.Endpoint = override.LLM.Endpoint
	}
	if override.LLM.Model != "" {
		base.LLM.Model = override.LLM.Model
	}
	if override.LLM.APIKey != "" {
		base.LLM.APIKey = override.LLM.APIKey
	}
	if override.LLM.SystemPrompt != "" {
		base.LLM.SystemPrompt = override.LLM.SystemPrompt
	}
	if override.LLM.MaxTokens > 0 {
		base.LLM.MaxTokens = override.LLM.MaxTokens
	}
	if override.LLM.Temperature > 0 {
		base.LLM.Temperature = override.LLM.Temperature
	}
	if override.LLM.Timeout > 0 {
		base.LLM.Timeout = override.LLM.Timeout
	}

	if override.Archive.Path != "" {
		base.Archive.Path = override.Archive.Path
	}
	if override.Server.Addr != "" {
		base.Server.Addr = override.Server.Addr
	}

	if override.Telegram.Endpoint != "" {
		base.Telegram.Endpoint = override.Telegram.Endpoint
	}
	if override.Telegram.BotToken != "" {
		base.Telegram.BotToken = override.Telegram.BotToken
	}
	if override.Telegram.ChatID != "" {
		base.Telegram.ChatID = override.Telegram.ChatID
	}

	if override.Watch.Interval > 0 {
		base.Watch.Interval = override.Watch.Interval
	}

	return base
}

func mergeHTTPProvider(base, override HTTPProvider) HTTPProvider {
	if override.Endpoint != "" {
		base.Endpoint = override.Endpoint
	}
	if override.APIKey != "" {
		base.APIKey = override.APIKey
	}
	if override.Timeout > 0 {
		base.Timeout = override.Timeout
	}
	if override.RequestsPerSecond > 0 {
		base.RequestsPerSecond = override.RequestsPerSecond
	}
	return base
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Pipeline: PipelineConfig{
			MaxResults:    5,
			Language:      "en",
			ContextSuffix: "news 2025",
		},
		Providers: ProviderConfig{
			Order: []string{ProviderNewsAPI, ProviderGNews, ProviderRSS},
			NewsAPI: HTTPProvider{
				Endpoint:          "https://newsapi.org/v2",
				Timeout:           5 * time.Second,
				RequestsPerSecond: 1,
			},
			GNews: HTTPProvider{
				Endpoint:          "https://gnews.io/api/v4",
				Timeout:           5 * time.Second,
				RequestsPerSecond: 1,
			},
			RSS: RSSProviderConfig{
				Endpoint: "https://news.google.com/rss/search",
				Region:   "US",
				Timeout:  5 * time.Second,
			},
		},
		Extractor: ExtractorConfig{
			Timeout:      10 * time.Second,
			UserAgent:    "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36",
			Workers:      4,
			MaxBodyBytes: 5 << 20,
			CacheSize:    256,
			CacheTTL:     30 * time.Minute,
		},
		LLM: LLMConfig{
			Endpoint:     "https://api.groq.com/openai/v1/chat/completions",
			Model:        "llama-3.3-70b-versatile",
			SystemPrompt: "You are an expert news analyst.",
			MaxTokens:    1200,
			Temperature:  0.7,
			Timeout:      30 * time.Second,
		},
		Server:   ServerConfig{Addr: ":8080"},
		Telegram: TelegramConfig{Endpoint: "https://api.telegram.org"},
		Watch:    WatchConfig{Interval: time.Hour},
	}
}
