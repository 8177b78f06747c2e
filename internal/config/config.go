package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone = "Asia/Seoul"

	configPathEnv     = "NEWS_CLIPPER_CONFIG"
	searchClientIDEnv = "NAVER_CLIENT_ID"
	searchSecretEnv   = "NAVER_CLIENT_SECRET"
	notionTokenEnv    = "NOTION_TOKEN"
	databaseDSNEnv    = "DATABASE_DSN"
	telegramTokenEnv  = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv = "TELEGRAM_CHAT_ID"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging    LoggingConfig    `yaml:"logging"`
	Scheduler  SchedulerConfig  `yaml:"scheduler"`
	Search     SearchConfig     `yaml:"search"`
	Notion     NotionConfig     `yaml:"notion"`
	Database   DatabaseConfig   `yaml:"database"`
	Telegram   TelegramConfig   `yaml:"telegram"`
	Enrich     EnrichConfig     `yaml:"enrich"`
	Categories []CategoryConfig `yaml:"categories"`
}

// LoggingConfig controls slog verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// SchedulerConfig defines whether the clipper loops or runs once per trigger.
type SchedulerConfig struct {
	Daemon   bool           `yaml:"daemon"`
	Timezone string         `yaml:"timezone"`
	location *time.Location `yaml:"-"`
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// SearchConfig selects and parameterizes the news search source.
type SearchConfig struct {
	Source       string `yaml:"source"` // "naver" or "gnews"
	Endpoint     string `yaml:"endpoint"`
	RSSEndpoint  string `yaml:"rssEndpoint"`
	ResultSize   int    `yaml:"resultSize"`
	ClientID     string `yaml:"-"`
	ClientSecret string `yaml:"-"`
}

// NotionConfig wires the sink: one collection (database) per category key.
type NotionConfig struct {
	Endpoint       string            `yaml:"endpoint"`
	ClearBeforeRun bool              `yaml:"clearBeforeRun"`
	Collections    map[string]string `yaml:"collections"`
	Token          string            `yaml:"-"`
}

// DatabaseConfig describes the optional Postgres archive.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// TelegramConfig wires the optional run-summary digest.
type TelegramConfig struct {
	BotToken string `yaml:"-"`
	ChatID   string `yaml:"chatId"`
}

// EnrichConfig controls cover-image lookup on accepted records.
type EnrichConfig struct {
	Enabled          bool   `yaml:"enabled"`
	PlaceholderImage string `yaml:"placeholderImage"`
}

// CategoryConfig is one classification table: entities, exclusions, umbrella
// consolidation and the search tasks that feed it.
type CategoryConfig struct {
	Key          string         `yaml:"key"`
	WindowDays   int            `yaml:"windowDays"`
	MinGuarantee int            `yaml:"minGuarantee"`
	Exclusive    bool           `yaml:"exclusive"`
	Umbrella     *EntityConfig  `yaml:"umbrella"`
	Entities     []EntityConfig `yaml:"entities"`
	Exclusions   []string       `yaml:"exclusions"`
	Tasks        []TaskConfig   `yaml:"tasks"`
}

// EntityConfig names one target and the tokens that identify it in a title.
type EntityConfig struct {
	Label  string   `yaml:"label"`
	Tokens []string `yaml:"tokens"`
}

// TaskConfig is one search unit: keyword set, per-tag quota and default tag.
type TaskConfig struct {
	Keywords []string `yaml:"keywords"`
	Quota    int      `yaml:"quota"`
	Tag      string   `yaml:"tag"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone()

	if len(cfg.Categories) == 0 {
		cfg.Categories = defaultConfig().Categories
	}

	return cfg
}

// Validate rejects category tables the classifier cannot be built from.
func (c Config) Validate() error {
	seen := map[string]bool{}
	for _, cat := range c.Categories {
		if cat.Key == "" {
			return fmt.Errorf("category with empty key")
		}
		if seen[cat.Key] {
			return fmt.Errorf("duplicate category key %q", cat.Key)
		}
		seen[cat.Key] = true

		if cat.WindowDays <= 0 {
			return fmt.Errorf("category %s: windowDays must be positive", cat.Key)
		}
		if cat.MinGuarantee < 0 {
			return fmt.Errorf("category %s: negative minGuarantee", cat.Key)
		}
		if len(cat.Tasks) == 0 {
			return fmt.Errorf("category %s: no tasks", cat.Key)
		}
		for _, task := range cat.Tasks {
			if len(task.Keywords) == 0 {
				return fmt.Errorf("category %s: task %q has no keywords", cat.Key, task.Tag)
			}
			if task.Quota <= 0 {
				return fmt.Errorf("category %s: task %q has no quota", cat.Key, task.Tag)
			}
		}
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(searchClientIDEnv); v != "" {
		c.Search.ClientID = v
	}
	if v := os.Getenv(searchSecretEnv); v != "" {
		c.Search.ClientSecret = v
	}
	if v := os.Getenv(notionTokenEnv); v != "" {
		c.Notion.Token = v
	}
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Telegram.ChatID = v
	}
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Scheduler.location = loc
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging = override.Logging
	}

	if override.Scheduler.Timezone != "" {
		base.Scheduler.Timezone = override.Scheduler.Timezone
	}
	base.Scheduler.Daemon = base.Scheduler.Daemon || override.Scheduler.Daemon

	if override.Search.Source != "" {
		base.Search.Source = override.Search.Source
	}
	if override.Search.Endpoint != "" {
		base.Search.Endpoint = override.Search.Endpoint
	}
	if override.Search.RSSEndpoint != "" {
		base.Search.RSSEndpoint = override.Search.RSSEndpoint
	}
	if override.Search.ResultSize > 0 {
		base.Search.ResultSize = override.Search.ResultSize
	}

	if override.Notion.Endpoint != "" {
		base.Notion.Endpoint = override.Notion.Endpoint
	}
	base.Notion.ClearBeforeRun = base.Notion.ClearBeforeRun || override.Notion.ClearBeforeRun
	if len(override.Notion.Collections) > 0 {
		base.Notion.Collections = override.Notion.Collections
	}

	if override.Database.DSN != "" {
		base.Database = override.Database
	}
	if override.Telegram.ChatID != "" {
		base.Telegram.ChatID = override.Telegram.ChatID
	}

	base.Enrich.Enabled = base.Enrich.Enabled || override.Enrich.Enabled
	if override.Enrich.PlaceholderImage != "" {
		base.Enrich.PlaceholderImage = override.Enrich.PlaceholderImage
	}

	if len(override.Categories) > 0 {
		base.Categories = override.Categories
	}

	return base
}

// defaultConfig mirrors the clipping job this tool replaced: the three mobile
// carriers plus their umbrella tag on a short window, and the lower-volume
// subsidiary/MVNO categories on wide windows.
func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Logging:   LoggingConfig{Level: "info"},
		Scheduler: SchedulerConfig{Timezone: defaultTimezone, location: tz},
		Search: SearchConfig{
			Source:      "naver",
			Endpoint:    "https://openapi.naver.com/v1/search/news.json",
			RSSEndpoint: "https://news.google.com/rss/search",
			ResultSize:  50,
		},
		Notion: NotionConfig{
			Endpoint:       "https://api.notion.com",
			ClearBeforeRun: true,
			Collections:    map[string]string{},
		},
		Enrich: EnrichConfig{
			Enabled:          true,
			PlaceholderImage: "https://www.notion.so/images/page-cover/gradients_8.png",
		},
		Categories: []CategoryConfig{
			{
				Key:          "mno",
				WindowDays:   3,
				MinGuarantee: 2,
				Exclusive:    true,
				Umbrella: &EntityConfig{
					Label:  "통신 3사",
					Tokens: []string{"통신 3사", "통신3사", "이통3사", "이동통신 3사", "통신사"},
				},
				Entities: []EntityConfig{
					{Label: "SKT", Tokens: []string{"SK텔레콤", "SKT", "에스케이텔레콤"}},
					{Label: "KT", Tokens: []string{"KT", "케이티"}},
					{Label: "LG U+", Tokens: []string{"LG유플러스", "LG U+", "LGU+", "엘지유플러스"}},
				},
				// Hand-maintained false positives that share a brand prefix.
				Exclusions: []string{"KT&G", "KTX", "KT위즈", "kt wiz", "KT텔레캅", "SK하이닉스", "SK이노베이션"},
				Tasks: []TaskConfig{
					{Keywords: []string{"통신사"}, Quota: 5, Tag: "통신 3사"},
					{Keywords: []string{"SK텔레콤", "SKT"}, Quota: 20, Tag: "SKT"},
					{Keywords: []string{"KT", "케이티"}, Quota: 10, Tag: "KT"},
					{Keywords: []string{"LG유플러스"}, Quota: 10, Tag: "LG U+"},
				},
			},
			{
				Key:          "subsid",
				WindowDays:   60,
				MinGuarantee: 2,
				Entities: []EntityConfig{
					{Label: "SK브로드밴드", Tokens: []string{"SK브로드밴드", "SKB"}},
					{Label: "KT스카이라이프", Tokens: []string{"KT스카이라이프", "스카이라이프"}},
					{Label: "LG헬로비전", Tokens: []string{"LG헬로비전", "헬로비전"}},
				},
				Tasks: []TaskConfig{
					{Keywords: []string{"SK브로드밴드"}, Quota: 10, Tag: "SK브로드밴드"},
					{Keywords: []string{"KT스카이라이프"}, Quota: 10, Tag: "KT스카이라이프"},
					{Keywords: []string{"LG헬로비전"}, Quota: 10, Tag: "LG헬로비전"},
				},
			},
			{
				Key:          "fin",
				WindowDays:   30,
				MinGuarantee: 2,
				Entities: []EntityConfig{
					{Label: "리브모바일", Tokens: []string{"리브모바일", "리브엠", "KB리브엠"}},
					{Label: "토스모바일", Tokens: []string{"토스모바일"}},
				},
				Tasks: []TaskConfig{
					{Keywords: []string{"리브모바일", "리브엠"}, Quota: 10, Tag: "리브모바일"},
					{Keywords: []string{"토스모바일"}, Quota: 10, Tag: "토스모바일"},
				},
			},
			{
				Key:          "mvno",
				WindowDays:   60,
				MinGuarantee: 2,
				Umbrella: &EntityConfig{
					Label:  "알뜰폰",
					Tokens: []string{"알뜰폰", "MVNO"},
				},
				Entities: []EntityConfig{
					{Label: "프리텔레콤", Tokens: []string{"프리텔레콤", "프리티"}},
					{Label: "스마텔", Tokens: []string{"스마텔"}},
					{Label: "아이즈모바일", Tokens: []string{"아이즈모바일"}},
				},
				Tasks: []TaskConfig{
					{Keywords: []string{"알뜰폰"}, Quota: 15, Tag: "알뜰폰"},
					{Keywords: []string{"프리텔레콤"}, Quota: 10, Tag: "프리텔레콤"},
					{Keywords: []string{"스마텔"}, Quota: 10, Tag: "스마텔"},
					{Keywords: []string{"아이즈모바일"}, Quota: 10, Tag: "아이즈모바일"},
				},
			},
		},
	}
}
