package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Config is the only persisted config file schema.
type Config struct {
	Provider  string         `toml:"provider"`
	Model     string         `toml:"model"`
	Mistral   ProviderConfig `toml:"mistral"`
	Anthropic ProviderConfig `toml:"anthropic"`
	Agent     AgentConfig    `toml:"agent"`
	Log       LogConfig      `toml:"log"`
	Source    string         `toml:"-"`
}

// ProviderConfig 单个 provider 的接入配置。
type ProviderConfig struct {
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"`
}

// AgentConfig agent循环的默认运行参数，零值表示使用内置默认。
type AgentConfig struct {
	MaxIterations int      `toml:"max_iterations"`
	MaxTokens     int64    `toml:"max_tokens"`
	Temperature   *float64 `toml:"temperature"`
	SafePrompt    bool     `toml:"safe_prompt"`
}

// LogConfig 日志输出配置。
type LogConfig struct {
	Level  string `toml:"level"`
	Dir    string `toml:"dir"`
	LLMLog bool   `toml:"llm_log"`
}

// 受支持的 provider 名称。
const (
	ProviderMistral   = "mistral"
	ProviderAnthropic = "anthropic"
)

func Default() Config {
	return Config{
		Provider: ProviderMistral,
		Log:      LogConfig{Level: "info"},
	}
}

func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".agentkit", "config.toml")
}

// DefaultLogDir 默认日志目录。$HOME 不可用时回退到相对路径。
func DefaultLogDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "logs"
	}
	return filepath.Join(home, ".agentkit", "logs")
}

func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}
	if path == "" {
		return cfg, errors.New("config path is empty and $HOME is not set")
	}
	cfg.Source = path

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return applyEnv(cfg), nil
		}
		return cfg, err
	}

	if err := toml.Unmarshal(content, &cfg); err != nil {
		return cfg, err
	}
	return applyEnv(cfg), nil
}

// applyEnv 让环境变量覆盖文件取值。
func applyEnv(cfg Config) Config {
	if v := strings.TrimSpace(os.Getenv("MISTRAL_API_KEY")); v != "" {
		cfg.Mistral.APIKey = v
	}
	if v := strings.TrimSpace(os.Getenv("MISTRAL_BASE_URL")); v != "" {
		cfg.Mistral.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY")); v != "" {
		cfg.Anthropic.APIKey = v
	}
	if v := strings.TrimSpace(os.Getenv("ANTHROPIC_BASE_URL")); v != "" {
		cfg.Anthropic.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("AGENTKIT_PROVIDER")); v != "" {
		cfg.Provider = v
	}
	if v := strings.TrimSpace(os.Getenv("AGENTKIT_MODEL")); v != "" {
		cfg.Model = v
	}
	if v := strings.TrimSpace(os.Getenv("AGENTKIT_LOG_LEVEL")); v != "" {
		cfg.Log.Level = v
	}
	return cfg
}
