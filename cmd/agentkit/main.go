package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"agentkit/internal/agent"
	"agentkit/internal/agent/anthropic"
	"agentkit/internal/agent/mistral"
	"agentkit/internal/config"
	"agentkit/internal/logger"
)

const version = "0.1.0"

var log = logger.Named("cli")

func main() {
	logger.Configure()

	args := os.Args[1:]
	command := "chat"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		command = args[0]
		args = args[1:]
	}

	switch command {
	case "ask":
		askMain(args)
	case "chat":
		chatMain(args)
	case "tools":
		toolsMain(args)
	case "version":
		fmt.Println(versionLine())
	case "help":
		printUsage(os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", command)
		printUsage(os.Stderr)
		os.Exit(2)
	}
}

func versionLine() string {
	return fmt.Sprintf("agentkit %s", version)
}

func printUsage(out io.Writer) {
	fmt.Fprintf(out, `Usage: agentkit [command] [flags]

Commands:
  ask      Run the agent once and print the final answer
  chat     Start the interactive REPL (default)
  tools    Print registered tool schemas
  version  Print version

Run 'agentkit <command> -h' for command flags.
`)
}

// initLogging 按配置设置日志级别并把输出定向到日志目录，
// 返回清理函数。文件打开失败只告警，日志退回 stderr。
func initLogging(cfg config.Config) func() {
	logger.SetLevel(cfg.Log.Level)

	dir := strings.TrimSpace(cfg.Log.Dir)
	if dir == "" {
		dir = config.DefaultLogDir()
	}

	var closers []io.Closer
	if closer, _, err := logger.SetupFile(filepath.Join(dir, "agentkit.log")); err != nil {
		log.Warnf("failed to initialize log file: %v", err)
	} else {
		closers = append(closers, closer)
	}
	if cfg.Log.LLMLog {
		llmPath := filepath.Join(dir, "llm.log")
		if closer, _, err := logger.SetupLLMFile(llmPath); err != nil {
			log.Warnf("failed to initialize llm log (%s): %v", llmPath, err)
		} else {
			closers = append(closers, closer)
		}
	}
	return func() {
		for _, c := range closers {
			_ = c.Close()
		}
	}
}

// loadConfig 加载配置文件并套用 -c key=value 覆盖。
func loadConfig(path string, overrides []string) (config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	return config.ApplyKVOverrides(cfg, overrides), nil
}

// buildModelClient 按 provider 构造模型网关。缺少凭证时退回 echo 模式，
// 保证命令在未配置的机器上仍可运行。
func buildModelClient(cfg config.Config, model string) (agent.ModelClient, error) {
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	switch provider {
	case "", config.ProviderMistral:
		if strings.TrimSpace(cfg.Mistral.APIKey) == "" {
			log.Warnf("no mistral api key configured; falling back to echo mode")
			return agent.EchoClient{}, nil
		}
		return mistral.New(mistral.Options{
			APIKey:  cfg.Mistral.APIKey,
			BaseURL: cfg.Mistral.BaseURL,
			Model:   model,
		})
	case config.ProviderAnthropic:
		if strings.TrimSpace(cfg.Anthropic.APIKey) == "" {
			log.Warnf("no anthropic api key configured; falling back to echo mode")
			return agent.EchoClient{}, nil
		}
		return anthropic.New(anthropic.Options{
			APIKey:  cfg.Anthropic.APIKey,
			BaseURL: cfg.Anthropic.BaseURL,
			Model:   model,
		})
	default:
		return nil, fmt.Errorf("unknown provider %q (use %s or %s)", cfg.Provider, config.ProviderMistral, config.ProviderAnthropic)
	}
}

// resolveModel 返回第一个非空的模型名；都为空时交给 provider 取默认。
func resolveModel(candidates ...string) string {
	for _, c := range candidates {
		if trimmed := strings.TrimSpace(c); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// defaultModelFor 返回 provider 的默认模型名，用于 REPL 展示。
func defaultModelFor(provider string) string {
	if strings.EqualFold(strings.TrimSpace(provider), config.ProviderAnthropic) {
		return anthropic.DefaultModel
	}
	return mistral.DefaultModel
}
