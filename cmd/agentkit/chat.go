package main

import (
	"flag"
	"fmt"
	"strings"

	"agentkit/internal/agent"
	"agentkit/internal/execution"
	"agentkit/internal/tui"
)

type chatArgs struct {
	cfgPath       string
	system        string
	model         string
	provider      string
	maxIterations int
	overrides     stringSlice
}

func newChatFlagSet() (*flag.FlagSet, *chatArgs) {
	fs := flag.NewFlagSet("chat", flag.ExitOnError)
	cli := &chatArgs{}

	fs.StringVar(&cli.cfgPath, "config", "", "Path to config file (default ~/.agentkit/config.toml)")
	fs.StringVar(&cli.system, "system", "", "System prompt prepended to every run")
	fs.StringVar(&cli.model, "model", "", "Model override")
	fs.StringVar(&cli.model, "m", "", "Alias for --model")
	fs.StringVar(&cli.provider, "provider", "", "Provider override (mistral|anthropic)")
	fs.IntVar(&cli.maxIterations, "max-iterations", 0, "Iteration budget per run")
	fs.Var(&cli.overrides, "c", "Override config value key=value (repeatable)")

	return fs, cli
}

func chatMain(args []string) {
	fs, cli := newChatFlagSet()
	if err := fs.Parse(args); err != nil {
		log.Fatalf("parse args: %v", err)
	}

	cfg, err := loadConfig(cli.cfgPath, []string(cli.overrides))
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if strings.TrimSpace(cli.provider) != "" {
		cfg.Provider = cli.provider
	}
	closeLogs := initLogging(cfg)
	defer closeLogs()

	model := resolveModel(cli.model, cfg.Model)
	client, err := buildModelClient(cfg, model)
	if err != nil {
		log.Fatalf("failed to init model client: %v", err)
	}
	if model == "" {
		model = defaultModelFor(cfg.Provider)
	}
	engine := execution.NewEngine(execution.Options{Client: client})

	maxIterations := cli.maxIterations
	if maxIterations == 0 {
		maxIterations = cfg.Agent.MaxIterations
	}
	sampling := agent.Sampling{
		MaxTokens:  cfg.Agent.MaxTokens,
		SafePrompt: cfg.Agent.SafePrompt,
	}
	if cfg.Agent.Temperature != nil {
		sampling.Temperature = cfg.Agent.Temperature
	}

	result, err := tui.Run(tui.Options{
		Engine:        engine,
		Model:         model,
		SystemPrompt:  cli.system,
		MaxIterations: maxIterations,
		Sampling:      sampling,
		Version:       version,
	})
	if err != nil {
		log.Fatalf("program exit: %v", err)
	}
	printExitSummary(result.History)
}

type usageSummary struct {
	InputTokens  int64
	OutputTokens int64
}

func (u usageSummary) total() int64 {
	return u.InputTokens + u.OutputTokens
}

// estimateUsage 用空白分词粗估会话的 token 规模，退出时给个量级提示。
func estimateUsage(history []agent.Message) usageSummary {
	var u usageSummary
	for _, msg := range history {
		if msg.Role != agent.RoleUser && msg.Role != agent.RoleAssistant {
			continue
		}
		tokens := int64(len(strings.Fields(msg.Content)))
		if msg.Role == agent.RoleAssistant {
			u.OutputTokens += tokens
		} else {
			u.InputTokens += tokens
		}
	}
	return u
}

func printExitSummary(history []agent.Message) {
	if len(history) == 0 {
		return
	}
	usage := estimateUsage(history)
	if usage.total() > 0 {
		fmt.Printf("Approximate token usage: total=%d input=%d output=%d\n", usage.total(), usage.InputTokens, usage.OutputTokens)
	}
	fmt.Printf("Conversation ended after %d messages.\n", len(history))
}
