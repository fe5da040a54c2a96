package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"agentkit/internal/agent"
	"agentkit/internal/config"
	"agentkit/internal/execution"
	"agentkit/internal/render"
)

type askArgs struct {
	cfgPath       string
	prompt        string
	system        string
	model         string
	provider      string
	toolChoice    string
	toolNames     csvSlice
	noTools       bool
	maxIterations int
	maxTokens     int64
	temperature   float64
	topP          float64
	seed          int64
	safePrompt    bool
	jsonOutput    bool
	timeoutSecs   int
	overrides     stringSlice
}

func newAskFlagSet() (*flag.FlagSet, *askArgs) {
	fs := flag.NewFlagSet("ask", flag.ContinueOnError)
	cli := &askArgs{}

	fs.StringVar(&cli.cfgPath, "config", "", "Path to config file (default ~/.agentkit/config.toml)")
	fs.StringVar(&cli.prompt, "prompt", "", "User prompt (positional args are joined when empty)")
	fs.StringVar(&cli.system, "system", "", "System prompt prepended to the conversation")
	fs.StringVar(&cli.model, "model", "", "Model override")
	fs.StringVar(&cli.model, "m", "", "Alias for --model")
	fs.StringVar(&cli.provider, "provider", "", "Provider override (mistral|anthropic)")
	fs.StringVar(&cli.toolChoice, "tool-choice", "", "Tool choice (auto|any|none)")
	fs.Var(&cli.toolNames, "tools", "Restrict advertised tools (comma separated or repeatable)")
	fs.BoolVar(&cli.noTools, "no-tools", false, "Plain chat completion without the tool loop")
	fs.IntVar(&cli.maxIterations, "max-iterations", 0, "Iteration budget (default from config, capped at 50)")
	fs.Int64Var(&cli.maxTokens, "max-tokens", 0, "Completion token cap")
	fs.Float64Var(&cli.temperature, "temperature", 0, "Sampling temperature")
	fs.Float64Var(&cli.topP, "top-p", 0, "Nucleus sampling cut-off")
	fs.Int64Var(&cli.seed, "seed", 0, "Deterministic sampling seed")
	fs.BoolVar(&cli.safePrompt, "safe-prompt", false, "Ask the provider to prepend its safety prompt")
	fs.BoolVar(&cli.jsonOutput, "json", false, "Print the full response as JSON")
	fs.IntVar(&cli.timeoutSecs, "timeout", 0, "Overall timeout in seconds (0 disables)")
	fs.Var(&cli.overrides, "c", "Override config value key=value (repeatable)")

	return fs, cli
}

func (a *askArgs) finalizePrompt(fs *flag.FlagSet) {
	if a.prompt == "" && fs.NArg() > 0 {
		a.prompt = strings.Join(fs.Args(), " ")
	}
}

// sampling 汇总采样参数：显式传入的旗标覆盖配置文件取值，
// 未出现的旗标保持指针为空，交给下游填默认。
func (a *askArgs) sampling(fs *flag.FlagSet, defaults config.AgentConfig) agent.Sampling {
	s := agent.Sampling{
		MaxTokens:  defaults.MaxTokens,
		SafePrompt: defaults.SafePrompt,
	}
	if defaults.Temperature != nil {
		s.Temperature = defaults.Temperature
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "max-tokens":
			s.MaxTokens = a.maxTokens
		case "temperature":
			s.Temperature = &a.temperature
		case "top-p":
			s.TopP = &a.topP
		case "seed":
			s.Seed = &a.seed
		case "safe-prompt":
			s.SafePrompt = a.safePrompt
		}
	})
	return s
}

func askMain(args []string) {
	if err := runAsk(args, os.Stdout); err != nil {
		log.Fatalf("ask failed: %v", err)
	}
}

func runAsk(args []string, out io.Writer) error {
	fs, cli := newAskFlagSet()
	fs.SetOutput(io.Discard)
	if err := fs.Parse(args); err != nil {
		return err
	}
	cli.finalizePrompt(fs)
	if strings.TrimSpace(cli.prompt) == "" {
		return errors.New("prompt is required (pass it positionally or with -prompt)")
	}

	cfg, err := loadConfig(cli.cfgPath, []string(cli.overrides))
	if err != nil {
		return err
	}
	if strings.TrimSpace(cli.provider) != "" {
		cfg.Provider = cli.provider
	}
	closeLogs := initLogging(cfg)
	defer closeLogs()

	model := resolveModel(cli.model, cfg.Model)
	client, err := buildModelClient(cfg, model)
	if err != nil {
		return err
	}
	engine := execution.NewEngine(execution.Options{Client: client})

	messages := []agent.Message{}
	if strings.TrimSpace(cli.system) != "" {
		messages = append(messages, agent.SystemMessage(cli.system))
	}
	messages = append(messages, agent.UserMessage(cli.prompt))

	req := execution.Request{
		Messages:      messages,
		Model:         model,
		ToolChoice:    agent.ToolChoice(cli.toolChoice),
		Sampling:      cli.sampling(fs, cfg.Agent),
		MaxIterations: cli.maxIterations,
	}
	if req.MaxIterations == 0 {
		req.MaxIterations = cfg.Agent.MaxIterations
	}
	if len(cli.toolNames) > 0 {
		specs, err := engine.Registry().SpecsFor([]string(cli.toolNames)...)
		if err != nil {
			return err
		}
		req.Tools = specs
	}

	ctx := context.Background()
	if cli.timeoutSecs > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(cli.timeoutSecs)*time.Second)
		defer cancel()
	}

	var resp *execution.Response
	if cli.noTools {
		resp, err = engine.Chat(ctx, req)
	} else {
		resp, err = engine.Run(ctx, req)
	}
	if err != nil {
		return err
	}

	if cli.jsonOutput {
		data, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
		return nil
	}
	fmt.Fprintln(out, render.Response(resp, 0))
	return nil
}
