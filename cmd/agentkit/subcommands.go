package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"agentkit/internal/tools"
)

func toolsMain(args []string) {
	if err := runTools(args, os.Stdout); err != nil {
		log.Fatalf("tools failed: %v", err)
	}
}

// runTools 按注册顺序打印默认工具集的 schema。
func runTools(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("tools", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var jsonOutput bool
	fs.BoolVar(&jsonOutput, "json", false, "Print schemas as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	specs := tools.DefaultRegistry().Specs()
	if jsonOutput {
		data, err := json.MarshalIndent(specs, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	for i, spec := range specs {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "%s\n  %s\n", spec.Name, spec.Description)
		if params, err := json.Marshal(spec.Parameters); err == nil {
			fmt.Fprintf(out, "  parameters: %s\n", params)
		}
	}
	return nil
}
