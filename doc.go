// Package webagent provides the core types for an autonomous web-app-building
// agent: a single-threaded control loop that queries a language model, decodes
// an embedded tool-invocation protocol from its free-form output, dispatches
// validated tool calls against a registry, and records every step in an
// ordered, append-only history that doubles as the next prompt's context.
//
// # Architecture
//
// The root package holds the provider-agnostic conversation types ([Message],
// [Role]) and the [Client] capability implemented by the provider packages.
// The subsystems live in subpackages, leaves first:
//
//   - [github.com/spetersoncode/webagent/schema]: ordered argument schemas and validation
//   - [github.com/spetersoncode/webagent/history]: the append-only run record
//   - [github.com/spetersoncode/webagent/protocol]: prompt rendering and action decoding
//   - [github.com/spetersoncode/webagent/tool]: the tool capability, registry, and built-in tools
//   - [github.com/spetersoncode/webagent/agent]: the turn loop and its state machine
//   - [github.com/spetersoncode/webagent/workspace]: on-disk working-context layout and run log
//
// LLM access goes through [Client], with implementations for Anthropic, OpenAI,
// Google Gemini, and a scripted mock under provider/.
//
// # Basic Usage
//
//	ws, err := workspace.Open(dir, false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer ws.Close()
//
//	registry := tool.NewRegistry(ws.AllowedTools()...)
//	registry.MustRegister(tool.FSTools()...)
//	if err := registry.Init(ws.Environment()); err != nil {
//	    log.Fatal(err)
//	}
//
//	ctrl := agent.New(llmClient, registry, ws.Instruction(),
//	    agent.WithMaxTurns(ws.MaxTurns()),
//	    agent.WithLogger(ws.Logger()))
//	result, err := ctrl.Run(ctx)
package webagent
