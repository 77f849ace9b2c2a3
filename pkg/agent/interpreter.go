package agent

import (
	"context"

	"github.com/entrhq/scout/pkg/browser"
	"github.com/entrhq/scout/pkg/llm"
)

// Interpreter turns natural-language user instructions into structured
// browser commands. It asks the reasoner first and falls back to the
// deterministic keyword heuristics when the reasoner is unavailable or
// fails, so an instruction always yields a command.
type Interpreter struct {
	reasoner llm.Reasoner
}

// NewInterpreter creates an instruction interpreter. A nil reasoner is
// allowed; interpretation then uses only the heuristic rules.
func NewInterpreter(reasoner llm.Reasoner) *Interpreter {
	return &Interpreter{reasoner: reasoner}
}

// Interpret resolves one instruction against the current page. It never
// returns an error: reasoner failures degrade to the heuristic parse,
// and an instruction neither understands comes back with Kind "unknown".
func (i *Interpreter) Interpret(ctx context.Context, instruction string, pageContext *browser.PageContext) *llm.Command {
	if i.reasoner != nil {
		cmd, err := i.reasoner.InterpretInstruction(ctx, instruction, pageContext)
		if err == nil && cmd != nil && cmd.Kind != "" {
			return cmd
		}
	}
	return llm.HeuristicCommand(instruction)
}
