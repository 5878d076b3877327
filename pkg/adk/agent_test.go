package adk

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rajdefenseye/CMMC-lens3/pkg/engine"
)

// scriptedLLM replays canned responses and records what it was sent
type scriptedLLM struct {
	replies []reply
	calls   [][]Message
	tools   [][]string
}

type reply struct {
	text string
	call *ToolCall
	err  error
}

func (s *scriptedLLM) GenerateResponse(ctx context.Context, history []Message, tools []Tool) (string, *ToolCall, error) {
	s.calls = append(s.calls, append([]Message(nil), history...))
	names := make([]string, len(tools))
	for i, t := range tools {
		names[i] = t.Name()
	}
	s.tools = append(s.tools, names)

	if len(s.replies) == 0 {
		return "", nil, errors.New("no scripted reply left")
	}
	r := s.replies[0]
	s.replies = s.replies[1:]
	return r.text, r.call, r.err
}

func (s *scriptedLLM) ListModels(ctx context.Context) ([]string, error) {
	return []string{"scripted"}, nil
}

type echoTool struct {
	name string
	seen map[string]interface{}
}

func (e *echoTool) Name() string        { return e.name }
func (e *echoTool) Description() string { return "echoes its input" }
func (e *echoTool) Schema() map[string]interface{} {
	return map[string]interface{}{"type": "object"}
}
func (e *echoTool) Execute(ctx context.Context, args map[string]interface{}, progress func(string)) (string, error) {
	e.seen = args
	if progress != nil {
		progress("echoing")
	}
	return "echo:" + args["text"].(string), nil
}

func TestAgentChat_PlainReply(t *testing.T) {
	llm := &scriptedLLM{replies: []reply{{text: "hello"}}}
	agent := NewAgent(llm)

	resp, err := agent.Chat(context.Background(), "hi", nil)
	require.NoError(t, err)
	assert.Equal(t, "hello", resp)
	assert.Equal(t, []Message{{Role: "user", Content: "hi"}, {Role: "model", Content: "hello"}}, agent.History())
}

func TestAgentChat_RunsToolThenAnswers(t *testing.T) {
	tool := &echoTool{name: "Echo"}
	llm := &scriptedLLM{replies: []reply{
		{call: &ToolCall{ToolName: "Echo", Args: map[string]interface{}{"text": "ping"}}},
		{text: "done"},
	}}
	agent := NewAgent(llm)
	agent.RegisterTool(tool)
	agent.RegisterTool(&echoTool{name: "Another"})

	var progress []string
	resp, err := agent.Chat(context.Background(), "use the tool", func(msg string) { progress = append(progress, msg) })
	require.NoError(t, err)

	assert.Equal(t, "done", resp)
	assert.Equal(t, "ping", tool.seen["text"])
	assert.Equal(t, []string{"echoing"}, progress)
	assert.Equal(t, []string{"Another", "Echo"}, llm.tools[0], "tools are offered in a stable order")

	last := llm.calls[1][len(llm.calls[1])-1]
	assert.Equal(t, "function", last.Role)
	assert.Equal(t, "Tool Echo returned: echo:ping", last.Content)
}

func TestAgentChat_UnknownToolIsReportedToModel(t *testing.T) {
	llm := &scriptedLLM{replies: []reply{
		{call: &ToolCall{ToolName: "Missing"}},
		{text: "sorry"},
	}}

	resp, err := NewAgent(llm).Chat(context.Background(), "go", nil)
	require.NoError(t, err)
	assert.Equal(t, "sorry", resp)
	assert.Contains(t, llm.calls[1][len(llm.calls[1])-1].Content, "Tool Missing not found")
}

func TestAgentChat_StopsRunawayToolLoops(t *testing.T) {
	replies := make([]reply, maxToolRounds)
	for i := range replies {
		replies[i] = reply{call: &ToolCall{ToolName: "Missing"}}
	}

	_, err := NewAgent(&scriptedLLM{replies: replies}).Chat(context.Background(), "go", nil)
	assert.ErrorContains(t, err, "tool calls in one turn")
}

func TestAgentSetSystemPrompt(t *testing.T) {
	agent := NewAgent(&scriptedLLM{})
	agent.SetSystemPrompt(GetSystemPrompt())

	require.Len(t, agent.History(), 1)
	assert.Contains(t, agent.History()[0].Content, "AnalyzeComplianceCSV")
}

func TestSummarize(t *testing.T) {
	findings, err := engine.NewEvaluator().EvaluateRow(engine.Row{"password": "pw"})
	require.NoError(t, err)
	rep := engine.NewReport(findings)

	llm := &scriptedLLM{replies: []reply{{text: "  Posture requires significant improvement.  "}}}
	summary, err := Summarize(context.Background(), llm, rep)
	require.NoError(t, err)

	assert.Equal(t, "Posture requires significant improvement.", summary)
	require.Len(t, llm.calls, 1)
	prompt := llm.calls[0][0].Content
	assert.True(t, strings.HasPrefix(prompt, "Adopt the perspective of a Third Party Assessment Organization"))
	assert.Contains(t, prompt, `"3pao_assessment"`)
	assert.Empty(t, llm.tools[0])
}

func TestSummarize_Errors(t *testing.T) {
	rep := engine.NewReport(nil)

	_, err := Summarize(context.Background(), &scriptedLLM{replies: []reply{{err: errors.New("quota")}}}, rep)
	assert.ErrorContains(t, err, "quota")

	_, err = Summarize(context.Background(), &scriptedLLM{replies: []reply{{text: "   "}}}, rep)
	assert.ErrorContains(t, err, "no text")
}

func TestNewProvider_Validation(t *testing.T) {
	_, err := NewProvider(context.Background(), "gemini", "", "")
	assert.ErrorContains(t, err, "no API key")

	_, err = NewProvider(context.Background(), "openai", "key", "")
	assert.ErrorContains(t, err, "unknown provider: openai")
}

func TestFunctionDeclarations(t *testing.T) {
	decls := functionDeclarations([]Tool{&schemaTool{}})

	require.Len(t, decls, 1)
	assert.Equal(t, "Schema", decls[0].Name)
	require.Contains(t, decls[0].Parameters.Properties, "path")
	assert.Equal(t, []string{"path"}, decls[0].Parameters.Required)
}

type schemaTool struct{ echoTool }

func (s *schemaTool) Name() string { return "Schema" }
func (s *schemaTool) Schema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"path": map[string]interface{}{"type": "string", "description": "file"},
		},
		"required": []string{"path"},
	}
}
