package drafting

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"lexia-api/internal/application/conversation"
	"lexia-api/internal/config"
	"lexia-api/internal/domain/entity"
	"lexia-api/pkg/errors"
	"lexia-api/pkg/logger"
	"lexia-api/pkg/metrics"
)

// rawInputPromptMaxChars bounds how much of the demanda text rides along in
// the system prompt. The full text stays in the session; the model can reach
// the rest through consultar_demanda.
const rawInputPromptMaxChars = 8000

// ChatModelFactory is the minimal LLM dependency of the interview layer,
// implemented by the infrastructure eino factory.
type ChatModelFactory interface {
	Get(ctx context.Context, name string) (model.BaseChatModel, error)
}

// InterviewInput carries one interview turn.
type InterviewInput struct {
	Session  *entity.DraftingSession
	History  []*entity.Message
	Prompt   string
	Provider string
}

// InterviewOutput is the assistant's reply for one turn. Tool calls come
// back untrusted; callers run them through the transcript validator before
// persisting, the same as client-submitted batches.
type InterviewOutput struct {
	Content          string
	ToolCalls        []entity.ToolCall
	PromptTokens     int
	CompletionTokens int
}

// Interviewer drives the multi-turn fact-collection interview against the
// configured chat model, with the drafting tools bound.
type Interviewer struct {
	factory ChatModelFactory
	llmCfg  *config.LLMConfig
	tools   []*schema.ToolInfo
}

// NewInterviewer creates the interviewer. The bound tool set is built from
// the same declaration the transcript validator checks against.
func NewInterviewer(factory ChatModelFactory, cfg *config.Config) *Interviewer {
	return &Interviewer{
		factory: factory,
		llmCfg:  &cfg.LLM,
		tools:   toolInfos(conversation.DraftingTools()),
	}
}

// Generate runs one interview turn. The output is not persisted here; the
// caller owns transcript writes.
func (i *Interviewer) Generate(ctx context.Context, in *InterviewInput) (*InterviewOutput, error) {
	provider := in.Provider
	if provider == "" {
		provider = i.llmCfg.DefaultProvider
	}
	modelName := i.llmCfg.Providers[provider].Model

	msgs, err := i.buildMessages(ctx, in)
	if err != nil {
		return nil, errors.ErrLLMCallFailed.WithError(err)
	}

	baseModel, err := i.factory.Get(ctx, provider)
	if err != nil {
		return nil, errors.ErrLLMCallFailed.WithError(err)
	}

	chatModel := baseModel
	if tcm, ok := baseModel.(model.ToolCallingChatModel); ok {
		if withTools, bindErr := tcm.WithTools(i.tools); bindErr == nil && withTools != nil {
			chatModel = withTools
		}
	}

	start := time.Now()
	outMsg, err := chatModel.Generate(ctx, msgs)
	metrics.LLMCallDuration.WithLabelValues(provider, modelName).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.LLMCallTotal.WithLabelValues(provider, modelName, "error").Inc()
		logger.Error(ctx, "interview generation failed", err,
			"session_id", in.Session.ID,
			"provider", provider,
		)
		return nil, errors.ErrLLMCallFailed.WithError(err)
	}
	metrics.LLMCallTotal.WithLabelValues(provider, modelName, "ok").Inc()

	out := &InterviewOutput{Content: outMsg.Content}
	for _, tc := range outMsg.ToolCalls {
		out.ToolCalls = append(out.ToolCalls, entity.ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: json.RawMessage(tc.Function.Arguments),
		})
	}

	if outMsg.ResponseMeta != nil && outMsg.ResponseMeta.Usage != nil {
		usage := outMsg.ResponseMeta.Usage
		out.PromptTokens = usage.PromptTokens
		out.CompletionTokens = usage.CompletionTokens
		metrics.LLMTokensUsed.WithLabelValues(provider, modelName, "prompt").Add(float64(usage.PromptTokens))
		metrics.LLMTokensUsed.WithLabelValues(provider, modelName, "completion").Add(float64(usage.CompletionTokens))
	}

	return out, nil
}

// buildMessages renders the system prompt for the session's step and splices
// the transcript in front of the user's latest turn.
func (i *Interviewer) buildMessages(ctx context.Context, in *InterviewInput) ([]*schema.Message, error) {
	tpl, err := interviewTemplate()
	if err != nil {
		return nil, err
	}

	missing := in.Session.State.MissingSteps()
	missingNames := make([]string, 0, len(missing))
	for _, step := range missing {
		missingNames = append(missingNames, string(step))
	}
	missingBlock := strings.Join(missingNames, ", ")
	if missingBlock == "" {
		missingBlock = "ninguno"
	}

	history, err := transcriptToSchema(in.History)
	if err != nil {
		return nil, err
	}

	return tpl.Format(ctx, map[string]any{
		"current_step":  string(in.Session.CurrentStep),
		"missing_steps": missingBlock,
		"raw_input":     excerpt(in.Session.RawInput, rawInputPromptMaxChars),
		"history":       history,
		"prompt":        strings.TrimSpace(in.Prompt),
	})
}

// transcriptToSchema converts stored transcript messages to model messages.
func transcriptToSchema(msgs []*entity.Message) ([]*schema.Message, error) {
	out := make([]*schema.Message, 0, len(msgs))
	for _, msg := range msgs {
		switch msg.Role {
		case entity.RoleUser:
			out = append(out, schema.UserMessage(msg.Content))

		case entity.RoleAssistant:
			sm := &schema.Message{
				Role:    schema.Assistant,
				Content: msg.Content,
			}
			if len(msg.ToolCalls) > 0 {
				var calls []entity.ToolCall
				if err := json.Unmarshal(msg.ToolCalls, &calls); err != nil {
					return nil, err
				}
				for _, call := range calls {
					sm.ToolCalls = append(sm.ToolCalls, schema.ToolCall{
						ID: call.ID,
						Function: schema.FunctionCall{
							Name:      call.Name,
							Arguments: string(call.Arguments),
						},
					})
				}
			}
			out = append(out, sm)

		case entity.RoleTool:
			sm := &schema.Message{
				Role:    schema.Tool,
				Content: msg.Content,
			}
			if msg.ToolCallID != nil {
				sm.ToolCallID = *msg.ToolCallID
			}
			out = append(out, sm)
		}
	}
	return out, nil
}

// toolInfos converts the declared tool set into eino tool metadata.
func toolInfos(ts *conversation.ToolSchema) []*schema.ToolInfo {
	tools := ts.Tools()
	infos := make([]*schema.ToolInfo, 0, len(tools))
	for _, t := range tools {
		params := make(map[string]*schema.ParameterInfo, len(t.Params))
		for name, p := range t.Params {
			params[name] = &schema.ParameterInfo{
				Type:     paramDataType(p.Type),
				Desc:     p.Desc,
				Required: p.Required,
				Enum:     p.Enum,
			}
		}
		infos = append(infos, &schema.ToolInfo{
			Name:        t.Name,
			Desc:        t.Desc,
			ParamsOneOf: schema.NewParamsOneOfByParams(params),
		})
	}
	return infos
}

func paramDataType(t conversation.ParamType) schema.DataType {
	switch t {
	case conversation.ParamInteger:
		return schema.Integer
	case conversation.ParamNumber:
		return schema.Number
	case conversation.ParamBoolean:
		return schema.Boolean
	case conversation.ParamArray:
		return schema.Array
	case conversation.ParamObject:
		return schema.Object
	default:
		return schema.String
	}
}

func excerpt(s string, maxChars int) string {
	runes := []rune(s)
	if len(runes) <= maxChars {
		return s
	}
	return string(runes[:maxChars]) + "\n[... texto truncado ...]"
}
