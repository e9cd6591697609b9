package conversation

import (
	"encoding/json"
	"fmt"
	"math"

	"lexia-api/internal/domain/entity"
	"lexia-api/pkg/errors"
	"lexia-api/pkg/metrics"
)

// IncomingMessage is a raw, untrusted transcript message as submitted by a
// client. Clients replay transcripts after a stream completes to cover a lost
// server-side persistence step, so nothing here is trusted until validated.
type IncomingMessage struct {
	Role       string             `json:"role"`
	Content    string             `json:"content"`
	ToolCalls  []IncomingToolCall `json:"tool_calls,omitempty"`
	ToolCallID string             `json:"tool_call_id,omitempty"`
}

// IncomingToolCall is a raw tool invocation carried by an assistant message.
type IncomingToolCall struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// Validator checks client-submitted message batches against the declared
// tool-capability schema.
type Validator struct {
	schema *ToolSchema
}

// NewValidator creates a validator for the given schema.
func NewValidator(schema *ToolSchema) *Validator {
	return &Validator{schema: schema}
}

// Validate checks the batch and returns normalized messages preserving the
// submitted order, or a validation error naming the offending message.
func (v *Validator) Validate(msgs []IncomingMessage) ([]*entity.Message, error) {
	out := make([]*entity.Message, 0, len(msgs))

	// assistant tool-call ids seen so far in this batch; tool results must
	// answer one of them
	pending := make(map[string]bool)

	for i, msg := range msgs {
		role := entity.Role(msg.Role)
		if !entity.ValidRole(role) {
			return nil, v.reject(fmt.Sprintf("message %d: unknown role %q", i, msg.Role), nil)
		}

		normalized := &entity.Message{
			Role:    role,
			Content: msg.Content,
		}

		switch role {
		case entity.RoleUser:
			if len(msg.ToolCalls) > 0 || msg.ToolCallID != "" {
				return nil, v.reject(fmt.Sprintf("message %d: user message carries tool fields", i), nil)
			}
			if msg.Content == "" {
				return nil, v.reject(fmt.Sprintf("message %d: user message has no content", i), nil)
			}

		case entity.RoleAssistant:
			if msg.ToolCallID != "" {
				return nil, v.reject(fmt.Sprintf("message %d: assistant message carries tool_call_id", i), nil)
			}
			if msg.Content == "" && len(msg.ToolCalls) == 0 {
				return nil, v.reject(fmt.Sprintf("message %d: assistant message is empty", i), nil)
			}
			if len(msg.ToolCalls) > 0 {
				calls := make([]entity.ToolCall, 0, len(msg.ToolCalls))
				for j, tc := range msg.ToolCalls {
					if err := v.checkToolCall(tc); err != nil {
						return nil, v.reject(fmt.Sprintf("message %d: tool call %d", i, j), err)
					}
					pending[tc.ID] = true
					calls = append(calls, entity.ToolCall{
						ID:        tc.ID,
						Name:      tc.Name,
						Arguments: tc.Arguments,
					})
				}
				raw, err := json.Marshal(calls)
				if err != nil {
					return nil, v.reject(fmt.Sprintf("message %d: tool calls not serializable", i), err)
				}
				normalized.ToolCalls = raw
			}

		case entity.RoleTool:
			if msg.ToolCallID == "" {
				return nil, v.reject(fmt.Sprintf("message %d: tool message without tool_call_id", i), nil)
			}
			if !pending[msg.ToolCallID] {
				return nil, v.reject(fmt.Sprintf("message %d: tool result for unknown call %q", i, msg.ToolCallID), nil)
			}
			if msg.Content == "" {
				return nil, v.reject(fmt.Sprintf("message %d: tool message has no content", i), nil)
			}
			id := msg.ToolCallID
			normalized.ToolCallID = &id
		}

		out = append(out, normalized)
	}

	metrics.MessageValidationTotal.WithLabelValues("ok").Inc()
	return out, nil
}

// checkToolCall verifies one tool invocation against the schema.
func (v *Validator) checkToolCall(tc IncomingToolCall) error {
	if tc.ID == "" {
		return fmt.Errorf("missing id")
	}

	tool, ok := v.schema.Lookup(tc.Name)
	if !ok {
		return fmt.Errorf("tool %q not declared", tc.Name)
	}

	var args map[string]any
	if len(tc.Arguments) == 0 {
		args = map[string]any{}
	} else if err := json.Unmarshal(tc.Arguments, &args); err != nil {
		return fmt.Errorf("arguments are not a JSON object: %w", err)
	}

	for name, param := range tool.Params {
		val, present := args[name]
		if !present {
			if param.Required {
				return fmt.Errorf("missing required argument %q", name)
			}
			continue
		}
		if err := checkParamValue(name, param, val); err != nil {
			return err
		}
	}

	for name := range args {
		if _, declared := tool.Params[name]; !declared {
			return fmt.Errorf("argument %q not declared for tool %q", name, tc.Name)
		}
	}

	return nil
}

// checkParamValue verifies one argument against its declared shape.
func checkParamValue(name string, param Param, val any) error {
	switch param.Type {
	case ParamString:
		s, ok := val.(string)
		if !ok {
			return fmt.Errorf("argument %q must be a string", name)
		}
		if len(param.Enum) > 0 && !containsString(param.Enum, s) {
			return fmt.Errorf("argument %q value %q not in enum", name, s)
		}
	case ParamInteger:
		f, ok := val.(float64)
		if !ok || f != math.Trunc(f) {
			return fmt.Errorf("argument %q must be an integer", name)
		}
	case ParamNumber:
		if _, ok := val.(float64); !ok {
			return fmt.Errorf("argument %q must be a number", name)
		}
	case ParamBoolean:
		if _, ok := val.(bool); !ok {
			return fmt.Errorf("argument %q must be a boolean", name)
		}
	case ParamArray:
		if _, ok := val.([]any); !ok {
			return fmt.Errorf("argument %q must be an array", name)
		}
	case ParamObject:
		if _, ok := val.(map[string]any); !ok {
			return fmt.Errorf("argument %q must be an object", name)
		}
	}
	return nil
}

func containsString(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

// reject records the failure and builds the structured validation error.
func (v *Validator) reject(reason string, cause error) error {
	metrics.MessageValidationTotal.WithLabelValues("rejected").Inc()
	appErr := errors.ErrValidationFailed.WithDetail(reason)
	if cause != nil {
		appErr = appErr.WithError(cause)
	}
	return appErr
}
