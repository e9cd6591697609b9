package drafting

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
)

//go:embed templates/*.txt
var templatesFS embed.FS

var (
	interviewTplOnce sync.Once
	interviewTpl     einoprompt.ChatTemplate
	interviewTplErr  error
)

// interviewTemplate lazily builds the interview chat template from the
// embedded system prompt. The transcript slots in through the history
// placeholder between the system message and the user's latest turn.
func interviewTemplate() (einoprompt.ChatTemplate, error) {
	interviewTplOnce.Do(func() {
		raw, err := templatesFS.ReadFile("templates/interview_system.txt")
		if err != nil {
			interviewTplErr = fmt.Errorf("failed to read interview template: %w", err)
			return
		}

		interviewTpl = einoprompt.FromMessages(
			schema.FString,
			schema.SystemMessage(strings.TrimSpace(string(raw))),
			schema.MessagesPlaceholder("history", true),
			schema.UserMessage("{prompt}"),
		)
	})
	return interviewTpl, interviewTplErr
}
