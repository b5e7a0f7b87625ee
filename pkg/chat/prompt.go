package chat

import (
	"strings"
	"text/template"
)

var promptTemplate = template.Must(template.New("prompt").Parse(`System Instruction:
{{.Instructions}}

Guidelines:
- You are conversing with a user.
- Answer the user's question directly and concisely.
- Do NOT output the entire "System Instruction" or biography at once unless explicitly asked to "summarize everything".
- Unveil information naturally as the conversation progresses.
- If asked "Who are you?", give a brief 1-sentence summary of your role.

User Message: {{.Message}}`))

// BuildPrompt combines a bot's instructions with a visitor message
func BuildPrompt(instructions, message string) (string, error) {
	var sb strings.Builder
	err := promptTemplate.Execute(&sb, struct {
		Instructions string
		Message      string
	}{instructions, message})
	if err != nil {
		return "", err
	}
	return sb.String(), nil
}
