package prompts

import (
	"embed"
	"strings"
	"text/template"

	"github.com/cloudwego/eino/schema"
)

//go:embed templates
var templateFiles embed.FS

var (
	systemPrompt string
	userTemplate *template.Template
)

func init() {
	content, err := templateFiles.ReadFile("templates/system.md")
	if err != nil {
		panic("prompts: missing system template: " + err.Error())
	}
	systemPrompt = strings.TrimSpace(string(content))

	userTemplate = template.Must(template.New("user.md").
		Funcs(template.FuncMap{"inc": func(i int) int { return i + 1 }}).
		ParseFS(templateFiles, "templates/user.md"))
}

type userPromptData struct {
	Symbol   string
	Articles []string
}

// SystemPrompt returns the fixed analyst instruction.
func SystemPrompt() string {
	return systemPrompt
}

// UserPrompt renders the per-request prompt. Articles are numbered from 1
// and separated by a blank line.
func UserPrompt(symbol string, articles []string) string {
	var sb strings.Builder
	// The template only formats strings, so execution cannot fail on valid data.
	if err := userTemplate.Execute(&sb, userPromptData{Symbol: symbol, Articles: articles}); err != nil {
		panic("prompts: render user template: " + err.Error())
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

// BuildMessages returns the system instruction followed by the user prompt.
func BuildMessages(symbol string, articles []string) []*schema.Message {
	return []*schema.Message{
		schema.SystemMessage(SystemPrompt()),
		schema.UserMessage(UserPrompt(symbol, articles)),
	}
}
