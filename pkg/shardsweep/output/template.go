package output

import (
	"bytes"
	"sync"
	"text/template"

	"github.com/dustin/go-humanize"
)

// TemplateFormatter formats output using a custom Go text/template.
// The template receives the *Report.
type TemplateFormatter struct {
	templateStr string
	template    *template.Template
	mu          sync.Mutex
}

// NewTemplateFormatter creates a new template formatter with the given template string.
func NewTemplateFormatter(templateStr string) *TemplateFormatter {
	return &TemplateFormatter{
		templateStr: templateStr,
	}
}

// SetTemplate sets or updates the template string.
func (f *TemplateFormatter) SetTemplate(templateStr string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.templateStr = templateStr
	f.template = nil
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		// sci formats an error probability: {{sci .ErrorProbability}} -> 5.42e-20
		"sci": FormatError,

		// fixed formats a number without trailing zeros: {{fixed .OptimalThroughput}} -> 120
		"fixed": FormatNumber,

		// comma formats a number with thousands separators: {{comma .OptimalThroughput}} -> 1,920
		"comma": humanize.Commaf,
	}
}

// Format writes the formatted output to the buffer.
func (f *TemplateFormatter) Format(w *bytes.Buffer, r *Report) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.template == nil {
		tmpl, err := template.New("output").Funcs(templateFuncs()).Parse(f.templateStr)
		if err != nil {
			return err
		}
		f.template = tmpl
	}

	return f.template.Execute(w, r)
}

const defaultTemplate = `{{range .Results}}{{.ShardSize}}	{{sci .ErrorProbability}}	{{fixed .OptimalThroughput}}
{{end}}`

func init() {
	Register("template", func() Formatter {
		return NewTemplateFormatter(defaultTemplate)
	})
}

// Ensure TemplateFormatter implements Formatter.
var _ Formatter = (*TemplateFormatter)(nil)
