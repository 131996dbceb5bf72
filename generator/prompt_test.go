package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"doc_wizard/catalog"
)

func TestBuildDocumentPromptFormatHints(t *testing.T) {
	tpl, _ := catalog.Default().Template("sw-api")
	req := Request{Template: tpl, Category: catalog.Software, Title: "T", Language: "Spanish", KeyPoints: "k"}

	req.OutputFormat = catalog.FormatLaTeX
	p := BuildDocumentPrompt(req)
	assert.Contains(t, p.User, "LaTeX syntax")
	assert.Contains(t, p.User, "Spanish")
	assert.Contains(t, p.User, "Output only the document content")

	req.OutputFormat = catalog.FormatPDF
	p = BuildDocumentPrompt(req)
	assert.Contains(t, p.User, "plain text")
}

func TestBuildDocumentPromptKeepsInputVerbatim(t *testing.T) {
	tpl, _ := catalog.Default().Template("sw-readme")
	keyPoints := "use `make` & <b>tags</b>\n\"quoted\""
	p := BuildDocumentPrompt(Request{
		Template: tpl, Category: catalog.Software, Title: "Readme", Language: "English",
		KeyPoints: keyPoints, OutputFormat: catalog.FormatMarkdown,
	})
	assert.Contains(t, p.User, keyPoints)
}

func TestAnnotationSchema(t *testing.T) {
	p := BuildAnnotationPrompt("doc")
	if assert.NotNil(t, p.Schema) {
		assert.Equal(t, "array", p.Schema.Definition["type"])
		items := p.Schema.Definition["items"].(map[string]any)
		assert.Equal(t, []string{"type", "content"}, items["required"])
	}
}
