package generator

import (
	"fmt"
	"strings"

	"doc_wizard/catalog"
)

// Prompt is the set of messages sent to the LLM.
type Prompt struct {
	System string
	User   string
	// Schema, when set, asks the backend for JSON output matching it.
	Schema *Schema
}

// Schema is a named JSON schema for structured output.
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

var formatHints = map[catalog.Format]string{
	catalog.FormatMarkdown: "Use Markdown syntax (headings, lists, tables, fenced code).",
	catalog.FormatLaTeX:    "Use LaTeX syntax: a complete document from \\documentclass to \\end{document}.",
	catalog.FormatHTML:     "Use semantic HTML markup for the document body only.",
	catalog.FormatJATS:     "Use JATS XML article markup.",
}

func formatHint(f catalog.Format) string {
	if h, ok := formatHints[f]; ok {
		return h
	}
	return fmt.Sprintf("Write clearly structured plain text with headings that can be laid out as %s.", f)
}

// BuildDocumentPrompt builds the single instruction for a document generation.
func BuildDocumentPrompt(req Request) Prompt {
	var sb strings.Builder
	sb.WriteString("Task: write a professional document based on a template.\n\n")
	sb.WriteString(fmt.Sprintf("Category: %s\n", req.Category))
	sb.WriteString(fmt.Sprintf("Template: %s (%s)\n", req.Template.Name, req.Template.Description))
	sb.WriteString(fmt.Sprintf("Title: %s\n", req.Title))
	sb.WriteString(fmt.Sprintf("Language: %s\n", req.Language))
	sb.WriteString(fmt.Sprintf("Required output format: %s\n", req.OutputFormat))
	sb.WriteString("Key points:\n---\n")
	sb.WriteString(req.KeyPoints)
	sb.WriteString("\n---\n\n")
	sb.WriteString("Instructions:\n")
	sb.WriteString(fmt.Sprintf("1. Following the \"%s\" template, write the complete document covering every key point.\n", req.Template.Name))
	sb.WriteString(fmt.Sprintf("2. Write the document in %s.\n", req.Language))
	sb.WriteString(fmt.Sprintf("3. %s\n", formatHint(req.OutputFormat)))
	sb.WriteString("4. Output only the document content. Do not repeat these instructions or add commentary.\n")

	return Prompt{
		System: "You are a technical writer. Reply with the document body only.",
		User:   sb.String(),
	}
}

// BuildAnnotationPrompt asks the model to extract flashcards from a document.
func BuildAnnotationPrompt(text string) Prompt {
	var sb strings.Builder
	sb.WriteString("Analyze the following document and extract flashcards.\n")
	sb.WriteString("Classify every finding into exactly one of these types:\n")
	sb.WriteString("- error: a factual mistake, inconsistency or missing required information.\n")
	sb.WriteString("- suggestion: an improvement to clarity, structure or completeness.\n")
	sb.WriteString("- keyInfo: an important fact the reader must remember.\n")
	sb.WriteString("Quote the relevant excerpt of the document in content where possible.\n")
	sb.WriteString("Reply with a JSON array of objects with fields \"type\" and \"content\" and nothing else.\n\n")
	sb.WriteString("Document:\n---\n")
	sb.WriteString(text)
	sb.WriteString("\n---\n")

	return Prompt{
		System: "You review technical documents and reply in strict JSON.",
		User:   sb.String(),
		Schema: annotationSchema,
	}
}

var annotationSchema = &Schema{
	Name:        "flashcards",
	Description: "Findings extracted from a generated document",
	Definition: map[string]any{
		"type": "array",
		"items": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"type": map[string]any{
					"type": "string",
					"enum": []string{"error", "suggestion", "keyInfo"},
				},
				"content": map[string]any{
					"type": "string",
				},
			},
			"required": []string{"type", "content"},
		},
	},
}
