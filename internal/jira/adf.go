package jira

import "encoding/json"

// Atlassian Document Format. The tracker describes rich text as a tree
// of typed nodes; this server only ever writes one-paragraph documents
// and only ever reads the plain-text leaves back out.

type adfNode struct {
	Type    string    `json:"type"`
	Text    string    `json:"text,omitempty"`
	Content []adfNode `json:"content,omitempty"`
}

type adfDocument struct {
	Type    string    `json:"type"`
	Version int       `json:"version"`
	Content []adfNode `json:"content"`
}

// Document wraps plain text in a minimal one-paragraph ADF document,
// the shape Jira Cloud requires for descriptions and comments.
func Document(text string) any {
	return adfDocument{
		Type:    "doc",
		Version: 1,
		Content: []adfNode{
			{
				Type:    "paragraph",
				Content: []adfNode{{Type: "text", Text: text}},
			},
		},
	}
}

// FlattenDocument turns a raw description or comment body into plain
// text. The input is either a JSON string (API v2) or an ADF document
// (API v3). For documents, the text leaves under each top-level
// paragraph are concatenated with no separator and paragraphs are
// joined with a single newline. Non-paragraph blocks (images, code,
// lists) are dropped. The transform is lossy and one-directional.
func FlattenDocument(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var plain string
	if err := json.Unmarshal(raw, &plain); err == nil {
		return plain
	}

	var doc adfDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return ""
	}

	var paragraphs []string
	for _, block := range doc.Content {
		if block.Type != "paragraph" {
			continue
		}
		var text string
		for _, item := range block.Content {
			if item.Type == "text" {
				text += item.Text
			}
		}
		paragraphs = append(paragraphs, text)
	}

	out := ""
	for i, p := range paragraphs {
		if i > 0 {
			out += "\n"
		}
		out += p
	}
	return out
}
