package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// --------------------- docs.search ---------------------

// docEntry is one searchable documentation snippet.
type docEntry struct {
	Topic   string `json:"topic"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

type docsSearchTool struct {
	corpus []docEntry
}

// NewDocsSearchTool returns the documentation-lookup tool over the built-in
// framework corpus.
func NewDocsSearchTool() Tool {
	return &docsSearchTool{corpus: defaultDocs}
}

func (t *docsSearchTool) Spec() ToolSpec {
	return ToolSpec{
		Name:        "docs.search",
		Description: "Look up framework documentation snippets relevant to a query.",
		InputSchema: json.RawMessage(`{"type":"object","properties":{"query":{"type":"string"},"max_results":{"type":"integer"}},"required":["query"]}`),
	}
}

type docsSearchInput struct {
	Query      string `json:"query"`
	MaxResults int    `json:"max_results"`
}

type docsSearchOutput struct {
	Results []docEntry `json:"results"`
}

func (t *docsSearchTool) Call(_ context.Context, input json.RawMessage) (json.RawMessage, error) {
	var in docsSearchInput
	if err := json.Unmarshal(input, &in); err != nil {
		return nil, err
	}
	query := strings.ToLower(strings.TrimSpace(in.Query))
	if query == "" {
		return nil, fmt.Errorf("docs.search: query required")
	}
	if in.MaxResults <= 0 {
		in.MaxResults = 5
	}

	terms := strings.Fields(query)
	out := docsSearchOutput{Results: make([]docEntry, 0, in.MaxResults)}
	for _, doc := range t.corpus {
		haystack := strings.ToLower(doc.Topic + " " + doc.Title + " " + doc.Content)
		matched := false
		for _, term := range terms {
			if strings.Contains(haystack, term) {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}
		out.Results = append(out.Results, doc)
		if len(out.Results) >= in.MaxResults {
			break
		}
	}
	return json.Marshal(out)
}

var defaultDocs = []docEntry{
	{
		Topic:   "components",
		Title:   "Creating a button component",
		Content: "Define a functional component that accepts onClick and children props; style variants through a variant prop rather than ad hoc class names.",
	},
	{
		Topic:   "routing",
		Title:   "File-based routes",
		Content: "Each file under the routes directory maps to a URL path. Dynamic segments use bracket syntax and are available as params.",
	},
	{
		Topic:   "data",
		Title:   "Fetching data on the server",
		Content: "Prefer server-side loaders for initial data. Client polling is acceptable for live build status but should back off on errors.",
	},
	{
		Topic:   "styling",
		Title:   "Utility-class styling",
		Content: "Compose layouts from utility classes. Extract repeated class groups into a shared component before reaching for custom CSS.",
	},
	{
		Topic:   "state",
		Title:   "Deriving state from props",
		Content: "Derive values during render instead of mirroring props into local state; memoize only when profiling shows a need.",
	},
	{
		Topic:   "forms",
		Title:   "Controlled form inputs",
		Content: "Bind input values to state and handle submission with a single handler that validates before dispatching.",
	},
}
