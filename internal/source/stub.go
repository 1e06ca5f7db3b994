package source

import (
	"context"
	"fmt"

	"github.com/sells-group/outreach-cli/pkg/jina"
	"github.com/sells-group/outreach-cli/pkg/tavily"
)

// StubSearchClient implements tavily.Client with canned results for
// offline runs and tests.
type StubSearchClient struct {
	Results []tavily.Result
	Err     error
	Calls   int
}

func (s *StubSearchClient) Search(_ context.Context, query string, _ ...tavily.SearchOption) (*tavily.SearchResponse, error) {
	s.Calls++
	if s.Err != nil {
		return nil, s.Err
	}
	results := s.Results
	if results == nil {
		results = []tavily.Result{{
			Title:   "Stub result",
			URL:     "https://example.com",
			Content: fmt.Sprintf("Stub search snippet for %q: contact stub@example.com or +1 415 555 0100", query),
		}}
	}
	return &tavily.SearchResponse{Query: query, Results: results}, nil
}

// StubReaderClient implements jina.Client with canned page content.
type StubReaderClient struct {
	Content string
	Err     error
	Calls   int
}

func (s *StubReaderClient) Read(_ context.Context, targetURL string) (*jina.ReadResponse, error) {
	s.Calls++
	if s.Err != nil {
		return nil, s.Err
	}
	content := s.Content
	if content == "" {
		content = "Stub page. Email stub@example.com, phone +1 415 555 0100."
	}
	return &jina.ReadResponse{
		Code: 200,
		Data: jina.ReadData{URL: targetURL, Content: content},
	}, nil
}
