package services

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parserBackedService(t *testing.T, handler http.HandlerFunc) *ParseService {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return &ParseService{
		parserURL: srv.URL,
		client:    &http.Client{Timeout: 5 * time.Second},
		logger:    log.New(io.Discard, "", 0),
	}
}

func TestCallParserForwardsInputAndReturnsBody(t *testing.T) {
	var gotContentType string
	var gotBody []byte
	s := parserBackedService(t, func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.Write([]byte("- bar: 1\n"))
	})

	out, err := s.callParser(context.Background(), []byte("<score/>"))
	require.NoError(t, err)
	assert.Equal(t, "- bar: 1\n", out)
	assert.Equal(t, "application/xml", gotContentType)
	assert.Equal(t, "<score/>", string(gotBody))
}

// A non-2xx parser response must surface its body verbatim so the HTTP
// layer can relay the parser's own diagnostic.
func TestCallParserPropagatesParserFailure(t *testing.T) {
	s := parserBackedService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte("measure 4: unbalanced tie"))
	})

	_, err := s.callParser(context.Background(), []byte("<score/>"))
	var parserErr *ParserError
	require.ErrorAs(t, err, &parserErr)
	assert.Equal(t, "measure 4: unbalanced tie", parserErr.Message)
}

func TestCallParserUnreachableParserIsNotAParserError(t *testing.T) {
	s := &ParseService{
		parserURL: "http://127.0.0.1:1/parse",
		client:    &http.Client{Timeout: time.Second},
		logger:    log.New(io.Discard, "", 0),
	}

	_, err := s.callParser(context.Background(), []byte("<score/>"))
	require.Error(t, err)
	var parserErr *ParserError
	assert.False(t, errors.As(err, &parserErr))
}
