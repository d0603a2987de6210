package generation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErr "github.com/sitepilot/engine/pkg/errors"
	"github.com/sitepilot/engine/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.UseNop()
	m.Run()
}

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"html fence", "```html\n<html>A</html>\n```", "<html>A</html>"},
		{"upper case", "```HTML\n<html>A</html>\n```  \n", "<html>A</html>"},
		{"htm fence", "```htm\n<p>x</p>\n```", "<p>x</p>"},
		{"bare fence", "```\n<p>x</p>\n```", "<p>x</p>"},
		{"no fence", "<html>B</html>", "<html>B</html>"},
		{"only leading", "```html\n<p>x</p>", "<p>x</p>"},
		{"inner fences kept", "<pre>```go\nx\n```</pre>\n<p/>", "<pre>```go\nx\n```</pre>\n<p/>"},
		{"other language untouched", "```css\nbody{}", "```css\nbody{}"},
		{"crlf line endings", "```html\r\n<html>A</html>\r\n```", "<html>A</html>"},
		{"crlf bare fence", "```\r\n<p>x</p>\r\n```\r\n", "<p>x</p>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripFences(tt.in))
		})
	}
}

func TestGenerateStripsAndReturns(t *testing.T) {
	c := NewClient(ModelFunc(func(ctx context.Context, prompt string) (string, error) {
		assert.Equal(t, "p", prompt)
		return "```html\n<html>A</html>\n```", nil
	}), time.Second)

	html, err := c.Generate(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "<html>A</html>", html)
}

func TestGenerateFailures(t *testing.T) {
	tests := []struct {
		name  string
		model ModelFunc
		cause error
	}{
		{
			name:  "transport error",
			model: func(context.Context, string) (string, error) { return "", errors.New("connection reset") },
		},
		{
			name:  "empty output",
			model: func(context.Context, string) (string, error) { return "```html\n\n```", nil },
		},
		{
			name:  "non-2xx",
			model: func(context.Context, string) (string, error) { return "", &HTTPError{StatusCode: 503, Body: "busy"} },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(tt.model, time.Second).Generate(context.Background(), "p")
			require.Error(t, err)
			assert.True(t, appErr.IsCode(err, appErr.CodeGeneration))
		})
	}
}

func TestGenerateDiscardsLateResult(t *testing.T) {
	release := make(chan struct{})
	done := make(chan struct{})
	c := NewClient(ModelFunc(func(ctx context.Context, prompt string) (string, error) {
		defer close(done)
		<-release // ignores ctx like an uncancellable backend
		return "<html>late</html>", nil
	}), 0)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	html, err := c.Generate(ctx, "p")
	assert.Empty(t, html)
	require.Error(t, err)
	assert.True(t, appErr.IsCode(err, appErr.CodeGeneration))
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
	<-done
}

func TestGenerateTimeout(t *testing.T) {
	c := NewClient(ModelFunc(func(ctx context.Context, prompt string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}), 10*time.Millisecond)

	_, err := c.Generate(context.Background(), "p")
	assert.True(t, appErr.IsCode(err, appErr.CodeGeneration))
}
