package zeebasic

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCompileWritesGeneratedC exercises Compile end to end against a real file on disk, without setting BuildPath:
// invoking a downstream C compiler is outside what this package can verify on its own.
func TestCompileWritesGeneratedC(t *testing.T) {
	dir := t.TempDir()

	src := filepath.Join(dir, "hello.bas")
	require.NoError(t, os.WriteFile(src, []byte("PRINT \"hello\"\n"), 0o644))

	out := filepath.Join(dir, "hello.c")

	err := Compile(Options{InputPath: src, OutputPath: out})
	require.NoError(t, err)

	got, err := os.ReadFile(out)
	require.NoError(t, err)

	assert.Contains(t, string(got), `zrt_String* t_1 = zrt_str_new("hello");`)
	assert.Contains(t, string(got), "zrt_println_str(t_1);")
	assert.Contains(t, string(got), "int main(int argc, char* argv[])")
}

func TestCompileReportsLexError(t *testing.T) {
	dir := t.TempDir()

	src := filepath.Join(dir, "bad.bas")
	require.NoError(t, os.WriteFile(src, []byte("~1\n"), 0o644))

	err := Compile(Options{InputPath: src, OutputPath: filepath.Join(dir, "bad.c")})
	require.Error(t, err)

	var diag *Diagnostic
	assert.ErrorAs(t, err, &diag)
}

func TestCompileReportsMissingSource(t *testing.T) {
	dir := t.TempDir()

	err := Compile(Options{
		InputPath:  filepath.Join(dir, "does-not-exist.bas"),
		OutputPath: filepath.Join(dir, "out.c"),
	})
	assert.Error(t, err)
}
