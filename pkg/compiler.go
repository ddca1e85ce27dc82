package zeebasic

import (
	"fmt"
	"io"
	"os"
	"os/exec"

	"golang.org/x/sync/errgroup"
)

// Options configures a single compile. It replaces the teacher's Target/Compiler split: this compiler has no
// cross-compilation target, only a source path, a generated-C destination, and an optional downstream native
// build.
type Options struct {
	// InputPath is the BASIC source file to compile.
	InputPath string
	// OutputPath is where the generated C translation unit is written.
	OutputPath string
	// BuildPath, if non-empty, additionally invokes a downstream C compiler against OutputPath to produce a
	// native binary at this path.
	BuildPath string
	// CC is the C compiler binary to invoke when BuildPath is set. Defaults to "cc".
	CC string
}

// Compile runs SourceReader -> Lexer -> Parser -> Emitter over opts.InputPath, writing the generated C to
// opts.OutputPath. The first Diagnostic raised by any phase aborts the compile; there is no partial output
// guarantee beyond what the OS gives a truncated, still-open file on an early return.
func Compile(opts Options) error {
	reader, closeSource, err := NewFileSourceReader(opts.InputPath)
	if err != nil {
		return fmt.Errorf("opening source: %w", err)
	}
	defer closeSource()

	interner := NewInterner()
	lexer := NewLexer(opts.InputPath, reader, interner)
	parser := NewParser(lexer)

	prog, err := parser.Parse()
	if err != nil {
		return err
	}

	out, err := os.Create(opts.OutputPath)
	if err != nil {
		return fmt.Errorf("opening output: %w", err)
	}
	defer out.Close()

	if err := Emit(prog, out); err != nil {
		return fmt.Errorf("emitting: %w", err)
	}

	if opts.BuildPath == "" {
		return nil
	}

	return buildNative(opts)
}

// buildNative pipes the already-generated C file into a downstream C compiler invocation, concurrently streaming
// its bytes to the subprocess's stdin while the subprocess runs, grounded on the teacher's build method (same
// io.Pipe + errgroup.Group shape, here targeting a C compiler instead of clang-as-LLVM-assembler).
func buildNative(opts Options) error {
	ccBin := opts.CC
	if ccBin == "" {
		ccBin = "cc"
	}

	src, err := os.Open(opts.OutputPath)
	if err != nil {
		return fmt.Errorf("reopening generated source: %w", err)
	}
	defer src.Close()

	cmd := exec.Command(ccBin, "-std=c11", "-Wall", "-Wextra", "-x", "c", "-o", opts.BuildPath, "-")

	r, w := io.Pipe()
	cmd.Stdin = r

	var g errgroup.Group

	g.Go(func() error {
		if _, err := io.Copy(w, src); err != nil {
			return err
		}

		return w.Close()
	})

	g.Go(func() error {
		if out, err := cmd.CombinedOutput(); err != nil {
			return fmt.Errorf("%w: %s", err, out)
		}

		return nil
	})

	return g.Wait()
}
