package zeebasic

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// emitSrc runs the full Lex -> Parse -> Emit pipeline over src and returns the generated C text.
func emitSrc(t *testing.T, src string) string {
	t.Helper()

	reader := NewSourceReader(strings.NewReader(src))
	l := NewLexer("test.bas", reader, NewInterner())

	prog, err := NewParser(l).Parse()
	require.NoError(t, err)

	var out strings.Builder
	require.NoError(t, Emit(prog, &out))

	return out.String()
}

// TestEmitterScenario1 is spec §8 Scenario 1: PRINT 1 + 2 * 3.
func TestEmitterScenario1(t *testing.T) {
	got := emitSrc(t, "PRINT 1 + 2 * 3\n")

	want := []string{
		"zrt_Int t_1 = 1;",
		"zrt_Int t_2 = 2;",
		"zrt_Int t_3 = 3;",
		"zrt_Int t_4 = t_2 * t_3;",
		"zrt_Int t_5 = t_1 + t_4;",
		"zrt_println_int(t_5);",
	}

	assertLinesInOrder(t, got, want)
}

// TestEmitterScenario2 is spec §8 Scenario 2: string concatenation with STR$, including declaration, temporary
// destruction ordering, and final local cleanup.
func TestEmitterScenario2(t *testing.T) {
	got := emitSrc(t, "s$ = \"Hi \" + STR$(10)\nPRINT s$\n")

	want := []string{
		"zrt_String* v_s_s = zrt_str_empty();",
		`zrt_String* t_1 = zrt_str_new("Hi ");`,
		"zrt_Int t_2 = 10;",
		"zrt_String* t_3 = zrt_str_new_from_int(t_2);",
		"zrt_String* t_4 = zrt_str_concat(t_1, t_3);",
		"zrt_str_del(t_3);",
		"zrt_str_del(t_1);",
		"zrt_str_copy(v_s_s, t_4);",
		"zrt_str_del(t_4);",
		"zrt_println_str(v_s_s);",
		"zrt_str_del(v_s_s);",
	}

	assertLinesInOrder(t, got, want)
}

// TestEmitterScenario3 is spec §8 Scenario 3: PRINT 1 + 2.5 promotes the integer operand via a Cast.
func TestEmitterScenario3(t *testing.T) {
	got := emitSrc(t, "PRINT 1 + 2.5\n")

	want := []string{
		"zrt_Int t_1 = 1;",
		"zrt_Real t_2 = (zrt_Real)t_1;",
		"zrt_Real t_3 = 2.5;",
		"zrt_Real t_4 = t_2 + t_3;",
		"zrt_println_real(t_4);",
	}

	assertLinesInOrder(t, got, want)
}

// TestEmitterScenario5 is spec §8 Scenario 5: PRINT 1 < 2 emits a Boolean println.
func TestEmitterScenario5(t *testing.T) {
	got := emitSrc(t, "PRINT 1 < 2\n")
	assert.Contains(t, got, "zrt_println_bool(t_3);")
}

// TestEmitterScenario6 is spec §8 Scenario 6: parenthesization changes evaluation shape, not output correctness.
func TestEmitterScenario6(t *testing.T) {
	got := emitSrc(t, "PRINT (1 + 2) * 3\n")

	want := []string{
		"zrt_Int t_1 = 1;",
		"zrt_Int t_2 = 2;",
		"zrt_Int t_3 = t_1 + t_2;",
		"zrt_Int t_4 = 3;",
		"zrt_Int t_5 = t_3 * t_4;",
		"zrt_println_int(t_5);",
	}

	assertLinesInOrder(t, got, want)
}

func TestEmitterSkeleton(t *testing.T) {
	got := emitSrc(t, "PRINT 1\n")

	assert.True(t, strings.HasPrefix(got, "#include <ZeeBasic/Runtime/ZeeRuntime.h>\n#include <math.h>\n\nvoid program(void)\n{\n"))
	assert.Contains(t, got, "int main(int argc, char* argv[])\n{\n    zrt_init(argc, argv);\n    program();\n    return 0;\n}\n")
}

func TestEmitterBarePrint(t *testing.T) {
	got := emitSrc(t, "PRINT\n")
	assert.Contains(t, got, "zrt_println();")
}

func TestEmitterBooleanNot(t *testing.T) {
	got := emitSrc(t, "PRINT NOT TRUE\n")
	assert.Contains(t, got, "zrt_Bool t_2 = !t_1;")
}

func TestEmitterIntDivideAndMod(t *testing.T) {
	got := emitSrc(t, "PRINT 7 \\ 2\nPRINT 7 MOD 2\n")
	assert.Contains(t, got, "zrt_Int t_3 = (zrt_Int)(t_1 / t_2);")
	assert.Contains(t, got, "t_4 % t_5")
}

// TestEmitterRealModUsesFmod guards against emitting C's '%' on a double, which is undefined behavior: Real MOD
// Real is allowed by the operator table, so the emitter must route it through fmod instead.
func TestEmitterRealModUsesFmod(t *testing.T) {
	got := emitSrc(t, "PRINT 7.5 MOD 2.0\n")
	assert.Contains(t, got, "#include <math.h>")
	assert.Contains(t, got, "zrt_Real t_3 = fmod(t_1, t_2);")
	assert.NotContains(t, got, "t_1 % t_2")
}

// assertLinesInOrder checks that each want line appears in got, in the given order (not necessarily contiguous).
func assertLinesInOrder(t *testing.T, got string, want []string) {
	t.Helper()

	lines := strings.Split(got, "\n")
	idx := 0

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if idx < len(want) && trimmed == want[idx] {
			idx++
		}
	}

	if idx != len(want) {
		t.Errorf("expected lines in order %v, not all found in:\n%s", want, got)
	}
}
