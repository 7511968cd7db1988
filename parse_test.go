package symexpr

import "testing"

func evalInt(t *testing.T, env *Environment[int], src string, mode Mode) (int, error) {
	t.Helper()
	prog, err := Parse(env, src, mode)
	if err != nil {
		return 0, err
	}
	return NewEvaluator[int]().Evaluate(prog)
}

func TestParsePrecedence(t *testing.T) {
	cases := []struct {
		src  string
		want int
	}{
		{"1 + 2 * 3", 7},
		{"(1 + 2) * 3", 9},
		{"2 * 3 + 1", 7},
		{"-5 + 2", -3},
		{"double(3) + 1", 7},
		{"add(1, 2) + add(3, 4)", 10},
	}
	env := intEnv()
	for _, c := range cases {
		got, err := evalInt(t, env, c.src, Normal)
		if err != nil {
			t.Errorf("eval %q: %v", c.src, err)
			continue
		}
		if got != c.want {
			t.Errorf("eval %q = %d, want %d", c.src, got, c.want)
		}
	}
}

func TestParseModes(t *testing.T) {
	env := intEnv()
	bind, _ := env.RegisterVariable("v", 10, true)

	progNormal, err := Parse(env, "v + 1", Normal)
	if err != nil {
		t.Fatalf("Parse Normal: %v", err)
	}
	progImmediate, err := Parse(env, "v + 1", Immediate)
	if err != nil {
		t.Fatalf("Parse Immediate: %v", err)
	}

	bind.Set(20)

	got, err := NewEvaluator[int]().Evaluate(progNormal)
	if err != nil || got != 21 {
		t.Errorf("Normal-mode program after Set(20) = %d, %v, want 21, nil", got, err)
	}
	got, err = NewEvaluator[int]().Evaluate(progImmediate)
	if err != nil || got != 11 {
		t.Errorf("Immediate-mode program after Set(20) = %d, %v, want 11, nil", got, err)
	}
}

func TestParseAssignmentRejectsConst(t *testing.T) {
	env := intEnv()
	if _, err := env.RegisterConstant("k", 1); err != nil {
		t.Fatalf("RegisterConstant: %v", err)
	}
	_, err := evalInt(t, env, "k = 2", Normal)
	if _, ok := err.(*ConstAssignmentError); !ok {
		t.Fatalf("assigning to const: got %v (%T), want *ConstAssignmentError", err, err)
	}
}

func TestParseAssignmentMutates(t *testing.T) {
	env := intEnv()
	bind, _ := env.RegisterVariable("v", 1, true)
	if _, err := evalInt(t, env, "v = 9", Normal); err != nil {
		t.Fatalf("eval v = 9: %v", err)
	}
	if bind.Value() != 9 {
		t.Fatalf("v.Value() = %d, want 9", bind.Value())
	}
}

func TestParseArityMismatch(t *testing.T) {
	env := intEnv()
	_, err := Parse(env, "double(1, 2)", Normal)
	ae, ok := err.(*ArityMismatchError)
	if !ok {
		t.Fatalf("double(1, 2): got %v (%T), want *ArityMismatchError", err, err)
	}
	if ae.Want != 1 || ae.Got != 2 {
		t.Fatalf("ArityMismatchError = %+v, want Want=1 Got=2", ae)
	}
}

func TestParseRequiredBracketMissing(t *testing.T) {
	env := intEnv()
	_, err := Parse(env, "double 1", Normal)
	if _, ok := err.(*RequiredBracketMissingError); !ok {
		t.Fatalf("double 1: got %v (%T), want *RequiredBracketMissingError", err, err)
	}
}

func TestParseMismatchedBrackets(t *testing.T) {
	cases := []string{"(1 + 2", "1 + 2)", "double(1"}
	env := intEnv()
	for _, src := range cases {
		_, err := Parse(env, src, Normal)
		if _, ok := err.(*MismatchedBracketsError); !ok {
			t.Errorf("%q: got %v (%T), want *MismatchedBracketsError", src, err, err)
		}
	}
}

func TestParseMisplacedSeparator(t *testing.T) {
	env := intEnv()
	_, err := Parse(env, "1, 2", Normal)
	if _, ok := err.(*MisplacedSeparatorError); !ok {
		t.Fatalf("1, 2: got %v (%T), want *MisplacedSeparatorError", err, err)
	}
}

func TestParseUnexpectedCharacter(t *testing.T) {
	env := intEnv()
	_, err := Parse(env, "1 + $", Normal)
	uce, ok := err.(*UnexpectedCharacterError)
	if !ok {
		t.Fatalf("1 + $: got %v (%T), want *UnexpectedCharacterError", err, err)
	}
	if uce.Rune != '$' {
		t.Fatalf("UnexpectedCharacterError.Rune = %q, want '$'", uce.Rune)
	}
}

func TestParseEmptyExpression(t *testing.T) {
	env := intEnv()
	if _, err := Parse(env, "", Normal); err == nil {
		t.Fatalf("Parse(\"\") succeeded, want an error")
	}
	if _, err := Parse(env, "()", Normal); err == nil {
		t.Fatalf("Parse(\"()\") succeeded, want an error")
	}
}

func FuzzParse(f *testing.F) {
	seeds := []string{
		"1 + 2 * 3", "(1+2)*3", "double(1)", "add(1,2)", "- 1",
		"v = 1", "", "(", ")", "1,2", "$", "double(1,2,3)",
	}
	for _, s := range seeds {
		f.Add(s)
	}
	env := intEnv()
	_, _ = env.RegisterVariable("v", 0, true)
	f.Fuzz(func(t *testing.T, src string) {
		prog, err := Parse(env, src, Normal)
		if err != nil {
			return
		}
		_, _ = NewEvaluator[int]().Evaluate(prog)
		_ = prog
	})
}
