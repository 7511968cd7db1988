package symexpr

import "sort"

// MaxPrecedence bounds operator precedences. The parser gives every
// prefix operator that does not require a parenthesized call
// MaxPrecedence-1; precedences passed to RegisterInfix should stay below
// that. Brackets and calls are tracked apart from the operator stack and
// carry no precedence.
const MaxPrecedence = 1 << 30

// Handle is a reference to a value a program can both read and, if
// Mutable reports true, write. Variable bindings are mutable handles;
// literal constants and the results of computing a subexpression are
// immutable handles of the same shape, so that an assignment-style
// callable can reject a const target without the evaluator needing any
// special-cased instruction kind.
type Handle[T any] interface {
	Value() T
	Mutable() bool
	Set(T) error
}

// Binding is a named, possibly-mutable value held in an Environment's
// variable dictionary. Parsed programs refer to a Binding by pointer, so
// rebinding the dictionary entry for a name does not affect programs
// parsed against the old one.
type Binding[T any] struct {
	Name    string
	val     T
	mutable bool
}

func (b *Binding[T]) Value() T      { return b.val }
func (b *Binding[T]) Mutable() bool { return b.mutable }

func (b *Binding[T]) Set(v T) error {
	if !b.mutable {
		return &ConstAssignmentError{Name: b.Name}
	}
	b.val = v
	return nil
}

// valueHandle wraps a plain value as an immutable Handle, for literal
// constants and intermediate results that never back a named variable.
type valueHandle[T any] struct {
	val T
}

func (v valueHandle[T]) Value() T        { return v.val }
func (v valueHandle[T]) Mutable() bool   { return false }
func (v valueHandle[T]) Set(T) error     { return &ConstAssignmentError{} }

// Callable is the signature of every operator and function body: an
// infix, prefix, or suffix operation, or a user-defined function. It
// receives one Handle per argument (so an assignment-style callable can
// inspect Mutable and call Set on its own first argument) and returns
// the computed result.
type Callable[T any] func(args []Handle[T]) (T, error)

// Operation is a callable of fixed arity, shared by the suffix
// dictionary directly and embedded by PrefixOp and InfixOp for the
// dictionaries that need additional parse-time metadata.
type Operation[T any] struct {
	Name  string
	Arity int
	Fn    Callable[T]
}

// PrefixOp is an Operation usable as a prefix operator or as a named
// function call. RequiresParenthesizedCall distinguishes the two
// surface syntaxes spec.md §3 calls out: a bare prefix symbol
// immediately preceding its operand ("-x"), versus a name that must be
// followed by a parenthesized, comma-separated argument list
// ("max(a, b)"). Entries in Environment.Functions always set this true;
// entries in Environment.Prefixes may set it either way.
type PrefixOp[T any] struct {
	*Operation[T]
	RequiresParenthesizedCall bool
}

// InfixOp is an Operation usable as a binary infix operator, carrying
// the precedence and associativity the shunting-yard parser needs to
// decide when to pop it off the operator stack.
type InfixOp[T any] struct {
	*Operation[T]
	Precedence int
	RightAssoc bool
}

// Environment owns the dictionaries, delimiters, and recognizers that
// drive tokenizing and evaluation for one configuration of the parser.
// An Environment is not safe for concurrent use: all of its dictionaries
// are plain maps underneath, and a program being evaluated against a
// mutable Binding can observe another goroutine's concurrent Set as a
// data race exactly as it would for any other shared, unsynchronized Go
// value.
type Environment[T any] struct {
	Vars      *Trie[*Binding[T]]
	Prefixes  *Trie[*PrefixOp[T]]
	Functions *Trie[*PrefixOp[T]]
	Infixes   *Trie[*InfixOp[T]]
	Suffixes  *Trie[*Operation[T]]

	// ConstantParser recognizes a numeric literal starting at rune index
	// pos in s, returning the parsed value, the index just past the
	// literal, and whether a literal was recognized at all.
	ConstantParser func(s []rune, pos int) (T, int, bool)

	// IsSpace reports whether r should be skipped between tokens. Nil
	// disables whitespace skipping entirely.
	IsSpace func(r rune) bool

	bracketsEnabled bool
	lbracket        rune
	rbracket        rune

	separatorEnabled bool
	separator        rune
}

// EnvOption configures an Environment at construction time.
type EnvOption[T any] func(*Environment[T])

// NewEnvironment creates an Environment with empty dictionaries and no
// constant parser, whitespace predicate, brackets, or separator; use the
// With* options, the Enable* methods, or the ConstantParser and IsSpace
// fields to configure it, or pass an
// installer such as mathlib.Install to configure it in one call.
func NewEnvironment[T any](opts ...EnvOption[T]) *Environment[T] {
	env := &Environment[T]{
		Vars:      NewTrie[*Binding[T]](),
		Prefixes:  NewTrie[*PrefixOp[T]](),
		Functions: NewTrie[*PrefixOp[T]](),
		Infixes:   NewTrie[*InfixOp[T]](),
		Suffixes:  NewTrie[*Operation[T]](),
	}
	for _, opt := range opts {
		opt(env)
	}
	return env
}

// WithConstantParser sets the Environment's literal-number recognizer.
func WithConstantParser[T any](parse func(s []rune, pos int) (T, int, bool)) EnvOption[T] {
	return func(env *Environment[T]) { env.ConstantParser = parse }
}

// WithWhitespace sets the Environment's whitespace predicate.
func WithWhitespace[T any](isSpace func(r rune) bool) EnvOption[T] {
	return func(env *Environment[T]) { env.IsSpace = isSpace }
}

// WithBrackets enables grouping and call parentheses using the given
// delimiter pair.
func WithBrackets[T any](left, right rune) EnvOption[T] {
	return func(env *Environment[T]) { env.EnableBrackets(left, right) }
}

// WithSeparator enables argument-list separation using the given
// delimiter.
func WithSeparator[T any](sep rune) EnvOption[T] {
	return func(env *Environment[T]) { env.EnableSeparator(sep) }
}

// EnableBrackets turns on grouping and call parentheses.
func (env *Environment[T]) EnableBrackets(left, right rune) {
	env.bracketsEnabled = true
	env.lbracket = left
	env.rbracket = right
}

// DisableBrackets turns grouping and call parentheses back off.
func (env *Environment[T]) DisableBrackets() { env.bracketsEnabled = false }

// Brackets reports the configured bracket pair and whether brackets are
// enabled at all.
func (env *Environment[T]) Brackets() (left, right rune, enabled bool) {
	return env.lbracket, env.rbracket, env.bracketsEnabled
}

// EnableSeparator turns on the argument-list separator.
func (env *Environment[T]) EnableSeparator(sep rune) {
	env.separatorEnabled = true
	env.separator = sep
}

// DisableSeparator turns the argument-list separator back off.
func (env *Environment[T]) DisableSeparator() { env.separatorEnabled = false }

// Separator reports the configured separator rune and whether it is
// enabled at all.
func (env *Environment[T]) Separator() (sep rune, enabled bool) {
	return env.separator, env.separatorEnabled
}

// RegisterVariable installs a named binding. mutable controls whether a
// later assignment to name is accepted or rejected with
// ConstAssignmentError.
func (env *Environment[T]) RegisterVariable(name string, val T, mutable bool) (*Binding[T], error) {
	b := &Binding[T]{Name: name, val: val, mutable: mutable}
	if err := env.Vars.Insert(name, b); err != nil {
		return nil, err
	}
	return b, nil
}

// RegisterConstant installs name as an immutable binding.
func (env *Environment[T]) RegisterConstant(name string, val T) (*Binding[T], error) {
	return env.RegisterVariable(name, val, false)
}

// RegisterVariables bulk-registers mutable bindings. It stops at the
// first name that is already registered and returns that error; names
// are installed in sorted order so the point of failure is
// deterministic regardless of map iteration order.
func (env *Environment[T]) RegisterVariables(vars map[string]T) error {
	for _, name := range sortedKeys(vars) {
		if _, err := env.RegisterVariable(name, vars[name], true); err != nil {
			return err
		}
	}
	return nil
}

// RegisterConstants bulk-registers immutable bindings, in sorted name
// order, stopping at the first error.
func (env *Environment[T]) RegisterConstants(consts map[string]T) error {
	for _, name := range sortedKeys(consts) {
		if _, err := env.RegisterConstant(name, consts[name]); err != nil {
			return err
		}
	}
	return nil
}

func sortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// RegisterInfix installs a binary infix operator.
func (env *Environment[T]) RegisterInfix(name string, precedence int, rightAssoc bool, fn Callable[T]) error {
	op := &InfixOp[T]{
		Operation:  &Operation[T]{Name: name, Arity: 2, Fn: fn},
		Precedence: precedence,
		RightAssoc: rightAssoc,
	}
	return env.Infixes.Insert(name, op)
}

// RegisterPrefix installs a prefix operator of the given arity.
// requiresParen must be set for any prefix entry whose call syntax needs
// a parenthesized, comma-separated argument list rather than a single
// bare operand immediately following the symbol.
func (env *Environment[T]) RegisterPrefix(name string, arity int, requiresParen bool, fn Callable[T]) error {
	op := &PrefixOp[T]{
		Operation:                 &Operation[T]{Name: name, Arity: arity, Fn: fn},
		RequiresParenthesizedCall: requiresParen,
	}
	return env.Prefixes.Insert(name, op)
}

// RegisterSuffix installs a unary suffix operator.
func (env *Environment[T]) RegisterSuffix(name string, fn Callable[T]) error {
	op := &Operation[T]{Name: name, Arity: 1, Fn: fn}
	return env.Suffixes.Insert(name, op)
}

// RegisterFunction installs a named, call-syntax-only operation of the
// given arity in the function dictionary, distinct from the prefix
// dictionary; see SPEC_FULL.md's open-question resolution on why the two
// are kept separate.
func (env *Environment[T]) RegisterFunction(name string, arity int, fn Callable[T]) error {
	op := &PrefixOp[T]{
		Operation:                 &Operation[T]{Name: name, Arity: arity, Fn: fn},
		RequiresParenthesizedCall: true,
	}
	return env.Functions.Insert(name, op)
}

// DefineFunction implements spec.md §4.D's define algorithm: it
// temporarily rebinds each name in params to a fresh mutable slot,
// parses bodyText against this Environment in the given mode, then
// restores whatever was previously bound to each of those names
// (whether that restoration happens because parsing succeeded or
// because it failed). On success it registers name as a function of
// arity len(params) whose call sets the captured param slots from the
// caller's arguments and evaluates the parsed body.
//
// A function defined this way is not re-entrant: recursive or concurrent
// calls share the same parameter slots, per spec.md §5's warning.
func (env *Environment[T]) DefineFunction(name string, params []string, bodyText string, mode Mode) error {
	saved := make([]*Binding[T], len(params))
	slots := make([]*Binding[T], len(params))
	for i, p := range params {
		if prior, ok := env.Vars.Lookup(p); ok {
			saved[i] = prior
			env.Vars.Remove(p)
		}
		slot := &Binding[T]{Name: p, mutable: true}
		slots[i] = slot
		// Insert cannot fail: Remove above cleared any prior entry.
		_ = env.Vars.Insert(p, slot)
	}

	restore := func() {
		for i, p := range params {
			env.Vars.Remove(p)
			if saved[i] != nil {
				_ = env.Vars.Insert(p, saved[i])
			}
		}
	}

	prog, err := Parse(env, bodyText, mode)
	restore()
	if err != nil {
		return err
	}

	ev := NewEvaluator[T]()
	fn := func(args []Handle[T]) (T, error) {
		for i, h := range args {
			if err := slots[i].Set(h.Value()); err != nil {
				var zero T
				return zero, err
			}
		}
		return ev.Evaluate(prog)
	}
	return env.RegisterFunction(name, len(params), fn)
}

// DefineFunctionArgs is DefineFunction with its parameter list given as
// variadic arguments and Normal parse mode, for call sites that don't
// want to build a []string by hand.
func (env *Environment[T]) DefineFunctionArgs(name, bodyText string, params ...string) error {
	return env.DefineFunction(name, params, bodyText, Normal)
}
