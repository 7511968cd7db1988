package symexpr

// Evaluator runs a Program as a stack machine. Its operand stack is
// reused across calls to Evaluate, avoiding an allocation per
// evaluation, the same way the teacher's Context reuses its stack
// across repeated calls into the same expression tree.
//
// An Evaluator is not re-entrant: a Callable invoked during Evaluate
// must not call Evaluate again on the same Evaluator. Each user-defined
// function created by Environment.DefineFunction owns its own
// Evaluator for exactly this reason.
type Evaluator[T any] struct {
	stack   []Handle[T]
	running bool
}

// NewEvaluator creates an Evaluator with an empty, reusable stack.
func NewEvaluator[T any]() *Evaluator[T] {
	return &Evaluator[T]{}
}

func (e *Evaluator[T]) push(h Handle[T]) { e.stack = append(e.stack, h) }

func (e *Evaluator[T]) pop() Handle[T] {
	h := e.stack[len(e.stack)-1]
	e.stack = e.stack[:len(e.stack)-1]
	return h
}

// Evaluate runs prog's instructions in order against a fresh use of this
// Evaluator's stack, and returns the single resulting value.
//
// Per spec.md §3's invariant on a well-formed program, after all
// instructions run the stack holds exactly one value; if it holds any
// other number, Evaluate returns an EvalError of kind Malformed rather
// than silently taking the top or bottom element.
func (e *Evaluator[T]) Evaluate(prog *Program[T]) (T, error) {
	if e.running {
		panic("symexpr: Evaluate called re-entrantly on the same Evaluator")
	}
	e.running = true
	defer func() { e.running = false }()

	e.stack = e.stack[:0]
	for _, in := range prog.instrs {
		switch in.kind {
		case instrConst:
			e.push(valueHandle[T]{val: in.val})
		case instrVar:
			e.push(in.bind)
		case instrOp:
			if len(e.stack) < in.op.Arity {
				var zero T
				return zero, &EvalError{Kind: StackUnderflow, StackLen: len(e.stack), Arity: in.op.Arity}
			}
			args := make([]Handle[T], in.op.Arity)
			copy(args, e.stack[len(e.stack)-in.op.Arity:])
			e.stack = e.stack[:len(e.stack)-in.op.Arity]
			val, err := in.op.Fn(args)
			if err != nil {
				var zero T
				return zero, err
			}
			e.push(valueHandle[T]{val: val})
		}
	}

	if len(e.stack) != 1 {
		var zero T
		n := len(e.stack)
		e.stack = e.stack[:0]
		return zero, &EvalError{Kind: Malformed, StackLen: n}
	}
	result := e.pop().Value()
	return result, nil
}
