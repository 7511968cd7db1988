// Package symexpr implements a generic, configurable parser and evaluator
// for arithmetic-style infix expressions over a user-chosen numeric type.
//
// The package has four layers: a character-indexed trie dictionary (Trie)
// used uniformly to hold variables, prefix operators, function operators,
// infix operators, and suffix operators; an Environment that owns a set of
// those dictionaries plus the delimiters and recognizers that drive
// tokenizing; a shunting-yard Parser (Parse) that turns a string into a
// Program; and an Evaluator that runs a Program as a stack machine over
// caller-supplied bindings.
//
// The package never inspects the numeric type T itself. Arithmetic,
// comparisons, and constants all come from callables registered on an
// Environment by a caller — see the mathlib subpackage for a ready-made
// registration set over *big.Float.
package symexpr
