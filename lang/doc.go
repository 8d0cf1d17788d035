// Package lang implements a small templating language for generating dynamic
// strings such as synthetic configuration values and test fixtures.
//
// A template is a sequence of items separated by '+'. Each item is either
// plain text, a double-quoted string, or an interpolation marker ${...}
// whose expression is evaluated against a [Registry] of named variables and
// functions. The string forms of the item results are concatenated.
//
// # Grammar
//
// Informal EBNF:
//
//	Input   → ws* (Item (ws* '+' ws* Item)*)? ws* EOF
//	Item    → Marker | String | Bare
//	Marker  → '${' ws* Expr ws* '}'
//	Expr    → Marker | Call | Ident | Number | Boolean | String
//	Call    → Ident ws* '(' ws* (Expr (ws* ',' ws* Expr)*)? ws* ')'
//	Number  → '-'? Digit+ ('.' Digit+)?
//	Boolean → 'true' | 'false'
//	String  → '"' [^"]* '"'
//	Bare    → <text up to '+', '"', '{', '}', or '${', trimmed>
//
// Numbers with a fraction are Float (float32), others Integer (int32).
// Bare text that spells a number or boolean is evaluated as that literal.
//
// # Example
//
//	reg := lang.NewRegistry(8)
//	reg.AddVariable("name", lang.Text("liudao"))
//
//	lang.Render(ctx, `user- + ${name} + - + ${random_str(4)}`, reg)
//	// user-liudao-x7Qa
//
// # Built-ins
//
// Every registry starts with hostname, random_str, random_bool, random_num
// and current_time. Host functions are added with [Registry.AddFunction],
// either as Go code through [CallableFunc] or as expr-lang programs through
// [CompileFunction].
package lang
