package ir

import (
	"encoding/json"
	"fmt"

	"github.com/risor-io/decompose/internal/token"
)

// jsonNode is the wire form of every node kind. Only the fields relevant to
// Kind are set.
type jsonNode struct {
	Kind      string        `json:"kind"`
	Span      *token.Span   `json:"span,omitempty"`
	Name      string        `json:"name,omitempty"`
	Field     string        `json:"field,omitempty"`
	Fn        string        `json:"fn,omitempty"`
	Type      Type          `json:"type,omitempty"`
	Operand   Type          `json:"operand,omitempty"`
	Op        string        `json:"op,omitempty"`
	BlockKind string        `json:"blockKind,omitempty"`
	ID        LoopID        `json:"id,omitempty"`
	Loop      LoopID        `json:"loop,omitempty"`
	Label     string        `json:"label,omitempty"`
	Int       *int64        `json:"int,omitempty"`
	Bool      *bool         `json:"bool,omitempty"`
	Str       *string       `json:"str,omitempty"`
	Value     *jsonNode     `json:"value,omitempty"`
	Receiver  *jsonNode     `json:"receiver,omitempty"`
	Dispatch  *jsonNode     `json:"dispatch,omitempty"`
	Extension *jsonNode     `json:"extension,omitempty"`
	Cond      *jsonNode     `json:"cond,omitempty"`
	X         *jsonNode     `json:"x,omitempty"`
	Body      *jsonNode     `json:"body,omitempty"`
	Then      *jsonNode     `json:"then,omitempty"`
	Else      *jsonNode     `json:"else,omitempty"`
	Args      []*jsonNode   `json:"args,omitempty"`
	Stmts     []*jsonNode   `json:"stmts,omitempty"`
	Branches  []*jsonBranch `json:"branches,omitempty"`
}

type jsonBranch struct {
	Cond   *jsonNode `json:"cond,omitempty"`
	Result *jsonNode `json:"result"`
	Else   bool      `json:"else,omitempty"`
}

type jsonFunction struct {
	Name       string    `json:"name"`
	Params     []Param   `json:"params,omitempty"`
	ReturnType Type      `json:"returnType,omitempty"`
	Body       *jsonNode `json:"body"`
}

type jsonModule struct {
	Name      string          `json:"name,omitempty"`
	Functions []*jsonFunction `json:"functions"`
}

var blockKinds = map[string]BlockKind{
	"block":      BlockPlain,
	"composite":  BlockComposite,
	"returnable": BlockReturnable,
}

// MarshalJSON encodes the module with a "kind" discriminator on every node.
func (m *Module) MarshalJSON() ([]byte, error) {
	out := jsonModule{Name: m.Name, Functions: make([]*jsonFunction, 0, len(m.Functions))}
	for _, fn := range m.Functions {
		out.Functions = append(out.Functions, encodeFunction(fn))
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a module written by MarshalJSON.
func (m *Module) UnmarshalJSON(data []byte) error {
	var in jsonModule
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	m.Name = in.Name
	m.Functions = nil
	for _, jf := range in.Functions {
		fn, err := decodeFunction(jf)
		if err != nil {
			return fmt.Errorf("function %q: %w", jf.Name, err)
		}
		m.Functions = append(m.Functions, fn)
	}
	return nil
}

// MarshalJSON encodes a single function.
func (f *Function) MarshalJSON() ([]byte, error) {
	return json.Marshal(encodeFunction(f))
}

// UnmarshalJSON decodes a single function.
func (f *Function) UnmarshalJSON(data []byte) error {
	var in jsonFunction
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	fn, err := decodeFunction(&in)
	if err != nil {
		return err
	}
	*f = *fn
	return nil
}

func encodeFunction(fn *Function) *jsonFunction {
	jf := &jsonFunction{Name: fn.Name, Params: fn.Params, ReturnType: fn.ReturnType}
	if fn.Body != nil {
		jf.Body = encode(fn.Body)
	}
	return jf
}

func decodeFunction(jf *jsonFunction) (*Function, error) {
	fn := &Function{Name: jf.Name, Params: jf.Params, ReturnType: jf.ReturnType}
	if jf.Body == nil {
		return fn, nil
	}
	body, err := decodeBlock(jf.Body)
	if err != nil {
		return nil, err
	}
	fn.Body = body
	return fn, nil
}

func spanOf(n Node) *token.Span {
	s := token.Span{Start: n.Pos(), Stop: n.End()}
	if !s.Start.IsValid() && !s.Stop.IsValid() {
		return nil
	}
	return &s
}

func encodeExpr(x Expr) *jsonNode {
	if x == nil {
		return nil
	}
	return encode(x)
}

func encodeExprs(exprs []Expr) []*jsonNode {
	out := make([]*jsonNode, 0, len(exprs))
	for _, x := range exprs {
		out = append(out, encode(x))
	}
	return out
}

func encodeBlock(b *Block) *jsonNode {
	if b == nil {
		return nil
	}
	return encode(b)
}

func encode(n Node) *jsonNode {
	j := &jsonNode{Span: spanOf(n)}
	switch n := n.(type) {
	case *Var:
		j.Kind, j.Name, j.Type, j.Value = "var", n.Name, n.Type, encodeExpr(n.Value)
	case *Assign:
		j.Kind, j.Name, j.Value = "assign", n.Name, encodeExpr(n.Value)
	case *SetField:
		j.Kind, j.Field = "setField", n.Field
		j.Receiver, j.Value = encodeExpr(n.Receiver), encodeExpr(n.Value)
	case *Field:
		j.Kind, j.Name, j.Type, j.Value = "field", n.Name, n.Type, encodeExpr(n.Value)
	case *While:
		j.Kind, j.ID, j.Label = "while", n.ID, n.Label
		j.Cond, j.Body = encodeExpr(n.Cond), encodeBlock(n.Body)
	case *DoWhile:
		j.Kind, j.ID, j.Label = "doWhile", n.ID, n.Label
		j.Cond, j.Body = encodeExpr(n.Cond), encodeBlock(n.Body)
	case *If:
		j.Kind, j.Cond = "if", encodeExpr(n.Cond)
		j.Then, j.Else = encodeBlock(n.Then), encodeBlock(n.Else)
	case *Block:
		j.Kind, j.Type, j.BlockKind = "block", n.Type, n.Kind.String()
		for _, stmt := range n.Stmts {
			j.Stmts = append(j.Stmts, encode(stmt))
		}
	case *When:
		j.Kind, j.Type = "when", n.Type
		for _, br := range n.Branches {
			j.Branches = append(j.Branches, &jsonBranch{
				Cond:   encodeExpr(br.Cond),
				Result: encodeExpr(br.Result),
				Else:   br.Else,
			})
		}
	case *Call:
		j.Kind, j.Fn, j.Type = "call", n.Fn, n.Type
		j.Dispatch, j.Extension = encodeExpr(n.Dispatch), encodeExpr(n.Extension)
		j.Args = encodeExprs(n.Args)
	case *Concat:
		j.Kind, j.Args = "concat", encodeExprs(n.Args)
	case *GetField:
		j.Kind, j.Field, j.Type, j.Receiver = "getField", n.Field, n.Type, encodeExpr(n.Receiver)
	case *Ident:
		j.Kind, j.Name, j.Type = "ident", n.Name, n.Type
	case *Int:
		v := n.Value
		j.Kind, j.Int = "int", &v
	case *Bool:
		v := n.Value
		j.Kind, j.Bool = "bool", &v
	case *String:
		v := n.Value
		j.Kind, j.Str = "string", &v
	case *Null:
		j.Kind, j.Type = "null", n.Type
	case *TypeOp:
		j.Kind, j.Op, j.Operand, j.Type = "typeOp", n.Op.String(), n.Operand, n.Type
		j.X = encodeExpr(n.X)
	case *Return:
		j.Kind, j.Value = "return", encodeExpr(n.Value)
	case *Throw:
		j.Kind, j.Value = "throw", encodeExpr(n.Value)
	case *Break:
		j.Kind, j.Loop = "break", n.Loop
	case *Continue:
		j.Kind, j.Loop = "continue", n.Loop
	default:
		panic(fmt.Sprintf("ir: cannot encode %T", n))
	}
	return j
}

func decodeExpr(j *jsonNode) (Expr, error) {
	if j == nil {
		return nil, nil
	}
	n, err := decode(j)
	if err != nil {
		return nil, err
	}
	x, ok := n.(Expr)
	if !ok {
		return nil, fmt.Errorf("ir: %s is not an expression", j.Kind)
	}
	return x, nil
}

func decodeExprs(js []*jsonNode) ([]Expr, error) {
	var out []Expr
	for _, j := range js {
		x, err := decodeExpr(j)
		if err != nil {
			return nil, err
		}
		if x == nil {
			return nil, fmt.Errorf("ir: missing operand")
		}
		out = append(out, x)
	}
	return out, nil
}

func decodeBlock(j *jsonNode) (*Block, error) {
	if j == nil {
		return nil, nil
	}
	n, err := decode(j)
	if err != nil {
		return nil, err
	}
	b, ok := n.(*Block)
	if !ok {
		return nil, fmt.Errorf("ir: expected block, got %s", j.Kind)
	}
	return b, nil
}

func decodeTypeOperator(name string) (TypeOperator, error) {
	for op, n := range typeOperatorNames {
		if n == name {
			return op, nil
		}
	}
	return 0, fmt.Errorf("ir: unknown type operator %q", name)
}

func decode(j *jsonNode) (Node, error) {
	var span token.Span
	if j.Span != nil {
		span = *j.Span
	}
	// first records the earliest failure among the children of this node.
	var first error
	expr := func(c *jsonNode) Expr {
		x, err := decodeExpr(c)
		if err != nil && first == nil {
			first = err
		}
		return x
	}
	block := func(c *jsonNode) *Block {
		b, err := decodeBlock(c)
		if err != nil && first == nil {
			first = err
		}
		return b
	}
	exprs := func(cs []*jsonNode) []Expr {
		xs, err := decodeExprs(cs)
		if err != nil && first == nil {
			first = err
		}
		return xs
	}
	var n Node
	switch j.Kind {
	case "var":
		n = &Var{Span: span, Name: j.Name, Type: j.Type, Value: expr(j.Value)}
	case "assign":
		n = &Assign{Span: span, Name: j.Name, Value: expr(j.Value)}
	case "setField":
		n = &SetField{Span: span, Receiver: expr(j.Receiver), Field: j.Field, Value: expr(j.Value)}
	case "field":
		n = &Field{Span: span, Name: j.Name, Type: j.Type, Value: expr(j.Value)}
	case "while":
		n = &While{Span: span, ID: j.ID, Label: j.Label, Cond: expr(j.Cond), Body: block(j.Body)}
	case "doWhile":
		n = &DoWhile{Span: span, ID: j.ID, Label: j.Label, Body: block(j.Body), Cond: expr(j.Cond)}
	case "if":
		n = &If{Span: span, Cond: expr(j.Cond), Then: block(j.Then), Else: block(j.Else)}
	case "block":
		kind := BlockPlain
		if j.BlockKind != "" {
			k, ok := blockKinds[j.BlockKind]
			if !ok {
				return nil, fmt.Errorf("ir: unknown block kind %q", j.BlockKind)
			}
			kind = k
		}
		b := &Block{Span: span, Kind: kind, Type: j.Type, Stmts: []Node{}}
		for _, c := range j.Stmts {
			stmt, err := decode(c)
			if err != nil {
				return nil, err
			}
			b.Stmts = append(b.Stmts, stmt)
		}
		n = b
	case "when":
		w := &When{Span: span, Type: j.Type}
		for _, jb := range j.Branches {
			br := &Branch{Cond: expr(jb.Cond), Result: expr(jb.Result), Else: jb.Else}
			if br.Else && br.Cond == nil {
				br.Cond = &Bool{Value: true}
			}
			w.Branches = append(w.Branches, br)
		}
		n = w
	case "call":
		n = &Call{
			Span:      span,
			Fn:        j.Fn,
			Type:      j.Type,
			Dispatch:  expr(j.Dispatch),
			Extension: expr(j.Extension),
			Args:      exprs(j.Args),
		}
	case "concat":
		n = &Concat{Span: span, Args: exprs(j.Args)}
	case "getField":
		n = &GetField{Span: span, Receiver: expr(j.Receiver), Field: j.Field, Type: j.Type}
	case "ident":
		n = &Ident{Span: span, Name: j.Name, Type: j.Type}
	case "int":
		if j.Int == nil {
			return nil, fmt.Errorf("ir: int literal without value")
		}
		n = &Int{Span: span, Value: *j.Int}
	case "bool":
		if j.Bool == nil {
			return nil, fmt.Errorf("ir: bool literal without value")
		}
		n = &Bool{Span: span, Value: *j.Bool}
	case "string":
		if j.Str == nil {
			return nil, fmt.Errorf("ir: string literal without value")
		}
		n = &String{Span: span, Value: *j.Str}
	case "null":
		n = &Null{Span: span, Type: j.Type}
	case "typeOp":
		op, err := decodeTypeOperator(j.Op)
		if err != nil {
			return nil, err
		}
		n = &TypeOp{Span: span, Op: op, Operand: j.Operand, X: expr(j.X), Type: j.Type}
	case "return":
		n = &Return{Span: span, Value: expr(j.Value)}
	case "throw":
		n = &Throw{Span: span, Value: expr(j.Value)}
	case "break":
		n = &Break{Span: span, Loop: j.Loop}
	case "continue":
		n = &Continue{Span: span, Loop: j.Loop}
	default:
		return nil, fmt.Errorf("ir: unknown node kind %q", j.Kind)
	}
	if first != nil {
		return nil, first
	}
	return n, nil
}
