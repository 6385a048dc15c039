package ir

import (
	"bytes"
	"fmt"
	"strconv"
)

// Sprint renders n as indented pseudo source. The output is stable and is
// what String returns for every node.
func Sprint(n Node) string {
	var p printer
	p.node(n)
	return p.buf.String()
}

type printer struct {
	buf    bytes.Buffer
	indent int
}

func (p *printer) printf(format string, args ...any) {
	fmt.Fprintf(&p.buf, format, args...)
}

func (p *printer) newline() {
	p.buf.WriteByte('\n')
	for i := 0; i < p.indent; i++ {
		p.buf.WriteString("  ")
	}
}

func (p *printer) block(b *Block) {
	if b == nil {
		p.buf.WriteString("<nil>")
		return
	}
	switch b.Kind {
	case BlockComposite:
		p.buf.WriteString("composite ")
	case BlockReturnable:
		p.buf.WriteString("returnable ")
	}
	if len(b.Stmts) == 0 {
		p.buf.WriteString("{}")
		return
	}
	p.buf.WriteString("{")
	p.indent++
	for _, stmt := range b.Stmts {
		p.newline()
		p.node(stmt)
	}
	p.indent--
	p.newline()
	p.buf.WriteString("}")
}

func (p *printer) list(exprs []Expr) {
	for i, x := range exprs {
		if i > 0 {
			p.buf.WriteString(", ")
		}
		p.node(x)
	}
}

func (p *printer) typed(name string, t Type) {
	p.buf.WriteString(name)
	if t != "" {
		p.printf(": %s", t)
	}
}

func (p *printer) label(label string) {
	if label != "" {
		p.printf("%s@", label)
	}
}

func (p *printer) node(n Node) {
	switch n := n.(type) {
	case nil:
		p.buf.WriteString("<nil>")
	case *Function:
		p.printf("fun %s(", n.Name)
		for i, param := range n.Params {
			if i > 0 {
				p.buf.WriteString(", ")
			}
			p.typed(param.Name, param.Type)
		}
		p.buf.WriteString(")")
		if n.ReturnType != "" {
			p.printf(": %s", n.ReturnType)
		}
		if n.Body != nil {
			p.buf.WriteString(" ")
			p.block(n.Body)
		}
	case *Var:
		p.buf.WriteString("var ")
		p.typed(n.Name, n.Type)
		if n.Value != nil {
			p.buf.WriteString(" = ")
			p.node(n.Value)
		}
	case *Assign:
		p.printf("%s = ", n.Name)
		p.node(n.Value)
	case *SetField:
		if n.Receiver != nil {
			p.node(n.Receiver)
			p.buf.WriteString(".")
		}
		p.printf("%s = ", n.Field)
		p.node(n.Value)
	case *Field:
		p.buf.WriteString("field ")
		p.typed(n.Name, n.Type)
		if n.Value != nil {
			p.buf.WriteString(" = ")
			p.node(n.Value)
		}
	case *While:
		p.label(n.Label)
		p.printf("while#%d (", n.ID)
		p.node(n.Cond)
		p.buf.WriteString(") ")
		p.block(n.Body)
	case *DoWhile:
		p.label(n.Label)
		p.printf("do#%d ", n.ID)
		p.block(n.Body)
		p.buf.WriteString(" while (")
		p.node(n.Cond)
		p.buf.WriteString(")")
	case *If:
		p.buf.WriteString("if (")
		p.node(n.Cond)
		p.buf.WriteString(") ")
		p.block(n.Then)
		if n.Else != nil {
			p.buf.WriteString(" else ")
			p.block(n.Else)
		}
	case *Block:
		p.block(n)
	case *When:
		if len(n.Branches) == 0 {
			p.buf.WriteString("when {}")
			return
		}
		p.buf.WriteString("when {")
		p.indent++
		for _, br := range n.Branches {
			p.newline()
			if br.Else {
				p.buf.WriteString("else")
			} else {
				p.node(br.Cond)
			}
			p.buf.WriteString(" -> ")
			p.node(br.Result)
		}
		p.indent--
		p.newline()
		p.buf.WriteString("}")
	case *Call:
		if n.Dispatch != nil {
			p.node(n.Dispatch)
			p.buf.WriteString(".")
		}
		if n.Extension != nil {
			p.node(n.Extension)
			p.buf.WriteString(".")
		}
		p.printf("%s(", n.Fn)
		p.list(n.Args)
		p.buf.WriteString(")")
	case *Concat:
		p.buf.WriteString("concat(")
		p.list(n.Args)
		p.buf.WriteString(")")
	case *GetField:
		if n.Receiver != nil {
			p.node(n.Receiver)
			p.buf.WriteString(".")
		}
		p.buf.WriteString(n.Field)
	case *Ident:
		p.buf.WriteString(n.Name)
	case *Int:
		p.buf.WriteString(strconv.FormatInt(n.Value, 10))
	case *Bool:
		p.buf.WriteString(strconv.FormatBool(n.Value))
	case *String:
		p.buf.WriteString(strconv.Quote(n.Value))
	case *Null:
		p.buf.WriteString("null")
	case *TypeOp:
		p.buf.WriteString("(")
		p.node(n.X)
		p.printf(" %s %s)", n.Op, n.Operand)
	case *Return:
		p.buf.WriteString("return")
		if n.Value != nil {
			p.buf.WriteString(" ")
			p.node(n.Value)
		}
	case *Throw:
		p.buf.WriteString("throw ")
		p.node(n.Value)
	case *Break:
		p.printf("break#%d", n.Loop)
	case *Continue:
		p.printf("continue#%d", n.Loop)
	default:
		p.printf("<%T>", n)
	}
}
