package gfx

import (
	"fmt"
	"strings"
	"text/scanner"

	"github.com/go-gl/mathgl/mgl32"
)

// ShaderKind selects a pipeline stage.
type ShaderKind uint8

const (
	VertexShader ShaderKind = iota + 1
	FragmentShader
)

func (k ShaderKind) String() string {
	switch k {
	case VertexShader:
		return "vertex"
	case FragmentShader:
		return "fragment"
	default:
		return "unknown"
	}
}

// Type is a declared shader value type.
type Type uint8

const (
	TypeFloat Type = iota + 1
	TypeVec2
	TypeVec3
	TypeVec4
	TypeMat4
	TypeBool
	TypeInt
	TypeSampler2D
)

var typeNames = map[string]Type{
	"float":     TypeFloat,
	"vec2":      TypeVec2,
	"vec3":      TypeVec3,
	"vec4":      TypeVec4,
	"mat4":      TypeMat4,
	"bool":      TypeBool,
	"int":       TypeInt,
	"sampler2D": TypeSampler2D,
}

func (t Type) String() string {
	for name, v := range typeNames {
		if v == t {
			return name
		}
	}
	return "invalid"
}

// Components returns the number of float slots a value of the type occupies.
func (t Type) Components() int {
	switch t {
	case TypeVec2:
		return 2
	case TypeVec3:
		return 3
	case TypeVec4:
		return 4
	case TypeMat4:
		return 16
	default:
		return 1
	}
}

func (t Type) isFloatVector() bool {
	switch t {
	case TypeFloat, TypeVec2, TypeVec3, TypeVec4:
		return true
	}
	return false
}

// Qualifier is the storage class of a declaration.
type Qualifier uint8

const (
	Attribute Qualifier = iota + 1
	Uniform
	Varying
)

func (q Qualifier) String() string {
	switch q {
	case Attribute:
		return "attribute"
	case Uniform:
		return "uniform"
	case Varying:
		return "varying"
	default:
		return "invalid"
	}
}

// Decl is one interface declaration of a shader stage.
type Decl struct {
	Qual Qualifier
	Type Type
	Name string
	Line int
}

// CompileError reports a rejected shader source.
type CompileError struct {
	Kind ShaderKind
	Line int
	Msg  string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%s shader: line %d: %s", e.Kind, e.Line, e.Msg)
}

// InfoLog returns the diagnostic in the usual driver log format.
func (e *CompileError) InfoLog() string {
	return fmt.Sprintf("ERROR: 0:%d: %s", e.Line, e.Msg)
}

// VertexInput is what a vertex kernel reads for one vertex.
type VertexInput struct {
	// Attribs is indexed by attribute location. Missing components default to
	// (0, 0, 0, 1).
	Attribs  []mgl32.Vec4
	Uniforms *Uniforms
}

// VertexOutput is what a vertex kernel writes for one vertex.
type VertexOutput struct {
	Position mgl32.Vec4
	Varyings []float32
}

// VertexKernel is the Go body of a vertex stage.
type VertexKernel interface {
	// Link resolves the locations the kernel reads. It runs once, after the
	// program has assigned locations.
	Link(p *Program) error
	Vertex(in *VertexInput, out *VertexOutput)
}

// FragmentKernel is the Go body of a fragment stage.
type FragmentKernel interface {
	Link(p *Program) error
	// Fragment returns the output color, or discard=true to drop the fragment.
	Fragment(in *FragmentInput) (c mgl32.Vec4, discard bool)
}

// Shader is a compiled stage: its declared interface bound to a kernel.
type Shader struct {
	kind     ShaderKind
	decls    []Decl
	vertex   VertexKernel
	fragment FragmentKernel
}

// Kind returns the stage of the shader.
func (s *Shader) Kind() ShaderKind { return s.kind }

// Decls returns the declared interface in source order.
func (s *Shader) Decls() []Decl { return append([]Decl(nil), s.decls...) }

// CompileVertexShader compiles vertex interface source and binds it to k.
func CompileVertexShader(src string, k VertexKernel) (*Shader, error) {
	if k == nil {
		return nil, &CompileError{Kind: VertexShader, Msg: "no kernel bound to stage"}
	}
	decls, err := parseDecls(VertexShader, src)
	if err != nil {
		return nil, err
	}
	return &Shader{kind: VertexShader, decls: decls, vertex: k}, nil
}

// CompileFragmentShader compiles fragment interface source and binds it to k.
func CompileFragmentShader(src string, k FragmentKernel) (*Shader, error) {
	if k == nil {
		return nil, &CompileError{Kind: FragmentShader, Msg: "no kernel bound to stage"}
	}
	decls, err := parseDecls(FragmentShader, src)
	if err != nil {
		return nil, err
	}
	return &Shader{kind: FragmentShader, decls: decls, fragment: k}, nil
}

var precisions = map[string]bool{"lowp": true, "mediump": true, "highp": true}

func parseDecls(kind ShaderKind, src string) ([]Decl, error) {
	var s scanner.Scanner
	s.Init(strings.NewReader(src))
	s.Mode = scanner.ScanIdents | scanner.ScanComments | scanner.SkipComments
	s.Filename = kind.String()

	var scanErr *CompileError
	s.Error = func(s *scanner.Scanner, msg string) {
		if scanErr == nil {
			scanErr = &CompileError{Kind: kind, Line: s.Pos().Line, Msg: msg}
		}
	}

	fail := func(line int, format string, args ...any) ([]Decl, error) {
		return nil, &CompileError{Kind: kind, Line: line, Msg: fmt.Sprintf(format, args...)}
	}

	var (
		decls []Decl
		stmt  []string
		line  int
		seen  = make(map[string]bool)
	)
	for tok := s.Scan(); tok != scanner.EOF; tok = s.Scan() {
		if scanErr != nil {
			return nil, scanErr
		}
		if len(stmt) == 0 {
			line = s.Position.Line
		}
		switch tok {
		case scanner.Ident:
			stmt = append(stmt, s.TokenText())
			continue
		case ';':
		default:
			return fail(s.Position.Line, "syntax error: unexpected '%s'", s.TokenText())
		}

		if len(stmt) == 0 {
			continue
		}
		if stmt[0] == "precision" {
			if len(stmt) != 3 || !precisions[stmt[1]] || stmt[2] != "float" {
				return fail(line, "malformed precision statement")
			}
			stmt = stmt[:0]
			continue
		}

		d, msg := declFromTokens(kind, stmt)
		if msg != "" {
			return fail(line, "%s", msg)
		}
		if seen[d.Name] {
			return fail(line, "'%s': redefinition", d.Name)
		}
		seen[d.Name] = true
		d.Line = line
		decls = append(decls, d)
		stmt = stmt[:0]
	}
	if scanErr != nil {
		return nil, scanErr
	}
	if len(stmt) > 0 {
		return fail(line, "syntax error: missing ';'")
	}
	return decls, nil
}

func declFromTokens(kind ShaderKind, toks []string) (Decl, string) {
	var d Decl
	switch toks[0] {
	case "attribute":
		d.Qual = Attribute
	case "uniform":
		d.Qual = Uniform
	case "varying":
		d.Qual = Varying
	default:
		return d, fmt.Sprintf("'%s': unexpected token", toks[0])
	}
	rest := toks[1:]
	if len(rest) > 0 && precisions[rest[0]] {
		rest = rest[1:]
	}
	if len(rest) != 2 {
		return d, fmt.Sprintf("malformed %s declaration", d.Qual)
	}

	t, ok := typeNames[rest[0]]
	if !ok {
		return d, fmt.Sprintf("'%s': unknown type", rest[0])
	}
	d.Type = t
	d.Name = rest[1]
	if strings.HasPrefix(d.Name, "gl_") {
		return d, fmt.Sprintf("'%s': reserved identifier", d.Name)
	}
	if _, isType := typeNames[d.Name]; isType {
		return d, fmt.Sprintf("'%s': type name used as identifier", d.Name)
	}

	switch d.Qual {
	case Attribute:
		if kind != VertexShader {
			return d, "attributes are only allowed in vertex shaders"
		}
		if !t.isFloatVector() {
			return d, fmt.Sprintf("attribute of type %s is not supported", t)
		}
	case Varying:
		if !t.isFloatVector() {
			return d, fmt.Sprintf("varying of type %s is not supported", t)
		}
	}
	return d, ""
}
