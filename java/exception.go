package java

import (
	"slices"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

const (
	NullPointerException           = "java.lang.NullPointerException"
	IndexOutOfBoundsException      = "java.lang.IndexOutOfBoundsException"
	ArrayIndexOutOfBoundsException = "java.lang.ArrayIndexOutOfBoundsException"
	NumberFormatException          = "java.lang.NumberFormatException"
	IOException                    = "java.io.IOException"
)

// typeScope maps variable names visible in a body to their declared types.
type typeScope map[string]string

func scopeFromFields(fields []FieldModel) typeScope {
	s := make(typeScope, len(fields))
	for _, f := range fields {
		s[f.Name] = f.Type
	}
	return s
}

func (s typeScope) with(params []ParameterModel) typeScope {
	next := make(typeScope, len(s)+len(params))
	for k, v := range s {
		next[k] = v
	}
	for _, p := range params {
		next[p.Name] = strings.TrimSuffix(p.Type, "...") + arraySuffixFor(p.Type)
	}
	return next
}

func arraySuffixFor(typ string) string {
	if strings.HasSuffix(typ, "...") {
		return "[]"
	}
	return ""
}

func (s typeScope) baseTypeOf(name string) string {
	return BaseType(s[name])
}

var numberParsers = map[string]map[string]bool{
	"Integer": {"parseInt": true, "valueOf": true, "decode": true},
	"Long":    {"parseLong": true, "valueOf": true, "decode": true},
	"Double":  {"parseDouble": true, "valueOf": true},
	"Float":   {"parseFloat": true, "valueOf": true},
	"Short":   {"parseShort": true, "valueOf": true, "decode": true},
	"Byte":    {"parseByte": true, "valueOf": true, "decode": true},
}

var numberFromString = map[string]bool{"BigDecimal": true, "BigInteger": true}

var listTypes = map[string]bool{
	"List": true, "ArrayList": true, "LinkedList": true, "CopyOnWriteArrayList": true, "Vector": true,
}

var ioTypes = map[string]bool{
	"InputStream": true, "OutputStream": true, "Reader": true, "Writer": true,
	"File": true, "FileInputStream": true, "FileOutputStream": true,
	"FileReader": true, "FileWriter": true, "Files": true, "Path": true, "Paths": true,
	"BufferedReader": true, "BufferedWriter": true, "InputStreamReader": true,
	"OutputStreamWriter": true, "PrintWriter": true, "Socket": true, "ServerSocket": true,
	"RandomAccessFile": true, "ObjectInputStream": true, "ObjectOutputStream": true,
	"FileChannel": true, "MultipartFile": true,
}

// bodyAnalyzer walks a method body collecting risky operations and the
// calls made on named receivers. String literals and comments are never
// entered.
//
// An orElseThrow whose supplier constructs an exception records that
// exception instead of the null-pointer-class entry. Only an unwrap with
// no recognizable supplier records NullPointerException.
type bodyAnalyzer struct {
	u        *Unit
	r        *typeResolver
	scope    typeScope
	found    []string
	calls    []CallSite
	returned map[uint]bool // start bytes of invocations returned directly
}

func analyzeBody(u *Unit, body *tree_sitter.Node, r *typeResolver, scope typeScope, m *MethodModel) {
	a := &bodyAnalyzer{u: u, r: r, scope: scope, returned: make(map[uint]bool)}
	a.walk(body)
	m.PossibleExceptions = mergeExceptions(a.found)
	m.Calls = a.calls
}

func (a *bodyAnalyzer) walk(n *tree_sitter.Node) {
	switch n.Kind() {
	case "string_literal", "character_literal", "text_block", "line_comment", "block_comment":
		return
	case "return_statement":
		for _, c := range childNodes(n) {
			if c.Kind() == "method_invocation" {
				a.returned[c.StartByte()] = true
			}
		}
	case "local_variable_declaration", "resource":
		a.declare(n)
	case "enhanced_for_statement":
		a.declareLoopVariable(n)
	case "method_invocation":
		a.invocation(n)
	case "array_access":
		a.add(ArrayIndexOutOfBoundsException)
	case "object_creation_expression":
		a.creation(n)
	case "type_identifier":
		if ioTypes[a.u.text(n)] {
			a.add(IOException)
		}
	}
	for _, c := range childNodes(n) {
		a.walk(c)
	}
}

func (a *bodyAnalyzer) add(exception string) {
	a.found = append(a.found, exception)
}

func (a *bodyAnalyzer) declare(n *tree_sitter.Node) {
	typ := typeText(a.u, n.ChildByFieldName("type"))
	if n.Kind() == "resource" {
		if name := n.ChildByFieldName("name"); name != nil {
			a.scope[a.u.text(name)] = typ
		}
		return
	}
	for _, d := range childrenOfKind(n, "variable_declarator") {
		a.scope[a.u.text(d.ChildByFieldName("name"))] = typ
	}
}

func (a *bodyAnalyzer) declareLoopVariable(n *tree_sitter.Node) {
	if name := n.ChildByFieldName("name"); name != nil {
		a.scope[a.u.text(name)] = typeText(a.u, n.ChildByFieldName("type"))
	}
}

func (a *bodyAnalyzer) invocation(n *tree_sitter.Node) {
	name := a.u.text(n.ChildByFieldName("name"))
	object := n.ChildByFieldName("object")
	args := argumentNodes(n.ChildByFieldName("arguments"))
	receiver := receiverName(a.u, object)
	receiverType := a.scope.baseTypeOf(receiver)

	switch {
	case name == "orElseThrow":
		a.add(a.supplierException(args))
	case name == "get" && len(args) == 0 && receiverType == "Optional":
		a.add(NullPointerException)
	case name == "requireNonNull" && receiver == "Objects":
		a.add(NullPointerException)
	case name == "get" && len(args) == 1 && listTypes[receiverType]:
		a.add(IndexOutOfBoundsException)
	case name == "charAt" || name == "substring":
		a.add(IndexOutOfBoundsException)
	case numberParsers[receiver][name] && len(args) == 1 && args[0].Kind() != "decimal_integer_literal":
		a.add(NumberFormatException)
	}
	if ioTypes[receiverType] || (receiver == "Files" && object.Kind() == "identifier" && a.scope[receiver] == "") {
		a.add(IOException)
	}

	if receiver != "" && object != nil && a.scope[receiver] != "" {
		a.recordCall(receiver, name, args, a.returned[n.StartByte()])
	}
}

// supplierException returns the exception constructed by an orElseThrow
// supplier such as "() -> new NotFoundException(id)" or
// "NotFoundException::new"; without a recognizable supplier the unwrap
// fails with a null-pointer-class exception.
func (a *bodyAnalyzer) supplierException(args []*tree_sitter.Node) string {
	if len(args) != 1 {
		return NullPointerException
	}
	switch arg := args[0]; arg.Kind() {
	case "lambda_expression":
		if body := arg.ChildByFieldName("body"); body != nil && body.Kind() == "object_creation_expression" {
			return a.r.resolveType(BaseType(typeText(a.u, body.ChildByFieldName("type"))))
		}
	case "method_reference":
		children := childNodes(arg)
		if len(children) > 0 && a.u.text(children[len(children)-1]) == "new" {
			return a.r.resolveType(BaseType(typeText(a.u, children[0])))
		}
	}
	return NullPointerException
}

func (a *bodyAnalyzer) creation(n *tree_sitter.Node) {
	typ := BaseType(typeText(a.u, n.ChildByFieldName("type")))
	if numberFromString[typ] {
		args := argumentNodes(n.ChildByFieldName("arguments"))
		if len(args) == 1 && !isNumericLiteral(args[0]) {
			a.add(NumberFormatException)
		}
	}
}

func (a *bodyAnalyzer) recordCall(receiver, method string, args []*tree_sitter.Node, returned bool) {
	for _, c := range a.calls {
		if c.Receiver == receiver && c.Method == method {
			return
		}
	}
	call := CallSite{Receiver: receiver, Method: method, Returned: returned}
	for _, arg := range args {
		call.Arguments = append(call.Arguments, compactText(a.u.text(arg)))
	}
	a.calls = append(a.calls, call)
}

// receiverName returns the variable a call is made on: "repo" for both
// repo.save(x) and this.repo.save(x).
func receiverName(u *Unit, object *tree_sitter.Node) string {
	if object == nil {
		return ""
	}
	switch object.Kind() {
	case "identifier":
		return u.text(object)
	case "field_access":
		if o := object.ChildByFieldName("object"); o != nil && o.Kind() == "this" {
			return u.text(object.ChildByFieldName("field"))
		}
	}
	return ""
}

func argumentNodes(args *tree_sitter.Node) []*tree_sitter.Node {
	var result []*tree_sitter.Node
	for _, c := range childNodes(args) {
		if c.IsNamed() && !isComment(c) {
			result = append(result, c)
		}
	}
	return result
}

func isNumericLiteral(n *tree_sitter.Node) bool {
	switch n.Kind() {
	case "decimal_integer_literal", "hex_integer_literal", "octal_integer_literal",
		"binary_integer_literal", "decimal_floating_point_literal", "hex_floating_point_literal":
		return true
	}
	return false
}

// mergeExceptions concatenates exception lists, keeping the first
// occurrence of each simple name.
func mergeExceptions(lists ...[]string) []string {
	var result []string
	seen := make(map[string]bool)
	for _, list := range lists {
		for _, e := range list {
			name := simpleNameOf(e)
			if seen[name] {
				continue
			}
			seen[name] = true
			result = append(result, e)
		}
	}
	return slices.Clip(result)
}
