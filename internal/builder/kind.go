package builder

// nodeKind is the closed set of tree-sitter-php node types the visitor
// reacts to. Every other node maps to nodeOther and is only descended into.
type nodeKind int

const (
	nodeOther nodeKind = iota
	nodeNamespace
	nodeUse
	nodeClass
	nodeInterface
	nodeTrait
	nodeEnum
	nodeAnonymousClass
	nodeFunction
	nodeClosure
	nodeArrowFunction
	nodeMethod
	nodeProperty
	nodeConst
	nodeAssignment
	nodeNew
	nodeMemberCall
	nodeStaticCall
	nodeFunctionCall
	nodeInclude
	nodeGlobal
	nodeVariable
	nodeName
)

var nodeKinds = map[string]nodeKind{
	"namespace_definition":            nodeNamespace,
	"namespace_use_declaration":       nodeUse,
	"class_declaration":               nodeClass,
	"interface_declaration":           nodeInterface,
	"trait_declaration":               nodeTrait,
	"enum_declaration":                nodeEnum,
	"anonymous_class":                 nodeAnonymousClass,
	"function_definition":             nodeFunction,
	"anonymous_function":              nodeClosure,
	"arrow_function":                  nodeArrowFunction,
	"method_declaration":              nodeMethod,
	"property_declaration":            nodeProperty,
	"const_declaration":               nodeConst,
	"assignment_expression":           nodeAssignment,
	"object_creation_expression":      nodeNew,
	"member_call_expression":          nodeMemberCall,
	"nullsafe_member_call_expression": nodeMemberCall,
	"scoped_call_expression":          nodeStaticCall,
	"function_call_expression":        nodeFunctionCall,
	"include_expression":              nodeInclude,
	"include_once_expression":         nodeInclude,
	"require_expression":              nodeInclude,
	"require_once_expression":         nodeInclude,
	"global_declaration":              nodeGlobal,
	"variable_name":                   nodeVariable,
	"name":                            nodeName,
}

func kindOf(typ string) nodeKind {
	return nodeKinds[typ]
}

// branchNodes add one path each to a function's cyclomatic complexity.
var branchNodes = map[string]bool{
	"if_statement":           true,
	"else_if_clause":         true,
	"for_statement":          true,
	"foreach_statement":      true,
	"while_statement":        true,
	"do_statement":           true,
	"case_statement":         true,
	"catch_clause":           true,
	"conditional_expression": true,
}

// branchOperators are the binary operators that count as branches.
var branchOperators = map[string]bool{
	"&&":  true,
	"||":  true,
	"and": true,
	"or":  true,
}
