package graph

// NodeKind represents the type of a code entity.
type NodeKind string

const (
	NodePackage   NodeKind = "package"
	NodeClass     NodeKind = "class"
	NodeInterface NodeKind = "interface"
	NodeTrait     NodeKind = "trait"
	NodeFunction  NodeKind = "function"
	// NodeExternal is referenced by an edge but not declared in the analyzed sources.
	NodeExternal NodeKind = "external"
)

// Node represents a code entity with its source location.
type Node struct {
	ID        string   `json:"id"`         // Qualified name (e.g., "App\Http", "App\Http\Kernel")
	Kind      NodeKind `json:"kind"`       // Type of node
	Package   string   `json:"package"`    // Declaring namespace, "+global" for the global one
	File      string   `json:"file"`       // File of the first declaration
	StartLine int      `json:"start_line"` // Start line number (1-indexed)
	EndLine   int      `json:"end_line"`   // End line number (1-indexed)
}

// EdgeType represents the type of relationship between nodes.
type EdgeType string

const (
	EdgeExtends    EdgeType = "extends"    // Class extends class, interface extends interface
	EdgeImplements EdgeType = "implements" // Class implements interface
	EdgeImports    EdgeType = "imports"    // Package imports a name from package
	EdgeDepends    EdgeType = "depends"    // Package calls or instantiates into package
)

// IsPackageEdge reports whether the edge connects two packages.
func (t EdgeType) IsPackageEdge() bool {
	return t == EdgeImports || t == EdgeDepends
}

// Edge represents a relationship between two code entities.
type Edge struct {
	From     string    `json:"from"`     // Source node ID
	To       string    `json:"to"`       // Target node ID
	Type     EdgeType  `json:"type"`     // Relationship type
	Location *Location `json:"location"` // Where relationship occurs
}

// Location represents the source location of a relationship.
type Location struct {
	File string `json:"file"`
	Line int    `json:"line"`
}

// GraphData is the flat form of a graph, as built from a registry and
// as exported to storage.
type GraphData struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}
