package mcp

// ToolReturn is the explicit sum type a Registry's CallTool produces,
// replacing the distilled spec's duck-typed "tuple | mapping | sequence"
// return shape (spec §9: "re-architect as an explicit sum type ToolReturn =
// Structured(Map) | Unstructured(Seq<Content>) | Both(Seq<Content>, Map)
// decided at the registry boundary"). Go's static typing makes the
// boundary itself the natural place to require callers to already commit
// to one of the three shapes:
//
//   - Unstructured:  Content set,      Structured nil
//   - Structured:    Content nil,      Structured set
//   - Both:          Content set,      Structured set
type ToolReturn struct {
	Content    []ContentBlock
	Structured map[string]any
}
