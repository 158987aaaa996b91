package server

import (
	"context"
	"sync"

	"github.com/JeffreyRichter/mcpgrpc/mcp"
)

// toolDefinitionCache is the server-side name→Tool map populated lazily on
// the first ListTools or CallTool for an uncached name (spec §4.D "Server-
// side tool-definition cache": "no TTL; server considers it authoritative
// for the lifetime of the servicer").
type toolDefinitionCache struct {
	mu    sync.Mutex
	tools map[string]mcp.Tool
}

func newToolDefinitionCache() *toolDefinitionCache {
	return &toolDefinitionCache{tools: make(map[string]mcp.Tool)}
}

// replaceAll overwrites the cache with a freshly listed catalog, used after
// ListTools and after a CallTool cache-miss refill.
func (c *toolDefinitionCache) replaceAll(tools []mcp.Tool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tools = make(map[string]mcp.Tool, len(tools))
	for _, t := range tools {
		c.tools[t.Name] = t
	}
}

func (c *toolDefinitionCache) get(name string) (mcp.Tool, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.tools[name]
	return t, ok
}

// lookup returns the cached tool, refilling once from the registry on a
// miss (spec §4.D CallTool step 3: "cache-miss triggers a registry list to
// refill").
func (c *toolDefinitionCache) lookup(ctx context.Context, reg Registry, name string) (mcp.Tool, bool, error) {
	if t, ok := c.get(name); ok {
		return t, true, nil
	}
	tools, err := reg.ListTools(ctx)
	if err != nil {
		return mcp.Tool{}, false, err
	}
	c.replaceAll(tools)
	t, ok := c.get(name)
	return t, ok, nil
}
