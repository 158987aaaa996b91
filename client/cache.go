package client

import (
	"github.com/JeffreyRichter/mcpgrpc/internal/ttlcache"
	"github.com/JeffreyRichter/mcpgrpc/mcp"
)

// catalogCaches holds the three client-side catalog caches (spec §4.F
// Construction: "creates caches for tools, resources, and resource-
// templates"). Each fires its own onExpire callback so the session can
// fabricate the right synthetic list_changed notification.
type catalogCaches struct {
	tools             *ttlcache.Entry[[]mcp.Tool]
	resources         *ttlcache.Entry[[]mcp.Resource]
	resourceTemplates *ttlcache.Entry[[]mcp.ResourceTemplate]
}

func newCatalogCaches(onToolsExpire, onResourcesExpire, onResourceTemplatesExpire func()) *catalogCaches {
	return &catalogCaches{
		tools:             ttlcache.NewEntry[[]mcp.Tool](onToolsExpire),
		resources:         ttlcache.NewEntry[[]mcp.Resource](onResourcesExpire),
		resourceTemplates: ttlcache.NewEntry[[]mcp.ResourceTemplate](onResourceTemplatesExpire),
	}
}

// cancelAll stops every pending expiry timer (spec §4.F close: "Cancel all
// catalog cache timers; close the channel").
func (c *catalogCaches) cancelAll() {
	c.tools.Cancel()
	c.resources.Cancel()
	c.resourceTemplates.Cancel()
}
