package router

// Route is the destination chosen for a query.
type Route string

const (
	RouteKnowledgeBase Route = "knowledge_base"
	RouteToolCall      Route = "tool_call"
	RouteDirect        Route = "direct"
)

func parseRoute(s string) (Route, bool) {
	switch Route(s) {
	case RouteKnowledgeBase, RouteToolCall, RouteDirect:
		return Route(s), true
	}
	return "", false
}
