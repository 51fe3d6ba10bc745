package graph

import (
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"
)

// normalizeValue converts driver-native values into plain Go values.
// Nodes become maps carrying "id" plus their properties, relationships
// additionally carry "type", "start" and "end". Lists and maps are
// normalized recursively; scalars pass through unchanged.
func normalizeValue(v any) any {
	switch val := v.(type) {
	case dbtype.Node:
		return normalizeNode(val)
	case *dbtype.Node:
		if val == nil {
			return nil
		}
		return normalizeNode(*val)
	case dbtype.Relationship:
		return normalizeRelationship(val)
	case *dbtype.Relationship:
		if val == nil {
			return nil
		}
		return normalizeRelationship(*val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalizeValue(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = normalizeValue(item)
		}
		return out
	default:
		return v
	}
}

func normalizeNode(n dbtype.Node) map[string]any {
	out := make(map[string]any, len(n.Props)+1)
	out["id"] = n.Id
	for k, v := range n.Props {
		out[k] = normalizeValue(v)
	}
	return out
}

func normalizeRelationship(r dbtype.Relationship) map[string]any {
	out := make(map[string]any, len(r.Props)+4)
	out["id"] = r.Id
	out["type"] = r.Type
	out["start"] = r.StartId
	out["end"] = r.EndId
	for k, v := range r.Props {
		out[k] = normalizeValue(v)
	}
	return out
}
