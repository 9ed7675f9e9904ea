package auth

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

type grantKind int

const (
	grantNone grantKind = iota
	grantFlat
	grantTree
)

// PermissionGrant is the set of capabilities attached to a role. On the wire
// it takes one of two shapes: a flat array of capability strings, where the
// literal "*" grants everything, or a three-level section/area/action tree
// of booleans with an optional top-level "all" switch. Older roles use the
// flat shape; newer roles should use the tree. Both decode into the same
// tagged value so the evaluator never inspects raw JSON.
type PermissionGrant struct {
	kind grantKind
	all  bool
	flat map[string]struct{}
	tree map[string]map[string]map[string]bool
}

// FlatGrant builds a legacy flat-set grant.
func FlatGrant(capabilities ...string) PermissionGrant {
	g := PermissionGrant{kind: grantFlat, flat: make(map[string]struct{}, len(capabilities))}
	for _, c := range capabilities {
		g.flat[c] = struct{}{}
	}
	return g
}

// TreeGrant builds a granular section/area/action grant.
func TreeGrant(tree map[string]map[string]map[string]bool) PermissionGrant {
	return PermissionGrant{kind: grantTree, tree: tree}
}

// FullAccessGrant builds a tree grant with the universal "all" switch set.
func FullAccessGrant() PermissionGrant {
	return PermissionGrant{kind: grantTree, all: true}
}

// IsZero reports whether the grant is absent (role record carried no
// permissions field, or it was null).
func (g PermissionGrant) IsZero() bool {
	return g.kind == grantNone
}

func (g PermissionGrant) hasLiteral(capability string) bool {
	if g.kind != grantFlat {
		return false
	}
	_, ok := g.flat[capability]
	return ok
}

// lookup resolves a granular path against the tree. The second return value
// distinguishes "present" from "missing"; missing intermediate keys are not
// an error, they simply deny.
func (g PermissionGrant) lookup(section, area, action string) (bool, bool) {
	if g.kind != grantTree {
		return false, false
	}
	areas, ok := g.tree[section]
	if !ok {
		return false, false
	}
	actions, ok := areas[area]
	if !ok {
		return false, false
	}
	allowed, ok := actions[action]
	return allowed, ok
}

// UnmarshalJSON accepts either wire shape. Within a tree, branches that are
// not objects and leaves that are not booleans are dropped rather than
// rejected; a malformed branch denies, it does not grant.
func (g *PermissionGrant) UnmarshalJSON(data []byte) error {
	*g = PermissionGrant{}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	switch trimmed[0] {
	case '[':
		var capabilities []string
		if err := json.Unmarshal(trimmed, &capabilities); err != nil {
			return fmt.Errorf("decode flat permission grant: %w", err)
		}
		g.kind = grantFlat
		g.flat = make(map[string]struct{}, len(capabilities))
		for _, c := range capabilities {
			g.flat[c] = struct{}{}
		}
		return nil

	case '{':
		var sections map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &sections); err != nil {
			return fmt.Errorf("decode permission grant: %w", err)
		}
		g.kind = grantTree
		g.tree = make(map[string]map[string]map[string]bool)
		for section, rawAreas := range sections {
			if section == "all" {
				var all bool
				if err := json.Unmarshal(rawAreas, &all); err == nil && all {
					g.all = true
				}
				continue
			}
			var areas map[string]json.RawMessage
			if err := json.Unmarshal(rawAreas, &areas); err != nil {
				continue
			}
			parsed := make(map[string]map[string]bool, len(areas))
			for area, rawActions := range areas {
				var actions map[string]json.RawMessage
				if err := json.Unmarshal(rawActions, &actions); err != nil {
					continue
				}
				leaf := make(map[string]bool, len(actions))
				for action, rawAllowed := range actions {
					var allowed bool
					if err := json.Unmarshal(rawAllowed, &allowed); err != nil {
						continue
					}
					leaf[action] = allowed
				}
				parsed[area] = leaf
			}
			g.tree[section] = parsed
		}
		return nil
	}

	return fmt.Errorf("permission grant must be an array or an object")
}

// MarshalJSON writes the grant back in its original shape.
func (g PermissionGrant) MarshalJSON() ([]byte, error) {
	switch g.kind {
	case grantFlat:
		capabilities := make([]string, 0, len(g.flat))
		for c := range g.flat {
			capabilities = append(capabilities, c)
		}
		sort.Strings(capabilities)
		return json.Marshal(capabilities)
	case grantTree:
		out := make(map[string]interface{}, len(g.tree)+1)
		if g.all {
			out["all"] = true
		}
		for section, areas := range g.tree {
			out[section] = areas
		}
		return json.Marshal(out)
	}
	return []byte("null"), nil
}
