// Package merger implements the Merger: folding the ordered list of imported
// documents into the root document using per-key union policies.
package merger

import (
	"strings"

	"github.com/cloudify-tosca/blueprint/pkg/constants"
	"github.com/cloudify-tosca/blueprint/pkg/errdef"
	"github.com/cloudify-tosca/blueprint/pkg/importgraph"
	"github.com/cloudify-tosca/blueprint/pkg/loader"
	"github.com/cloudify-tosca/blueprint/pkg/logger"
	"github.com/cloudify-tosca/blueprint/pkg/resolver"
)

var log = logger.New("merger:merger")

// Combine folds imports (in DFS order, as produced by importgraph) into
// rootTree, applying the Ref Inliner to each document against its own URL
// context before folding it in. The returned tree has no "imports" key.
func Combine(
	rootTree map[string]any,
	rootURL string,
	imports []*importgraph.ImportedDoc,
	res *resolver.Resolver,
	fetcher loader.Fetcher,
) (map[string]any, error) {
	if _, ok := rootTree[constants.SectionVersion]; !ok {
		return nil, errdef.NewLogicError(27,
			"%s field must appear in the main blueprint file", constants.SectionVersion)
	}

	combined := deepCopy(rootTree).(map[string]any)
	if err := loader.InlineRefs(combined, rootURL, res, fetcher); err != nil {
		return nil, err
	}

	for _, doc := range imports {
		tree := deepCopy(doc.Tree).(map[string]any)
		delete(tree, constants.SectionVersion)

		if err := loader.InlineRefs(tree, doc.URL, res, fetcher); err != nil {
			return nil, err
		}

		for key, value := range tree {
			if key == constants.SectionImports {
				continue
			}
			existing, present := combined[key]
			if !present {
				combined[key] = value
				continue
			}
			switch {
			case constants.MergeNoOverrideSections[key]:
				if err := mergeNoOverride(value, existing, key, nil); err != nil {
					return nil, err
				}
			default:
				return nil, errdef.NewLogicError(3, "Failed on import: non-mergeable field %s", key)
			}
		}
	}

	delete(combined, constants.SectionImports)
	log.Printf("combined document has %d top-level keys", len(combined))
	return combined, nil
}

// mergeNoOverride merges the entries of from into to, erroring on any key
// collision. Both from and to must be map[string]any (a section like
// node_types or plugins); a non-map section of this kind is a schema defect
// caught earlier by the Schema Validator.
func mergeNoOverride(from, to any, topLevelKey string, path []string) error {
	fromMap, ok := from.(map[string]any)
	if !ok {
		return nil
	}
	toMap, ok := to.(map[string]any)
	if !ok {
		return nil
	}
	for key, value := range fromMap {
		if _, exists := toMap[key]; !exists {
			toMap[key] = value
			continue
		}
		conflictPath := append(append([]string{}, path...), key)
		return errdef.NewLogicError(4,
			"Failed on import: Could not merge %s due to conflict on path %s",
			topLevelKey, strings.Join(conflictPath, " --> "))
	}
	return nil
}

// deepCopy recursively copies a parsed-document tree so that derivation
// passes never alias into an originally-imported structure.
func deepCopy(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = deepCopy(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = deepCopy(val)
		}
		return out
	default:
		return v
	}
}
