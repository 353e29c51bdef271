// Package importgraph implements the Import Graph Builder: a DFS over
// imports lists producing a deduplicated, depth-ordered list of imported
// documents, each version-checked against the root.
package importgraph

import (
	"fmt"

	"github.com/cloudify-tosca/blueprint/pkg/constants"
	"github.com/cloudify-tosca/blueprint/pkg/errdef"
	"github.com/cloudify-tosca/blueprint/pkg/loader"
	"github.com/cloudify-tosca/blueprint/pkg/logger"
	"github.com/cloudify-tosca/blueprint/pkg/resolver"
	"github.com/cloudify-tosca/blueprint/pkg/stringutil"
)

var log = logger.New("importgraph:importgraph")

// ImportedDoc is one document reached while walking the import graph,
// already fetched and parsed.
type ImportedDoc struct {
	URL  string
	Tree map[string]any
}

// BuildOrderedImports performs the DFS traversal described in spec §4.4,
// starting from rootTree at rootURL (rootURL may be empty when the root was
// parsed from an in-memory byte string with no location context). Each URL
// appears at most once in the returned list; the root itself is excluded.
// rootVersion is the root document's tosca_definitions_version; any imported
// document that declares a different version fails with LogicError(28).
func BuildOrderedImports(
	rootTree map[string]any,
	rootURL string,
	rootVersion string,
	alias resolver.AliasMap,
	res *resolver.Resolver,
	fetcher loader.Fetcher,
) ([]*ImportedDoc, error) {
	var ordered []*ImportedDoc
	seen := map[string]bool{}

	var visit func(tree map[string]any, currentURL string) error
	visit = func(tree map[string]any, currentURL string) error {
		if currentURL != "" {
			ordered = append(ordered, &ImportedDoc{URL: currentURL, Tree: tree})
			seen[currentURL] = true
		}

		importsRaw, ok := tree[constants.SectionImports]
		if !ok {
			return nil
		}
		importsList, ok := importsRaw.([]any)
		if !ok {
			return nil
		}

		for _, item := range importsList {
			name, ok := item.(string)
			if !ok {
				continue
			}
			name = alias.Apply(name)
			importURL, err := res.Resolve(name, currentURL, 13)
			if err != nil {
				le, ok := err.(*errdef.LogicError)
				if ok {
					le.WithFailedImport(name)
				}
				return err
			}
			if seen[importURL] {
				continue
			}

			log.Printf("fetching import %s -> %s", name, importURL)
			importedTree, err := loader.FetchAndLoad(fetcher, importURL,
				fmt.Sprintf("Failed to parse import %s (via %s)", name, importURL))
			if err != nil {
				if le, ok := err.(*errdef.LogicError); ok {
					le.WithFailedImport(importURL)
				}
				return err
			}

			if v, ok := importedTree[constants.SectionVersion]; ok {
				if vs := stringutil.ParseVersionValue(v); vs != "" && vs != rootVersion {
					return errdef.NewLogicError(28,
						"An import uses a different tosca_definitions_version than the one "+
							"defined in the main blueprint's file: main blueprint's file version "+
							"is %s, import with different version is %s, version of problematic "+
							"import is %s", rootVersion, importURL, vs)
				}
			}

			if err := visit(importedTree, importURL); err != nil {
				return err
			}
		}
		return nil
	}

	if err := visit(rootTree, rootURL); err != nil {
		return nil, err
	}

	if rootURL != "" && len(ordered) > 0 {
		ordered = ordered[1:]
	}
	return ordered, nil
}
