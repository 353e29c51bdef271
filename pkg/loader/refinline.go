package loader

import (
	"github.com/cloudify-tosca/blueprint/pkg/errdef"
	"github.com/cloudify-tosca/blueprint/pkg/resolver"
	"github.com/cloudify-tosca/blueprint/pkg/stringutil"
)

// refKey is the sole key a {ref: <name>} leaf is expected to carry.
const refKey = "ref"

// InlineRefs recursively walks tree and, in every mapping with a string
// "ref" key, replaces that key's value (the resource name) with the raw text
// fetched from the resolved resource; the mapping itself stays in place.
// Sibling keys alongside "ref" are preserved but irrelevant, per spec §4.3. pathContext is the URL of the document tree belongs to, used to
// resolve relative ref names.
func InlineRefs(tree any, pathContext string, res *resolver.Resolver, fetcher Fetcher) error {
	switch v := tree.(type) {
	case map[string]any:
		for key, value := range v {
			if key == refKey {
				name, ok := value.(string)
				if !ok {
					continue
				}
				raw, err := applyRef(name, pathContext, res, fetcher)
				if err != nil {
					return err
				}
				v[key] = raw
				continue
			}
			if err := InlineRefs(value, pathContext, res, fetcher); err != nil {
				return err
			}
		}
	case []any:
		for _, item := range v {
			if err := InlineRefs(item, pathContext, res, fetcher); err != nil {
				return err
			}
		}
	}
	return nil
}

func applyRef(name, pathContext string, res *resolver.Resolver, fetcher Fetcher) (string, error) {
	refURL, err := res.Resolve(name, pathContext, 31)
	if err != nil {
		return "", err
	}
	data, err := fetcher.Fetch(refURL)
	if err != nil {
		return "", errdef.NewLogicError(31,
			"Failed on ref - Unable to open file %s (searched for %s)", name, refURL)
	}
	return stringutil.StripANSI(string(data)), nil
}
