// Package resolver implements the Resource Resolver: turning a logical
// resource name into a fetchable URL using an alias map, an explicit scheme,
// local filesystem existence, the current document's context, or a global
// resources base — in that order, first match wins.
package resolver

import (
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cloudify-tosca/blueprint/pkg/constants"
	"github.com/cloudify-tosca/blueprint/pkg/errdef"
	"github.com/cloudify-tosca/blueprint/pkg/fileutil"
	"github.com/cloudify-tosca/blueprint/pkg/logger"
)

var log = logger.New("resolver:resolver")

// AliasMap is a logical-name -> physical-name rewrite table. The caller is
// responsible for merging alias_mapping_dict and alias_mapping_url per spec
// §6 (dict overrides url on key conflict) before constructing one.
type AliasMap map[string]string

// Apply rewrites name if an alias entry exists for it, else returns it unchanged.
func (m AliasMap) Apply(name string) string {
	if v, ok := m[name]; ok {
		return v
	}
	return name
}

// Prober checks whether a URL can be fetched. The default probes over HTTP(S)
// with an open-and-close; a host application may substitute its own (e.g. to
// avoid real network calls under test, or to support additional schemes).
type Prober interface {
	Exists(url string) bool
}

// HTTPProber is the default Prober: a HEAD-like GET with a short timeout,
// treating any failure (including transient network errors) as "not found".
type HTTPProber struct {
	Client *http.Client
}

// NewHTTPProber returns an HTTPProber with a conservative default timeout.
func NewHTTPProber() *HTTPProber {
	return &HTTPProber{Client: &http.Client{Timeout: 10 * time.Second}}
}

func (p *HTTPProber) Exists(rawURL string) bool {
	if strings.HasPrefix(rawURL, "file:") {
		u, err := url.Parse(rawURL)
		if err != nil {
			return false
		}
		return fileutil.FileExists(u.Path)
	}
	if !strings.HasPrefix(rawURL, "http:") && !strings.HasPrefix(rawURL, "https:") {
		return true
	}
	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Get(rawURL)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode < 400
}

// Resolver resolves logical resource names to fetchable URLs.
type Resolver struct {
	Alias            AliasMap
	ResourcesBaseURL string
	Prober           Prober
}

// New returns a Resolver with the given alias map and global resources base.
// A nil Prober defaults to HTTPProber.
func New(alias AliasMap, resourcesBaseURL string, prober Prober) *Resolver {
	if alias == nil {
		alias = AliasMap{}
	}
	if prober == nil {
		prober = NewHTTPProber()
	}
	return &Resolver{Alias: alias, ResourcesBaseURL: resourcesBaseURL, Prober: prober}
}

// hasKnownScheme reports whether name already carries one of the accepted
// literal URL schemes.
func hasKnownScheme(name string) bool {
	for _, scheme := range constants.URLSchemes {
		if strings.HasPrefix(name, scheme) {
			return true
		}
	}
	return false
}

// Resolve turns a logical name into a URL, given the current document's
// context URL (empty if none). errCode selects which LogicError code to
// raise on failure: the import graph passes 13 and ref inlining passes 31.
func (r *Resolver) Resolve(name, currentContextURL string, errCode int) (string, error) {
	name = r.Alias.Apply(name)

	if hasKnownScheme(name) {
		return name, nil
	}

	if _, err := os.Stat(name); err == nil {
		abs, err := filepath.Abs(name)
		if err != nil {
			abs = name
		}
		log.Printf("resolved %q to local file %q", name, abs)
		return "file://" + filepath.ToSlash(abs), nil
	}

	if currentContextURL != "" {
		candidate := joinRelative(currentContextURL, name)
		if r.Prober.Exists(candidate) {
			return candidate, nil
		}
	}

	if r.ResourcesBaseURL != "" {
		return r.ResourcesBaseURL + name, nil
	}

	return "", errdef.NewLogicError(errCode,
		"Failed on resolving resource - no suitable location found for %s", name)
}

// joinRelative joins name against the directory of base, the same way the
// original parser resolves imports relative to the importing document.
func joinRelative(base, name string) string {
	idx := strings.LastIndex(base, "/")
	if idx < 0 {
		return name
	}
	return base[:idx+1] + name
}
