package plugin

import (
	"fmt"
	"net/http"

	"mcphub/internal/catalog"
)

// Mount validates d and registers its routes on mux under /mcp/<name>. A
// Register hook that panics, for instance on a conflicting pattern, is
// reported as a LoadError.
func Mount(mux *http.ServeMux, d Descriptor) (ns *Namespace, err error) {
	if err := Validate(d); err != nil {
		return nil, err
	}

	ns = NewNamespace(catalog.NamespacePath(d.Name, ""), mux)
	if err := register(ns, d); err != nil {
		return nil, err
	}
	return ns, nil
}

func register(ns *Namespace, d Descriptor) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = NewLoadError(d.Name, fmt.Sprintf("register failed: %v", r), nil)
		}
	}()
	d.Register(ns)
	return nil
}
