package cli

import (
	"github.com/roach88/ankh/internal/loader"
	"github.com/roach88/ankh/internal/manifest"
	"github.com/roach88/ankh/internal/registry"
)

// loadRegistry builds a registry with the default loader bindings and
// registers the manifest at path.
func loadRegistry(path string) (*registry.Store, error) {
	entries, err := manifest.Load(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load manifest", err)
	}

	reg := registry.New()
	reg.Bind("file", loader.File{})
	reg.Bind("factory", loader.Factory{})
	reg.Bind("remote", loader.Remote{})

	if err := reg.RegisterManifest(entries); err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to register manifest", err)
	}
	return reg, nil
}
