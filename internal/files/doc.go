// Package files discovers the variable tables a run reads.
//
// Variable files are either listed explicitly in the configuration or found
// by expanding a glob in the data directory. Discovered files come back in
// natural order so that numbered tables keep their numeric sequence:
//
//	discovery := files.NewDiscovery(paths)
//	inputs, err := discovery.ResolveInputs(cfg.Inputs.VariableFiles, cfg.Inputs.VariableGlob)
package files
