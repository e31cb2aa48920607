package module

import "github.com/waifu-lang/waifu/lang/values"

// importer adapts one module's evaluation to eval.Importer: it remembers
// the directory the owning module's source lives in, so a relative import
// encountered while evaluating it resolves against the right base.
type importer struct {
	manager *Manager
	fromDir string
}

func (imp *importer) Import(parts []string, line int) (map[string]values.Value, error) {
	mod, err := imp.manager.importModule(parts, imp.fromDir, line)
	if err != nil {
		return nil, err
	}
	return mod.Exports, nil
}
