package hcl_adapter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/tickgrid/internal/config"
	"github.com/specialistvlad/tickgrid/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct {
	// environ supplies the `env` variable; os.Environ when nil.
	environ func() []string
}

var _ config.Loader = (*Loader)(nil)

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{environ: os.Environ}
}

// Load orchestrates the entire HCL configuration loading process. It is
// agnostic to the origin of the paths and parses any valid block from any
// file. The app, runner and order blocks may appear at most once across all
// files; phase and plugin labels must be unique.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, config.Converter, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	model := config.NewModel()
	conv := NewConverter()

	hclFiles, err := l.findAllHCLFiles(paths)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("Discovered HCL files.", "count", len(hclFiles))

	evalCtx, err := l.evalContext(conv)
	if err != nil {
		return nil, nil, err
	}

	parser := hclparse.NewParser()
	var seenApp, seenRunner, seenOrder string

	for _, file := range hclFiles {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &root)
		if diags.HasErrors() {
			return nil, nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		// Translate and merge all discovered blocks into the model.
		if root.App != nil {
			if err := once("app", &seenApp, file); err != nil {
				return nil, nil, err
			}
			model.App = l.translateApp(root.App)
		}
		if root.Runner != nil {
			if err := once("runner", &seenRunner, file); err != nil {
				return nil, nil, err
			}
			if model.Runner, err = l.translateRunner(root.Runner); err != nil {
				return nil, nil, fmt.Errorf("%s: %w", file, err)
			}
		}
		if root.Order != nil {
			if err := once("order", &seenOrder, file); err != nil {
				return nil, nil, err
			}
			if model.Order, err = l.translateOrder(ctx, root.Order); err != nil {
				return nil, nil, fmt.Errorf("%s: %w", file, err)
			}
		}
		for _, phase := range root.Phases {
			if _, dup := model.Phases[phase.Label]; dup {
				return nil, nil, fmt.Errorf("%s: phase %q is configured more than once", file, phase.Label)
			}
			settings, err := l.translatePhase(phase)
			if err != nil {
				return nil, nil, fmt.Errorf("%s: %w", file, err)
			}
			model.Phases[phase.Label] = settings
		}
		for _, plugin := range root.Plugins {
			if _, dup := model.Plugins[plugin.Name]; dup {
				return nil, nil, fmt.Errorf("%s: plugin %q is configured more than once", file, plugin.Name)
			}
			model.Plugins[plugin.Name] = l.translatePlugin(plugin, evalCtx, conv)
		}
	}

	logger.Debug("HCL loading complete.", "files", len(hclFiles), "phases", len(model.Phases), "plugins", len(model.Plugins), "inserts", len(model.Order.Inserts))
	return model, conv, nil
}

func once(block string, seenIn *string, file string) error {
	if *seenIn != "" {
		return fmt.Errorf("%s: duplicate %q block (first defined in %s)", file, block, *seenIn)
	}
	*seenIn = file
	return nil
}

// evalContext exposes the process environment as the `env` object.
func (l *Loader) evalContext(conv *Converter) (*hcl.EvalContext, error) {
	environ := l.environ
	if environ == nil {
		environ = os.Environ
	}
	vars := make(map[string]string)
	for _, kv := range environ() {
		if k, v, ok := strings.Cut(kv, "="); ok && k != "" {
			vars[k] = v
		}
	}
	env, err := conv.ToCtyValue(vars)
	if err != nil {
		return nil, fmt.Errorf("failed to convert environment: %w", err)
	}
	return &hcl.EvalContext{Variables: map[string]cty.Value{"env": env}}, nil
}

// findAllHCLFiles walks all given paths and returns a sorted, de-duplicated
// list of all .hcl files found.
func (l *Loader) findAllHCLFiles(paths []string) ([]string, error) {
	var allFiles []string
	seen := make(map[string]struct{})
	add := func(p string) {
		if _, wasSeen := seen[p]; !wasSeen {
			allFiles = append(allFiles, p)
			seen[p] = struct{}{}
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue // It's not an error if a configured path doesn't exist.
			}
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}

		if !info.IsDir() {
			if filepath.Ext(path) == ".hcl" {
				add(path)
			}
			continue
		}
		err = filepath.Walk(path, func(p string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !info.IsDir() && filepath.Ext(p) == ".hcl" {
				add(p)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	sort.Strings(allFiles)
	return allFiles, nil
}
