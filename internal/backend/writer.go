package backend

import (
	"os"
	"path/filepath"
	"sort"

	"tlog.app/go/errors"

	"github.com/funvibe/sophia/internal/buildcache"
	"github.com/funvibe/sophia/internal/config"
	"github.com/funvibe/sophia/internal/pipeline"
	"github.com/funvibe/sophia/internal/vm"
)

// UnitWriter renders every unit into Dir as <Class>.j. With a Cache set
// the rendered units are also stored under CacheDigest.
type UnitWriter struct {
	Dir   string
	Cache *buildcache.Cache
}

// CacheDigest keys cached units by the tree and the project settings
// that change the generated code.
func CacheDigest(source []byte, p *config.Project) string {
	if p == nil {
		p = config.DefaultProject()
	}
	return buildcache.Digest(source, p.CodegenSettings()...)
}

func (w *UnitWriter) Name() string { return "writer" }

func (w *UnitWriter) Run(ctx *pipeline.PipelineContext) error {
	rendered := RenderUnits(ctx.Units)

	files, err := WriteRendered(w.dir(ctx), rendered)
	if err != nil {
		return err
	}

	if w.Cache != nil {
		id, err := w.Cache.Put(ctx.Ctx, CacheDigest(ctx.Source, ctx.Project), rendered)
		if err != nil {
			return errors.Wrap(err, "cache units")
		}
		ctx.Log().Printw("cached", "build", id)
	}

	ctx.Log().Printw("written", "files", files)

	return nil
}

func (w *UnitWriter) dir(ctx *pipeline.PipelineContext) string {
	if w.Dir != "" {
		return w.Dir
	}
	if ctx.Project != nil {
		return ctx.Project.Output
	}
	return "."
}

// RenderUnits maps each class name to its assembler text.
func RenderUnits(units []*vm.Unit) map[string]string {
	out := make(map[string]string, len(units))
	for _, u := range units {
		out[u.Name] = vm.Render(u)
	}
	return out
}

// WriteRendered writes one unit file per class and returns the paths in
// class order.
func WriteRendered(dir string, rendered map[string]string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create output dir")
	}

	classes := make([]string, 0, len(rendered))
	for class := range rendered {
		classes = append(classes, class)
	}
	sort.Strings(classes)

	files := make([]string, 0, len(classes))
	for _, class := range classes {
		path := filepath.Join(dir, class+config.UnitFileExt)
		if err := os.WriteFile(path, []byte(rendered[class]), 0o644); err != nil {
			return nil, errors.Wrap(err, "write %s", class)
		}
		files = append(files, path)
	}

	return files, nil
}
