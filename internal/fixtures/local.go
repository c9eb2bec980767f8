package fixtures

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/five82/nearby/internal/catalog"
	"github.com/five82/nearby/internal/reels"
)

//go:embed data/*.json
var embedded embed.FS

var _ Source = (*Local)(nil)

// Local reads fixtures from a directory, or from the copies built into the
// binary when no directory is given.
type Local struct {
	fsys fs.FS
	name string
}

// NewLocal returns a Local reading from dir. An empty dir selects the
// embedded fixtures.
func NewLocal(dir string) *Local {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		sub, err := fs.Sub(embedded, "data")
		if err != nil {
			// data/ is embedded at build time.
			panic(err)
		}
		return &Local{fsys: sub, name: "embedded"}
	}
	return &Local{fsys: os.DirFS(dir), name: dir}
}

// FetchCatalog implements Source.
func (l *Local) FetchCatalog(context.Context) ([]catalog.Entry, error) {
	var entries []catalog.Entry
	if err := l.read("catalog", &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// FetchVideos implements Source.
func (l *Local) FetchVideos(context.Context) ([]reels.VideoSource, error) {
	var videos []reels.VideoSource
	if err := l.read("reels", &videos); err != nil {
		return nil, err
	}
	return videos, nil
}

// FetchAds implements Source.
func (l *Local) FetchAds(context.Context) ([]reels.AdSource, error) {
	var ads []reels.AdSource
	if err := l.read("ads", &ads); err != nil {
		return nil, err
	}
	return ads, nil
}

// FetchTrending implements Source.
func (l *Local) FetchTrending(context.Context) ([]string, error) {
	var terms []string
	if err := l.read("trending", &terms); err != nil {
		return nil, err
	}
	return terms, nil
}

func (l *Local) read(name string, dest any) error {
	for _, ext := range []string{".json", ".yaml", ".yml"} {
		data, err := fs.ReadFile(l.fsys, name+ext)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", path.Join(l.name, name+ext), err)
		}
		if ext == ".json" {
			return decodeList(data, name, dest)
		}
		return decodeYAML(data, name, dest)
	}
	return fmt.Errorf("read %s: no %s.json, %s.yaml or %s.yml: %w", l.name, name, name, name, fs.ErrNotExist)
}

func decodeYAML(data []byte, name string, dest any) error {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	target := &node
	if len(node.Content) == 1 && node.Content[0].Kind == yaml.MappingNode {
		m := node.Content[0]
		target = nil
		for i := 0; i+1 < len(m.Content); i += 2 {
			if m.Content[i].Value == name {
				target = m.Content[i+1]
				break
			}
		}
		if target == nil {
			return fmt.Errorf("decode %s: mapping has no %q key", name, name)
		}
	}
	if err := target.Decode(dest); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}
