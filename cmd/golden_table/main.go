// Command golden_table lists the golden frames recorded by the integration
// tests as a markdown table, either on stdout or spliced into a README
// between marker comments.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/urfave/cli"
)

const (
	startMarker = "<!-- GOLDEN:START -->"
	endMarker   = "<!-- GOLDEN:END -->"
)

type golden struct {
	Name     string
	Hash     string
	Snapshot string // empty when no PNG was saved
}

func main() {
	app := cli.NewApp()
	app.Name = "golden_table"
	app.Usage = "Render the golden frame table of the integration tests"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "testdata",
			Usage: "Integration testdata directory",
			Value: filepath.Join("test", "integration", "testdata"),
		},
		cli.StringFlag{
			Name:  "readme",
			Usage: "README to update in place, stdout when empty",
		},
		cli.IntFlag{
			Name:  "width",
			Usage: "Thumbnail width in pixels",
			Value: 128,
		},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		slog.Error("Failed to render golden table", "error", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	dir := c.String("testdata")
	items, err := collect(dir)
	if err != nil {
		return err
	}
	table := renderTable(items, filepath.ToSlash(dir), c.Int("width"))

	readme := c.String("readme")
	if readme == "" {
		fmt.Print(table)
		return nil
	}

	content, err := os.ReadFile(readme)
	if err != nil {
		return err
	}
	updated, err := splice(string(content), table)
	if err != nil {
		return fmt.Errorf("%s: %w", readme, err)
	}
	return os.WriteFile(readme, []byte(updated), 0o644)
}

// collect pairs every <name>.md5 in dir with snapshots/<name>.png.
func collect(dir string) ([]golden, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var items []golden
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".md5" {
			continue
		}
		hash, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}

		name := strings.TrimSuffix(e.Name(), ".md5")
		item := golden{Name: name, Hash: strings.TrimSpace(string(hash))}
		if _, err := os.Stat(filepath.Join(dir, "snapshots", name+".png")); err == nil {
			item.Snapshot = name + ".png"
		}
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}

func renderTable(items []golden, base string, width int) string {
	var b strings.Builder
	b.WriteString("| ROM | Frame | MD5 |\n")
	b.WriteString("|-----|-------|-----|\n")
	for _, it := range items {
		frame := "-"
		if it.Snapshot != "" {
			src := path.Join(base, "snapshots", url.PathEscape(it.Snapshot))
			frame = fmt.Sprintf(`<img src="%s" width="%d" />`, src, width)
		}
		fmt.Fprintf(&b, "| %s | %s | `%s` |\n", it.Name, frame, it.Hash)
	}
	return b.String()
}

// splice replaces whatever sits between the markers with table.
func splice(content, table string) (string, error) {
	start := strings.Index(content, startMarker)
	end := strings.Index(content, endMarker)
	if start == -1 || end == -1 || end < start {
		return "", errors.New("golden table markers not found")
	}
	return content[:start+len(startMarker)] + "\n" + table + content[end:], nil
}
