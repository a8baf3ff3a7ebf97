// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/tfctl/objdiff/internal/command"
	"github.com/tfctl/objdiff/internal/meta"
)

// Extras holds hand written material keyed by subcommand name.
type Extras map[string]struct {
	Description string    `yaml:"description"`
	Examples    []Example `yaml:"examples"`
	Notes       []string  `yaml:"notes,omitempty"`
}

type Example struct {
	Command     string `yaml:"command"`
	Description string `yaml:"description"`
}

type Flag struct {
	Syntax      string
	Description string
	Default     string
	Env         string
}

type TemplateData struct {
	ID          string
	Short       string
	Description string
	Usage       string
	Flags       []Flag
	Examples    []Example
	Notes       []string
	Date        string
	Version     string
}

const page = `# objdiff {{ .ID }}

{{ .Short }}

` + "```" + `
{{ .Usage }}
` + "```" + `
{{ with .Description }}
{{ . }}
{{ end }}
## Flags

| Flag | Description | Default | Env |
|------|-------------|---------|-----|
{{ range .Flags }}| ` + "`{{ .Syntax }}`" + ` | {{ .Description }} | {{ .Default }} | {{ .Env }} |
{{ end }}{{ if .Examples }}
## Examples
{{ range .Examples }}
{{ .Description }}

` + "```" + `
{{ .Command }}
` + "```" + `
{{ end }}{{ end }}{{ if .Notes }}
## Notes
{{ range .Notes }}
- {{ . }}{{ end }}
{{ end }}
_Generated {{ .Date }} for version {{ .Version }}._
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: docsgen DOCS_DIR")
		os.Exit(2)
	}
	docs := os.Args[1]

	extras := Extras{}
	data, err := os.ReadFile(filepath.Join(docs, "examples.yaml"))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}
	if err := yaml.Unmarshal(data, &extras); err != nil {
		panic(err)
	}

	tmpl := template.Must(template.New("page").Parse(page))
	folder := filepath.Join(docs, "commands")
	if err := os.MkdirAll(folder, 0o755); err != nil {
		panic(err)
	}

	app := command.NewApp(meta.Meta{})
	for _, sub := range app.Commands {
		extra := extras[sub.Name]
		metadata := TemplateData{
			ID:          sub.Name,
			Short:       sub.Usage,
			Description: strings.TrimSpace(extra.Description),
			Usage:       sub.UsageText,
			Flags:       flagsOf(sub),
			Examples:    extra.Examples,
			Notes:       extra.Notes,
			Date:        time.Now().Format("January 2, 2006"),
			Version:     getVersion(),
		}

		name := filepath.Join(folder, sub.Name+".md")
		file, err := os.Create(name)
		if err != nil {
			panic(err)
		}
		fmt.Println("Generating", name)
		if err := tmpl.Execute(file, metadata); err != nil {
			panic(err)
		}
		file.Close()
	}
}

// flagsOf describes the flags of cmd in the order the help text shows them.
func flagsOf(cmd *cli.Command) []Flag {
	var flags []Flag
	for _, f := range cmd.Flags {
		var syntax []string
		for _, n := range f.Names() {
			if len(n) == 1 {
				syntax = append(syntax, "-"+n)
			} else {
				syntax = append(syntax, "--"+n)
			}
		}

		out := Flag{Syntax: strings.Join(syntax, ", ")}
		if d, ok := f.(cli.DocGenerationFlag); ok {
			out.Description = d.GetUsage()
			if d.TakesValue() {
				out.Syntax += " VALUE"
				out.Default = d.GetDefaultText()
			}
			out.Env = strings.Join(d.GetEnvVars(), ", ")
		}
		flags = append(flags, out)
	}
	return flags
}

// getVersion returns the version string from git tags, stripping the leading
// "v" prefix. Falls back to "dev" if git describe fails.
func getVersion() string {
	out, err := exec.Command("git", "describe", "--tags", "--abbrev=0").Output()
	if err != nil {
		return "dev"
	}

	version := strings.TrimSpace(string(out))
	return strings.TrimPrefix(version, "v")
}
