package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Moosa-Imran/Content-Machine-sub001/internal/presentation/graph"
	"github.com/Moosa-Imran/Content-Machine-sub001/internal/presentation/tui"
	"github.com/Moosa-Imran/Content-Machine-sub001/pkg/composer"
	"github.com/Moosa-Imran/Content-Machine-sub001/pkg/domain"
	"gopkg.in/yaml.v3"
)

// Output formats accepted by ShowFramework.
const (
	FormatJSON     = "json"
	FormatYAML     = "yaml"
	FormatMarkdown = "markdown"
)

// FrameworkService is the part of framework.Service the commands use.
type FrameworkService interface {
	Get(ctx context.Context) (domain.Framework, error)
	Save(ctx context.Context, candidate any) (domain.Framework, error)
	Reset(ctx context.Context) (domain.Framework, error)
}

// ShowFramework fetches the current framework and writes it in the given format.
// Markdown is rendered with glamour when pretty is set.
func ShowFramework(ctx context.Context, svc FrameworkService, w io.Writer, format string, pretty bool) error {
	fw, err := svc.Get(ctx)
	if err != nil {
		return err
	}
	return WriteFramework(w, fw, format, pretty)
}

// SaveFramework replaces the framework with the document at path ("-" reads in).
func SaveFramework(ctx context.Context, svc FrameworkService, path string, in io.Reader, w io.Writer) error {
	payload, err := ReadPayload(path, in)
	if err != nil {
		return err
	}
	fw, err := svc.Save(ctx, payload)
	if err != nil {
		return err
	}
	printSystemMessage(w, "Framework saved (%d templates).", fw.Total())
	return nil
}

// ResetFramework restores the defaults.
func ResetFramework(ctx context.Context, svc FrameworkService, w io.Writer) error {
	fw, err := svc.Reset(ctx)
	if err != nil {
		return err
	}
	printSystemMessage(w, "Framework reset to defaults (%d templates).", fw.Total())
	return nil
}

// GraphFramework writes a Mermaid diagram of the current framework.
func GraphFramework(ctx context.Context, svc FrameworkService, w io.Writer) error {
	fw, err := svc.Get(ctx)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, graph.GenerateMermaid(fw, nil))
	return err
}

// ScriptComposer composes scripts for the compose command.
type ScriptComposer interface {
	Compose(ctx context.Context, brief composer.Brief) (composer.Script, error)
}

// Compose writes a script for brief, as plain text or JSON.
func Compose(ctx context.Context, c ScriptComposer, brief composer.Brief, w io.Writer, asJSON bool) error {
	script, err := c.Compose(ctx, brief)
	if err != nil {
		return err
	}
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(script)
	}
	_, err = fmt.Fprintln(w, script.Text)
	return err
}

// WriteFramework encodes fw in format. Categories keep their enumeration order.
func WriteFramework(w io.Writer, fw domain.Framework, format string, pretty bool) error {
	switch strings.ToLower(format) {
	case FormatJSON, "":
		data, err := json.MarshalIndent(fw, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case FormatYAML, "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(frameworkNode(fw)); err != nil {
			return err
		}
		return enc.Close()
	case FormatMarkdown, "md":
		md := tui.FrameworkMarkdown(fw)
		if pretty {
			rendered, err := tui.NewRenderer()(md)
			if err == nil {
				md = rendered
			}
		}
		_, err := io.WriteString(w, md)
		return err
	default:
		return fmt.Errorf("unknown format %q (want json, yaml or markdown)", format)
	}
}

// frameworkNode builds an ordered YAML mapping; yaml.v3 sorts plain map keys.
func frameworkNode(fw domain.Framework) *yaml.Node {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, c := range domain.AllCategories() {
		seq := &yaml.Node{Kind: yaml.SequenceNode}
		if len(fw[c]) == 0 {
			seq.Style = yaml.FlowStyle
		}
		for _, tmpl := range fw[c] {
			seq.Content = append(seq.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: tmpl})
		}
		root.Content = append(root.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: string(c)},
			seq,
		)
	}
	return root
}

// ReadPayload decodes a JSON or YAML document into an untyped value for framework.Service.Save.
// The path "-" reads from in. Files ending in .json are parsed strictly as JSON.
func ReadPayload(path string, in io.Reader) (any, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(in)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read framework document: %w", err)
	}

	var payload any
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
		return payload, nil
	}
	// YAML is a superset of JSON, so stdin and other extensions accept both.
	if err := yaml.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse framework document: %w", err)
	}
	return payload, nil
}

// printSystemMessage prints a standardized system message.
func printSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}
