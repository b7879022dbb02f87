package buildfile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"

	"github.com/vk/shapec/internal/ctxlog"
)

const (
	// DefaultName is the build file looked up when none is given.
	DefaultName = "shapec.hcl"

	DefaultNamespace = "/"
	DefaultEmitEvent = "compiled"
	DefaultTimeout   = 5 * time.Second

	outputExtension = ".svg"
)

// Config is a loaded build file with every path resolved.
type Config struct {
	Path          string
	Libraries     []string
	OutputDir     string
	ErrorPlacards bool
	Documents     []Document
	Publish       *Publish
}

// Document is one source file to compile and where its SVG goes.
type Document struct {
	Name   string
	Source string
	Output string
}

// Publish configures pushing compile results to a socket.io endpoint.
type Publish struct {
	URL                string
	Namespace          string
	EmitEvent          string
	OnEvent            string
	Timeout            time.Duration
	InsecureSkipVerify bool
}

// Load reads and decodes the build file at path.
func Load(ctx context.Context, path string) (*Config, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read build file: %w", err)
	}
	return Parse(ctx, path, src)
}

// Parse decodes src as the build file named filename. Relative paths inside
// it resolve against filename's directory.
func Parse(ctx context.Context, filename string, src []byte) (*Config, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Parsing build file.", "path", filename)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse build file %s: %w", filename, diags)
	}

	var root fileRoot
	diags = gohcl.DecodeBody(file.Body, evalContext(os.Environ()), &root)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode build file %s: %w", filename, diags)
	}

	cfg, diags := resolve(filepath.Dir(filename), &root)
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid build file %s: %w", filename, diags)
	}
	cfg.Path = filename

	logger.Debug("Build file loaded.", "documents", len(cfg.Documents), "libraries", len(cfg.Libraries), "publish", cfg.Publish != nil)
	return cfg, nil
}

// evalContext exposes the environment as env.NAME plus a few string
// functions.
func evalContext(environ []string) *hcl.EvalContext {
	env := make(map[string]cty.Value, len(environ))
	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || name == "" {
			continue
		}
		env[name] = cty.StringVal(value)
	}

	envVal := cty.MapValEmpty(cty.String)
	if len(env) > 0 {
		envVal = cty.MapVal(env)
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"env": envVal},
		Functions: map[string]function.Function{
			"upper":     stdlib.UpperFunc,
			"lower":     stdlib.LowerFunc,
			"format":    stdlib.FormatFunc,
			"join":      stdlib.JoinFunc,
			"trimspace": stdlib.TrimSpaceFunc,
		},
	}
}

func resolve(dir string, root *fileRoot) (*Config, hcl.Diagnostics) {
	var diags hcl.Diagnostics

	cfg := &Config{
		OutputDir:     dir,
		ErrorPlacards: root.ErrorPlacards,
	}
	if root.OutputDir != "" {
		cfg.OutputDir = resolvePath(dir, root.OutputDir)
	}

	for _, lib := range root.Libraries {
		cfg.Libraries = append(cfg.Libraries, resolvePath(dir, lib))
	}

	seen := make(map[string]struct{}, len(root.Documents))
	for _, doc := range root.Documents {
		if _, dup := seen[doc.Name]; dup {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate document",
				Detail:   fmt.Sprintf("A document named %q is already defined.", doc.Name),
			})
			continue
		}
		seen[doc.Name] = struct{}{}

		if doc.Source == "" {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Missing document source",
				Detail:   fmt.Sprintf("Document %q needs a non-empty source.", doc.Name),
			})
			continue
		}

		output := doc.Output
		if output == "" {
			output = doc.Name + outputExtension
		}
		cfg.Documents = append(cfg.Documents, Document{
			Name:   doc.Name,
			Source: resolvePath(dir, doc.Source),
			Output: resolvePath(cfg.OutputDir, output),
		})
	}

	if root.Publish != nil {
		pub, pubDiags := resolvePublish(root.Publish)
		diags = append(diags, pubDiags...)
		cfg.Publish = pub
	}

	return cfg, diags
}

func resolvePublish(block *publishBlock) (*Publish, hcl.Diagnostics) {
	pub := &Publish{
		URL:                block.URL,
		Namespace:          block.Namespace,
		EmitEvent:          block.EmitEvent,
		OnEvent:            block.OnEvent,
		Timeout:            DefaultTimeout,
		InsecureSkipVerify: block.InsecureSkipVerify,
	}
	if pub.Namespace == "" {
		pub.Namespace = DefaultNamespace
	}
	if pub.EmitEvent == "" {
		pub.EmitEvent = DefaultEmitEvent
	}
	if block.Timeout != "" {
		timeout, err := time.ParseDuration(block.Timeout)
		if err != nil || timeout <= 0 {
			return nil, hcl.Diagnostics{{
				Severity: hcl.DiagError,
				Summary:  "Invalid publish timeout",
				Detail:   fmt.Sprintf("The timeout %q must be a positive duration such as \"5s\".", block.Timeout),
			}}
		}
		pub.Timeout = timeout
	}
	return pub, nil
}

func resolvePath(dir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}
