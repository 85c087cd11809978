package config

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
)

// fileRoot mirrors the blocks allowed in a config file. Every block and
// attribute is optional.
type fileRoot struct {
	Source  *sourceBlock  `hcl:"source,block"`
	Suggest *suggestBlock `hcl:"suggest,block"`
	Log     *logBlock     `hcl:"log,block"`
}

type sourceBlock struct {
	URL     *string `hcl:"url,optional"`
	Timeout *string `hcl:"timeout,optional"`
}

type suggestBlock struct {
	Debounce *string `hcl:"debounce,optional"`
}

type logBlock struct {
	Level  *string `hcl:"level,optional"`
	Format *string `hcl:"format,optional"`
	File   *string `hcl:"file,optional"`
}

// evalContext exposes env(name), which returns "" for unset variables.
func evalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Functions: map[string]function.Function{
			"env": function.New(&function.Spec{
				Params: []function.Parameter{{Name: "name", Type: cty.String}},
				Type:   function.StaticReturnType(cty.String),
				Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
					return cty.StringVal(os.Getenv(args[0].AsString())), nil
				},
			}),
		},
	}
}

// mergeFile decodes the HCL file at path over c. Attributes that evaluate
// to an empty string are ignored.
func (c *Config) mergeFile(path string) error {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return fmt.Errorf("failed to parse config file %s: %w", path, diags)
	}

	var root fileRoot
	diags = gohcl.DecodeBody(file.Body, evalContext(), &root)
	if diags.HasErrors() {
		return fmt.Errorf("failed to decode config file %s: %w", path, diags)
	}

	set := func(dst *string, v *string) {
		if v != nil && *v != "" {
			*dst = *v
		}
	}
	setDur := func(name string, dst *time.Duration, v *string) error {
		if v == nil || *v == "" {
			return nil
		}
		d, err := time.ParseDuration(*v)
		if err != nil {
			return fmt.Errorf("config file %s: %s: %w", path, name, err)
		}
		*dst = d
		return nil
	}

	if s := root.Source; s != nil {
		set(&c.SourceURL, s.URL)
		if err := setDur("source.timeout", &c.SourceTimeout, s.Timeout); err != nil {
			return err
		}
	}
	if s := root.Suggest; s != nil {
		if err := setDur("suggest.debounce", &c.Debounce, s.Debounce); err != nil {
			return err
		}
	}
	if l := root.Log; l != nil {
		set(&c.LogLevel, l.Level)
		set(&c.LogFormat, l.Format)
		set(&c.LogFile, l.File)
	}
	return nil
}
