package buildfile

// fileRoot mirrors the top level of a build file for gohcl.
type fileRoot struct {
	Libraries     []string         `hcl:"libraries,optional"`
	OutputDir     string           `hcl:"output_dir,optional"`
	ErrorPlacards bool             `hcl:"error_placards,optional"`
	Documents     []*documentBlock `hcl:"document,block"`
	Publish       *publishBlock    `hcl:"publish,block"`
}

type documentBlock struct {
	Name   string `hcl:"name,label"`
	Source string `hcl:"source"`
	Output string `hcl:"output,optional"`
}

type publishBlock struct {
	URL                string `hcl:"url"`
	Namespace          string `hcl:"namespace,optional"`
	EmitEvent          string `hcl:"emit_event,optional"`
	OnEvent            string `hcl:"on_event,optional"`
	Timeout            string `hcl:"timeout,optional"`
	InsecureSkipVerify bool   `hcl:"insecure_skip_verify,optional"`
}
