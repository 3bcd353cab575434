package scaffold

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/aretw0/bedrock/internal/registry"
)

// Kind enumerates the fixed artifact set generated for every module.
type Kind int

const (
	KindReadme Kind = iota
	KindEntrypoint
	KindDefaultConfig
	KindUtilsLib
	KindDockerfile
	KindK8sManifest
	KindCiWorkflow
	KindTestStub
	KindPackagingScript
	KindSecurityAdvisory
)

// Kinds returns the full enumeration in generation order.
func Kinds() []Kind {
	return []Kind{
		KindReadme, KindEntrypoint, KindDefaultConfig, KindUtilsLib,
		KindDockerfile, KindK8sManifest, KindCiWorkflow, KindTestStub,
		KindPackagingScript, KindSecurityAdvisory,
	}
}

// String returns a stable name used in logs and errors.
func (k Kind) String() string {
	if spec, ok := kindSpecs[k]; ok {
		return spec.name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Artifact is one rendered file, addressed relative to the module root.
type Artifact struct {
	RelPath    string
	Content    []byte
	Executable bool
}

// kindSpec binds a Kind to its destination and parsed template.
type kindSpec struct {
	name       string
	relPath    string
	executable bool
	tmpl       *template.Template
}

var kindSpecs = map[Kind]kindSpec{
	KindReadme:           mustSpec("readme", "README.md", false, readmeTemplate),
	KindEntrypoint:       mustSpec("entrypoint", "bin/run.sh", true, entrypointTemplate),
	KindDefaultConfig:    mustSpec("default-config", "etc/default.conf", false, defaultConfigTemplate),
	KindUtilsLib:         mustSpec("utils-lib", "lib/utils.sh", false, utilsLibTemplate),
	KindDockerfile:       mustSpec("dockerfile", "docker/Dockerfile", false, dockerfileTemplate),
	KindK8sManifest:      mustSpec("k8s-manifest", "k8s/deployment.yaml", false, k8sManifestTemplate),
	KindCiWorkflow:       mustSpec("ci-workflow", "ci/workflow.yml", false, ciWorkflowTemplate),
	KindTestStub:         mustSpec("test-stub", "tests/smoke_test.sh", true, testStubTemplate),
	KindPackagingScript:  mustSpec("packaging-script", "packaging/build.sh", true, packagingScriptTemplate),
	KindSecurityAdvisory: mustSpec("security-advisory", "docs/SECURITY.md", false, securityAdvisoryTemplate),
}

func mustSpec(name, relPath string, executable bool, body string) kindSpec {
	return kindSpec{
		name:       name,
		relPath:    relPath,
		executable: executable,
		// missingkey=error: a template referencing a field the descriptor
		// does not have is a programming error, not a silent blank.
		tmpl: template.Must(template.New(name).Option("missingkey=error").Parse(body)),
	}
}

// Render produces the artifact for one (module, kind) pair. It is pure:
// output depends only on the descriptor's Name and Description.
func Render(module registry.Descriptor, kind Kind) (Artifact, error) {
	spec, ok := kindSpecs[kind]
	if !ok {
		return Artifact{}, fmt.Errorf("unknown template kind %d", int(kind))
	}
	var buf bytes.Buffer
	data := templateData{Name: module.Name, Description: module.Description}
	if err := spec.tmpl.Execute(&buf, data); err != nil {
		return Artifact{}, fmt.Errorf("render %s for %q: %w", spec.name, module.Name, err)
	}
	return Artifact{
		RelPath:    spec.relPath,
		Content:    buf.Bytes(),
		Executable: spec.executable,
	}, nil
}

// templateData is the only state visible to templates. The renderer never
// reads the filesystem or environment; manifest reproducibility depends on
// that.
type templateData struct {
	Name        string
	Description string
}
