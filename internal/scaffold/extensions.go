package scaffold

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/aretw0/bedrock/internal/registry"
)

// SecretsModuleName is the module that receives the secret-store
// integration artifacts in the default registry.
const SecretsModuleName = "secrets-lifecycle"

// VaultExtensionConfig is the optional per-module tuning for the Vault
// hook, decoded from the registry's extensions map.
type VaultExtensionConfig struct {
	// AddrEnv names the environment variable holding the Vault address in
	// the guidance document. Defaults to VAULT_ADDR.
	AddrEnv string `mapstructure:"addr_env"`
	// Guidance controls whether the operator guidance document is emitted.
	// Defaults to true.
	Guidance *bool `mapstructure:"guidance"`
}

var (
	vaultAgentTmpl    = template.Must(template.New("vault-agent").Option("missingkey=error").Parse(vaultAgentStubTemplate))
	vaultGuidanceTmpl = template.Must(template.New("vault-guidance").Option("missingkey=error").Parse(vaultGuidanceTemplate))
	vaultSyncTmpl     = template.Must(template.New("vault-sync").Option("missingkey=error").Parse(vaultSyncMainTemplate))
	vaultSyncModTmpl  = template.Must(template.New("vault-sync-mod").Option("missingkey=error").Parse(vaultSyncGoModTemplate))
)

// VaultHook contributes the secret-store integration stub, its guidance
// document, and the embedded vault-sync service source.
func VaultHook(module registry.Descriptor) ([]Artifact, error) {
	cfg := VaultExtensionConfig{AddrEnv: "VAULT_ADDR"}
	if _, err := module.DecodeExtension("vault", &cfg); err != nil {
		return nil, err
	}
	if cfg.AddrEnv == "" {
		cfg.AddrEnv = "VAULT_ADDR"
	}

	data := vaultData{Name: module.Name, Description: module.Description, AddrEnv: cfg.AddrEnv}

	agent, err := renderExtension(vaultAgentTmpl, data)
	if err != nil {
		return nil, err
	}
	artifacts := []Artifact{
		{RelPath: "hooks/vault-agent.hcl", Content: agent},
	}

	if cfg.Guidance == nil || *cfg.Guidance {
		guidance, err := renderExtension(vaultGuidanceTmpl, data)
		if err != nil {
			return nil, err
		}
		artifacts = append(artifacts, Artifact{RelPath: "docs/VAULT.md", Content: guidance})
	}

	// Embedded compiled-service stub; the packager builds it best-effort.
	sync, err := renderExtension(vaultSyncTmpl, data)
	if err != nil {
		return nil, err
	}
	artifacts = append(artifacts, Artifact{RelPath: "src/vault-sync/main.go", Content: sync})

	mod, err := renderExtension(vaultSyncModTmpl, data)
	if err != nil {
		return nil, err
	}
	artifacts = append(artifacts, Artifact{RelPath: "src/vault-sync/go.mod", Content: mod})

	return artifacts, nil
}

// vaultData extends the base template data with the hook's tunables.
type vaultData struct {
	Name        string
	Description string
	AddrEnv     string
}

func renderExtension(tmpl *template.Template, data vaultData) ([]byte, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render %s: %w", tmpl.Name(), err)
	}
	return buf.Bytes(), nil
}
