package scaffold

// Static template bodies. These are opaque byte blobs parameterized by the
// module name and description; keeping them as package constants keeps the
// renderer pure and unit-testable without filesystem fixtures.

const readmeTemplate = `# {{.Name}}

{{.Description}}

## Layout

- ` + "`bin/`" + ` - service entrypoint
- ` + "`etc/`" + ` - default configuration
- ` + "`lib/`" + ` - shared shell helpers
- ` + "`docs/`" + ` - operator documentation
- ` + "`tests/`" + ` - smoke tests
- ` + "`ci/`" + ` - CI workflow
- ` + "`packaging/`" + ` - build and release scripting
- ` + "`docker/`" + `, ` + "`k8s/`" + ` - container and cluster manifests

## Quick start

    ./bin/run.sh

Configuration is read from ` + "`etc/default.conf`" + `; override values via
environment variables of the same name.
`

const entrypointTemplate = `#!/usr/bin/env bash
# {{.Name}} entrypoint - {{.Description}}
set -euo pipefail

HERE="$(cd "$(dirname "${BASH_SOURCE[0]}")" && pwd)"
. "${HERE}/../lib/utils.sh"

load_config "${HERE}/../etc/default.conf"

log_info "starting {{.Name}}"
main "$@"
`

const defaultConfigTemplate = `# Default configuration for {{.Name}}.
# Every key may be overridden by an environment variable of the same name.

SERVICE_NAME={{.Name}}
LOG_LEVEL=info
LISTEN_ADDR=0.0.0.0:8080
SHUTDOWN_GRACE_SECONDS=30
`

const utilsLibTemplate = `#!/usr/bin/env bash
# Shared helpers for {{.Name}}. Sourced, never executed.

log_info() { printf '%s [INFO] %s\n' "$(date -u +%FT%TZ)" "$*" >&2; }
log_error() { printf '%s [ERROR] %s\n' "$(date -u +%FT%TZ)" "$*" >&2; }

load_config() {
  local file="$1"
  [ -r "$file" ] || { log_error "config not readable: $file"; return 1; }
  # shellcheck disable=SC1090
  . "$file"
}

main() {
  log_info "{{.Name}} stub: replace main() with service logic"
}
`

const dockerfileTemplate = `FROM debian:bookworm-slim

LABEL org.opencontainers.image.title="{{.Name}}"
LABEL org.opencontainers.image.description="{{.Description}}"

RUN useradd --system --no-create-home svc

COPY bin/ /opt/{{.Name}}/bin/
COPY etc/ /opt/{{.Name}}/etc/
COPY lib/ /opt/{{.Name}}/lib/

USER svc
ENTRYPOINT ["/opt/{{.Name}}/bin/run.sh"]
`

const k8sManifestTemplate = `apiVersion: apps/v1
kind: Deployment
metadata:
  name: {{.Name}}
  labels:
    app.kubernetes.io/name: {{.Name}}
spec:
  replicas: 1
  selector:
    matchLabels:
      app.kubernetes.io/name: {{.Name}}
  template:
    metadata:
      labels:
        app.kubernetes.io/name: {{.Name}}
    spec:
      containers:
        - name: {{.Name}}
          image: {{.Name}}:latest
          ports:
            - containerPort: 8080
          readinessProbe:
            httpGet:
              path: /healthz
              port: 8080
`

const ciWorkflowTemplate = `name: {{.Name}}
on:
  push:
    paths:
      - "{{.Name}}/**"
jobs:
  verify:
    runs-on: ubuntu-latest
    steps:
      - uses: actions/checkout@v4
      - name: smoke test
        run: ./{{.Name}}/tests/smoke_test.sh
`

const testStubTemplate = `#!/usr/bin/env bash
# Smoke test for {{.Name}}.
set -euo pipefail

HERE="$(cd "$(dirname "${BASH_SOURCE[0]}")" && pwd)"

[ -x "${HERE}/../bin/run.sh" ] || { echo "entrypoint missing or not executable" >&2; exit 1; }
[ -r "${HERE}/../etc/default.conf" ] || { echo "default config missing" >&2; exit 1; }

echo "ok: {{.Name}} scaffold intact"
`

const packagingScriptTemplate = `#!/usr/bin/env bash
# Build a release tarball for {{.Name}} out of the module tree.
set -euo pipefail

HERE="$(cd "$(dirname "${BASH_SOURCE[0]}")" && pwd)"
MODULE_ROOT="$(dirname "$HERE")"
OUT="${1:-{{.Name}}.tar.gz}"

tar -czf "$OUT" -C "$(dirname "$MODULE_ROOT")" "{{.Name}}"
echo "wrote $OUT"
`

const securityAdvisoryTemplate = `# Security notes for {{.Name}}

{{.Description}}

- The service runs as an unprivileged user; do not grant it ambient
  credentials.
- Secrets are injected at deploy time, never baked into images or this
  repository.
- Report suspected vulnerabilities to the platform security queue, not the
  module issue tracker.
`

// Extension artifacts for the secrets-lifecycle module.

const vaultAgentStubTemplate = `# Vault agent configuration stub for {{.Name}}.
# Rendered values are placeholders; the deploy pipeline supplies real ones.

auto_auth {
  method "kubernetes" {
    mount_path = "auth/kubernetes"
    config = {
      role = "{{.Name}}"
    }
  }
}

template {
  source      = "/vault/templates/credentials.ctmpl"
  destination = "/vault/secrets/credentials"
}
`

const vaultGuidanceTemplate = `# Secret-store integration for {{.Name}}

{{.Description}}

This module ships a Vault agent stub under ` + "`hooks/vault-agent.hcl`" + `.
The agent address is taken from ` + "`{{.AddrEnv}}`" + `; it authenticates
via the platform's Kubernetes auth mount and renders leased credentials to
an in-memory volume. Rotation honors the lease TTL; never copy rendered
credentials out of the pod.

The ` + "`src/vault-sync`" + ` service stub watches the rendered file and
signals the main process on rotation.
`

const vaultSyncGoModTemplate = `module {{.Name}}/vault-sync

go 1.25
`

const vaultSyncMainTemplate = `package main

// vault-sync is a compiled sidecar stub for {{.Name}}: it watches the
// credentials file rendered by the Vault agent and signals the service on
// rotation. The bootstrap pipeline compiles it best-effort when a Go
// toolchain is available.

import (
	"log"
	"os"
	"time"
)

func main() {
	path := os.Getenv("CREDENTIALS_PATH")
	if path == "" {
		path = "/vault/secrets/credentials"
	}
	var last time.Time
	for {
		info, err := os.Stat(path)
		if err == nil && info.ModTime().After(last) {
			last = info.ModTime()
			log.Printf("credentials rotated at %s", last.UTC().Format(time.RFC3339))
		}
		time.Sleep(5 * time.Second)
	}
}
`
