package extractor

import (
	"bytes"
	"strings"

	"github.com/moby/buildkit/frontend/dockerfile/parser"

	"legacy-analyzer/src/model"
)

// parseDockerfile reports the base images of every FROM instruction.
// References to earlier build stages, scratch and images built from
// variables are not dependencies.
func parseDockerfile(data []byte) ([]model.DependencyRecord, error) {
	deps := []model.DependencyRecord{}
	if len(bytes.TrimSpace(data)) == 0 {
		return deps, nil
	}

	res, err := parser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	stages := make(map[string]bool)
	for _, node := range res.AST.Children {
		if !strings.EqualFold(node.Value, "from") || node.Next == nil {
			continue
		}

		image := node.Next.Value
		lower := strings.ToLower(image)
		isStageRef := stages[lower]
		if as := node.Next.Next; as != nil && strings.EqualFold(as.Value, "as") && as.Next != nil {
			stages[strings.ToLower(as.Next.Value)] = true
		}

		if image == "" || isStageRef || lower == "scratch" || strings.Contains(image, "$") {
			continue
		}
		name, version := splitImage(image)
		deps = append(deps, dep(name, version, model.EcosystemDocker, model.ScopeProduction))
	}
	return deps, nil
}

// splitImage separates an image reference into repository and tag/digest.
// A registry port ("host:5000/app") is not a tag.
func splitImage(ref string) (name, version string) {
	name, digest, hasDigest := strings.Cut(ref, "@")

	if i := strings.LastIndex(name, ":"); i > strings.LastIndex(name, "/") {
		name, version = name[:i], name[i+1:]
	}
	if hasDigest {
		if version != "" {
			version += "@"
		}
		version += digest
	}
	return name, version
}
