// Package assets resolves the background image and audio loop to URLs the
// browser can load. The files themselves are never generated or validated.
package assets

import (
	"context"
	"path"
	"strings"

	apperrors "github.com/yanqian/moonwatch/pkg/errors"
)

// LocalResolver serves files from a directory mounted under Prefix.
type LocalResolver struct {
	Dir    string
	Prefix string
}

// NewLocalResolver mounts dir under prefix (for example "/static").
func NewLocalResolver(dir, prefix string) *LocalResolver {
	return &LocalResolver{Dir: dir, Prefix: "/" + strings.Trim(prefix, "/")}
}

// URL implements the resolver contract.
func (r *LocalResolver) URL(_ context.Context, name string) (string, error) {
	clean, err := cleanName(name)
	if err != nil {
		return "", err
	}
	return r.Prefix + "/" + clean, nil
}

func cleanName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", apperrors.Wrap(apperrors.CodeAssetError, "asset name cannot be empty", nil)
	}
	clean := path.Clean("/" + trimmed)
	if clean == "/" || strings.Contains(trimmed, "..") {
		return "", apperrors.Wrap(apperrors.CodeAssetError, "asset name is not allowed", nil)
	}
	return strings.TrimPrefix(clean, "/"), nil
}
