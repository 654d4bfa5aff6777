package main

import (
	"errors"
	"fmt"

	"github.com/grit-vcs/grit/pkg/object"
	"github.com/grit-vcs/grit/pkg/repo"
)

// resolveTarget turns a user-supplied name into an object hash: "HEAD", a
// branch or tag name, a full ref path, or a raw hex hash.
func resolveTarget(r *repo.Repo, name string) (object.Hash, error) {
	h, err := r.ResolveRef(name)
	if err == nil {
		return h, nil
	}
	if errors.Is(err, repo.ErrDanglingRef) && object.Hash(name).Valid() {
		return object.Hash(name), nil
	}
	return "", fmt.Errorf("cannot resolve %q: %w", name, err)
}

// resolveCommitish resolves name and peels an annotated tag to its target.
func resolveCommitish(r *repo.Repo, name string) (object.Hash, error) {
	h, err := resolveTarget(r, name)
	if err != nil {
		return "", err
	}
	objType, _, err := r.Store.Read(h)
	if err != nil {
		return "", err
	}
	if objType == object.TypeTag {
		tag, err := r.Store.ReadTag(h)
		if err != nil {
			return "", err
		}
		return tag.TargetHash, nil
	}
	return h, nil
}
