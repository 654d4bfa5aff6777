// Package repo implements the repository layer of grit: references, the
// binary staging index, the three-way status engine, commit and tree
// construction, tags, branches, and checkout. All operations work through an
// explicit *Repo handle; there is no process-global repository state.
package repo

import (
	"github.com/grit-vcs/grit/pkg/object"
)

// Repo represents an opened grit repository.
type Repo struct {
	RootDir string        // working directory root
	GritDir string        // .grit/ directory
	Store   *object.Store // content-addressed object store
}
