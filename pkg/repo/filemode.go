package repo

import (
	"os"

	"github.com/grit-vcs/grit/pkg/object"
)

// Index mode values: git-style (type<<12 | perms).
const (
	indexModeFile       uint32 = 0o100644
	indexModeExecutable uint32 = 0o100755
)

func modeFromFileInfo(info os.FileInfo) uint32 {
	if info.Mode()&0o111 != 0 {
		return indexModeExecutable
	}
	return indexModeFile
}

// treeModeString maps an index mode to the octal mode string stored in
// tree entries.
func treeModeString(mode uint32) string {
	if mode == indexModeExecutable {
		return object.TreeModeExecutable
	}
	return object.TreeModeFile
}

func filePermFromTreeMode(mode string) os.FileMode {
	if mode == object.TreeModeExecutable {
		return 0o755
	}
	return 0o644
}
